// Multiselect option extraction with live occurrence counts.

package viewcore

// OptionsByPath derives the options of a multiselect filter from the
// distinct scalar values found at a dot path. Options appear in
// first-encounter order, so a stable dataset yields a stable option list.
func OptionsByPath[T any](path string) OptionsFunc[T] {
	return func(items []T) []Option {
		return collectOptions(items, path, false)
	}
}

// OptionsByFlatten is like [OptionsByPath] but flattens list values: every
// element of a string slice at the path counts as one occurrence.
func OptionsByFlatten[T any](path string) OptionsFunc[T] {
	return func(items []T) []Option {
		return collectOptions(items, path, true)
	}
}

func collectOptions[T any](items []T, path string, flatten bool) []Option {
	counts := map[string]int{}
	var order []string
	record := func(s string) {
		if s == "" {
			return
		}
		if _, seen := counts[s]; !seen {
			order = append(order, s)
		}
		counts[s]++
	}

	for _, item := range items {
		value := NestedValue(item, path)
		switch x := value.(type) {
		case nil:
			continue
		case []string:
			if flatten {
				for _, s := range x {
					record(s)
				}
			}
		case []any:
			if flatten {
				for _, e := range x {
					if s, ok := e.(string); ok {
						record(s)
					}
				}
			}
		default:
			if s, ok := asString(value); ok {
				record(s)
			}
		}
	}

	options := make([]Option, 0, len(order))
	for _, value := range order {
		options = append(options, Option{
			ID:    value,
			Label: value,
			Value: value,
			Count: counts[value],
		})
	}
	return options
}
