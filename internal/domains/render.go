// Plain-text layout renderers shared by the three catalog configurations.

package domains

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bizcanvas/bizcanvas/internal/viewcore"
)

// ungrouped is the kanban column for items without a group value.
const ungrouped = "Ungrouped"

// gridRenderer prints one card per item: the title line followed by the
// visible properties, indented.
func gridRenderer[T any](titlePath string) viewcore.Renderer[T] {
	return func(w io.Writer, data viewcore.ViewData[T]) error {
		for _, item := range data.Items {
			if _, err := fmt.Fprintf(w, "%s\n", titleOf(item, titlePath)); err != nil {
				return err
			}
			for _, field := range data.VisibleFields {
				if field == titlePath {
					continue
				}
				v := viewcore.NestedValue(item, field)
				if v == nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "  %s: %s\n", field, formatValue(v)); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// listRenderer prints one line per item: title, then a subtitle when the
// item has one.
func listRenderer[T any](titlePath, subtitlePath string) viewcore.Renderer[T] {
	return func(w io.Writer, data viewcore.ViewData[T]) error {
		for _, item := range data.Items {
			line := titleOf(item, titlePath)
			if sub := formatValue(viewcore.NestedValue(item, subtitlePath)); sub != "" {
				line += " — " + sub
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}
}

// tableRenderer prints the visible fields as aligned columns.
func tableRenderer[T any]() viewcore.Renderer[T] {
	return func(w io.Writer, data viewcore.ViewData[T]) error {
		tw := tabwriter.NewWriter(w, 2, 8, 2, ' ', 0)
		if _, err := fmt.Fprintln(tw, strings.Join(data.VisibleFields, "\t")); err != nil {
			return err
		}
		for _, item := range data.Items {
			cells := make([]string, len(data.VisibleFields))
			for i, field := range data.VisibleFields {
				cells[i] = formatValue(viewcore.NestedValue(item, field))
			}
			if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
				return err
			}
		}
		return tw.Flush()
	}
}

// kanbanRenderer prints items under their group heading, groups in
// first-encounter order.
func kanbanRenderer[T any](titlePath string) viewcore.Renderer[T] {
	return func(w io.Writer, data viewcore.ViewData[T]) error {
		groups := map[string][]T{}
		var order []string
		for _, item := range data.Items {
			group := formatValue(viewcore.NestedValue(item, data.GroupBy))
			if group == "" {
				group = ungrouped
			}
			if _, seen := groups[group]; !seen {
				order = append(order, group)
			}
			groups[group] = append(groups[group], item)
		}
		for _, group := range order {
			if _, err := fmt.Fprintf(w, "## %s (%d)\n", group, len(groups[group])); err != nil {
				return err
			}
			for _, item := range groups[group] {
				if _, err := fmt.Fprintf(w, "- %s\n", titleOf(item, titlePath)); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func titleOf[T any](item T, titlePath string) string {
	if s := formatValue(viewcore.NestedValue(item, titlePath)); s != "" {
		return s
	}
	return "(untitled)"
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, ", ")
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("2006-01-02")
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", x), "0"), ".")
	default:
		return fmt.Sprint(x)
	}
}
