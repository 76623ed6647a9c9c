// Reflection-based dot-path value resolution over JSON field names.

package viewcore

import (
	"reflect"
	"strings"
	"sync"
)

// fieldCache maps struct types to their JSON-name field lookups.
var fieldCache sync.Map // reflect.Type -> map[string][]int

// NestedValue resolves a dot-separated path ("profile.age") against an item
// using JSON field names. It never panics: a missing segment, a nil pointer
// along the way, or a non-traversable value all yield nil.
func NestedValue(item any, path string) any {
	if path == "" {
		return nil
	}
	v := reflect.ValueOf(item)
	for seg := range strings.SplitSeq(path, ".") {
		v = deref(v)
		if !v.IsValid() {
			return nil
		}
		switch v.Kind() {
		case reflect.Struct:
			idx, ok := fieldIndex(v.Type())[seg]
			if !ok {
				return nil
			}
			// FieldByIndexErr guards against nil embedded pointers.
			fv, err := v.FieldByIndexErr(idx)
			if err != nil {
				return nil
			}
			v = fv
		case reflect.Map:
			if v.Type().Key().Kind() != reflect.String {
				return nil
			}
			v = v.MapIndex(reflect.ValueOf(seg))
			if !v.IsValid() {
				return nil
			}
		default:
			return nil
		}
	}
	v = deref(v)
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// fieldIndex returns the JSON-name to field-index mapping for a struct type,
// including fields promoted from embedded structs.
func fieldIndex(t reflect.Type) map[string][]int {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string][]int)
	}
	m := make(map[string][]int)
	buildFieldIndex(t, nil, m)
	fieldCache.Store(t, m)
	return m
}

func buildFieldIndex(t reflect.Type, prefix []int, m map[string][]int) {
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		idx := append(append([]int(nil), prefix...), i)
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := field.Name
		if tag != "" {
			if comma := strings.IndexByte(tag, ','); comma >= 0 {
				tag = tag[:comma]
			}
			if tag != "" {
				name = tag
			}
		}
		if field.Anonymous && field.Tag.Get("json") == "" {
			// Promoted embedded fields resolve by their own names.
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				buildFieldIndex(ft, idx, m)
				continue
			}
		}
		if _, exists := m[name]; !exists {
			m[name] = idx
		}
	}
}
