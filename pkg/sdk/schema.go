package bcpredict

import (
	"fmt"
	"reflect"
	"strings"
)

const tagKey = "bcpredict"

// schemaMeta holds parsed struct tag metadata, cached per TypedPredictor.
type schemaMeta struct {
	typ    reflect.Type
	fields []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
}

// parseSchema reflects on T and extracts bcpredict struct tags.
// Every tagged field must be numeric; names must be unique.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("bcpredict: type parameter must be a struct")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("bcpredict: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t}
	seen := make(map[string]string)
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.TrimSpace(tag)
		if !isNumericKind(f.Type.Kind()) {
			return nil, fmt.Errorf("bcpredict: field %s tagged %q must be numeric, got %s", f.Name, name, f.Type)
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("bcpredict: feature %q tagged on both %s and %s", name, prev, f.Name)
		}
		seen[name] = f.Name
		meta.fields = append(meta.fields, fieldMapping{structIdx: i, name: name})
	}

	if len(meta.fields) == 0 {
		return nil, fmt.Errorf("bcpredict: no field with `bcpredict:\"...\"` tag in %s", t)
	}
	return meta, nil
}

// names returns the tagged feature names.
func (m *schemaMeta) names() map[string]struct{} {
	out := make(map[string]struct{}, len(m.fields))
	for _, f := range m.fields {
		out[f.name] = struct{}{}
	}
	return out
}

// toFeatures converts a typed struct to a name → value mapping.
func (m *schemaMeta) toFeatures(item any) (map[string]float64, error) {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("%w of type %s", ErrNilItem, v.Type())
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil, ErrNilItem
	}
	out := make(map[string]float64, len(m.fields))
	for _, f := range m.fields {
		out[f.name] = toFloat64(v.Field(f.structIdx))
	}
	return out, nil
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func toFloat64(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return 0
	}
}
