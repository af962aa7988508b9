package feature

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kailas-cloud/bcpredict/internal/domain"
	"github.com/kailas-cloud/bcpredict/internal/domain/payload"
)

// Resolver turns payloads into vectors aligned to a fixed feature order.
// It is immutable and safe for concurrent use.
type Resolver struct {
	required    Names
	arraySchema *gojsonschema.Schema
}

// NewResolver compiles the array-shape schema for the required features.
func NewResolver(required Names) (*Resolver, error) {
	if required.Len() == 0 {
		return nil, fmt.Errorf("resolver requires at least one feature")
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(arraySchema(required.Len())))
	if err != nil {
		return nil, fmt.Errorf("compile array schema: %w", err)
	}
	return &Resolver{required: required, arraySchema: schema}, nil
}

// Resolve validates p against the required features and returns the ordered vector.
func Resolve(p payload.Payload, required Names) (Vector, error) {
	r, err := NewResolver(required)
	if err != nil {
		return Vector{}, err
	}
	return r.Resolve(p)
}

// Required returns the feature order the resolver aligns to.
func (r *Resolver) Required() Names { return r.required }

// Resolve validates p and returns the ordered vector.
// Failures are domain.MalformedShapeError, domain.InvalidFeatureValueError
// or domain.MissingFeaturesError.
func (r *Resolver) Resolve(p payload.Payload) (Vector, error) {
	switch p.Kind() {
	case payload.KindArray:
		return r.resolveArray(p.Array())
	case payload.KindNamed:
		return r.resolveNamed(p.Named())
	default:
		return Vector{}, fmt.Errorf("unknown payload kind %q", p.Kind())
	}
}

// resolveArray trusts positional order; only structure, length and numeric values are checked.
func (r *Resolver) resolveArray(raw any) (Vector, error) {
	res, err := r.arraySchema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return Vector{}, domain.NewMalformedShape(payload.FeaturesKey + ": " + err.Error())
	}
	if !res.Valid() {
		return Vector{}, domain.NewMalformedShape(describeSchemaErrors(res.Errors()))
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []float64:
		return NewVector(v), nil
	default:
		return Vector{}, domain.NewMalformedShape(fmt.Sprintf("%s: unsupported value type %T", payload.FeaturesKey, raw))
	}

	values := make([]float64, len(items))
	for i, item := range items {
		f, ok := ToFloat(item)
		if !ok {
			return Vector{}, domain.NewMalformedShape(
				fmt.Sprintf("%s.%d: value is not a valid number", payload.FeaturesKey, i))
		}
		values[i] = f
	}
	return Vector{values: values}, nil
}

// resolveNamed coerces every provided value, then reconciles keys against the required set.
// Extra keys are dropped without error.
func (r *Resolver) resolveNamed(raw map[string]any) (Vector, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	coerced := make(map[string]float64, len(raw))
	for _, k := range keys {
		f, ok := ToFloat(raw[k])
		if !ok {
			return Vector{}, domain.NewInvalidFeatureValue(k)
		}
		coerced[k] = f
	}

	var missing []string
	for _, name := range r.required.names {
		if _, ok := coerced[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Vector{}, domain.NewMissingFeatures(missing)
	}

	values := make([]float64, r.required.Len())
	for i, name := range r.required.names {
		values[i] = coerced[name]
	}
	return Vector{values: values}, nil
}

// arraySchema describes the value under FeaturesKey: exactly n numbers or numeric strings.
func arraySchema(n int) map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": n,
		"maxItems": n,
		"items": map[string]any{
			"type": []any{"number", "string"},
		},
	}
}

// schemaRoot is how gojsonschema names the validated document in error contexts.
const schemaRoot = "(root)"

func describeSchemaErrors(errs []gojsonschema.ResultError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		field := strings.Replace(e.Context().String(), schemaRoot, payload.FeaturesKey, 1)
		parts[i] = field + ": " + e.Description()
	}
	return strings.Join(parts, "; ")
}
