package payload

// FeaturesKey is the reserved key that marks an array-shape payload.
const FeaturesKey = "features"

// Kind discriminates the two accepted request shapes.
type Kind string

// Payload kinds.
const (
	// KindArray carries a pre-ordered list of values under FeaturesKey.
	KindArray Kind = "array"
	// KindNamed carries a flat mapping from feature name to value.
	KindNamed Kind = "named"
)

// Payload is a request body classified into exactly one shape.
// Values are kept as decoded; validation happens during resolution.
type Payload struct {
	kind  Kind
	array any
	named map[string]any
}

// Parse classifies a decoded JSON object. The presence of FeaturesKey selects
// the array shape; any other object is the named shape. Parse never fails.
func Parse(raw map[string]any) Payload {
	if v, ok := raw[FeaturesKey]; ok {
		return Payload{kind: KindArray, array: v}
	}
	named := make(map[string]any, len(raw))
	for k, v := range raw {
		named[k] = v
	}
	return Payload{kind: KindNamed, named: named}
}

// FromArray builds an array-shape payload from already numeric values.
func FromArray(values []float64) Payload {
	items := make([]any, len(values))
	for i, v := range values {
		items[i] = v
	}
	return Payload{kind: KindArray, array: items}
}

// FromNamed builds a named-shape payload from already numeric values.
func FromNamed(values map[string]float64) Payload {
	named := make(map[string]any, len(values))
	for k, v := range values {
		named[k] = v
	}
	return Payload{kind: KindNamed, named: named}
}

// Kind returns the payload shape.
func (p Payload) Kind() Kind { return p.kind }

// Array returns the raw value stored under FeaturesKey (array shape only).
func (p Payload) Array() any { return p.array }

// Named returns the raw name-to-value mapping (named shape only).
func (p Payload) Named() map[string]any { return p.named }
