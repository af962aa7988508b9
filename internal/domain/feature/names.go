package feature

import "fmt"

// Names is the ordered, training-time list of feature names.
// It defines both the required set and the positional order of the model input.
type Names struct {
	names []string
	index map[string]int
}

// NewNames validates and freezes an ordered feature list.
// Names must be non-empty and unique.
func NewNames(names []string) (Names, error) {
	if len(names) == 0 {
		return Names{}, fmt.Errorf("feature names are required")
	}
	frozen := make([]string, len(names))
	index := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			return Names{}, fmt.Errorf("feature name at position %d is empty", i)
		}
		if prev, dup := index[name]; dup {
			return Names{}, fmt.Errorf("duplicate feature name %q at positions %d and %d", name, prev, i)
		}
		frozen[i] = name
		index[name] = i
	}
	return Names{names: frozen, index: index}, nil
}

// Len returns the number of features.
func (n Names) Len() int { return len(n.names) }

// At returns the feature name at position i.
func (n Names) At(i int) string { return n.names[i] }

// Index returns the position of name and whether it is known.
func (n Names) Index(name string) (int, bool) {
	i, ok := n.index[name]
	return i, ok
}

// Slice returns a copy of the ordered names.
func (n Names) Slice() []string {
	return append([]string(nil), n.names...)
}
