package feature

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/bcpredict/internal/domain"
	"github.com/kailas-cloud/bcpredict/internal/domain/payload"
)

var breastCancerFeatures = []string{
	"mean radius", "mean texture", "mean perimeter", "mean area", "mean smoothness",
	"mean compactness", "mean concavity", "mean concave points", "mean symmetry", "mean fractal dimension",
	"radius error", "texture error", "perimeter error", "area error", "smoothness error",
	"compactness error", "concavity error", "concave points error", "symmetry error", "fractal dimension error",
	"worst radius", "worst texture", "worst perimeter", "worst area", "worst smoothness",
	"worst compactness", "worst concavity", "worst concave points", "worst symmetry", "worst fractal dimension",
}

func mustNames(t *testing.T) Names {
	t.Helper()
	n, err := NewNames(breastCancerFeatures)
	if err != nil {
		t.Fatalf("NewNames: %v", err)
	}
	return n
}

func mustResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(mustNames(t))
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

// fullNamed returns a named payload where feature i has value i+1.
func fullNamed() map[string]any {
	m := make(map[string]any, len(breastCancerFeatures))
	for i, name := range breastCancerFeatures {
		m[name] = float64(i + 1)
	}
	return m
}

func sequence(n int) []any {
	items := make([]any, n)
	for i := range items {
		items[i] = float64(i + 1)
	}
	return items
}

func assertAligned(t *testing.T, v Vector) {
	t.Helper()
	if v.Len() != len(breastCancerFeatures) {
		t.Fatalf("Len() = %d, want %d", v.Len(), len(breastCancerFeatures))
	}
	for i := 0; i < v.Len(); i++ {
		if v.At(i) != float64(i+1) {
			t.Errorf("At(%d) = %v, want %v", i, v.At(i), float64(i+1))
		}
	}
}

func TestResolve_ArrayPassThrough(t *testing.T) {
	r := mustResolver(t)

	v, err := r.Resolve(payload.Parse(map[string]any{"features": sequence(30)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAligned(t, v)
}

func TestResolve_ArrayNumericStrings(t *testing.T) {
	r := mustResolver(t)
	items := sequence(30)
	items[4] = "5"

	v, err := r.Resolve(payload.Parse(map[string]any{"features": items}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAligned(t, v)
}

func TestResolve_ArrayIgnoresSiblingKeys(t *testing.T) {
	r := mustResolver(t)

	v, err := r.Resolve(payload.Parse(map[string]any{"features": sequence(30), "mean radius": "abc"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAligned(t, v)
}

func TestResolve_ArrayMalformed(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		wantDetail string
	}{
		{"not a list", 12.5, "features"},
		{"null", nil, "features"},
		{"object", map[string]any{"a": 1.0}, "features"},
		{"too short", sequence(29), "features"},
		{"too long", sequence(31), "features"},
		{"empty", []any{}, "features"},
		{"boolean item", append(sequence(29), true), "features.29"},
		{"object item", append([]any{map[string]any{}}, sequence(29)...), "features.0"},
		{"null item", append(sequence(29), nil), "features.29"},
		{"non-numeric string", append([]any{"abc"}, sequence(29)...), "features.0"},
	}

	r := mustResolver(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Resolve(payload.Parse(map[string]any{"features": tc.value}))
			if !errors.Is(err, domain.ErrMalformedShape) {
				t.Fatalf("expected ErrMalformedShape, got %v", err)
			}
			var mse *domain.MalformedShapeError
			if !errors.As(err, &mse) {
				t.Fatalf("expected *MalformedShapeError, got %T", err)
			}
			if !strings.Contains(mse.Detail, tc.wantDetail) {
				t.Errorf("detail = %q, want it to mention %q", mse.Detail, tc.wantDetail)
			}
		})
	}
}

func TestResolve_ArrayFromDecodedJSON(t *testing.T) {
	body := `{"features": [1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
		16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30]}`
	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	v, err := mustResolver(t).Resolve(payload.Parse(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAligned(t, v)
}

func TestResolve_NamedAligned(t *testing.T) {
	v, err := mustResolver(t).Resolve(payload.Parse(fullNamed()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAligned(t, v)
}

func TestResolve_NamedNumericString(t *testing.T) {
	raw := fullNamed()
	raw["mean area"] = "14.5"

	v, err := mustResolver(t).Resolve(payload.Parse(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.At(3) != 14.5 {
		t.Errorf("mean area = %v, want 14.5", v.At(3))
	}
}

func TestResolve_NamedMisspelledKey(t *testing.T) {
	raw := fullNamed()
	raw["mean radiuss"] = raw["mean radius"]
	delete(raw, "mean radius")

	_, err := mustResolver(t).Resolve(payload.Parse(raw))
	var mfe *domain.MissingFeaturesError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected *MissingFeaturesError, got %v", err)
	}
	if len(mfe.Missing) != 1 || mfe.Missing[0] != "mean radius" {
		t.Errorf("Missing = %v, want [mean radius]", mfe.Missing)
	}
	if mfe.Truncated {
		t.Error("Truncated should be false")
	}
	if mfe.Error() != "Missing features: ['mean radius']" {
		t.Errorf("Error() = %q", mfe.Error())
	}
}

func TestResolve_NamedInvalidValue(t *testing.T) {
	raw := fullNamed()
	raw["mean radius"] = "abc"

	_, err := mustResolver(t).Resolve(payload.Parse(raw))
	if !errors.Is(err, domain.ErrInvalidFeatureValue) {
		t.Fatalf("expected ErrInvalidFeatureValue, got %v", err)
	}
	var ife *domain.InvalidFeatureValueError
	if !errors.As(err, &ife) {
		t.Fatalf("expected *InvalidFeatureValueError, got %T", err)
	}
	if ife.Key != "mean radius" {
		t.Errorf("Key = %q, want %q", ife.Key, "mean radius")
	}
	if ife.Error() != "Feature 'mean radius' must be numeric" {
		t.Errorf("Error() = %q", ife.Error())
	}
}

func TestResolve_NamedInvalidBeatsMissing(t *testing.T) {
	_, err := mustResolver(t).Resolve(payload.Parse(map[string]any{"mean radius": map[string]any{}}))
	if !errors.Is(err, domain.ErrInvalidFeatureValue) {
		t.Fatalf("expected ErrInvalidFeatureValue, got %v", err)
	}
}

func TestResolve_NamedInvalidFirstKeyIsDeterministic(t *testing.T) {
	raw := fullNamed()
	raw["worst area"] = nil
	raw["area error"] = true

	for i := 0; i < 20; i++ {
		_, err := mustResolver(t).Resolve(payload.Parse(raw))
		var ife *domain.InvalidFeatureValueError
		if !errors.As(err, &ife) {
			t.Fatalf("expected *InvalidFeatureValueError, got %v", err)
		}
		if ife.Key != "area error" {
			t.Fatalf("Key = %q, want %q", ife.Key, "area error")
		}
	}
}

func TestResolve_NamedExtraKeyIgnored(t *testing.T) {
	raw := fullNamed()
	raw["extra_field"] = 5.0

	v, err := mustResolver(t).Resolve(payload.Parse(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAligned(t, v)
}

func TestResolve_NamedExtraKeyStillCoerced(t *testing.T) {
	raw := fullNamed()
	raw["extra_field"] = "not a number"

	_, err := mustResolver(t).Resolve(payload.Parse(raw))
	var ife *domain.InvalidFeatureValueError
	if !errors.As(err, &ife) || ife.Key != "extra_field" {
		t.Fatalf("expected invalid value for extra_field, got %v", err)
	}
}

func TestResolve_NamedMissingCapped(t *testing.T) {
	raw := fullNamed()
	removed := []string{
		"worst radius", "area error", "mean texture", "symmetry error",
		"mean area", "worst texture", "compactness error", "texture error",
	}
	for _, k := range removed {
		delete(raw, k)
	}

	_, err := mustResolver(t).Resolve(payload.Parse(raw))
	var mfe *domain.MissingFeaturesError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected *MissingFeaturesError, got %v", err)
	}
	want := []string{"area error", "compactness error", "mean area", "mean texture", "symmetry error", "texture error"}
	if len(mfe.Missing) != len(want) {
		t.Fatalf("Missing = %v, want %v", mfe.Missing, want)
	}
	for i := range want {
		if mfe.Missing[i] != want[i] {
			t.Errorf("Missing[%d] = %q, want %q", i, mfe.Missing[i], want[i])
		}
	}
	if !mfe.Truncated {
		t.Error("Truncated should be true when more than 6 are missing")
	}
	if !strings.HasSuffix(mfe.Error(), "]...") {
		t.Errorf("Error() = %q, want truncation marker", mfe.Error())
	}
}

func TestResolve_NamedExactlySixMissing(t *testing.T) {
	raw := fullNamed()
	for _, k := range breastCancerFeatures[:6] {
		delete(raw, k)
	}

	_, err := mustResolver(t).Resolve(payload.Parse(raw))
	var mfe *domain.MissingFeaturesError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected *MissingFeaturesError, got %v", err)
	}
	if len(mfe.Missing) != 6 || mfe.Truncated {
		t.Errorf("Missing = %v, Truncated = %v", mfe.Missing, mfe.Truncated)
	}
}

func TestResolve_EmptyNamedPayload(t *testing.T) {
	_, err := mustResolver(t).Resolve(payload.Parse(map[string]any{}))
	if !errors.Is(err, domain.ErrMissingFeatures) {
		t.Fatalf("expected ErrMissingFeatures, got %v", err)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	raw := fullNamed()
	raw["mean smoothness"] = "0.11840"
	r := mustResolver(t)

	a, err := r.Resolve(payload.Parse(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := r.Resolve(payload.Parse(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < a.Len(); i++ {
		if math.Float64bits(a.At(i)) != math.Float64bits(b.At(i)) {
			t.Fatalf("position %d differs: %v vs %v", i, a.At(i), b.At(i))
		}
	}
}

func TestResolve_PackageFunc(t *testing.T) {
	v, err := Resolve(payload.FromArray([]float64{1, 2, 3}), mustSmallNames(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Len() != 3 || v.At(2) != 3 {
		t.Errorf("unexpected vector: %v", v.Values())
	}
}

func TestVector_ValuesIsCopy(t *testing.T) {
	v := NewVector([]float64{1, 2})
	vals := v.Values()
	vals[0] = 99
	if v.At(0) != 1 {
		t.Error("mutating Values() result must not change the vector")
	}
}

func mustSmallNames(t *testing.T) Names {
	t.Helper()
	n, err := NewNames([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("NewNames: %v", err)
	}
	return n
}
