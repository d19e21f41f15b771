package event

import (
	"testing"
)

func TestMergeFillEmpty(t *testing.T) {
	tests := []struct {
		name     string
		base     Fields
		patch    Fields
		expected Fields
	}{
		{
			name:     "missing key adopted",
			base:     Fields{FieldTitle: "Jazz Night"},
			patch:    Fields{FieldPrice: "25"},
			expected: Fields{FieldTitle: "Jazz Night", FieldPrice: "25"},
		},
		{
			name:     "empty base value filled",
			base:     Fields{FieldTitle: "Jazz Night", FieldPrice: ""},
			patch:    Fields{FieldPrice: "25"},
			expected: Fields{FieldTitle: "Jazz Night", FieldPrice: "25"},
		},
		{
			name:     "non-empty base value never overwritten",
			base:     Fields{FieldPrice: "25"},
			patch:    Fields{FieldPrice: "SGD 25.50"},
			expected: Fields{FieldPrice: "25"},
		},
		{
			name:     "whitespace-only base counts as empty",
			base:     Fields{FieldLocation: "  \t "},
			patch:    Fields{FieldLocation: "Marina Bay Sands"},
			expected: Fields{FieldLocation: "Marina Bay Sands"},
		},
		{
			name:     "empty patch value does not erase",
			base:     Fields{FieldTitle: "Jazz Night"},
			patch:    Fields{FieldTitle: ""},
			expected: Fields{FieldTitle: "Jazz Night"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeFillEmpty(tt.base, tt.patch)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d keys, got %d", len(tt.expected), len(got))
			}
			for k, v := range tt.expected {
				if got[k] != v {
					t.Errorf("key %s: got %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestMergeFillEmptyDoesNotMutateBase(t *testing.T) {
	base := Fields{FieldTitle: ""}
	MergeFillEmpty(base, Fields{FieldTitle: "filled"})
	if base[FieldTitle] != "" {
		t.Error("MergeFillEmpty mutated base map")
	}
}

func TestReduceLayerPriority(t *testing.T) {
	// Structured layer wins; later layers only fill gaps.
	structured := Fields{FieldTitle: "Wine Tasting", FieldPrice: "25"}
	meta := Fields{FieldTitle: "Wine Tasting | Peatix", FieldDescription: "An evening of wine."}
	visible := Fields{FieldPrice: "SGD 25.50", FieldLocation: "Club Street"}

	got := Reduce(Fields{}, structured, meta, visible)

	if got[FieldTitle] != "Wine Tasting" {
		t.Errorf("title: got %q, want structured value", got[FieldTitle])
	}
	if got[FieldPrice] != "25" {
		t.Errorf("price: got %q, want structured value '25'", got[FieldPrice])
	}
	if got[FieldDescription] != "An evening of wine." {
		t.Errorf("description: got %q, want meta value", got[FieldDescription])
	}
	if got[FieldLocation] != "Club Street" {
		t.Errorf("location: got %q, want visible value", got[FieldLocation])
	}
}
