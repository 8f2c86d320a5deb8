package metadata

import "testing"

func TestFieldLabel(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"age":             "Age",
		"collection_date": "Collection Date",
		"isolation-site":  "Isolation Site",
		"  serotype ":     "Serotype",
		SampleIDKey:       "Sample ID",
	}
	for in, want := range tests {
		if got := FieldLabel(in); got != want {
			t.Fatalf("FieldLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
