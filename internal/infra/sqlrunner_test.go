package infra

import (
	"errors"
	"testing"
)

func TestSplitMarker(t *testing.T) {
	marker, body, err := SplitMarker("\n--sql 0b7c2f3e-6a51-4c1d-9e0f-2d8b5a4c7e19\nselect 1;\n")
	if err != nil {
		t.Fatalf("SplitMarker error: %v", err)
	}
	if marker != "0b7c2f3e-6a51-4c1d-9e0f-2d8b5a4c7e19" {
		t.Fatalf("unexpected marker %q", marker)
	}
	if body != "select 1;" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestSplitMarkerRejectsUntagged(t *testing.T) {
	cases := []string{
		"select 1;",
		"--sql not-a-uuid\nselect 1;",
		"",
	}
	for _, q := range cases {
		if _, _, err := SplitMarker(q); !errors.Is(err, ErrMissingMarker) {
			t.Fatalf("SplitMarker(%q) error = %v, want ErrMissingMarker", q, err)
		}
	}
}
