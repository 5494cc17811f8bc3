package command

import "testing"

func TestMapToRange(t *testing.T) {
	cases := []struct {
		name                 string
		value, min, max      float64
		minReturn, maxReturn float64
		want                 float64
	}{
		{"midpoint", 0, -1, 1, 750, 2250, 1500},
		{"bottom", -1, -1, 1, 750, 2250, 750},
		{"top", 1, -1, 1, 750, 2250, 2250},
		{"quarter", -0.5, -1, 1, 0, 1, 0.25},
		{"clamped high", 2, -1, 1, 0, 1, 1},
		{"clamped low", -2, -1, 1, 0, 1, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapToRange(tc.value, tc.min, tc.max, tc.minReturn, tc.maxReturn)
			if got != tc.want {
				t.Fatalf("expected %.2f, got %.2f", tc.want, got)
			}
		})
	}
}
