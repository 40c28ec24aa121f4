package enrich

import (
	"testing"
)

func TestEstimateQuotaCost(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		batchSize int
		want      int
	}{
		{"zero items", 0, 50, 0},
		{"negative items", -10, 50, 0},
		{"one item", 1, 50, 1},
		{"exactly one batch", 50, 50, 1},
		{"one over a batch", 51, 50, 2},
		{"three batches", 150, 50, 3},
		{"three batches plus one", 151, 50, 4},
		{"custom batch size", 10, 3, 4},
		{"zero batch size falls back to default", 50, 0, 1},
		{"negative batch size falls back to default", 120, -1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateQuotaCost(tt.n, tt.batchSize); got != tt.want {
				t.Errorf("EstimateQuotaCost(%d, %d) = %d, want %d", tt.n, tt.batchSize, got, tt.want)
			}
		})
	}
}

// ceil(n/50) should hold across the whole small range, not just the table
// cases above.
func TestEstimateQuotaCostFormula(t *testing.T) {
	for n := 1; n <= 500; n++ {
		want := (n + 49) / 50
		if got := EstimateQuotaCost(n, 50); got != want {
			t.Fatalf("EstimateQuotaCost(%d, 50) = %d, want %d", n, got, want)
		}
	}
}
