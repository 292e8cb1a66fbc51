package style

import (
	"math"
	"testing"
)

func TestPercentile_Median(t *testing.T) {
	got := percentile([]float64{1, 2, 3, 4, 5}, 50)
	if got != 3 {
		t.Errorf("percentile(50) = %v, want 3", got)
	}
}

func TestPercentile_P95(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i + 1)
	}
	got := percentile(values, 95)
	if math.Abs(got-95.05) > 0.5 {
		t.Errorf("percentile(95) = %v, want ~95", got)
	}
}

func TestStddev_Zero(t *testing.T) {
	if got := stddev([]float64{5, 5, 5}); got != 0 {
		t.Errorf("stddev of constant series = %v, want 0", got)
	}
}

func TestSignChanges(t *testing.T) {
	got := signChanges([]float64{1, -1, 1, -1, 2})
	if got != 4 {
		t.Errorf("signChanges = %d, want 4", got)
	}
}
