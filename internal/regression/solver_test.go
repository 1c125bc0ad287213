package regression

import "testing"

func TestSolve_RecoversKnownSolution(t *testing.T) {
	tests := []struct {
		name string
		a    [][]float64
		x    []float64
	}{
		{
			name: "identity",
			a:    [][]float64{{1, 0}, {0, 1}},
			x:    []float64{3, -2},
		},
		{
			name: "spd 3x3",
			a: [][]float64{
				{4, 1, 0},
				{1, 3, 1},
				{0, 1, 2},
			},
			x: []float64{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := len(tt.x)
			b := make([]float64, n)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					b[i] += tt.a[i][j] * tt.x[j]
				}
			}

			got, err := Solve(tt.a, b)
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}

			var maxB float64
			for _, v := range b {
				if v > maxB {
					maxB = v
				} else if -v > maxB {
					maxB = -v
				}
			}

			for i := range got {
				var residual float64
				for j := range got {
					residual += tt.a[i][j] * got[j]
				}
				residual -= b[i]
				if residual < 0 {
					residual = -residual
				}
				if residual > 1e-6*maxB {
					t.Errorf("residual[%d] = %v, want < %v", i, residual, 1e-6*maxB)
				}
			}
		})
	}
}

func TestSolve_NotPositiveDefinite(t *testing.T) {
	a := [][]float64{
		{1, 2},
		{2, 1},
	}
	b := []float64{1, 1}

	_, err := Solve(a, b)
	if err != ErrNotPositiveDefinite {
		t.Fatalf("Solve() error = %v, want ErrNotPositiveDefinite", err)
	}
}

func TestSystem_AccumulateAndSolve(t *testing.T) {
	// Build a tiny regression y = 2 + 3x from noiseless observations and
	// confirm the accumulated normal equations recover it (up to ridge
	// shrinkage, which is negligible at this scale).
	s := NewSystem(2)
	observations := []struct {
		x, y float64
	}{
		{0, 2}, {1, 5}, {2, 8}, {3, 11}, {4, 14},
	}
	for _, o := range observations {
		v := []float64{1, o.x}
		s.AddOuterProduct(v, 1)
		s.AddScaledVector(v, o.y)
	}

	beta, err := s.Solve()
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if diff := beta[0] - 2; diff > 1e-2 || diff < -1e-2 {
		t.Errorf("beta[0] = %v, want ~2", beta[0])
	}
	if diff := beta[1] - 3; diff > 1e-2 || diff < -1e-2 {
		t.Errorf("beta[1] = %v, want ~3", beta[1])
	}
}
