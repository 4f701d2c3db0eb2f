package constraint

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SolveGaussSeidel approximates the solution of A·x = b by iterative
// row-wise refinement, sweeping the system as many times as it has rows.
// Rows with a zero diagonal (degrees of freedom owned by infinite-mass
// bodies) are skipped and contribute zero to the solution instead of
// producing non-finite values.
func SolveGaussSeidel(a *mgl64.MatMxN, b *mgl64.VecN) *mgl64.VecN {
	n := b.Size()

	x := mgl64.NewVecN(n)
	x.Zero(n)

	for sweep := 0; sweep < n; sweep++ {
		for i := 0; i < n; i++ {
			diagonal := a.At(i, i)
			if diagonal == 0.0 {
				continue
			}

			var rowDotX float64
			for j := 0; j < n; j++ {
				rowDotX += a.At(i, j) * x.Get(j)
			}

			dx := (b.Get(i) - rowDotX) / diagonal
			if !math.IsNaN(dx) && !math.IsInf(dx, 0) {
				x.Set(i, x.Get(i)+dx)
			}
		}
	}

	return x
}
