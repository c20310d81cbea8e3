// Package linearize builds the linearized planar CR3BP about a collinear
// libration point and extracts its stable and unstable eigendirections.
package linearize

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/libration/internal/dynamo"
)

// EigenPair is one eigenvalue of the state matrix with its right eigenvector.
type EigenPair struct {
	Value  complex128
	Vector []complex128
}

// Coefficients returns the second partials Ωxx and Ωyy of the effective
// potential at (x, 0).
func Coefficients(mu, x float64) (oxx, oyy float64) {
	d1 := math.Pow(math.Abs(x+mu), 3)
	d2 := math.Pow(math.Abs(x-1+mu), 3)
	oxx = 1 + 2*(1-mu)/d1 + 2*mu/d2
	oyy = 1 - (1-mu)/d1 - mu/d2
	return oxx, oyy
}

// StateMatrix assembles
//
//	A = [[0,0,1,0],[0,0,0,1],[Oxx,0,0,2],[0,Oyy,-2,0]]
//
// so that δẋ = A δx near the libration point.
func StateMatrix(mu, x float64) *mat.Dense {
	oxx, oyy := Coefficients(mu, x)
	return mat.NewDense(4, 4, []float64{
		0, 0, 1, 0,
		0, 0, 0, 1,
		oxx, 0, 0, 2,
		0, oyy, -2, 0,
	})
}

// Decompose computes all eigenvalues and right eigenvectors of a general
// real square matrix. The order follows the factorization and carries no
// meaning.
func Decompose(a mat.Matrix) ([]EigenPair, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("matrix is %dx%d: %w", r, c, dynamo.ErrDimensionMismatch)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenRight); !ok {
		return nil, fmt.Errorf("eigen factorization did not converge: %w", dynamo.ErrEigenSelection)
	}

	values := eig.Values(nil)
	var vecs mat.CDense
	eig.VectorsTo(&vecs)

	pairs := make([]EigenPair, len(values))
	for j, v := range values {
		col := make([]complex128, r)
		for i := 0; i < r; i++ {
			col[i] = vecs.At(i, j)
		}
		pairs[j] = EigenPair{Value: v, Vector: col}
	}
	return pairs, nil
}

// Linearize is StateMatrix followed by Decompose.
func Linearize(mu, x float64) ([]EigenPair, error) {
	return Decompose(StateMatrix(mu, x))
}
