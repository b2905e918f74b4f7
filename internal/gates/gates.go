package gates

import (
	"math"
	"math/cmplx"
)

// DefaultTolerance is the numeric tolerance used for unitarity and
// normalization checks.
const DefaultTolerance = 1e-6

// Matrix is a 2x2 complex operator in row-major order.
type Matrix [2][2]complex128

// Identity is the 2x2 identity.
var Identity = Matrix{
	{1, 0},
	{0, 1},
}

// Hadamard returns H = 1/√2 [[1,1],[1,-1]].
func Hadamard() Matrix {
	s := complex(1/math.Sqrt2, 0)
	return Matrix{
		{s, s},
		{s, -s},
	}
}

// PauliX returns the bit-flip operator.
func PauliX() Matrix {
	return Matrix{
		{0, 1},
		{1, 0},
	}
}

// PauliY returns [[0,-i],[i,0]].
func PauliY() Matrix {
	return Matrix{
		{0, -1i},
		{1i, 0},
	}
}

// PauliZ returns the phase-flip operator.
func PauliZ() Matrix {
	return Matrix{
		{1, 0},
		{0, -1},
	}
}

// S returns the quarter-turn phase gate diag(1, i).
func S() Matrix {
	return Matrix{
		{1, 0},
		{0, 1i},
	}
}

// T returns the eighth-turn phase gate diag(1, e^{iπ/4}).
func T() Matrix {
	return Phase(math.Pi / 4)
}

// RX returns the rotation about the X axis by theta.
func RX(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return Matrix{
		{c, s},
		{s, c},
	}
}

// RY returns the rotation about the Y axis by theta.
func RY(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix{
		{c, -s},
		{s, c},
	}
}

// RZ returns diag(e^{-iθ/2}, e^{iθ/2}).
func RZ(theta float64) Matrix {
	return Matrix{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}
}

// Phase returns diag(1, e^{iφ}).
func Phase(phi float64) Matrix {
	return Matrix{
		{1, 0},
		{0, cmplx.Exp(complex(0, phi))},
	}
}

// Mul returns m·o.
func (m Matrix) Mul(o Matrix) Matrix {
	var r Matrix
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j]
		}
	}
	return r
}

// Dagger returns the conjugate transpose of m.
func (m Matrix) Dagger() Matrix {
	return Matrix{
		{cmplx.Conj(m[0][0]), cmplx.Conj(m[1][0])},
		{cmplx.Conj(m[0][1]), cmplx.Conj(m[1][1])},
	}
}

// ApproxEqual reports whether every entry of m and o differs by at most tol.
func (m Matrix) ApproxEqual(o Matrix, tol float64) bool {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if cmplx.Abs(m[i][j]-o[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// IsUnitary reports whether m·m† equals the identity within tol.
func IsUnitary(m Matrix, tol float64) bool {
	return m.Mul(m.Dagger()).ApproxEqual(Identity, tol)
}
