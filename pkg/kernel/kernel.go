// Package kernel holds the 2D curve math behind the sketch model:
// B-spline to Bézier decomposition, cubic arc length and bounds.
// Points are sdfx v2 vectors so the rest of the system shares one
// vector type with the sdfx geometry library.
package kernel

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// MaxDegree is the highest B-spline degree that decomposes exactly into
// cubic Bézier pieces.
const MaxDegree = 3

// knotTolerance is used when comparing knot values for multiplicity.
const knotTolerance = 1e-12

// ClampedKnots returns a uniform clamped knot vector on [0, 1] for a
// curve with nPoles control points of the given degree.
func ClampedKnots(nPoles, degree int) []float64 {
	if nPoles < degree+1 || degree < 1 {
		return nil
	}
	m := nPoles + degree + 1
	knots := make([]float64, m)
	spans := nPoles - degree
	for i := 0; i < m; i++ {
		switch {
		case i <= degree:
			knots[i] = 0
		case i >= nPoles:
			knots[i] = 1
		default:
			knots[i] = float64(i-degree) / float64(spans)
		}
	}
	return knots
}

// CheckSpline verifies that poles, knots and degree describe a clamped,
// non-rational B-spline that Decompose can handle.
func CheckSpline(nPoles int, knots []float64, degree int) error {
	if degree < 1 || degree > MaxDegree {
		return fmt.Errorf("degree %d out of range 1..%d", degree, MaxDegree)
	}
	if nPoles < degree+1 {
		return fmt.Errorf("degree %d needs at least %d poles, got %d", degree, degree+1, nPoles)
	}
	if len(knots) != nPoles+degree+1 {
		return fmt.Errorf("expected %d knots for %d poles of degree %d, got %d",
			nPoles+degree+1, nPoles, degree, len(knots))
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			return fmt.Errorf("knot vector decreases at index %d", i)
		}
	}
	last := len(knots) - 1
	for i := 1; i <= degree; i++ {
		if !sameKnot(knots[i], knots[0]) || !sameKnot(knots[last-i], knots[last]) {
			return fmt.Errorf("knot vector is not clamped")
		}
	}
	if sameKnot(knots[0], knots[last]) {
		return fmt.Errorf("knot vector has zero parametric length")
	}
	for start := 0; start <= last; {
		end := start
		for end < last && sameKnot(knots[end+1], knots[start]) {
			end++
		}
		mult := end - start + 1
		limit := degree
		if start == 0 || end == last {
			limit = degree + 1
		}
		if mult > limit {
			return fmt.Errorf("knot %g at index %d has multiplicity %d, more than %d",
				knots[start], start, mult, limit)
		}
		start = end + 1
	}
	return nil
}

func sameKnot(a, b float64) bool {
	d := a - b
	return d < knotTolerance && d > -knotTolerance
}

// Decompose splits a clamped B-spline into Bézier pieces by knot
// insertion, then raises every piece to cubic. Consecutive pieces share
// their joining pole.
func Decompose(poles []v2.Vec, knots []float64, degree int) ([]Cubic, error) {
	if err := CheckSpline(len(poles), knots, degree); err != nil {
		return nil, err
	}

	p := degree
	m := len(knots) - 1
	a, b := p, p+1

	pieces := [][]v2.Vec{make([]v2.Vec, p+1)}
	copy(pieces[0], poles[:p+1])
	alphas := make([]float64, p)
	nb := 0

	for b < m {
		i := b
		for b < m && sameKnot(knots[b+1], knots[b]) {
			b++
		}
		mult := b - i + 1
		if mult < p {
			numer := knots[b] - knots[a]
			for j := p; j > mult; j-- {
				alphas[j-mult-1] = numer / (knots[a+j] - knots[a])
			}
			r := p - mult
			if b < m {
				pieces = append(pieces, make([]v2.Vec, p+1))
			}
			for j := 1; j <= r; j++ {
				save := r - j
				s := mult + j
				for k := p; k >= s; k-- {
					alpha := alphas[k-s]
					pieces[nb][k] = pieces[nb][k].MulScalar(alpha).Add(pieces[nb][k-1].MulScalar(1 - alpha))
				}
				if b < m {
					pieces[nb+1][save] = pieces[nb][p]
				}
			}
		} else if b < m {
			pieces = append(pieces, make([]v2.Vec, p+1))
		}
		nb++
		if b < m {
			for k := p - mult; k <= p; k++ {
				pieces[nb][k] = poles[b-p+k]
			}
			a = b
			b++
		}
	}

	cubics := make([]Cubic, 0, nb)
	for _, piece := range pieces[:nb] {
		cubics = append(cubics, elevateToCubic(piece))
	}
	return cubics, nil
}

// elevateToCubic raises a Bézier control polygon of degree 1..3 to degree 3.
func elevateToCubic(poles []v2.Vec) Cubic {
	cur := poles
	for len(cur) < 4 {
		n := len(cur) // new degree
		next := make([]v2.Vec, n+1)
		next[0] = cur[0]
		next[n] = cur[n-1]
		for i := 1; i < n; i++ {
			t := float64(i) / float64(n)
			next[i] = cur[i-1].MulScalar(t).Add(cur[i].MulScalar(1 - t))
		}
		cur = next
	}
	return Cubic{cur[0], cur[1], cur[2], cur[3]}
}
