// SPDX-License-Identifier: MIT

package design

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Ishigami returns the Ishigami function
//
//	y = sin(x1) + a·sin²(x2) + b·x3⁴·sin(x1),  x ~ U(-π, π)³
//
// a=7, b=0.1 is the usual benchmark setting.
func Ishigami(a, b float64) *FuncModel {
	return NewFuncModel(3, 1, func(x []float64) []float64 {
		s1 := math.Sin(x[0])
		s2 := math.Sin(x[1])
		return []float64{s1 + a*s2*s2 + b*math.Pow(x[2], 4)*s1}
	})
}

// IshigamiDistribution is the U(-π, π)³ input law of Ishigami.
func IshigamiDistribution() *IndependentDistribution {
	u := distuv.Uniform{Min: -math.Pi, Max: math.Pi}
	return Independent(u, u, u)
}

// IshigamiIndices returns the closed-form first- and total-order indices of Ishigami(a, b).
func IshigamiIndices(a, b float64) (first, total []float64) {
	pi4 := math.Pow(math.Pi, 4)
	pi8 := pi4 * pi4
	v1 := 0.5 * (1 + b*pi4/5) * (1 + b*pi4/5)
	v2 := a * a / 8
	v13 := b * b * pi8 * 8 / 225
	v := v1 + v2 + v13

	return []float64{v1 / v, v2 / v, 0},
		[]float64{(v1 + v13) / v, v2 / v, v13 / v}
}

// GFunction returns Sobol's g-function y = Π (|4x_i - 2| + a_i) / (1 + a_i), x ~ U(0, 1)^d.
// Smaller a_i means a more important input.
func GFunction(a []float64) *FuncModel {
	coeffs := append([]float64(nil), a...)
	return NewFuncModel(len(coeffs), 1, func(x []float64) []float64 {
		y := 1.0
		for i, ai := range coeffs {
			y *= (math.Abs(4*x[i]-2) + ai) / (1 + ai)
		}
		return []float64{y}
	})
}

// UniformDistribution is the U(0, 1)^d law used by GFunction.
func UniformDistribution(d int) *IndependentDistribution {
	m := make([]distuv.Quantiler, d)
	for i := range m {
		m[i] = distuv.Uniform{Min: 0, Max: 1}
	}
	return Independent(m...)
}

// GFunctionIndices returns the closed-form indices of GFunction(a).
func GFunctionIndices(a []float64) (first, total []float64) {
	d := len(a)
	vi := make([]float64, d)
	prod := 1.0
	for i, ai := range a {
		vi[i] = 1 / (3 * (1 + ai) * (1 + ai))
		prod *= 1 + vi[i]
	}
	v := prod - 1

	first = make([]float64, d)
	total = make([]float64, d)
	for i := range a {
		first[i] = vi[i] / v
		total[i] = vi[i] * (prod / (1 + vi[i])) / v
	}
	return first, total
}

// LinearAdditive returns y = Σ c_i·x_i with x ~ N(0, 1)^d (see NormalDistribution).
// Without interactions S_i == ST_i == c_i² / Σ c_j².
func LinearAdditive(coeffs []float64) *FuncModel {
	c := append([]float64(nil), coeffs...)
	return NewFuncModel(len(c), 1, func(x []float64) []float64 {
		var y float64
		for i, ci := range c {
			y += ci * x[i]
		}
		return []float64{y}
	})
}

// NormalDistribution is the N(0, 1)^d law.
func NormalDistribution(d int) *IndependentDistribution {
	m := make([]distuv.Quantiler, d)
	for i := range m {
		m[i] = distuv.UnitNormal
	}
	return Independent(m...)
}

// LinearAdditiveIndices returns S_i = ST_i = c_i² / Σ c_j².
func LinearAdditiveIndices(coeffs []float64) []float64 {
	var sum float64
	for _, c := range coeffs {
		sum += c * c
	}
	s := make([]float64, len(coeffs))
	for i, c := range coeffs {
		s[i] = c * c / sum
	}
	return s
}
