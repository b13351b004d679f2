// Copyright (c) 2023, The CCNLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vonmises

import "math"

// MaxKappa is the largest concentration for which exp(kappa), and thus both
// the peak of the tuning curve and I0(kappa), are representable as float64.
var MaxKappa = math.Log(math.MaxFloat64)

// seriesMax is the argument above which the asymptotic expansion is used
// instead of the power series.
const seriesMax = 15.0

// I0 returns the modified Bessel function of the first kind, order 0.
// Returns +Inf when |x| > MaxKappa.
func I0(x float64) float64 {
	x = math.Abs(x)
	if x <= seriesMax {
		return i0Series(x)
	}
	if x > MaxKappa {
		return math.Inf(1)
	}
	return i0eAsymp(x) * math.Exp(x)
}

// I0e returns the exponentially scaled Bessel function exp(-|x|) * I0(x),
// which is finite for all finite x.
func I0e(x float64) float64 {
	x = math.Abs(x)
	if x <= seriesMax {
		return i0Series(x) * math.Exp(-x)
	}
	return i0eAsymp(x)
}

// i0Series sums (x^2/4)^k / (k!)^2 until terms no longer change the sum.
func i0Series(x float64) float64 {
	q := 0.25 * x * x
	sum := 1.0
	term := 1.0
	for k := 1; k < 500; k++ {
		term *= q / float64(k*k)
		sum += term
		if term < sum*1.0e-17 {
			break
		}
	}
	return sum
}

// i0eAsymp is the large-x expansion
// exp(-x) I0(x) ~ 1/sqrt(2 pi x) * sum_k ((2k-1)!!)^2 / (k! (8x)^k).
// Terms are summed while they keep shrinking.
func i0eAsymp(x float64) float64 {
	sum := 1.0
	term := 1.0
	for k := 1; k < 100; k++ {
		nt := term * float64((2*k-1)*(2*k-1)) / (8 * float64(k) * x)
		if nt >= term || nt < sum*1.0e-17 {
			break
		}
		term = nt
		sum += term
	}
	return sum / math.Sqrt(2*math.Pi*x)
}
