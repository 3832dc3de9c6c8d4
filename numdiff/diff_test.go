package numdiff

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func objV2(x, y []float64) {
	y[0] = x[0] * math.Sin(x[1])
	y[1] = x[1] * math.Cos(x[0])
	y[2] = math.Pow(x[0], 3) * math.Pow(x[1], -0.5)
}

func jacV2(x []float64) []float64 {
	return []float64{
		math.Sin(x[1]), x[0] * math.Cos(x[1]),
		-x[1] * math.Sin(x[0]), math.Cos(x[0]),
		3 * math.Pow(x[0], 2) * math.Pow(x[1], -0.5), -0.5 * math.Pow(x[0], 3) * math.Pow(x[1], -1.5),
	}
}

func TestCheck(t *testing.T) {
	x0 := []float64{1, 2}
	for _, as := range []ApproxSpec{
		{N: 0, M: 1, Object: objV2},
		{N: 2, M: 3, Method: Method(7), Object: objV2},
		{N: 2, M: 3},
		{N: 3, M: 3, Object: objV2},
		{N: 2, M: 2, Object: objV2},
	} {
		if as.Check(x0, make([]float64, 6)) == nil {
			t.Fatal("invalid approximation accepted", as.N, as.M, as.Method)
		}
	}
}

func TestAbsoluteStep(t *testing.T) {

	x0 := []float64{1e-5, 0, 1, 1e5}
	dummy := make([]float64, 4)

	// auto select relative step
	for method, eps := range map[Method]float64{
		Forward: sqrtEps,
		Central: cubeEps,
	} {
		as := ApproxSpec{N: 4, M: 1, Method: method, Object: func(x, y []float64) {}}
		if err := as.Check(x0, dummy); err != nil {
			t.Fatal(err)
		}
		as.absoluteStep(x0)
		if !floats.EqualApprox(as.step, []float64{eps, eps, eps, eps * 1e5}, 1e-12) {
			t.Fatal("unexpected step", as.step)
		}

		neg := []float64{-1e-5, 0, -1, -1e5}
		as.absoluteStep(neg)
		want := []float64{-eps, eps, -eps, -eps * 1e5}
		if method == Central {
			want = []float64{eps, eps, eps, eps * 1e5}
		}
		if !floats.EqualApprox(as.step, want, 1e-12) {
			t.Fatal("unexpected step for negative point", method, as.step)
		}
	}

	// user-specified relative step
	for _, rel := range []float64{0.1, 1, 10} {
		as := ApproxSpec{N: 4, M: 1, Method: Forward, RelStep: rel, Object: func(x, y []float64) {}}
		_ = as.Check(x0, dummy)
		as.absoluteStep(x0)
		want := []float64{rel * x0[0], sqrtEps, rel * x0[2], rel * x0[3]}
		if !floats.EqualApprox(as.step, want, 1e-12) {
			t.Fatal("unexpected relative step", rel, as.step)
		}
	}
}

func TestAbsStepSign(t *testing.T) {

	obj := func(x, y []float64) {
		y[0] = -math.Abs(x[0]+1) + math.Abs(x[1]+1)
	}

	x0 := []float64{-1, -1}
	grad := []float64{0, 0}

	as := ApproxSpec{N: 2, M: 1, Method: Forward, Object: obj, AbsStep: 1e-8}
	if err := as.Diff(x0, grad); err != nil {
		t.Fatal("abs sign failed", err)
	}
	if !floats.EqualApprox(grad, []float64{-1.0, 1.0}, 1e-7) {
		t.Fatal("unexpected abs sign", grad)
	}

	as = ApproxSpec{N: 2, M: 1, Method: Forward, Object: obj, AbsStep: -1e-8}
	if err := as.Diff(x0, grad); err != nil {
		t.Fatal("abs sign failed", err)
	}
	if !floats.EqualApprox(grad, []float64{1.0, -1.0}, 1e-7) {
		t.Fatal("unexpected abs sign", grad)
	}
}

func TestJacobian(t *testing.T) {

	x0 := []float64{1.0, 2.0}
	want := jacV2(x0)

	for _, c := range []struct {
		method Method
		tol    float64
	}{
		{Forward, 1e-6},
		{Central, 1e-9},
	} {
		jac := make([]float64, 6)
		as := ApproxSpec{N: 2, M: 3, Method: c.method, Object: objV2}
		if err := as.Diff(x0, jac); err != nil {
			t.Fatal("approx jacobian failed", err)
		}
		if !floats.EqualApprox(jac, want, c.tol) {
			t.Fatal("unexpected jacobian", c.method, jac)
		}
		if x0[0] != 1 || x0[1] != 2 {
			t.Fatal("x0 not restored", x0)
		}

		trans := make([]float64, 6)
		as.TransJac = true
		if err := as.Diff(x0, trans); err != nil {
			t.Fatal("approx jacobian failed", err)
		}
		for i := 0; i < 2; i++ {
			for j := 0; j < 3; j++ {
				if trans[i*3+j] != jac[i+j*2] {
					t.Fatal("transposed jacobian mismatch", i, j)
				}
			}
		}
	}
}

func TestGradientHessian(t *testing.T) {

	// f = x²y + sin(y)
	f := func(x []float64) float64 { return x[0]*x[0]*x[1] + math.Sin(x[1]) }
	g := func(x, grad []float64) {
		grad[0] = 2 * x[0] * x[1]
		grad[1] = x[0]*x[0] + math.Cos(x[1])
	}

	x := []float64{0.7, -1.3}
	grad := make([]float64, 2)
	if err := Gradient(f, x, grad, Central); err != nil {
		t.Fatal(err)
	}
	want := make([]float64, 2)
	g(x, want)
	if !floats.EqualApprox(grad, want, 1e-9) {
		t.Fatal("unexpected gradient", grad, want)
	}

	hess := make([]float64, 4)
	if err := Hessian(g, x, hess, Central); err != nil {
		t.Fatal(err)
	}
	exact := []float64{
		2 * x[1], 2 * x[0],
		2 * x[0], -math.Sin(x[1]),
	}
	if !floats.EqualApprox(hess, exact, 1e-8) {
		t.Fatal("unexpected hessian", hess, exact)
	}
}
