package scale

import (
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/featquant/persistence"
)

// YeoJohnson applies the Yeo-Johnson power transform with a maximum-likelihood
// lambda, then standardizes the result.
type YeoJohnson struct {
	Lambda float64
	Mean   float64
	Std    float64
}

// lambda grid used to seed the Nelder-Mead search.
const (
	lambdaGridMin  = -4.0
	lambdaGridMax  = 4.0
	lambdaGridStep = 0.25
)

// FitYeoJohnson estimates lambda by minimizing the negative log-likelihood and
// fits the standardization of the transformed values.
func FitYeoJohnson(x []float64) (*YeoJohnson, error) {
	if len(x) == 0 {
		return nil, ErrEmptyColumn
	}
	if isConstant(x) {
		return nil, ErrZeroVariance
	}

	lambda := optimizeLambda(x)

	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = yeoJohnson(v, lambda)
	}
	mean, std := stat.PopMeanStdDev(y, nil)
	if !(std > 0) || math.IsInf(std, 0) {
		return nil, ErrZeroVariance
	}
	return &YeoJohnson{Lambda: lambda, Mean: mean, Std: std}, nil
}

func (*YeoJohnson) Kind() Kind { return KindYeoJohnson }

func (yj *YeoJohnson) Apply(x float64) float64 {
	return (yeoJohnson(x, yj.Lambda) - yj.Mean) / yj.Std
}

func (yj *YeoJohnson) encode(w *persistence.Writer) {
	w.WriteFloat64(yj.Lambda)
	w.WriteFloat64(yj.Mean)
	w.WriteFloat64(yj.Std)
}

func optimizeLambda(x []float64) float64 {
	nll := func(lambda float64) float64 { return yeoJohnsonNegLogLikelihood(x, lambda) }

	best, bestF := 1.0, nll(1)
	for l := lambdaGridMin; l <= lambdaGridMax; l += lambdaGridStep {
		if f := nll(l); f < bestF {
			best, bestF = l, f
		}
	}

	problem := optimize.Problem{
		Func: func(v []float64) float64 { return nll(v[0]) },
	}
	settings := &optimize.Settings{
		MajorIterations: 200,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 25,
		},
	}
	// A failed or non-improving refinement keeps the grid optimum.
	result, err := optimize.Minimize(problem, []float64{best}, settings, &optimize.NelderMead{})
	if err != nil && result == nil {
		return best
	}
	if l := result.X[0]; !math.IsNaN(l) && !math.IsInf(l, 0) && result.F <= bestF {
		return l
	}
	return best
}

// yeoJohnson is the Yeo-Johnson transform of a single value.
func yeoJohnson(x, lambda float64) float64 {
	if x >= 0 {
		if math.Abs(lambda) < epsilon {
			return math.Log1p(x)
		}
		return (math.Pow(x+1, lambda) - 1) / lambda
	}
	if math.Abs(lambda-2) > epsilon {
		return -(math.Pow(-x+1, 2-lambda) - 1) / (2 - lambda)
	}
	return -math.Log1p(-x)
}

// yeoJohnsonNegLogLikelihood returns the negative profile log-likelihood of
// lambda. Non-finite and degenerate evaluations return +Inf.
func yeoJohnsonNegLogLikelihood(x []float64, lambda float64) float64 {
	n := float64(len(x))
	y := make([]float64, len(x))
	var jacobian float64
	for i, v := range x {
		y[i] = yeoJohnson(v, lambda)
		jacobian += math.Copysign(math.Log1p(math.Abs(v)), v)
	}
	_, variance := stat.PopMeanVariance(y, nil)
	if !(variance > 0) || math.IsInf(variance, 0) || math.IsNaN(variance) {
		return math.Inf(1)
	}
	ll := -n/2*math.Log(variance) + (lambda-1)*jacobian
	if math.IsNaN(ll) || math.IsInf(ll, 0) {
		return math.Inf(1)
	}
	return -ll
}
