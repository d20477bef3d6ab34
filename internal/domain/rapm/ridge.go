package rapm

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/rapm/pkg/logger"
)

// Defaults for the estimator.
const (
	DefaultFolds        = 5
	DefaultMaxCondition = 1e12
)

// DefaultLambdas are the candidates searched when none are given.
func DefaultLambdas() []float64 { return []float64{0.01, 0.05, 0.1} }

// Alpha converts a lambda into the penalty on the sum of squared coefficients.
func Alpha(lambda float64, samples int) float64 {
	return lambda * float64(samples) / 2
}

// RidgeOption applies a configuration option to the Ridge estimator.
type RidgeOption func(*Ridge)

// WithLambdas sets the candidate lambdas.
func WithLambdas(lambdas []float64) RidgeOption {
	return func(r *Ridge) {
		r.lambdas = append([]float64(nil), lambdas...)
	}
}

// WithFolds sets the number of cross-validation folds.
func WithFolds(k int) RidgeOption {
	return func(r *Ridge) {
		r.folds = k
	}
}

// WithMaxCondition sets the largest condition number accepted for the regularized system.
func WithMaxCondition(c float64) RidgeOption {
	return func(r *Ridge) {
		if c > 1 {
			r.maxCond = c
		}
	}
}

// WithRidgeLogger sets the logger.
func WithRidgeLogger(l logger.Logger) RidgeOption {
	return func(r *Ridge) {
		if l != nil {
			r.log = l
		}
	}
}

// Ridge fits a weighted ridge regression with an unpenalized intercept and
// picks the penalty by k-fold cross-validation.
type Ridge struct {
	lambdas []float64
	folds   int
	maxCond float64
	log     logger.Logger
}

// NewRidge creates an estimator.
func NewRidge(opts ...RidgeOption) *Ridge {
	r := &Ridge{
		lambdas: DefaultLambdas(),
		folds:   DefaultFolds,
		maxCond: DefaultMaxCondition,
		log:     logger.Discard(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Fit is a fitted model.
type Fit struct {
	Coef      []float64 // 2N coefficients, offense block then defense block
	Intercept float64
	Lambda    float64
	Alpha     float64
	// CVError is the mean held-out weighted squared error per candidate, in
	// candidate order. +Inf marks a candidate whose fold systems could not be solved.
	CVError []float64
}

// Predict returns the fitted value of row i of x.
func (f Fit) Predict(x *CSR, i int) float64 {
	return f.Intercept + x.RowDot(i, f.Coef)
}

// moments holds weighted sufficient statistics of a row set.
type moments struct {
	p    int
	gram []float64 // X'WX, p*p row major
	xs   []float64 // X'w
	xy   []float64 // X'Wy
	sw   float64
	swy  float64
}

func newMoments(p int) *moments {
	return &moments{p: p, gram: make([]float64, p*p), xs: make([]float64, p), xy: make([]float64, p)}
}

func (m *moments) add(x *CSR, y, w []float64, i int, sign float64) {
	idx, vals := x.Row(i)
	wi := sign * w[i]
	for a, ca := range idx {
		va := wi * vals[a]
		m.xs[ca] += va
		m.xy[ca] += va * y[i]
		row := m.gram[ca*m.p:]
		for b, cb := range idx {
			row[cb] += va * vals[b]
		}
	}
	m.sw += wi
	m.swy += wi * y[i]
}

func (m *moments) copyFrom(o *moments) {
	copy(m.gram, o.gram)
	copy(m.xs, o.xs)
	copy(m.xy, o.xy)
	m.sw, m.swy = o.sw, o.swy
}

// solve returns coefficients and intercept for penalty alpha, centering the
// design by its weighted column means.
func (m *moments) solve(alpha, maxCond float64) ([]float64, float64, error) {
	if m.sw <= 0 {
		return nil, 0, ErrNoRows
	}
	p := m.p
	xbar := make([]float64, p)
	for j := range xbar {
		xbar[j] = m.xs[j] / m.sw
	}
	ybar := m.swy / m.sw

	a := make([]float64, p*p)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			v := m.gram[i*p+j] - m.sw*xbar[i]*xbar[j]
			a[i*p+j] = v
			a[j*p+i] = v
		}
		a[i*p+i] += alpha
	}
	b := make([]float64, p)
	for j := range b {
		b[j] = m.xy[j] - m.sw*xbar[j]*ybar
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(mat.NewSymDense(p, a)); !ok {
		return nil, 0, fmt.Errorf("%w: not positive definite at alpha %g", ErrRankDeficient, alpha)
	}
	if c := chol.Cond(); c > maxCond || math.IsNaN(c) {
		return nil, 0, fmt.Errorf("%w: condition number %.3g exceeds %.3g at alpha %g", ErrRankDeficient, c, maxCond, alpha)
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, mat.NewVecDense(p, b)); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, 0, fmt.Errorf("%w: %w", ErrRankDeficient, err)
		}
		return nil, 0, fmt.Errorf("solve: %w", err)
	}

	coef := make([]float64, p)
	intercept := ybar
	for j := range coef {
		coef[j] = beta.AtVec(j)
		intercept -= xbar[j] * coef[j]
	}
	for _, v := range coef {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, 0, ErrNonFinite
		}
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, 0, ErrNonFinite
	}
	return coef, intercept, nil
}

// folds splits n rows into k contiguous folds; the first n%k folds get one extra row.
func folds(n, k int) [][2]int {
	out := make([][2]int, k)
	size, extra := n/k, n%k
	start := 0
	for i := 0; i < k; i++ {
		end := start + size
		if i < extra {
			end++
		}
		out[i] = [2]int{start, end}
		start = end
	}
	return out
}

// Fit selects a lambda by cross-validation and refits on every row.
func (r *Ridge) Fit(ctx context.Context, d *Design) (Fit, error) {
	if len(r.lambdas) == 0 {
		return Fit{}, ErrNoLambdas
	}
	for _, l := range r.lambdas {
		if !(l > 0) || math.IsInf(l, 0) {
			return Fit{}, fmt.Errorf("%w: lambda %v", ErrNoLambdas, l)
		}
	}
	n, p := d.X.Dims()
	if n == 0 {
		return Fit{}, ErrNoRows
	}
	if r.folds < 2 || r.folds > n {
		return Fit{}, fmt.Errorf("%w: %d folds for %d rows", ErrInvalidFolds, r.folds, n)
	}

	total := newMoments(p)
	for i := 0; i < n; i++ {
		total.add(d.X, d.Y, d.Weights, i, 1)
	}

	cvErr := make([]float64, len(r.lambdas))
	train := newMoments(p)
	for _, f := range folds(n, r.folds) {
		if err := ctx.Err(); err != nil {
			return Fit{}, fmt.Errorf("cross-validation: %w", err)
		}
		train.copyFrom(total)
		for i := f[0]; i < f[1]; i++ {
			train.add(d.X, d.Y, d.Weights, i, -1)
		}
		for li, l := range r.lambdas {
			if math.IsInf(cvErr[li], 1) {
				continue
			}
			coef, b, err := train.solve(Alpha(l, n), r.maxCond)
			if err != nil {
				r.log.Debug(ctx, "lambda candidate unsolvable on fold",
					logger.Float64("lambda", l), logger.Int("fold_start", f[0]), logger.Error(err))
				cvErr[li] = math.Inf(1)
				continue
			}
			sse, sw := 0.0, 0.0
			for i := f[0]; i < f[1]; i++ {
				res := d.Y[i] - (b + d.X.RowDot(i, coef))
				sse += d.Weights[i] * res * res
				sw += d.Weights[i]
			}
			cvErr[li] += sse / sw / float64(r.folds)
		}
	}

	best := -1
	for i, e := range cvErr {
		if math.IsInf(e, 1) || math.IsNaN(e) {
			continue
		}
		if best < 0 || e < cvErr[best] {
			best = i
		}
	}
	if best < 0 {
		return Fit{}, fmt.Errorf("%w: no lambda candidate survived cross-validation", ErrRankDeficient)
	}

	lambda := r.lambdas[best]
	alpha := Alpha(lambda, n)
	coef, intercept, err := total.solve(alpha, r.maxCond)
	if err != nil {
		return Fit{}, err
	}
	r.log.Info(ctx, "ridge fit",
		logger.Int("rows", n), logger.Int("columns", p),
		logger.Float64("lambda", lambda), logger.Float64("cv_error", cvErr[best]))
	return Fit{Coef: coef, Intercept: intercept, Lambda: lambda, Alpha: alpha, CVError: cvErr}, nil
}
