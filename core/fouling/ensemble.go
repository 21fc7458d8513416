package fouling

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"hullzero/server/core/models"
)

// MinTrainingSamples is the history size below which the ensemble stays
// untrained and the hybrid predictor drops its weight to zero.
const MinTrainingSamples = 50

const validationFraction = 0.2

// rngSeed fixes the ensemble's randomness so identical histories produce
// identical models.
const rngSeed = 401

// baseRegressor is one member of the ensemble.
type baseRegressor interface {
	name() string
	fit(x [][]float64, y []float64, rng *rand.Rand) error
	predict(x []float64) float64
	importances() []float64
}

// Ensemble is a best-effort thickness regressor: four tree-based learners
// weighted by validation R-squared. Each instance is owned by a single
// caller; concurrent callers train their own.
type Ensemble struct {
	bases   []baseRegressor
	weights []float64
	valR2   []float64
	scaler  *robustScaler
	trained bool
}

// NewEnsemble returns an untrained ensemble with the fixed base
// configuration: two gradient boosters, a random forest and an
// extra-trees variant.
func NewEnsemble() *Ensemble {
	return &Ensemble{
		bases: []baseRegressor{
			newGradientBooster("gbr-shallow", 200, 6, 0.05),
			newGradientBooster("gbr-deep", 200, 8, 0.05),
			newForest("random-forest", 200, 12, 0.7, false),
			newForest("extra-trees", 200, 12, 0.7, true),
		},
	}
}

// Trained reports whether Train completed successfully.
func (e *Ensemble) Trained() bool {
	return e.trained
}

// Train fits the ensemble on the supplied history. Returns an
// insufficient-history error (and stays untrained) below
// MinTrainingSamples; base-level fit failures are logged and drop the
// base for this model, falling back when every base fails.
func (e *Ensemble) Train(x [][]float64, y []float64) error {
	if len(x) != len(y) {
		return models.NewInvalidInput("ensemble.train", errors.New("feature and target lengths differ"))
	}
	if len(x) < MinTrainingSamples {
		return models.NewInsufficientHistory("ensemble.train",
			fmt.Errorf("need at least %d samples, got %d", MinTrainingSamples, len(x)))
	}

	rng := rand.New(rand.NewSource(rngSeed))

	// Hold out the validation tail after a deterministic shuffle.
	perm := rng.Perm(len(x))
	nVal := int(validationFraction * float64(len(x)))
	if nVal < 1 {
		nVal = 1
	}
	var trainX, valX [][]float64
	var trainY, valY []float64
	for i, p := range perm {
		if i < len(x)-nVal {
			trainX = append(trainX, x[p])
			trainY = append(trainY, y[p])
		} else {
			valX = append(valX, x[p])
			valY = append(valY, y[p])
		}
	}

	e.scaler = fitRobustScaler(trainX)
	trainX = e.scaler.transformAll(trainX)
	valX = e.scaler.transformAll(valX)

	kept := e.bases[:0:0]
	var r2s []float64
	for _, b := range e.bases {
		if err := b.fit(trainX, trainY, rng); err != nil {
			log.Printf("ensemble: base %s failed to fit, dropping: %v", b.name(), err)
			continue
		}
		r2 := validationR2(b, valX, valY)
		if math.IsNaN(r2) {
			log.Printf("ensemble: base %s produced NaN validation score, dropping", b.name())
			continue
		}
		kept = append(kept, b)
		r2s = append(r2s, math.Max(0, r2))
	}
	if len(kept) == 0 {
		e.trained = false
		return models.NewModelFit("ensemble.train", errors.New("every base regressor failed to fit"))
	}

	// Weights proportional to validation R-squared; equal when all floored.
	var total float64
	for _, r := range r2s {
		total += r
	}
	weights := make([]float64, len(r2s))
	for i := range weights {
		if total > 0 {
			weights[i] = r2s[i] / total
		} else {
			weights[i] = 1 / float64(len(r2s))
		}
	}

	e.bases = kept
	e.weights = weights
	e.valR2 = r2s
	e.trained = true
	return nil
}

// Predict returns the weighted ensemble prediction together with the
// per-base predictions so the hybrid layer can display them.
func (e *Ensemble) Predict(features []float64) (float64, []float64, error) {
	if !e.trained {
		return 0, nil, models.NewInsufficientHistory("ensemble.predict", errors.New("ensemble is untrained"))
	}
	scaled := e.scaler.transform(features)
	perBase := make([]float64, len(e.bases))
	var sum float64
	for i, b := range e.bases {
		perBase[i] = b.predict(scaled)
		sum += e.weights[i] * perBase[i]
	}
	return sum, perBase, nil
}

// ValidationScores returns the per-base validation R-squared values.
func (e *Ensemble) ValidationScores() []float64 {
	return e.valR2
}

// FeatureImportances returns the normalised importances of the best base
// by validation score, or nil when untrained.
func (e *Ensemble) FeatureImportances() []float64 {
	if !e.trained {
		return nil
	}
	best := 0
	for i, r := range e.valR2 {
		if r > e.valR2[best] {
			best = i
		}
	}
	imp := e.bases[best].importances()
	var total float64
	for _, v := range imp {
		total += v
	}
	if total == 0 {
		return imp
	}
	out := make([]float64, len(imp))
	for i, v := range imp {
		out[i] = v / total
	}
	return out
}

func validationR2(b baseRegressor, valX [][]float64, valY []float64) float64 {
	pred := make([]float64, len(valY))
	for i, x := range valX {
		pred[i] = b.predict(x)
	}
	return stat.RSquaredFrom(pred, valY, nil)
}

// robustScaler centres by median and scales by IQR, so port-stay and
// thickness outliers do not dominate the feature space.
type robustScaler struct {
	median []float64
	iqr    []float64
}

func fitRobustScaler(x [][]float64) *robustScaler {
	n := len(x[0])
	s := &robustScaler{median: make([]float64, n), iqr: make([]float64, n)}
	col := make([]float64, len(x))
	for j := 0; j < n; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		sort.Float64s(col)
		s.median[j] = stat.Quantile(0.5, stat.Empirical, col, nil)
		iqr := stat.Quantile(0.75, stat.Empirical, col, nil) - stat.Quantile(0.25, stat.Empirical, col, nil)
		if iqr == 0 {
			iqr = 1
		}
		s.iqr[j] = iqr
	}
	return s
}

func (s *robustScaler) transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.median[j]) / s.iqr[j]
	}
	return out
}

func (s *robustScaler) transformAll(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.transform(row)
	}
	return out
}

// gradientBooster is a least-squares gradient-boosted tree ensemble.
type gradientBooster struct {
	id           string
	rounds       int
	depth        int
	learningRate float64
	init         float64
	trees        []*regressionTree
}

func newGradientBooster(id string, rounds, depth int, lr float64) *gradientBooster {
	return &gradientBooster{id: id, rounds: rounds, depth: depth, learningRate: lr}
}

func (g *gradientBooster) name() string { return g.id }

func (g *gradientBooster) fit(x [][]float64, y []float64, rng *rand.Rand) error {
	if len(x) == 0 {
		return errors.New("empty training set")
	}
	g.init = stat.Mean(y, nil)
	residual := make([]float64, len(y))
	current := make([]float64, len(y))
	for i := range current {
		current[i] = g.init
	}
	g.trees = g.trees[:0]
	for r := 0; r < g.rounds; r++ {
		for i := range y {
			residual[i] = y[i] - current[i]
		}
		t := newRegressionTree(treeConfig{maxDepth: g.depth, minLeaf: 3})
		t.fit(x, residual, rng)
		g.trees = append(g.trees, t)
		for i := range current {
			current[i] += g.learningRate * t.predict(x[i])
		}
	}
	return nil
}

func (g *gradientBooster) predict(x []float64) float64 {
	out := g.init
	for _, t := range g.trees {
		out += g.learningRate * t.predict(x)
	}
	return out
}

func (g *gradientBooster) importances() []float64 {
	return sumImportances(g.trees)
}

// forest is a bagged tree ensemble; with randomSplits it becomes the
// extra-trees variant.
type forest struct {
	id           string
	size         int
	depth        int
	featureFrac  float64
	randomSplits bool
	trees        []*regressionTree
}

func newForest(id string, size, depth int, featureFrac float64, randomSplits bool) *forest {
	return &forest{id: id, size: size, depth: depth, featureFrac: featureFrac, randomSplits: randomSplits}
}

func (f *forest) name() string { return f.id }

func (f *forest) fit(x [][]float64, y []float64, rng *rand.Rand) error {
	if len(x) == 0 {
		return errors.New("empty training set")
	}
	f.trees = f.trees[:0]
	bx := make([][]float64, len(x))
	by := make([]float64, len(y))
	for n := 0; n < f.size; n++ {
		for i := range x {
			p := rng.Intn(len(x))
			bx[i] = x[p]
			by[i] = y[p]
		}
		t := newRegressionTree(treeConfig{
			maxDepth:     f.depth,
			minLeaf:      2,
			featureFrac:  f.featureFrac,
			randomSplits: f.randomSplits,
		})
		t.fit(bx, by, rng)
		f.trees = append(f.trees, t)
	}
	return nil
}

func (f *forest) predict(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}

func (f *forest) importances() []float64 {
	return sumImportances(f.trees)
}

func sumImportances(trees []*regressionTree) []float64 {
	if len(trees) == 0 {
		return nil
	}
	out := make([]float64, len(trees[0].importance))
	for _, t := range trees {
		for i, v := range t.importance {
			out[i] += v
		}
	}
	return out
}
