package fouling

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is one node of a regression tree. Leaves carry the mean target
// of the samples that reached them.
type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// treeConfig controls how a regression tree is grown.
type treeConfig struct {
	maxDepth     int
	minLeaf      int
	featureFrac  float64 // fraction of features considered per split; 1 = all
	randomSplits bool    // extra-trees style random thresholds
}

// regressionTree is a CART regressor grown by greedy variance reduction.
type regressionTree struct {
	cfg        treeConfig
	root       *treeNode
	importance []float64
}

func newRegressionTree(cfg treeConfig) *regressionTree {
	if cfg.minLeaf < 1 {
		cfg.minLeaf = 2
	}
	if cfg.featureFrac <= 0 || cfg.featureFrac > 1 {
		cfg.featureFrac = 1
	}
	return &regressionTree{cfg: cfg}
}

// fit grows the tree on X (rows of feature vectors) and y.
func (t *regressionTree) fit(x [][]float64, y []float64, rng *rand.Rand) {
	t.importance = make([]float64, len(x[0]))
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.grow(x, y, idx, 0, rng)
}

func (t *regressionTree) grow(x [][]float64, y []float64, idx []int, depth int, rng *rand.Rand) *treeNode {
	if depth >= t.cfg.maxDepth || len(idx) < 2*t.cfg.minLeaf || pureTargets(y, idx) {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}

	feature, threshold, gain := t.bestSplit(x, y, idx, rng)
	if feature < 0 {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.cfg.minLeaf || len(right) < t.cfg.minLeaf {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}

	t.importance[feature] += gain * float64(len(idx))
	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(x, y, left, depth+1, rng),
		right:     t.grow(x, y, right, depth+1, rng),
	}
}

// bestSplit scans candidate features and thresholds for the split with
// the largest weighted variance reduction. Returns feature -1 when no
// useful split exists.
func (t *regressionTree) bestSplit(x [][]float64, y []float64, idx []int, rng *rand.Rand) (int, float64, float64) {
	nFeatures := len(x[0])
	features := candidateFeatures(nFeatures, t.cfg.featureFrac, rng)

	parent := varianceAt(y, idx)
	if parent == 0 {
		return -1, 0, 0
	}

	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	values := make([]float64, 0, len(idx))

	for _, f := range features {
		values = values[:0]
		for _, i := range idx {
			values = append(values, x[i][f])
		}
		sort.Float64s(values)
		lo, hi := values[0], values[len(values)-1]
		if lo == hi {
			continue
		}

		var thresholds []float64
		if t.cfg.randomSplits {
			// Extra-trees draw one uniform threshold per feature.
			thresholds = []float64{lo + rng.Float64()*(hi-lo)}
		} else {
			thresholds = midpoints(values)
		}

		for _, th := range thresholds {
			gain := splitGain(x, y, idx, f, th, parent)
			if gain > bestGain {
				bestFeature, bestThreshold, bestGain = f, th, gain
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}

func (t *regressionTree) predict(x []float64) float64 {
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// splitGain computes the variance reduction of splitting idx on feature f
// at threshold th.
func splitGain(x [][]float64, y []float64, idx []int, f int, th, parentVar float64) float64 {
	var ln, rn int
	var lSum, lSq, rSum, rSq float64
	for _, i := range idx {
		v := y[i]
		if x[i][f] <= th {
			ln++
			lSum += v
			lSq += v * v
		} else {
			rn++
			rSum += v
			rSq += v * v
		}
	}
	if ln == 0 || rn == 0 {
		return 0
	}
	n := float64(ln + rn)
	lVar := lSq/float64(ln) - (lSum/float64(ln))*(lSum/float64(ln))
	rVar := rSq/float64(rn) - (rSum/float64(rn))*(rSum/float64(rn))
	child := (float64(ln)*lVar + float64(rn)*rVar) / n
	return parentVar - child
}

// midpoints returns up to 16 evenly spaced split candidates between
// consecutive distinct sorted values. Capping keeps fit cost bounded on
// large histories.
func midpoints(sorted []float64) []float64 {
	var out []float64
	step := 1
	if len(sorted) > 17 {
		step = len(sorted) / 16
	}
	for i := step; i < len(sorted); i += step {
		if sorted[i] != sorted[i-1] {
			out = append(out, (sorted[i]+sorted[i-1])/2)
		}
	}
	return out
}

func candidateFeatures(n int, frac float64, rng *rand.Rand) []int {
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	if frac >= 1 {
		return all
	}
	k := int(math.Ceil(frac * float64(n)))
	if k < 1 {
		k = 1
	}
	rng.Shuffle(n, func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:k]
}

func meanAt(y []float64, idx []int) float64 {
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func varianceAt(y []float64, idx []int) float64 {
	m := meanAt(y, idx)
	var sq float64
	for _, i := range idx {
		d := y[i] - m
		sq += d * d
	}
	return sq / float64(len(idx))
}

func pureTargets(y []float64, idx []int) bool {
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}
