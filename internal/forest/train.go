package forest

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"
)

// Params controls forest training.
type Params struct {
	NTrees          int
	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // features tried per split; 0 means sqrt(n)
	Seed            uint64
}

// DefaultParams mirrors a typical random forest setup: 200 fully grown
// trees with sqrt(n) candidate features per split.
func DefaultParams() Params {
	return Params{
		NTrees:          200,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            42,
	}
}

// Train fits a scaler and a forest on x/y. Classes are the sorted distinct labels in y.
func Train(x [][]float64, y []int, p Params) (*Model, error) {
	if len(x) == 0 {
		return nil, errors.New("no training samples")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("features and labels size mismatch: %d vs %d", len(x), len(y))
	}
	if p.NTrees <= 0 {
		return nil, fmt.Errorf("n_trees must be positive, got %d", p.NTrees)
	}
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = 2
	}
	if p.MinSamplesLeaf < 1 {
		p.MinSamplesLeaf = 1
	}

	scaler, err := FitScaler(x)
	if err != nil {
		return nil, err
	}
	nFeatures := len(x[0])
	if p.MaxFeatures <= 0 || p.MaxFeatures > nFeatures {
		p.MaxFeatures = max(1, int(math.Sqrt(float64(nFeatures))))
	}

	classes := distinct(y)
	if len(classes) < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", len(classes))
	}
	classIdx := make(map[int]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}

	b := &builder{
		x:        make([][]float64, len(x)),
		y:        make([]int, len(y)),
		nClasses: len(classes),
		params:   p,
		rng:      rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15)),
	}
	for i := range x {
		if b.x[i], err = scaler.Transform(x[i]); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		b.y[i] = classIdx[y[i]]
	}

	trees := make([]Tree, p.NTrees)
	for t := range trees {
		trees[t] = b.tree(b.bootstrap())
	}

	return &Model{
		Type:      TypeRandomForest,
		Classes:   classes,
		NFeatures: nFeatures,
		Scaler:    scaler,
		Trees:     trees,
	}, nil
}

type builder struct {
	x        [][]float64
	y        []int
	nClasses int
	params   Params
	rng      *rand.Rand
}

func (b *builder) bootstrap() []int {
	idx := make([]int, len(b.x))
	for i := range idx {
		idx[i] = b.rng.IntN(len(b.x))
	}
	return idx
}

func (b *builder) tree(samples []int) Tree {
	var nodes []Node
	b.grow(&nodes, samples, 0)
	return Tree{Nodes: nodes}
}

// grow appends the subtree for samples in pre-order and returns its root index.
func (b *builder) grow(nodes *[]Node, samples []int, depth int) int {
	counts := b.counts(samples)
	self := len(*nodes)
	*nodes = append(*nodes, Node{Feature: -1, Left: -1, Right: -1})

	stop := len(samples) < b.params.MinSamplesSplit ||
		(b.params.MaxDepth > 0 && depth >= b.params.MaxDepth) ||
		pure(counts)
	if !stop {
		if feat, thr, ok := b.bestSplit(samples, counts); ok {
			var left, right []int
			for _, s := range samples {
				if b.x[s][feat] <= thr {
					left = append(left, s)
				} else {
					right = append(right, s)
				}
			}
			l := b.grow(nodes, left, depth+1)
			r := b.grow(nodes, right, depth+1)
			(*nodes)[self] = Node{Feature: feat, Threshold: thr, Left: l, Right: r}
			return self
		}
	}

	value := make([]float64, b.nClasses)
	for c, n := range counts {
		value[c] = float64(n) / float64(len(samples))
	}
	(*nodes)[self].Value = value
	return self
}

// bestSplit sweeps each candidate feature in sorted order and picks the
// threshold with the lowest weighted Gini impurity.
func (b *builder) bestSplit(samples []int, counts []int) (int, float64, bool) {
	nFeatures := len(b.x[0])
	candidates := b.rng.Perm(nFeatures)[:b.params.MaxFeatures]

	bestFeat, bestThr := -1, 0.0
	bestScore := gini(counts, len(samples))
	order := append([]int(nil), samples...)
	left := make([]int, b.nClasses)
	right := make([]int, b.nClasses)
	minLeaf := b.params.MinSamplesLeaf

	for _, f := range candidates {
		sort.Slice(order, func(i, j int) bool { return b.x[order[i]][f] < b.x[order[j]][f] })
		clear(left)
		copy(right, counts)
		for i := 0; i < len(order)-1; i++ {
			c := b.y[order[i]]
			left[c]++
			right[c]--
			nl, nr := i+1, len(order)-i-1
			lo, hi := b.x[order[i]][f], b.x[order[i+1]][f]
			if lo == hi || nl < minLeaf || nr < minLeaf {
				continue
			}
			n := float64(len(order))
			score := float64(nl)/n*gini(left, nl) + float64(nr)/n*gini(right, nr)
			if score < bestScore {
				thr := lo + (hi-lo)/2
				if thr >= hi {
					thr = lo
				}
				bestScore, bestFeat, bestThr = score, f, thr
			}
		}
	}
	return bestFeat, bestThr, bestFeat >= 0
}

func (b *builder) counts(samples []int) []int {
	c := make([]int, b.nClasses)
	for _, s := range samples {
		c[b.y[s]]++
	}
	return c
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		g -= p * p
	}
	return g
}

func pure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func distinct(y []int) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, v := range y {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
