package forest

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// StratifiedSplit partitions sample indices into train and test sets so that
// each class keeps its proportion. testFrac is the share held out per class.
func StratifiedSplit(y []int, testFrac float64, seed uint64) (train, test []int, err error) {
	if testFrac <= 0 || testFrac >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %v", testFrac)
	}
	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	labels := make([]int, 0, len(byClass))
	for label := range byClass {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for _, label := range labels {
		idx := byClass[label]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		nTest := int(math.Round(float64(len(idx)) * testFrac))
		if len(idx) > 1 {
			nTest = min(max(nTest, 1), len(idx)-1)
		}
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}
	slices.Sort(train)
	slices.Sort(test)
	return train, test, nil
}
