package main

import (
	"math"
	"math/rand/v2"
)

// Class sizes of the Wisconsin Diagnostic Breast Cancer data.
const (
	builtinMalignant = 212 // label 0
	builtinBenign    = 357 // label 1
)

// classStats is the per-class mean and standard deviation of one column.
type classStats struct {
	name            string
	malMean, malStd float64
	benMean, benStd float64
}

// builtinColumns lists the 30 columns in the standard order with
// per-class summary statistics of the Wisconsin Diagnostic data.
var builtinColumns = []classStats{
	{"mean radius", 17.46, 3.20, 12.15, 1.78},
	{"mean texture", 21.60, 3.78, 17.91, 4.00},
	{"mean perimeter", 115.37, 21.85, 78.08, 11.81},
	{"mean area", 978.4, 367.9, 462.8, 134.3},
	{"mean smoothness", 0.1029, 0.0126, 0.0925, 0.0134},
	{"mean compactness", 0.1452, 0.0540, 0.0801, 0.0337},
	{"mean concavity", 0.1608, 0.0750, 0.0461, 0.0434},
	{"mean concave points", 0.0880, 0.0344, 0.0257, 0.0159},
	{"mean symmetry", 0.1929, 0.0276, 0.1742, 0.0248},
	{"mean fractal dimension", 0.0627, 0.0076, 0.0629, 0.0067},
	{"radius error", 0.6091, 0.3451, 0.2841, 0.1126},
	{"texture error", 1.211, 0.483, 1.220, 0.590},
	{"perimeter error", 4.324, 2.569, 2.000, 0.771},
	{"area error", 72.67, 61.36, 21.14, 8.84},
	{"smoothness error", 0.00678, 0.00289, 0.00720, 0.00306},
	{"compactness error", 0.03228, 0.01839, 0.02144, 0.01635},
	{"concavity error", 0.04182, 0.02161, 0.02600, 0.03292},
	{"concave points error", 0.01506, 0.00555, 0.00986, 0.00571},
	{"symmetry error", 0.02047, 0.01007, 0.02058, 0.00697},
	{"fractal dimension error", 0.00406, 0.00204, 0.00364, 0.00294},
	{"worst radius", 21.13, 4.28, 13.38, 1.98},
	{"worst texture", 29.32, 5.43, 23.52, 5.49},
	{"worst perimeter", 141.37, 29.46, 87.01, 13.53},
	{"worst area", 1422.3, 598.0, 558.9, 163.6},
	{"worst smoothness", 0.1448, 0.0219, 0.1250, 0.0201},
	{"worst compactness", 0.3748, 0.1704, 0.1827, 0.0922},
	{"worst concavity", 0.4506, 0.1812, 0.1662, 0.1404},
	{"worst concave points", 0.1822, 0.0464, 0.0744, 0.0358},
	{"worst symmetry", 0.3235, 0.0746, 0.2702, 0.0417},
	{"worst fractal dimension", 0.0915, 0.0216, 0.0794, 0.0138},
}

// builtinDataset samples a table shaped like the Wisconsin Diagnostic data:
// the same columns and class balance, with each value drawn from its class's
// normal distribution and clamped at zero. It is deterministic per seed.
// Pass -data with the real CSV to train a production model.
func builtinDataset(seed uint64) *dataset {
	rng := rand.New(rand.NewPCG(seed, seed^0x5bd1e995))

	ds := &dataset{features: make([]string, len(builtinColumns))}
	for i, c := range builtinColumns {
		ds.features[i] = c.name
	}

	addRows := func(n, label int) {
		for range n {
			row := make([]float64, len(builtinColumns))
			for i, c := range builtinColumns {
				mean, std := c.benMean, c.benStd
				if label == 0 {
					mean, std = c.malMean, c.malStd
				}
				row[i] = math.Max(0, mean+std*rng.NormFloat64())
			}
			ds.x = append(ds.x, row)
			ds.y = append(ds.y, label)
		}
	}
	addRows(builtinMalignant, 0)
	addRows(builtinBenign, 1)
	return ds
}
