package model

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/landcover/pkg/errors"
)

// DummyClassifier predicts the class priors observed during Fit for every sample.
// It ignores the features and serves as a baseline and as a stand-in for the
// random forest when wiring the pipeline.
type DummyClassifier struct {
	state   *StateManager
	classes []int
	priors  []float64
}

// NewDummyClassifier creates an unfitted DummyClassifier.
func NewDummyClassifier() *DummyClassifier {
	return &DummyClassifier{state: NewStateManager()}
}

// Fit records the class frequencies in y.
func (d *DummyClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples != yRows {
		return errors.NewDimensionError("DummyClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("DummyClassifier.Fit", 1, yCols, 1)
	}

	counts := make(map[int]int)
	for i := 0; i < yRows; i++ {
		counts[int(y.At(i, 0))]++
	}
	d.classes = make([]int, 0, len(counts))
	for c := range counts {
		d.classes = append(d.classes, c)
	}
	sort.Ints(d.classes)

	d.priors = make([]float64, len(d.classes))
	for j, c := range d.classes {
		d.priors[j] = float64(counts[c]) / float64(yRows)
	}

	d.state.SetFitted(nFeatures, nSamples)
	return nil
}

// PredictProba returns the priors for each row of X.
func (d *DummyClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := d.state.RequireFitted("DummyClassifier", "PredictProba"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if err := d.state.CheckFeatures("DummyClassifier.PredictProba", cols); err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, len(d.classes), nil)
	for i := 0; i < rows; i++ {
		out.SetRow(i, d.priors)
	}
	return out, nil
}

// Classes returns the sorted labels seen during Fit.
func (d *DummyClassifier) Classes() []int {
	out := make([]int, len(d.classes))
	copy(out, d.classes)
	return out
}
