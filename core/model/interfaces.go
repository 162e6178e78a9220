// Package model defines the contract between the feature pipeline and the external classifier.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is implemented by models that learn from a feature matrix and a label column.
type Fitter interface {
	// Fit trains on X (n_samples x n_features) and y (n_samples x 1).
	Fit(X, y mat.Matrix) error
}

// ProbabilisticPredictor returns one probability per class and sample.
type ProbabilisticPredictor interface {
	// PredictProba returns an n_samples x n_classes matrix whose columns follow Classes().
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the sorted class labels seen during Fit.
	Classes() []int
}

// Classifier is the fit / predict_proba / classes_ contract of the random forest.
type Classifier interface {
	Fitter
	ProbabilisticPredictor
}
