// Package landcover assembles training and inference feature vectors for a
// per-pixel land-cover classifier.
//
// Three inputs are combined per pixel: the piecewise curve fits of a
// change-detection algorithm, the bit-packed quality words of every
// observation, and static terrain covariates. The random forest itself is an
// external collaborator reached through the core/model.Classifier interface.
//
// # Quick Start
//
//	params, err := config.Load("params.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, err := features.NewPipeline(params, []string{"elevation", "slope"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ts, err := p.BuildTrainingSet(inputs, labels, sampling.NewGenerator(params.RF.Seed))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := p.Train(forest, ts); err != nil {
//	    log.Fatal(err)
//	}
//	predictions, err := p.Classify(forest, inputs)
//
// # Packages
//
//   - qa: QA word decoding and cloud, snow and water probabilities
//   - change: change-model extraction, coverage filtering, JSON and msgpack codecs
//   - sampling: class-stratified subsampling with quota clamping
//   - features: column layout, feature assembly and the training/inference pipeline
//   - config: YAML parameters for the QA, change-model and sampling stages
//   - core/model: classifier contract, fitted state and a prior-only baseline
//   - core/parallel: chunked row-parallel helpers
//   - pkg/errors, pkg/log: typed errors and structured logging
//
// # Column layout
//
// Every feature row is ordered
//
//	[coefficients][rmse][terrain covariates][cloud_prob][snow_prob][water_prob]
//
// and training and inference must use the same features.Layout.
package landcover
