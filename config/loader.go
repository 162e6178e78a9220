package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/YuminosukeSato/landcover/pkg/errors"
)

// fileParams mirrors Params with optional sections; a missing section keeps its default.
type fileParams struct {
	QA       *QAInfo  `yaml:"qa"`
	CCD      *CCDInfo `yaml:"ccd"`
	RF       *RFInfo  `yaml:"rf"`
	LogLevel string   `yaml:"log_level"`
}

// Default returns the Landsat ARD parameter set.
func Default() Params {
	return Params{
		QA: QAInfo{
			Fill:   0,
			Clear:  1,
			Water:  2,
			Shadow: 3,
			Snow:   4,
			Cloud:  5,
			NaN:    255,
		},
		CCD: CCDInfo{
			BeginDay:  729755,
			EndDay:    730850,
			CoefCount: 8,
			Bands: Bands{
				0: "blue",
				1: "green",
				2: "red",
				3: "nir",
				4: "swir1",
				5: "swir2",
				6: "thermal",
			},
		},
		RF: RFInfo{
			TargetSamples: 20000,
			ClassMin:      600,
			ClassMax:      8000,
			TrainExclude:  []int{0},
			Estimators:    500,
			Seed:          42,
		},
		LogLevel: "info",
	}
}

// Load reads and validates a YAML parameter file.
func Load(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, errors.Wrapf(err, "failed to read parameter file %s", path)
	}
	return Parse(data)
}

// Parse decodes YAML parameters over Default and validates the result.
// Sections are replaced whole, never merged key by key.
func Parse(data []byte) (Params, error) {
	var fp fileParams
	if err := yaml.UnmarshalStrict(data, &fp); err != nil {
		return Params{}, errors.Wrap(err, "failed to parse parameters")
	}

	p := Default()
	if fp.QA != nil {
		p.QA = *fp.QA
	}
	if fp.CCD != nil {
		p.CCD = *fp.CCD
	}
	if fp.RF != nil {
		p.RF = *fp.RF
	}
	if fp.LogLevel != "" {
		p.LogLevel = fp.LogLevel
	}

	if err := p.Validate(); err != nil {
		return Params{}, errors.Wrap(err, "invalid parameters")
	}
	return p, nil
}
