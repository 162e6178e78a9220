package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/landcover/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())
	assert.Equal(t, []int{1, 2, 4, 3, 5, 0}, p.QA.Hierarchy())
}

func TestBandsSorted(t *testing.T) {
	bands := Bands{
		0: "blue",
		1: "green",
		2: "red",
		4: "swir1",
		3: "nir",
		5: "swir2",
		6: "thermal",
	}
	assert.Equal(t,
		[]string{"blue", "green", "red", "nir", "swir1", "swir2", "thermal"},
		bands.Sorted())
}

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	validYAML := `
qa:
  fill: 0
  clear: 1
  water: 2
  shadow: 3
  snow: 4
  cloud: 5
  nan: -1
ccd:
  begin_day: 100
  end_day: 200
  coef_count: 3
  bands:
    1: green
    0: blue
rf:
  target_samples: 4
  class_min: 1
  class_max: 2
  train_exclude: [1]
  estimators: 10
  seed: 7
  recode:
    12: 11
log_level: debug
`
	validPath := filepath.Join(tempDir, "valid.yaml")
	require.NoError(t, os.WriteFile(validPath, []byte(validYAML), 0o644))

	p, err := Load(validPath)
	require.NoError(t, err)
	assert.Equal(t, -1, p.QA.NaN)
	assert.Equal(t, []string{"blue", "green"}, p.CCD.Bands.Sorted())
	assert.Equal(t, 3, p.CCD.CoefCount)
	assert.Equal(t, []int{1}, p.RF.TrainExclude)
	assert.Equal(t, map[int]int{12: 11}, p.RF.Recode)
	assert.Equal(t, uint64(7), p.RF.Seed)
	assert.Equal(t, "debug", p.LogLevel)

	_, err = Load(filepath.Join(tempDir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseKeepsDefaultsForMissingSections(t *testing.T) {
	p, err := Parse([]byte("rf:\n  target_samples: 10\n  class_min: 0\n  class_max: 5\n  estimators: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, Default().QA, p.QA)
	assert.Equal(t, Default().CCD.Bands.Sorted(), p.CCD.Bands.Sorted())
	assert.Equal(t, 10, p.RF.TargetSamples)
	assert.Empty(t, p.RF.TrainExclude)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		param string
	}{
		{
			name:  "duplicate qa offset",
			yaml:  "qa: {fill: 0, clear: 1, water: 1, shadow: 3, snow: 4, cloud: 5, nan: 255}",
			param: "qa.water",
		},
		{
			name:  "nan collides",
			yaml:  "qa: {fill: 0, clear: 1, water: 2, shadow: 3, snow: 4, cloud: 5, nan: 5}",
			param: "qa.nan",
		},
		{
			name:  "offset too large",
			yaml:  "qa: {fill: 63, clear: 1, water: 2, shadow: 3, snow: 4, cloud: 5, nan: 255}",
			param: "qa.fill",
		},
		{
			name:  "inverted window",
			yaml:  "ccd: {begin_day: 10, end_day: 5, coef_count: 2, bands: {0: blue}}",
			param: "ccd.begin_day",
		},
		{
			name:  "no bands",
			yaml:  "ccd: {begin_day: 1, end_day: 5, coef_count: 2}",
			param: "ccd.bands",
		},
		{
			name:  "duplicate band name",
			yaml:  "ccd: {begin_day: 1, end_day: 5, coef_count: 2, bands: {0: blue, 1: blue}}",
			param: "ccd.bands",
		},
		{
			name:  "class max below min",
			yaml:  "rf: {target_samples: 5, class_min: 3, class_max: 2, estimators: 1}",
			param: "rf.class_max",
		},
		{
			name:  "no estimators",
			yaml:  "rf: {target_samples: 5, class_min: 0, class_max: 2, estimators: 0}",
			param: "rf.estimators",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			var valErr *errors.ValidationError
			require.True(t, errors.As(err, &valErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.param, valErr.ParamName)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("rf:\n  target_sample: 10\n"))
	assert.Error(t, err)
}
