package change

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/YuminosukeSato/landcover/pkg/errors"
)

// Keys of a change-model record that are not band sub-records.
const (
	keyChangeModels      = "change_models"
	keyProcedure         = "procedure"
	keyAlgorithm         = "algorithm"
	keyStartDay          = "start_day"
	keyEndDay            = "end_day"
	keyBreakDay          = "break_day"
	keyObservationCount  = "observation_count"
	keyChangeProbability = "change_probability"
	keyCurveQA           = "curve_qa"
	keyCoefficients      = "coefficients"
	keyIntercept         = "intercept"
	keyRMSE              = "rmse"
	keyMagnitude         = "magnitude"
)

// DecodeJSON reads a JSON array of results. Each change model carries its band fits as
// objects keyed by band name next to start_day and end_day.
func DecodeJSON(r io.Reader) ([]Result, error) {
	var raw []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode change results as JSON")
	}
	return resultsFromMaps(raw)
}

// DecodeMsgpack reads results written by EncodeMsgpack or any msgpack producer using the JSON layout.
func DecodeMsgpack(r io.Reader) ([]Result, error) {
	var raw []interface{}
	if err := msgpack.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode change results as msgpack")
	}

	maps := make([]map[string]interface{}, len(raw))
	for i, v := range raw {
		m, ok := asMap(v)
		if !ok {
			return nil, errors.NewValueError("change.DecodeMsgpack", fmt.Sprintf("result %d is not a map", i))
		}
		maps[i] = m
	}
	return resultsFromMaps(maps)
}

// EncodeMsgpack writes results in the same layout DecodeJSON and DecodeMsgpack read.
func EncodeMsgpack(w io.Writer, results []Result) error {
	raw := make([]map[string]interface{}, len(results))
	for i, r := range results {
		models := make([]map[string]interface{}, len(r.ChangeModels))
		for j, m := range r.ChangeModels {
			models[j] = modelToMap(m)
		}
		raw[i] = map[string]interface{}{
			keyChangeModels: models,
			keyProcedure:    r.Procedure,
			keyAlgorithm:    r.Algorithm,
		}
	}

	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return errors.Wrap(enc.Encode(raw), "failed to encode change results")
}

func modelToMap(m Model) map[string]interface{} {
	out := map[string]interface{}{
		keyStartDay:          m.StartDay,
		keyEndDay:            m.EndDay,
		keyBreakDay:          m.BreakDay,
		keyObservationCount:  m.ObservationCount,
		keyChangeProbability: m.ChangeProbability,
		keyCurveQA:           m.CurveQA,
	}
	for name, fit := range m.Bands {
		out[name] = map[string]interface{}{
			keyCoefficients: fit.Coefficients,
			keyIntercept:    fit.Intercept,
			keyRMSE:         fit.RMSE,
			keyMagnitude:    fit.Magnitude,
		}
	}
	return out
}

func resultsFromMaps(raw []map[string]interface{}) ([]Result, error) {
	results := make([]Result, len(raw))
	for i, m := range raw {
		r, err := resultFromMap(m)
		if err != nil {
			return nil, errors.Wrapf(err, "result %d", i)
		}
		results[i] = r
	}
	return results, nil
}

func resultFromMap(m map[string]interface{}) (Result, error) {
	var r Result
	r.Procedure, _ = m[keyProcedure].(string)
	r.Algorithm, _ = m[keyAlgorithm].(string)

	rawModels, ok := m[keyChangeModels].([]interface{})
	if !ok && m[keyChangeModels] != nil {
		return r, errors.NewValueError("change.decode", "change_models is not a list")
	}
	r.ChangeModels = make([]Model, 0, len(rawModels))
	for j, rm := range rawModels {
		mm, ok := asMap(rm)
		if !ok {
			return r, errors.NewValueError("change.decode", fmt.Sprintf("change model %d is not a map", j))
		}
		model, err := modelFromMap(mm)
		if err != nil {
			return r, errors.Wrapf(err, "change model %d", j)
		}
		r.ChangeModels = append(r.ChangeModels, model)
	}
	return r, nil
}

func modelFromMap(m map[string]interface{}) (Model, error) {
	model := Model{Bands: make(map[string]BandFit)}

	ints := []struct {
		key string
		dst *int
	}{
		{keyStartDay, &model.StartDay},
		{keyEndDay, &model.EndDay},
		{keyBreakDay, &model.BreakDay},
		{keyObservationCount, &model.ObservationCount},
		{keyCurveQA, &model.CurveQA},
	}
	for _, f := range ints {
		v, present := m[f.key]
		if !present {
			if f.key == keyStartDay || f.key == keyEndDay {
				return model, errors.NewValueError("change.decode", "missing "+f.key)
			}
			continue
		}
		x, ok := toFloat(v)
		if !ok {
			return model, errors.NewValueError("change.decode", f.key+" is not numeric")
		}
		*f.dst = int(x)
	}
	if v, present := m[keyChangeProbability]; present {
		model.ChangeProbability, _ = toFloat(v)
	}

	for key, v := range m {
		sub, ok := asMap(v)
		if !ok {
			continue
		}
		fit, err := bandFromMap(sub)
		if err != nil {
			return model, errors.Wrapf(err, "band %s", key)
		}
		model.Bands[key] = fit
	}
	return model, nil
}

func bandFromMap(m map[string]interface{}) (BandFit, error) {
	var fit BandFit
	rawCoefs, ok := m[keyCoefficients].([]interface{})
	if !ok {
		return fit, errors.NewValueError("change.decode", "coefficients is not a list")
	}
	fit.Coefficients = make([]float64, len(rawCoefs))
	for i, c := range rawCoefs {
		x, ok := toFloat(c)
		if !ok {
			return fit, errors.NewValueError("change.decode", "coefficient is not numeric")
		}
		fit.Coefficients[i] = x
	}
	if fit.Intercept, ok = toFloat(m[keyIntercept]); !ok {
		return fit, errors.NewValueError("change.decode", "intercept is not numeric")
	}
	if fit.RMSE, ok = toFloat(m[keyRMSE]); !ok {
		return fit, errors.NewValueError("change.decode", "rmse is not numeric")
	}
	fit.Magnitude, _ = toFloat(m[keyMagnitude])
	return fit, nil
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
