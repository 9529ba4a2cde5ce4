package dto

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/KirMaid/CloudCS-Lab1/internal/domain"
	apperrors "github.com/KirMaid/CloudCS-Lab1/internal/pkg/errors"
	"github.com/KirMaid/CloudCS-Lab1/internal/validator"
)

// Field error kinds reported in 422 responses
const (
	ErrTypeMissing    = "value_error.missing"
	ErrTypeJSONDecode = "value_error.jsondecode"
	ErrTypeDict       = "type_error.dict"
	ErrTypeFloat      = "type_error.float"
	ErrTypeInteger    = "type_error.integer"
)

// PredictionRequest is the body of POST /predictions.
// Pointers distinguish an absent field from a zero value.
type PredictionRequest struct {
	CulmenLengthMM  *float64 `json:"culmen_length_mm" validate:"required"`
	CulmenDepthMM   *float64 `json:"culmen_depth_mm" validate:"required"`
	FlipperLengthMM *float64 `json:"flipper_length_mm" validate:"required"`
	BodyMassG       *float64 `json:"body_mass_g" validate:"required"`
	Sex             *int     `json:"sex" validate:"required"`
	IslandBiscoe    *int     `json:"island_Biscoe" validate:"required"`
	IslandDream     *int     `json:"island_Dream" validate:"required"`
	IslandTorgersen *int     `json:"island_Torgersen" validate:"required"`
}

// ToDomain converts a validated request into a FeatureRecord
func (r *PredictionRequest) ToDomain() domain.FeatureRecord {
	return domain.FeatureRecord{
		CulmenLengthMM:  *r.CulmenLengthMM,
		CulmenDepthMM:   *r.CulmenDepthMM,
		FlipperLengthMM: *r.FlipperLengthMM,
		BodyMassG:       *r.BodyMassG,
		Sex:             *r.Sex,
		IslandBiscoe:    *r.IslandBiscoe,
		IslandDream:     *r.IslandDream,
		IslandTorgersen: *r.IslandTorgersen,
	}
}

// PredictionResponse is the body of a successful prediction
type PredictionResponse struct {
	Species string `json:"species"`
}

type fieldTarget struct {
	name    string
	set     func(value any) bool
	errType string
	errMsg  string
}

func (r *PredictionRequest) targets() []fieldTarget {
	const (
		floatMsg = "value is not a valid float"
		intMsg   = "value is not a valid integer"
	)
	return []fieldTarget{
		{domain.FeatureCulmenLength, setFloat(&r.CulmenLengthMM), ErrTypeFloat, floatMsg},
		{domain.FeatureCulmenDepth, setFloat(&r.CulmenDepthMM), ErrTypeFloat, floatMsg},
		{domain.FeatureFlipperLength, setFloat(&r.FlipperLengthMM), ErrTypeFloat, floatMsg},
		{domain.FeatureBodyMass, setFloat(&r.BodyMassG), ErrTypeFloat, floatMsg},
		{domain.FeatureSex, setInt(&r.Sex), ErrTypeInteger, intMsg},
		{domain.FeatureIslandBiscoe, setInt(&r.IslandBiscoe), ErrTypeInteger, intMsg},
		{domain.FeatureIslandDream, setInt(&r.IslandDream), ErrTypeInteger, intMsg},
		{domain.FeatureIslandTorgersen, setInt(&r.IslandTorgersen), ErrTypeInteger, intMsg},
	}
}

func setFloat(dst **float64) func(any) bool {
	return func(value any) bool {
		f, ok := coerceFloat(value)
		if ok {
			*dst = &f
		}
		return ok
	}
}

func setInt(dst **int) func(any) bool {
	return func(value any) bool {
		n, ok := coerceInt(value)
		if ok {
			*dst = &n
		}
		return ok
	}
}

// coerceFloat accepts JSON numbers and numeric strings
func coerceFloat(value any) (float64, bool) {
	var s string
	switch v := value.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	default:
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// coerceInt accepts JSON integers, integral floats such as 1.0 and decimal
// integer strings. Fractional values are rejected.
func coerceInt(value any) (int, bool) {
	switch v := value.(type) {
	case json.Number:
		if n, err := strconv.Atoi(v.String()); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) >= 1<<53 {
			return 0, false
		}
		return int(f), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// decodeScalar decodes one field value, keeping numbers as json.Number
func decodeScalar(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// ParseFeatureRecord decodes and validates a prediction request body.
// Every field is checked so one response reports all problems at once.
// Numeric strings are coerced, and integral floats are accepted for integer
// fields.
// Unknown fields are ignored. The island indicators are not cross-checked.
func ParseFeatureRecord(body []byte) (domain.FeatureRecord, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.FeatureRecord{}, apperrors.Unprocessable(apperrors.FieldError{
			Loc: []string{"body"}, Msg: "field required", Type: ErrTypeMissing,
		})
	}
	if !json.Valid(body) {
		return domain.FeatureRecord{}, apperrors.Unprocessable(apperrors.FieldError{
			Loc: []string{"body"}, Msg: "invalid JSON body", Type: ErrTypeJSONDecode,
		})
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.FeatureRecord{}, apperrors.Unprocessable(apperrors.FieldError{
			Loc: []string{"body"}, Msg: "value is not a valid dict", Type: ErrTypeDict,
		})
	}

	var req PredictionRequest
	byField := make(map[string]apperrors.FieldError)

	for _, t := range req.targets() {
		value, ok := raw[t.name]
		if !ok {
			continue
		}
		decoded, err := decodeScalar(value)
		if err == nil && decoded == nil {
			// null is reported as missing by the required check
			continue
		}
		if err != nil || !t.set(decoded) {
			byField[t.name] = apperrors.FieldError{
				Loc: []string{"body", t.name}, Msg: t.errMsg, Type: t.errType,
			}
		}
	}

	if err := validator.Validate(&req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.FeatureRecord{}, err
		}
		for _, v := range verrs {
			if _, seen := byField[v.Field]; seen {
				continue
			}
			byField[v.Field] = apperrors.FieldError{
				Loc: []string{"body", v.Field}, Msg: v.Message, Type: ErrTypeMissing,
			}
		}
	}

	if len(byField) > 0 {
		fields := make([]apperrors.FieldError, 0, len(byField))
		for _, name := range domain.FeatureNames {
			if fe, ok := byField[name]; ok {
				fields = append(fields, fe)
			}
		}
		return domain.FeatureRecord{}, apperrors.Unprocessable(fields...)
	}

	return req.ToDomain(), nil
}
