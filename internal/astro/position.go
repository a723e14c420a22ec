package astro

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxAltitudeM bounds observer altitude. Above it the standard-atmosphere
// lapse rate drives the temperature term below absolute zero.
const MaxAltitudeM = 40000.0

// ErrInvalidInput marks inputs rejected at the engine boundary.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes a single rejected field.
type InputError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// GeoPosition is an observer location. The zero value is a valid position
// (0°N 0°E at sea level).
type GeoPosition struct {
	LatitudeDeg  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	LongitudeDeg float64 `json:"longitude" validate:"gte=-180,lte=180"`
	AltitudeM    float64 `json:"altitude_m" validate:"gte=0,lte=40000"`
}

// NewGeoPosition builds a validated position.
func NewGeoPosition(latDeg, lonDeg, altM float64) (GeoPosition, error) {
	p := GeoPosition{LatitudeDeg: latDeg, LongitudeDeg: lonDeg, AltitudeM: altM}
	if err := p.Validate(); err != nil {
		return GeoPosition{}, err
	}
	return p, nil
}

// Validate rejects non-finite or out-of-range coordinates.
func (p GeoPosition) Validate() error {
	switch {
	case !IsFinite(p.LatitudeDeg):
		return &InputError{Field: "latitude", Value: p.LatitudeDeg, Reason: "must be finite"}
	case !IsFinite(p.LongitudeDeg):
		return &InputError{Field: "longitude", Value: p.LongitudeDeg, Reason: "must be finite"}
	case !IsFinite(p.AltitudeM):
		return &InputError{Field: "altitude_m", Value: p.AltitudeM, Reason: "must be finite"}
	}
	return ValidateStruct(p)
}

// String renders the position as "30.0000°N 31.0000°E 0m".
func (p GeoPosition) String() string {
	ns, ew := "N", "E"
	lat, lon := p.LatitudeDeg, p.LongitudeDeg
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lon < 0 {
		ew, lon = "W", -lon
	}
	return fmt.Sprintf("%.4f°%s %.4f°%s %.0fm", lat, ns, lon, ew, p.AltitudeM)
}

// ValidateLongitude checks an orbital or geographic longitude.
func ValidateLongitude(field string, lonDeg float64) error {
	if !IsFinite(lonDeg) {
		return &InputError{Field: field, Value: lonDeg, Reason: "must be finite"}
	}
	if lonDeg < -180 || lonDeg > 180 {
		return &InputError{Field: field, Value: lonDeg, Reason: "must be within [-180, 180]"}
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct runs the shared validator over s and converts the first
// failure into an *InputError. Callers outside this package use it for their
// own request types so every boundary reports ErrInvalidInput the same way.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fe := verrs[0]
	return &InputError{Field: fe.Field(), Value: fe.Value(), Reason: describeTag(fe.Tag(), fe.Param())}
}

func describeTag(tag, param string) string {
	switch tag {
	case "gte", "min":
		return "must be >= " + param
	case "lte", "max":
		return "must be <= " + param
	case "gt":
		return "must be > " + param
	case "lt":
		return "must be < " + param
	case "required":
		return "is required"
	case "oneof":
		return "must be one of [" + param + "]"
	default:
		if param != "" {
			return tag + "=" + param
		}
		return tag
	}
}
