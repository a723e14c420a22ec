package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/catalog"
	"github.com/litescript/ls-satfinder/internal/guidance"
	"github.com/litescript/ls-satfinder/internal/pointing"
	"github.com/litescript/ls-satfinder/internal/sensor"
	"github.com/litescript/ls-satfinder/internal/state"
)

// targetRequest identifies an observer and a satellite, by catalog name or
// by orbital longitude.
type targetRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	AltitudeM float64  `json:"altitude_m" validate:"gte=0,lte=40000"`
	Satellite string   `json:"satellite" validate:"required_without=SatLon"`
	SatLon    *float64 `json:"satellite_longitude" validate:"omitempty,gte=-180,lte=180"`
	Profile   string   `json:"profile"`
	Tier      string   `json:"tier"`
	Legacy    bool     `json:"legacy_azimuth"`
	FreqGHz   float64  `json:"frequency_ghz" validate:"gte=0,lte=100"`

	// Lock tolerances for the session; zero keeps the server default.
	AzimuthTolerance   float64 `json:"azimuth_tolerance" validate:"gte=0,lte=45"`
	ElevationTolerance float64 `json:"elevation_tolerance" validate:"gte=0,lte=45"`
}

// guidanceRequest is one orientation sample. With Target set it is
// evaluated statelessly; otherwise it feeds the live session, whose
// tolerances are fixed by PUT /api/v1/session/target.
type guidanceRequest struct {
	Azimuth   *float64        `json:"azimuth" validate:"required"`
	Elevation *float64        `json:"elevation" validate:"required,gte=-90,lte=90"`
	Signal    *float64        `json:"signal" validate:"omitempty,gte=0,lte=100"`
	Target    *orientationDTO `json:"target"`

	AzimuthTolerance   float64 `json:"azimuth_tolerance" validate:"gte=0,lte=45"`
	ElevationTolerance float64 `json:"elevation_tolerance" validate:"gte=0,lte=45"`
}

type orientationDTO struct {
	Azimuth   float64 `json:"azimuth" validate:"gte=0,lt=360"`
	Elevation float64 `json:"elevation" validate:"gte=0,lte=90"`
}

// obstacleRequest selects profile mode when TargetElevation is set and
// signal-history mode otherwise.
type obstacleRequest struct {
	History         []float64 `json:"history" validate:"dive,gte=0,lte=100"`
	TargetElevation *float64  `json:"target_elevation" validate:"omitempty,gte=0,lte=90"`
	Surrounding     []float64 `json:"surrounding" validate:"dive,gte=-90,lte=90"`
}

func (g guidanceRequest) sample() sensor.Sample {
	s := sensor.Sample{AzimuthDeg: *g.Azimuth, ElevationDeg: *g.Elevation}
	if g.Signal != nil {
		s.Signal, s.HasSignal = *g.Signal, true
	}
	return s
}

// guidanceOptions overlays the request tolerances on the server defaults.
func (r targetRequest) guidanceOptions(def guidance.Options) guidance.Options {
	if r.AzimuthTolerance > 0 {
		def.AzimuthTolerance = r.AzimuthTolerance
	}
	if r.ElevationTolerance > 0 {
		def.ElevationTolerance = r.ElevationTolerance
	}
	return def
}

// bindJSON decodes the body into dst and validates it.
func bindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body: "+err.Error())
	}
	return astro.ValidateStruct(dst)
}

// targetFromQuery reads a targetRequest from query parameters.
func targetFromQuery(c *fiber.Ctx) (targetRequest, error) {
	var req targetRequest
	var err error
	if req.Latitude, err = queryFloat(c, "lat"); err != nil {
		return req, err
	}
	if req.Longitude, err = queryFloat(c, "lon"); err != nil {
		return req, err
	}
	if req.SatLon, err = queryFloat(c, "sat_lon"); err != nil {
		return req, err
	}
	alt, err := queryFloat(c, "alt")
	if err != nil {
		return req, err
	}
	if alt != nil {
		req.AltitudeM = *alt
	}
	freq, err := queryFloat(c, "freq")
	if err != nil {
		return req, err
	}
	if freq != nil {
		req.FreqGHz = *freq
	}
	req.Satellite = c.Query("satellite")
	req.Profile = c.Query("profile")
	req.Tier = c.Query("tier")
	req.Legacy = c.QueryBool("legacy", false)

	return req, astro.ValidateStruct(req)
}

// resolve turns a validated request into a solved target, filling blanks
// from the server defaults.
func (s *Server) resolve(req targetRequest) (state.Target, error) {
	obs, err := astro.NewGeoPosition(*req.Latitude, *req.Longitude, req.AltitudeM)
	if err != nil {
		return state.Target{}, err
	}

	var sat catalog.Satellite
	if req.SatLon != nil {
		sat = catalog.Satellite{Name: req.Satellite, LongitudeDeg: *req.SatLon}
		if sat.Name == "" {
			sat.Name = "custom"
		}
	} else if sat, err = s.deps.Catalog.Lookup(req.Satellite); err != nil {
		return state.Target{}, err
	}

	opts, err := s.pointingOptions(req.Profile, req.Tier, req.Legacy)
	if err != nil {
		return state.Target{}, err
	}
	freq := req.FreqGHz
	if freq == 0 {
		freq = s.deps.FrequencyGHz
	}

	t, err := state.NewTarget(obs, sat, opts, freq)
	if err != nil {
		return state.Target{}, err
	}
	s.deps.Metrics.ObserveComputation(opts.Tier.String())
	return t, nil
}

func (s *Server) pointingOptions(profile, tier string, legacy bool) (pointing.Options, error) {
	opts := s.deps.Pointing
	if profile != "" {
		p, err := pointing.ParseProfile(profile)
		if err != nil {
			return opts, err
		}
		opts.Profile = p
	}
	if tier != "" {
		t, err := pointing.ParseTier(tier)
		if err != nil {
			return opts, err
		}
		opts.Tier = t
	}
	if legacy {
		opts.Azimuth = pointing.AzimuthLegacy
	}
	return opts, nil
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !astro.IsFinite(v) {
		return nil, &astro.InputError{Field: key, Value: raw, Reason: "must be a finite number"}
	}
	return &v, nil
}
