package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/catalog"
	"github.com/litescript/ls-satfinder/internal/guidance"
	"github.com/litescript/ls-satfinder/internal/obstacle"
	"github.com/litescript/ls-satfinder/internal/pointing"
	"github.com/litescript/ls-satfinder/internal/report"
	"github.com/litescript/ls-satfinder/internal/state"
)

func (s *Server) registerRoutes() {
	v1 := s.app.Group("/api/v1")

	v1.Get("/satellites", s.listSatellites)
	v1.Get("/satellites/visible", s.visibleSatellites)
	v1.Get("/pointing", s.handlePointing)
	v1.Post("/guidance", s.handleGuidance)
	v1.Post("/obstacle", s.handleObstacle)

	session := v1.Group("/session", s.requireSession)
	session.Get("/", s.sessionSnapshot)
	session.Put("/target", s.sessionTarget)
	session.Post("/save", s.sessionSave)
}

func (s *Server) listSatellites(c *fiber.Ctx) error {
	sats := s.deps.Catalog.All()
	if region := c.Query("region"); region != "" {
		sats = s.deps.Catalog.ByRegion(region)
	}
	return c.JSON(fiber.Map{
		"count":      len(sats),
		"regions":    s.deps.Catalog.Regions(),
		"satellites": sats,
	})
}

func (s *Server) visibleSatellites(c *fiber.Ctx) error {
	lat, err := queryFloat(c, "lat")
	if err != nil {
		return err
	}
	lon, err := queryFloat(c, "lon")
	if err != nil {
		return err
	}
	if lat == nil || lon == nil {
		return fiber.NewError(fiber.StatusBadRequest, "lat and lon query parameters are required")
	}
	alt, err := queryFloat(c, "alt")
	if err != nil {
		return err
	}
	pos := astro.GeoPosition{LatitudeDeg: *lat, LongitudeDeg: *lon}
	if alt != nil {
		pos.AltitudeM = *alt
	}

	minElev := s.deps.MinElevation
	if v, err := queryFloat(c, "min_elevation"); err != nil {
		return err
	} else if v != nil {
		minElev = *v
	}
	opts, err := s.pointingOptions(c.Query("profile"), c.Query("tier"), c.QueryBool("legacy", false))
	if err != nil {
		return err
	}

	cands, err := s.deps.Catalog.Visible(pos, minElev, catalog.VisibleOptions{
		Pointing:     opts,
		FrequencyGHz: s.deps.FrequencyGHz,
	})
	if err != nil {
		return err
	}
	s.deps.Metrics.ObserveComputation(opts.Tier.String())
	if !c.QueryBool("all", false) {
		cands = catalog.VisibleOnly(cands)
	}
	if cands == nil {
		cands = []catalog.Candidate{}
	}

	return c.JSON(fiber.Map{
		"observer":      pos,
		"min_elevation": minElev,
		"count":         len(cands),
		"satellites":    cands,
	})
}

func (s *Server) handlePointing(c *fiber.Ctx) error {
	req, err := targetFromQuery(c)
	if err != nil {
		return err
	}
	t, err := s.resolve(req)
	if err != nil {
		return err
	}
	return c.JSON(report.ExportTarget(t, s.deps.Now()))
}

func (s *Server) handleGuidance(c *fiber.Ctx) error {
	var req guidanceRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	opts := guidance.Options{
		AzimuthTolerance:   req.AzimuthTolerance,
		ElevationTolerance: req.ElevationTolerance,
	}

	if req.Target != nil {
		target := pointing.Angles{AzimuthDeg: req.Target.Azimuth, ElevationDeg: req.Target.Elevation}
		sample := req.sample()
		res, err := guidance.Guide(sample.Orientation(), target, opts)
		if err != nil {
			return err
		}
		m, err := guidance.Assess(sample.Orientation(), target)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"guidance": res, "metrics": m, "locked": res.Locked()})
	}

	if s.deps.Session == nil {
		return fiber.NewError(fiber.StatusBadRequest, "target is required when no session is running")
	}
	if req.AzimuthTolerance != 0 || req.ElevationTolerance != 0 {
		return fiber.NewError(fiber.StatusBadRequest, "session tolerances are set with PUT /api/v1/session/target")
	}
	res, err := s.deps.Session.Update(req.sample())
	if err != nil {
		if !errors.Is(err, state.ErrNoTarget) {
			s.deps.Metrics.ObserveInvalidSample()
		}
		return err
	}
	snap := s.deps.Session.Snapshot()
	s.deps.Metrics.ObserveGuidance(res.Direction.String(), res.Confidence, snap.Last.Signal, res.Locked())

	return c.JSON(fiber.Map{
		"guidance": res,
		"metrics":  snap.Metrics,
		"locked":   snap.Locked,
		"signal":   snap.Last.Signal,
		"obstacle": snap.Obstacle,
	})
}

func (s *Server) handleObstacle(c *fiber.Ctx) error {
	var req obstacleRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	var (
		v   obstacle.Verdict
		err error
	)
	if req.TargetElevation != nil {
		v, err = obstacle.FromProfile(*req.TargetElevation, req.Surrounding)
	} else {
		v, err = obstacle.FromHistory(req.History)
	}
	if err != nil {
		return err
	}
	return c.JSON(v)
}

func (s *Server) requireSession(c *fiber.Ctx) error {
	if s.deps.Session == nil {
		return fiber.NewError(fiber.StatusNotFound, "no alignment session")
	}
	return c.Next()
}

func (s *Server) sessionSnapshot(c *fiber.Ctx) error {
	return c.JSON(s.deps.Session.Snapshot())
}

func (s *Server) sessionTarget(c *fiber.Ctx) error {
	var req targetRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	t, err := s.resolve(req)
	if err != nil {
		return err
	}
	s.deps.Session.SetGuidanceOptions(req.guidanceOptions(s.deps.Guidance))
	s.deps.Session.SetTarget(t)
	s.deps.Metrics.ObserveTarget(t.Angles.AzimuthDeg, t.Angles.ElevationDeg)
	s.log.Info("target set: %s az=%.2f el=%.2f", t.Satellite.Name, t.Angles.AzimuthDeg, t.Angles.ElevationDeg)

	return c.JSON(report.ExportTarget(t, s.deps.Now()))
}

func (s *Server) sessionSave(c *fiber.Ctx) error {
	rec, err := report.NewRecord(s.deps.Session.Snapshot(), s.deps.Now())
	if err != nil {
		return err
	}
	path, err := report.Save(s.deps.RecordsDir, rec)
	if err != nil {
		return err
	}
	s.deps.Session.MarkSaved(rec.ID)
	s.log.Info("alignment saved to %s", path)

	return c.Status(fiber.StatusCreated).JSON(rec)
}
