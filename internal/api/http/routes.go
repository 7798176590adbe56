package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/HassanBassiouny/AQLLM/internal/env"
	"github.com/HassanBassiouny/AQLLM/internal/query"
	"github.com/HassanBassiouny/AQLLM/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *env.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/readings/latest", func(c *fiber.Ctx) error {
		region, err := parseRegionQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := service.Latest(region)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no readings for requested region")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch readings")
		}

		return c.JSON(snapshot)
	})

	v1.Get("/readings/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := service.Range(req.Region, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no reading history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch reading history")
		}

		return c.JSON(fiber.Map{
			"region":    req.Region,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})

	v1.Get("/readings/summary", func(c *fiber.Ctx) error {
		snapshots, err := service.LatestAll()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch summary")
		}

		return c.JSON(fiber.Map{
			"regions":   len(snapshots),
			"snapshots": snapshots,
		})
	})

	v1.Post("/ask", func(c *fiber.Ctx) error {
		var req askRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := service.LatestAll()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch readings")
		}

		q := query.Parse(req.Question)
		return c.JSON(query.Answer(q, snapshots))
	})
}

// askRequest is the body of POST /ask.
type askRequest struct {
	Question string `json:"question" validate:"required,min=1,max=500"`
}

func parseRegionQuery(c *fiber.Ctx) (env.Region, error) {
	name := c.Query("region")
	if name == "" {
		return "", errors.New("region query parameter is required")
	}
	return env.ParseRegion(name)
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Region env.Region `validate:"required"`
	From   time.Time  `validate:"required"`
	To     time.Time  `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	region, err := parseRegionQuery(c)
	if err != nil {
		return err
	}
	h.Region = region

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
