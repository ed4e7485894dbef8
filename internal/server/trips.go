package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/abhinavghub/trip-planner/internal/planner"
)

// TripsHandler serves trip planning requests. Each request drives one
// independent pipeline run over its own state, so concurrent requests need
// no locking.
type TripsHandler struct {
	Workflow *planner.Workflow
	Logger   *log.Logger
}

// PlanTripRequest is the inbound planning request.
type PlanTripRequest struct {
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Preferences string `json:"preferences"`
}

// PlanTripResponse is the planning result returned to clients.
type PlanTripResponse struct {
	Destination string            `json:"destination"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Preferences string            `json:"preferences"`
	Itinerary   []planner.DayPlan `json:"itinerary"`
	Review      map[string]any    `json:"review"`
}

// Register mounts the trip routes on g.
func (h *TripsHandler) Register(g *echo.Group) {
	g.POST("/plan", h.plan)
}

func (h *TripsHandler) plan(c echo.Context) error {
	var req PlanTripRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Destination) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "destination is required")
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return echo.NewHTTPError(http.StatusBadRequest, "end_date must not be before start_date")
	}

	runID := uuid.NewString()
	c.Response().Header().Set("X-Request-ID", runID)

	state := planner.NewTripState(strings.TrimSpace(req.Destination), start, end, req.Preferences)
	result, err := h.Workflow.Run(c.Request().Context(), state)
	if err != nil {
		// only context cancellation reaches here; the pipeline itself
		// always degrades to a valid result
		return echo.NewHTTPError(http.StatusServiceUnavailable, "planning interrupted")
	}

	if h.Logger != nil {
		h.Logger.Printf("run %s: planned %d days for %s", runID, len(result.Itinerary), result.Destination)
	}

	return c.JSON(http.StatusOK, PlanTripResponse{
		Destination: result.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Preferences: req.Preferences,
		Itinerary:   result.Itinerary,
		Review:      result.Review,
	})
}
