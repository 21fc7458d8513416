package handler

import (
	"net/http"

	"hullzero/server/core/service"

	"github.com/gin-gonic/gin"
)

// EventsHandler exposes the audit trail.
type EventsHandler struct {
	vesselService *service.VesselService
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(vesselService *service.VesselService) *EventsHandler {
	return &EventsHandler{vesselService: vesselService}
}

// ListEvents handles GET /hullzero/events
// Query parameters:
//   - type: string (vessel, ingest, decision, monitor)
//   - vessel: string (vessel id)
//   - limit: integer (default 100)
func (h *EventsHandler) ListEvents(c *gin.Context) {
	events, err := h.vesselService.GetEvents(c.Query("type"), c.Query("vessel"), parseLimit(c, 100))
	if err != nil {
		respondError(c, err, "Failed to load events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}
