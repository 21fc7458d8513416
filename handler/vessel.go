package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hullzero/server/core/models"
	"hullzero/server/core/service"

	"github.com/gin-gonic/gin"
)

// VesselHandler handles vessel registration and data ingestion requests.
type VesselHandler struct {
	vesselService *service.VesselService
	exportService *service.ExportService
}

// NewVesselHandler creates a new vessel handler.
func NewVesselHandler(vesselService *service.VesselService, exportService *service.ExportService) *VesselHandler {
	return &VesselHandler{
		vesselService: vesselService,
		exportService: exportService,
	}
}

// CreateVessel handles POST /hullzero/vessels
func (h *VesselHandler) CreateVessel(c *gin.Context) {
	var vessel models.VesselProfile
	if err := c.ShouldBindJSON(&vessel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid vessel payload",
			"detail": err.Error(),
		})
		return
	}

	if err := h.vesselService.CreateVessel(&vessel); err != nil {
		respondError(c, err, "Failed to create vessel")
		return
	}

	c.JSON(http.StatusCreated, vessel)
}

// ListVessels handles GET /hullzero/vessels
func (h *VesselHandler) ListVessels(c *gin.Context) {
	vessels, err := h.vesselService.ListVessels()
	if err != nil {
		respondError(c, err, "Failed to list vessels")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vessels": vessels,
		"count":   len(vessels),
	})
}

// GetVessel handles GET /hullzero/vessels/:id
func (h *VesselHandler) GetVessel(c *gin.Context) {
	vessel, err := h.vesselService.GetVessel(c.Param("id"))
	if err != nil {
		respondError(c, err, "Vessel not found")
		return
	}

	c.JSON(http.StatusOK, vessel)
}

// UpdateVessel handles PUT /hullzero/vessels/:id
func (h *VesselHandler) UpdateVessel(c *gin.Context) {
	var vessel models.VesselProfile
	if err := c.ShouldBindJSON(&vessel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid vessel payload",
			"detail": err.Error(),
		})
		return
	}
	vessel.ID = c.Param("id")

	if err := h.vesselService.UpdateVessel(&vessel); err != nil {
		respondError(c, err, "Failed to update vessel")
		return
	}

	c.JSON(http.StatusOK, vessel)
}

// DeleteVessel handles DELETE /hullzero/vessels/:id
func (h *VesselHandler) DeleteVessel(c *gin.Context) {
	if err := h.vesselService.DeleteVessel(c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete vessel")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vessel deleted successfully",
		"id":      c.Param("id"),
	})
}

// RecordSample handles POST /hullzero/vessels/:id/samples
func (h *VesselHandler) RecordSample(c *gin.Context) {
	var sample models.OperationalSample
	if err := c.ShouldBindJSON(&sample); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid sample payload",
			"detail": err.Error(),
		})
		return
	}
	sample.VesselID = c.Param("id")

	if err := h.vesselService.RecordSample(&sample); err != nil {
		respondError(c, err, "Failed to record sample")
		return
	}

	c.JSON(http.StatusCreated, sample)
}

// RecordSampleBatch handles POST /hullzero/vessels/:id/samples/batch
func (h *VesselHandler) RecordSampleBatch(c *gin.Context) {
	var samples []*models.OperationalSample
	if err := c.ShouldBindJSON(&samples); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid sample batch payload",
			"detail": err.Error(),
		})
		return
	}

	vesselID := c.Param("id")
	for _, s := range samples {
		s.VesselID = vesselID
	}

	if err := h.vesselService.RecordSampleBatch(samples); err != nil {
		respondError(c, err, "Failed to record sample batch")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Samples recorded successfully",
		"count":   len(samples),
	})
}

// GetSamples handles GET /hullzero/vessels/:id/samples
// Query parameters:
//   - from: RFC3339 timestamp (default: 30 days ago)
//   - to: RFC3339 timestamp (default: now)
func (h *VesselHandler) GetSamples(c *gin.Context) {
	from, to, err := parseTimeRange(c, 30*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid time range",
			"detail": err.Error(),
		})
		return
	}

	samples, err := h.vesselService.GetSamples(c.Param("id"), from, to)
	if err != nil {
		respondError(c, err, "Failed to load samples")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"samples": samples,
		"count":   len(samples),
	})
}

// RecordMaintenance handles POST /hullzero/vessels/:id/maintenance
func (h *VesselHandler) RecordMaintenance(c *gin.Context) {
	var event models.MaintenanceEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid maintenance payload",
			"detail": err.Error(),
		})
		return
	}
	event.VesselID = c.Param("id")

	if err := h.vesselService.RecordMaintenance(&event); err != nil {
		respondError(c, err, "Failed to record maintenance event")
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetMaintenance handles GET /hullzero/vessels/:id/maintenance
func (h *VesselHandler) GetMaintenance(c *gin.Context) {
	limit := parseLimit(c, 100)

	events, err := h.vesselService.GetMaintenance(c.Param("id"), limit)
	if err != nil {
		respondError(c, err, "Failed to load maintenance events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// RecordInspection handles POST /hullzero/vessels/:id/inspections
func (h *VesselHandler) RecordInspection(c *gin.Context) {
	var inspection models.InspectionRecord
	if err := c.ShouldBindJSON(&inspection); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid inspection payload",
			"detail": err.Error(),
		})
		return
	}
	inspection.VesselID = c.Param("id")

	if err := h.vesselService.RecordInspection(&inspection); err != nil {
		respondError(c, err, "Failed to record inspection")
		return
	}

	c.JSON(http.StatusCreated, inspection)
}

// GetInspections handles GET /hullzero/vessels/:id/inspections
func (h *VesselHandler) GetInspections(c *gin.Context) {
	limit := parseLimit(c, 100)

	inspections, err := h.vesselService.GetInspections(c.Param("id"), limit)
	if err != nil {
		respondError(c, err, "Failed to load inspections")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inspections": inspections,
		"count":       len(inspections),
	})
}

// ExportHistory handles GET /hullzero/vessels/:id/export
// Downloads the vessel's recorded history as a ZIP of CSV files.
func (h *VesselHandler) ExportHistory(c *gin.Context) {
	from, to, err := parseTimeRange(c, 365*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid time range",
			"detail": err.Error(),
		})
		return
	}

	vesselID := c.Param("id")
	filename := fmt.Sprintf("vessel_%s_%s.zip", vesselID, to.Format("20060102"))

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := h.exportService.CreateHistoryArchive(vesselID, from, to, c.Writer); err != nil {
		// Headers are already sent; the truncated archive signals failure.
		c.Status(http.StatusInternalServerError)
	}
}

func parseLimit(c *gin.Context, def int) int {
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			return limit
		}
	}
	return def
}

func parseTimeRange(c *gin.Context, defaultSpan time.Duration) (time.Time, time.Time, error) {
	to := time.Now()
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}

	from := to.Add(-defaultSpan)
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}

	return from, to, nil
}
