package handler

import (
	"net/http"
	"strconv"
	"time"

	"hullzero/server/core/fuel"
	"hullzero/server/core/schedule"
	"hullzero/server/core/service"

	"github.com/gin-gonic/gin"
)

// DecisionHandler handles the decision-pipeline HTTP requests.
type DecisionHandler struct {
	decisionService *service.DecisionService
}

// NewDecisionHandler creates a new decision handler.
func NewDecisionHandler(decisionService *service.DecisionService) *DecisionHandler {
	return &DecisionHandler{
		decisionService: decisionService,
	}
}

// PredictFouling handles POST /hullzero/vessels/:id/fouling/predict
func (h *DecisionHandler) PredictFouling(c *gin.Context) {
	estimate, err := h.decisionService.PredictFouling(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to predict fouling")
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// GetLatestFouling handles GET /hullzero/vessels/:id/fouling/latest
func (h *DecisionHandler) GetLatestFouling(c *gin.Context) {
	estimate, err := h.decisionService.LatestFouling(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get latest fouling estimate")
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// EstimateFuelImpact handles GET /hullzero/vessels/:id/fuel-impact
// Query parameters:
//   - attribution: boolean (default true; "false" suppresses the split)
func (h *DecisionHandler) EstimateFuelImpact(c *gin.Context) {
	opts := fuel.Options{
		DisableAttribution: c.Query("attribution") == "false",
	}

	result, err := h.decisionService.EstimateFuelImpact(c.Param("id"), opts)
	if err != nil {
		respondError(c, err, "Failed to estimate fuel impact")
		return
	}

	c.JSON(http.StatusOK, result)
}

// CheckConformity handles POST /hullzero/vessels/:id/conformity/check
func (h *DecisionHandler) CheckConformity(c *gin.Context) {
	status, err := h.decisionService.CheckConformity(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to check conformity")
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetLatestConformity handles GET /hullzero/vessels/:id/conformity/latest
func (h *DecisionHandler) GetLatestConformity(c *gin.Context) {
	status, err := h.decisionService.LatestConformity(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get latest conformity status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// ForecastRisk handles GET /hullzero/vessels/:id/risk
// Query parameters:
//   - horizon: integer days (default from configuration)
func (h *DecisionHandler) ForecastRisk(c *gin.Context) {
	horizon := 0
	if horizonStr := c.Query("horizon"); horizonStr != "" {
		parsed, err := strconv.Atoi(horizonStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Horizon must be a positive integer",
			})
			return
		}
		horizon = parsed
	}

	forecasts, err := h.decisionService.ForecastRisk(c.Param("id"), horizon)
	if err != nil {
		respondError(c, err, "Failed to forecast risk")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"forecasts": forecasts,
		"count":     len(forecasts),
	})
}

// recommendRequest carries the optional scheduling constraints.
type recommendRequest struct {
	Availability    []schedule.Window `json:"availability,omitempty"`
	DrydockCapacity map[string]int    `json:"drydock_capacity,omitempty"`
}

// RecommendCleaning handles POST /hullzero/vessels/:id/recommendations
func (h *DecisionHandler) RecommendCleaning(c *gin.Context) {
	var req recommendRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Invalid constraints payload",
				"detail": err.Error(),
			})
			return
		}
	}

	rec, err := h.decisionService.RecommendCleaning(c.Param("id"), schedule.Options{
		Availability:    req.Availability,
		DrydockCapacity: req.DrydockCapacity,
	})
	if err != nil {
		respondError(c, err, "Failed to build recommendation")
		return
	}

	c.JSON(http.StatusOK, rec)
}

// SelectCleaningMethod handles GET /hullzero/vessels/:id/cleaning-method
// Query parameters:
//   - budget: float (0 = unconstrained)
//   - time_budget_hours: float (0 = unconstrained)
//   - urgency: string (preventive, normal, urgent, critical)
func (h *DecisionHandler) SelectCleaningMethod(c *gin.Context) {
	budget, _ := strconv.ParseFloat(c.DefaultQuery("budget", "0"), 64)
	timeBudget, _ := strconv.ParseFloat(c.DefaultQuery("time_budget_hours", "0"), 64)

	selection, err := h.decisionService.SelectCleaningMethod(c.Param("id"), budget, timeBudget, c.Query("urgency"))
	if err != nil {
		respondError(c, err, "Failed to select cleaning method")
		return
	}

	c.JSON(http.StatusOK, selection)
}

// DetectAnomalies handles GET /hullzero/vessels/:id/anomalies
// Query parameters:
//   - from, to: RFC3339 timestamps (default: last 6 months)
func (h *DecisionHandler) DetectAnomalies(c *gin.Context) {
	var from, to time.Time
	var err error
	if fromStr := c.Query("from"); fromStr != "" {
		if from, err = time.Parse(time.RFC3339, fromStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from timestamp"})
			return
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err = time.Parse(time.RFC3339, toStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to timestamp"})
			return
		}
	}

	anomalies, err := h.decisionService.DetectAnomalies(c.Param("id"), from, to)
	if err != nil {
		respondError(c, err, "Failed to detect anomalies")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"anomalies": anomalies,
		"count":     len(anomalies),
	})
}

// AssessInvasiveSpecies handles GET /hullzero/vessels/:id/species-risk
func (h *DecisionHandler) AssessInvasiveSpecies(c *gin.Context) {
	risks, err := h.decisionService.AssessInvasiveSpecies(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to assess invasive species risk")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"risks": risks,
		"count": len(risks),
	})
}

// Train handles POST /hullzero/vessels/:id/train
func (h *DecisionHandler) Train(c *gin.Context) {
	if err := h.decisionService.Train(c.Param("id")); err != nil {
		respondError(c, err, "Failed to train models")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Models trained successfully",
		"id":      c.Param("id"),
	})
}

// FleetSummary handles GET /hullzero/fleet/summary
func (h *DecisionHandler) FleetSummary(c *gin.Context) {
	summary, err := h.decisionService.FleetSummary()
	if err != nil {
		respondError(c, err, "Failed to build fleet summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}
