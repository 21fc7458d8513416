package service

import (
	"context"
	"log"
	"time"

	"hullzero/server/core/models"
	"hullzero/server/utils/config"
)

// Broadcaster pushes fleet updates to connected clients. The websocket
// hub implements it; a nil broadcaster disables pushes.
type Broadcaster interface {
	Broadcast(v interface{})
}

// FleetUpdate is one vessel's monitoring result pushed to subscribers.
type FleetUpdate struct {
	VesselID    string    `json:"vessel_id"`
	VesselName  string    `json:"vessel_name"`
	ThicknessMM float64   `json:"thickness_mm"`
	RoughnessUM float64   `json:"roughness_um"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	Score       float64   `json:"compliance_score"`
	CheckedAt   time.Time `json:"checked_at"`
}

// FleetMonitor periodically re-evaluates every vessel's fouling state and
// conformity, persisting the snapshots and pushing updates to
// subscribers.
type FleetMonitor struct {
	decisions   *DecisionService
	broadcaster Broadcaster
	cfg         config.MonitorConfig
}

// NewFleetMonitor creates a fleet monitor. broadcaster may be nil.
func NewFleetMonitor(decisions *DecisionService, broadcaster Broadcaster, cfg config.MonitorConfig) *FleetMonitor {
	return &FleetMonitor{
		decisions:   decisions,
		broadcaster: broadcaster,
		cfg:         cfg,
	}
}

// Run executes the monitoring loop until ctx is cancelled.
func (m *FleetMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	log.Printf("Fleet monitor started (interval: %v)", m.cfg.Interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("Fleet monitor stopped")
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep runs one monitoring pass over the whole fleet.
func (m *FleetMonitor) Sweep() {
	vessels, err := m.decisions.vesselRepo.List()
	if err != nil {
		log.Printf("Fleet monitor failed to list vessels: %v", err)
		return
	}

	log.Printf("Fleet monitor sweep: %d vessels", len(vessels))

	for _, v := range vessels {
		m.checkVessel(v)
	}
}

// checkVessel refreshes one vessel's estimate and conformity snapshot.
// Vessels without telemetry yet are skipped quietly.
func (m *FleetMonitor) checkVessel(v *models.VesselProfile) {
	estimate, err := m.decisions.PredictFouling(v.ID)
	if err != nil {
		if models.KindOf(err) == models.KindInsufficientHistory {
			return
		}
		log.Printf("Fleet monitor: prediction failed for vessel %s: %v", v.Name, err)
		return
	}

	status, err := m.decisions.CheckConformity(v.ID)
	if err != nil {
		log.Printf("Fleet monitor: conformity check failed for vessel %s: %v", v.Name, err)
		return
	}

	if status.Status != models.StatusCompliant {
		log.Printf("Fleet monitor: vessel %s is %s (%.2f mm, score %.2f)",
			v.Name, status.Status, estimate.ThicknessMM, status.ComplianceScore)
	}

	if m.broadcaster != nil {
		m.broadcaster.Broadcast(FleetUpdate{
			VesselID:    v.ID,
			VesselName:  v.Name,
			ThicknessMM: estimate.ThicknessMM,
			RoughnessUM: estimate.RoughnessUM,
			Severity:    estimate.Severity,
			Status:      status.Status,
			Score:       status.ComplianceScore,
			CheckedAt:   status.CheckedAt,
		})
	}
}
