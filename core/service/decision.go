package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"hullzero/server/core/anomaly"
	"hullzero/server/core/cleaning"
	"hullzero/server/core/conformity"
	"hullzero/server/core/fouling"
	"hullzero/server/core/fuel"
	"hullzero/server/core/models"
	"hullzero/server/core/repository"
	"hullzero/server/core/risk"
	"hullzero/server/core/schedule"
	"hullzero/server/core/species"
	"hullzero/server/utils/clock"
	"hullzero/server/utils/config"

	"github.com/google/uuid"
)

// Specific fuel oil consumption used to estimate typical consumption when
// no fuel flow telemetry exists, kg per kWh.
const sfocKgPerKWh = 0.19

// featureWindowDays is the telemetry window aggregated into the feature
// bundle for a prediction.
const featureWindowDays = 30

// DecisionService runs the decision pipeline: fouling prediction, fuel
// impact, conformity, risk forecasting, cleaning recommendations, anomaly
// detection and invasive species assessment. Decision artefacts are
// persisted with repository-assigned ids.
type DecisionService struct {
	vesselRepo     *repository.VesselRepository
	sampleRepo     *repository.OperationalSampleRepository
	maintRepo      *repository.MaintenanceRepository
	foulingRepo    *repository.FoulingEstimateRepository
	conformityRepo *repository.ConformityRepository
	inspectionRepo *repository.InspectionRepository
	recRepo        *repository.RecommendationRepository
	eventLogRepo   *repository.EventLogRepository

	predictor  *fouling.Predictor
	fuelModel  *fuel.Model
	checker    *conformity.Checker
	forecaster *risk.Forecaster
	optimizer  *schedule.Optimizer

	cfg config.DecisionConfig
	clk clock.Clock
}

// NewDecisionService wires the decision pipeline from configuration.
func NewDecisionService(
	vesselRepo *repository.VesselRepository,
	sampleRepo *repository.OperationalSampleRepository,
	maintRepo *repository.MaintenanceRepository,
	foulingRepo *repository.FoulingEstimateRepository,
	conformityRepo *repository.ConformityRepository,
	inspectionRepo *repository.InspectionRepository,
	recRepo *repository.RecommendationRepository,
	eventLogRepo *repository.EventLogRepository,
	cfg config.DecisionConfig,
	clk clock.Clock,
) (*DecisionService, error) {
	if clk == nil {
		clk = clock.Real()
	}

	predictor, err := fouling.NewPredictor(cfg.PhysicalWeight, cfg.MLWeight, clk.Now)
	if err != nil {
		return nil, err
	}

	checker := conformity.NewChecker(cfg.MinInspectionIntervalDays, clk.Now)
	optimizer := schedule.NewOptimizer(predictor, checker, schedule.Config{
		FuelPrice:           cfg.FuelPrice,
		BaseCleanCost:       cfg.BaseCleanCost,
		CostPerMM:           cfg.CostPerMM,
		DailyDowntimeCost:   cfg.DailyDowntimeCost,
		CleaningDays:        cfg.CleaningDays,
		PlanningHorizonDays: cfg.PlanningHorizonDays,
		Offsets:             cfg.CandidateOffsets,
	}, clk.Now)

	return &DecisionService{
		vesselRepo:     vesselRepo,
		sampleRepo:     sampleRepo,
		maintRepo:      maintRepo,
		foulingRepo:    foulingRepo,
		conformityRepo: conformityRepo,
		inspectionRepo: inspectionRepo,
		recRepo:        recRepo,
		eventLogRepo:   eventLogRepo,
		predictor:      predictor,
		fuelModel:      fuel.NewModel(),
		checker:        checker,
		forecaster:     risk.NewForecaster(predictor, checker, clk.Now),
		optimizer:      optimizer,
		cfg:            cfg,
		clk:            clk,
	}, nil
}

// PredictFouling builds the feature bundle for a vessel from its telemetry
// and maintenance history, runs the hybrid predictor and persists the
// estimate.
func (s *DecisionService) PredictFouling(vesselID string) (*models.FoulingEstimate, error) {
	features, err := s.BuildFeatures(vesselID)
	if err != nil {
		return nil, err
	}

	estimate, err := s.predictor.Predict(*features)
	if err != nil {
		return nil, err
	}

	estimate.ID = uuid.NewString()
	estimate.VesselID = vesselID
	if err := s.foulingRepo.Create(estimate); err != nil {
		log.Printf("Failed to store fouling estimate for vessel %s: %v", vesselID, err)
		return nil, err
	}

	if estimate.Severity == models.SeveritySevere || estimate.Severity == models.SeverityCritical {
		s.logEvent("decision", "warning", vesselID,
			fmt.Sprintf("Vessel %s fouling is %s (%.2f mm)", vesselID, estimate.Severity, estimate.ThicknessMM))
	}

	return estimate, nil
}

// LatestFouling returns the most recent stored fouling estimate for a
// vessel without running the predictor.
func (s *DecisionService) LatestFouling(vesselID string) (*models.FoulingEstimate, error) {
	if _, err := s.vesselRepo.GetByID(vesselID); err != nil {
		return nil, err
	}
	return s.foulingRepo.GetLatest(vesselID)
}

// LatestConformity returns the most recent stored conformity status for a
// vessel without rerunning the checker.
func (s *DecisionService) LatestConformity(vesselID string) (*models.ConformityStatus, error) {
	if _, err := s.vesselRepo.GetByID(vesselID); err != nil {
		return nil, err
	}
	return s.conformityRepo.GetLatest(vesselID)
}

// EstimateFuelImpact runs the counterfactual fuel model on the vessel's
// latest telemetry and fouling estimate.
func (s *DecisionService) EstimateFuelImpact(vesselID string, opts fuel.Options) (*models.FuelImpactResult, error) {
	vessel, err := s.vesselRepo.GetByID(vesselID)
	if err != nil {
		return nil, err
	}

	sample, err := s.sampleRepo.GetLatest(vesselID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewInsufficientHistory("decision.fuel", errors.New("no operational samples for vessel"))
	}
	if err != nil {
		return nil, err
	}

	estimate, err := s.latestOrFreshEstimate(vesselID)
	if err != nil {
		return nil, err
	}

	features := models.FuelFeatures{
		SpeedKn:       sample.SpeedKn,
		EnginePowerKW: vessel.EnginePowerKW,
		DesignSpeedKn: vessel.TypicalSpeedKn,
		LoadPercent:   sample.LoadPercent,
		WaveHeightM:   sample.WaveHeightM,
		WindSpeedKn:   sample.WindSpeedKn,
		WaterTempC:    sample.WaterTempC,
		ThicknessMM:   estimate.ThicknessMM,
		RoughnessUM:   estimate.RoughnessUM,
	}

	return s.fuelModel.Estimate(features, sample.FuelFlowKgH, opts)
}

// CheckConformity evaluates the vessel's latest fouling state against the
// NORMAM-401 limits and persists the snapshot.
func (s *DecisionService) CheckConformity(vesselID string) (*models.ConformityStatus, error) {
	vessel, err := s.vesselRepo.GetByID(vesselID)
	if err != nil {
		return nil, err
	}

	estimate, err := s.latestOrFreshEstimate(vesselID)
	if err != nil {
		return nil, err
	}

	in := conformity.Input{
		ThicknessMM: estimate.ThicknessMM,
		RoughnessUM: estimate.RoughnessUM,
		VesselType:  vessel.Type,
	}
	if last, err := s.inspectionRepo.GetLatest(vesselID); err == nil {
		in.LastInspectionAt = &last.InspectedAt
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	in.HighRisk = s.highRiskWaters(vesselID)

	status, err := s.checker.Check(in)
	if err != nil {
		return nil, err
	}

	status.ID = uuid.NewString()
	status.VesselID = vesselID
	if err := s.conformityRepo.Create(status); err != nil {
		return nil, err
	}

	if status.Status == models.StatusNonCompliant || status.Status == models.StatusCritical {
		s.logEvent("decision", "error", vesselID,
			fmt.Sprintf("Vessel %s is %s (compliance score %.2f)", vesselID, status.Status, status.ComplianceScore))
	}

	return status, nil
}

// ForecastRisk projects the vessel's conformity risk over the configured
// horizon.
func (s *DecisionService) ForecastRisk(vesselID string, horizonDays int) ([]*models.RiskForecast, error) {
	if horizonDays <= 0 {
		horizonDays = s.cfg.HorizonDays
	}

	features, err := s.BuildFeatures(vesselID)
	if err != nil {
		return nil, err
	}

	forecasts, err := s.forecaster.Forecast(*features, horizonDays, s.cfg.IntervalList)
	if err != nil {
		return nil, err
	}

	for _, f := range forecasts {
		f.VesselID = vesselID
	}
	return forecasts, nil
}

// RecommendCleaning runs the schedule optimizer for a vessel and persists
// the recommendation.
func (s *DecisionService) RecommendCleaning(vesselID string, opts schedule.Options) (*models.Recommendation, error) {
	features, err := s.BuildFeatures(vesselID)
	if err != nil {
		return nil, err
	}

	estimate, err := s.latestOrFreshEstimate(vesselID)
	if err != nil {
		return nil, err
	}

	rec, err := s.optimizer.Recommend(*features, estimate.ThicknessMM, estimate.RoughnessUM, opts)
	if err != nil {
		return nil, err
	}

	rec.ID = uuid.NewString()
	rec.VesselID = vesselID
	if err := s.recRepo.Create(rec); err != nil {
		return nil, err
	}

	s.logEvent("decision", "info", vesselID,
		fmt.Sprintf("Recommendation %s for vessel %s: %s on %s", rec.ID, vesselID, rec.Kind, rec.RecommendedDate.Format("2006-01-02")))

	return rec, nil
}

// SelectCleaningMethod ranks the cleaning-method catalogue against the
// vessel's current fouling state.
func (s *DecisionService) SelectCleaningMethod(vesselID string, budget, timeBudgetHours float64, urgency string) (*cleaning.Selection, error) {
	vessel, err := s.vesselRepo.GetByID(vesselID)
	if err != nil {
		return nil, err
	}

	estimate, err := s.latestOrFreshEstimate(vesselID)
	if err != nil {
		return nil, err
	}

	if urgency == "" {
		urgency = urgencyFromSeverity(estimate.Severity)
	}

	return cleaning.Select(cleaning.Input{
		ThicknessMM:     estimate.ThicknessMM,
		VesselType:      vessel.Type,
		HullAreaM2:      vessel.HullAreaM2,
		Budget:          budget,
		TimeBudgetHours: timeBudgetHours,
		Urgency:         urgency,
	})
}

// DetectAnomalies runs the compliance anomaly detector over the vessel's
// estimate and inspection history in [from, to].
func (s *DecisionService) DetectAnomalies(vesselID string, from, to time.Time) ([]*models.Anomaly, error) {
	if to.IsZero() {
		to = s.clk.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, -6, 0)
	}

	vessel, err := s.vesselRepo.GetByID(vesselID)
	if err != nil {
		return nil, err
	}

	estimates, err := s.foulingRepo.GetRange(vesselID, from, to)
	if err != nil {
		return nil, err
	}

	inspections, err := s.inspectionRepo.GetByVessel(vesselID, 500)
	if err != nil {
		return nil, err
	}

	var points []models.CompliancePoint
	for _, e := range estimates {
		points = append(points, models.CompliancePoint{
			Timestamp:   e.EstimatedAt,
			VesselID:    vesselID,
			ThicknessMM: e.ThicknessMM,
			RoughnessUM: e.RoughnessUM,
			Score:       conformity.ComplianceScoreFor(e.ThicknessMM, e.RoughnessUM, vessel.Type),
			Source:      "estimate",
		})
	}
	for _, i := range inspections {
		if i.InspectedAt.Before(from) || i.InspectedAt.After(to) {
			continue
		}
		points = append(points, models.CompliancePoint{
			Timestamp:   i.InspectedAt,
			VesselID:    vesselID,
			ThicknessMM: i.ThicknessMM,
			RoughnessUM: i.RoughnessUM,
			Score:       conformity.ComplianceScoreFor(i.ThicknessMM, i.RoughnessUM, vessel.Type),
			Source:      "inspection",
		})
	}

	sort.Slice(points, func(a, b int) bool {
		return points[a].Timestamp.Before(points[b].Timestamp)
	})

	anomalies, err := anomaly.Detect(points)
	if err != nil {
		return nil, err
	}

	for _, a := range anomalies {
		if a.Severity == "high" || a.Severity == "critical" {
			s.logEvent("decision", "warning", vesselID,
				fmt.Sprintf("Vessel %s anomaly: %s (%s)", vesselID, a.Type, a.Severity))
		}
	}

	return anomalies, nil
}

// AssessInvasiveSpecies evaluates invasive species establishment risk for
// the vessel's current operating region.
func (s *DecisionService) AssessInvasiveSpecies(vesselID string) ([]*models.InvasiveRisk, error) {
	features, err := s.BuildFeatures(vesselID)
	if err != nil {
		return nil, err
	}

	return species.Assess(features.Region, features.WaterTempC, features.SalinityPSU, features.DepthM, features.Season), nil
}

// Train fits the growth ensemble and the counterfactual fuel model from
// the vessel's inspection and telemetry history. Insufficient history
// leaves the physical fallbacks in place and is not an error.
func (s *DecisionService) Train(vesselID string) error {
	inspections, err := s.inspectionRepo.GetByVessel(vesselID, 1000)
	if err != nil {
		return err
	}

	var growth []fouling.TrainingSample
	for _, insp := range inspections {
		features, err := s.featuresAt(vesselID, insp.InspectedAt)
		if err != nil {
			continue
		}
		growth = append(growth, fouling.TrainingSample{
			Features:    *features,
			ThicknessMM: insp.ThicknessMM,
		})
	}

	if err := s.predictor.TrainFromHistory(growth); err != nil {
		log.Printf("Growth ensemble not trained for vessel %s: %v", vesselID, err)
	}

	s.trainFuelModel(vesselID)

	s.logEvent("decision", "info", vesselID,
		fmt.Sprintf("Models trained for vessel %s (%d growth samples)", vesselID, len(growth)))
	return nil
}

// FleetStatus summarises the latest conformity snapshot per vessel.
type FleetStatus struct {
	VesselCount  int                        `json:"vessel_count"`
	ByStatus     map[string]int             `json:"by_status"`
	Vessels      []FleetVesselStatus        `json:"vessels"`
	GeneratedAt  time.Time                  `json:"generated_at"`
}

// FleetVesselStatus is one vessel's line in the fleet summary.
type FleetVesselStatus struct {
	VesselID    string  `json:"vessel_id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	ThicknessMM float64 `json:"thickness_mm"`
	Score       float64 `json:"compliance_score"`
}

// FleetSummary aggregates the latest conformity status across the fleet.
// Vessels with no snapshot yet are reported with an empty status.
func (s *DecisionService) FleetSummary() (*FleetStatus, error) {
	vessels, err := s.vesselRepo.List()
	if err != nil {
		return nil, err
	}

	summary := &FleetStatus{
		VesselCount: len(vessels),
		ByStatus:    make(map[string]int),
		GeneratedAt: s.clk.Now(),
	}

	for _, v := range vessels {
		line := FleetVesselStatus{VesselID: v.ID, Name: v.Name, Type: v.Type}

		status, err := s.conformityRepo.GetLatest(v.ID)
		if err == nil {
			line.Status = status.Status
			line.ThicknessMM = status.ThicknessMM
			line.Score = status.ComplianceScore
			summary.ByStatus[status.Status]++
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		summary.Vessels = append(summary.Vessels, line)
	}

	return summary, nil
}

// BuildFeatures assembles the feature bundle for a vessel from its
// profile, telemetry window and maintenance history.
func (s *DecisionService) BuildFeatures(vesselID string) (*models.VesselFeatures, error) {
	return s.featuresAt(vesselID, s.clk.Now())
}

func (s *DecisionService) featuresAt(vesselID string, at time.Time) (*models.VesselFeatures, error) {
	vessel, err := s.vesselRepo.GetByID(vesselID)
	if err != nil {
		return nil, err
	}

	windowStart := at.AddDate(0, 0, -featureWindowDays)
	samples, err := s.sampleRepo.GetRange(vesselID, windowStart, at)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, models.NewInsufficientHistory("decision.features", errors.New("no operational samples in feature window"))
	}

	f := &models.VesselFeatures{
		VesselType:    vessel.Type,
		PaintType:     vessel.PaintType,
		EnginePowerKW: vessel.EnginePowerKW,
		DesignSpeedKn: vessel.TypicalSpeedKn,
		HullAreaM2:    vessel.HullAreaM2,
	}

	if vessel.PaintAppliedAt != nil {
		f.PaintAgeDays = at.Sub(*vessel.PaintAppliedAt).Hours() / 24
	}

	f.DaysSinceCleaning = s.daysSinceCleaning(vesselID, vessel, at)

	var tempSum, salSum, speedSum, fuelSum float64
	var fuelN int
	var idle int
	var lastLat, lastLon *float64
	for _, sample := range samples {
		tempSum += sample.WaterTempC
		salSum += sample.SalinityPSU
		speedSum += sample.SpeedKn
		if sample.FuelFlowKgH != nil {
			fuelSum += *sample.FuelFlowKgH
			fuelN++
		}
		if sample.SpeedKn < 0.5 {
			idle++
		}
		if sample.Latitude != nil && sample.Longitude != nil {
			lastLat, lastLon = sample.Latitude, sample.Longitude
		}
	}

	n := float64(len(samples))
	f.WaterTempC = tempSum / n
	f.SalinityPSU = salSum / n
	f.AvgSpeedKn = speedSum / n

	// Samples are nominally hourly, so idle samples approximate hours
	// spent in port over the window.
	f.PortHours = float64(idle)

	if fuelN > 0 {
		f.TypicalConsumptionKgH = fuelSum / float64(fuelN)
	} else {
		f.TypicalConsumptionKgH = vessel.EnginePowerKW * sfocKgPerKWh
	}

	f.Region = regionFromPosition(lastLat, lastLon)
	f.Season = southernSeason(at)

	return f, nil
}

// daysSinceCleaning measures the interval back to the last completed
// cleaning, falling back to the paint application date and finally to one
// year for vessels with no recorded history.
func (s *DecisionService) daysSinceCleaning(vesselID string, vessel *models.VesselProfile, at time.Time) float64 {
	last, err := s.maintRepo.GetLatestCompleted(vesselID, models.MaintenanceCleaning)
	if err == nil && !last.StartedAt.After(at) {
		return at.Sub(last.StartedAt).Hours() / 24
	}
	if vessel.PaintAppliedAt != nil && !vessel.PaintAppliedAt.After(at) {
		return at.Sub(*vessel.PaintAppliedAt).Hours() / 24
	}
	return 365
}

// latestOrFreshEstimate returns the stored latest estimate, computing a
// fresh one when the vessel has none yet.
func (s *DecisionService) latestOrFreshEstimate(vesselID string) (*models.FoulingEstimate, error) {
	estimate, err := s.foulingRepo.GetLatest(vesselID)
	if errors.Is(err, sql.ErrNoRows) {
		return s.PredictFouling(vesselID)
	}
	return estimate, err
}

// highRiskWaters reports whether the vessel currently operates in waters
// with a high-risk invasive species, which shortens the mandatory
// inspection interval.
func (s *DecisionService) highRiskWaters(vesselID string) bool {
	features, err := s.BuildFeatures(vesselID)
	if err != nil {
		return false
	}
	return species.MaxRegionalRisk(features.Region, features.WaterTempC) >= 3
}

func (s *DecisionService) trainFuelModel(vesselID string) {
	vessel, err := s.vesselRepo.GetByID(vesselID)
	if err != nil {
		return
	}

	samples, err := s.sampleRepo.GetRecent(vesselID, 2000)
	if err != nil {
		return
	}

	var history []fuel.Sample
	for _, sample := range samples {
		if sample.FuelFlowKgH == nil {
			continue
		}
		estimate, err := s.foulingRepo.GetRange(vesselID, sample.Timestamp.AddDate(0, 0, -7), sample.Timestamp)
		if err != nil || len(estimate) == 0 {
			continue
		}
		latest := estimate[len(estimate)-1]
		history = append(history, fuel.Sample{
			Features: models.FuelFeatures{
				SpeedKn:       sample.SpeedKn,
				EnginePowerKW: vessel.EnginePowerKW,
				DesignSpeedKn: vessel.TypicalSpeedKn,
				LoadPercent:   sample.LoadPercent,
				WaveHeightM:   sample.WaveHeightM,
				WindSpeedKn:   sample.WindSpeedKn,
				WaterTempC:    sample.WaterTempC,
				ThicknessMM:   latest.ThicknessMM,
				RoughnessUM:   latest.RoughnessUM,
			},
			ConsumptionKgH: *sample.FuelFlowKgH,
		})
	}

	s.fuelModel.Train(history)
}

func (s *DecisionService) logEvent(eventType, level, vesselID, message string) {
	entry := &models.EventLog{
		EventType: eventType,
		Level:     level,
		VesselID:  vesselID,
		Message:   message,
		CreatedAt: s.clk.Now(),
	}
	if err := s.eventLogRepo.Create(entry); err != nil {
		log.Printf("Failed to store event log: %v", err)
	}
}

func urgencyFromSeverity(severity string) string {
	switch severity {
	case models.SeverityCritical:
		return "critical"
	case models.SeveritySevere:
		return "urgent"
	case models.SeverityModerate:
		return "normal"
	default:
		return "preventive"
	}
}

// regionFromPosition maps a last-known position to the coarse operating
// regions the species table and growth kernel understand.
func regionFromPosition(lat, lon *float64) string {
	if lat == nil || lon == nil {
		return "South_Atlantic"
	}
	switch {
	case *lat >= 0:
		return "North_Atlantic"
	case *lat > -15:
		return "Northeast_Brazil"
	case *lat > -25 && *lon > -50:
		return "Southeast_Brazil"
	default:
		return "South_Atlantic"
	}
}

// southernSeason maps a date to its southern-hemisphere season, where the
// Brazilian coastal fleet operates.
func southernSeason(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "summer"
	case time.March, time.April, time.May:
		return "autumn"
	case time.June, time.July, time.August:
		return "winter"
	default:
		return "spring"
	}
}
