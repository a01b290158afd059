package types

// TrainEligibility is the rule engine's readiness verdict for a train.
type TrainEligibility struct {
	TrainID         int      `json:"train_id"`
	TrainNumber     string   `json:"train_number"`
	Status          string   `json:"status"`
	ReadinessScore  float64  `json:"readiness_score"`
	Priority        string   `json:"priority"`
	Constraints     []string `json:"constraints"`
	Capabilities    []string `json:"capabilities"`
	EstimatedUptime float64  `json:"estimated_uptime"`
	RiskFactor      float64  `json:"risk_factor"`
}

func (e TrainEligibility) Validate() error {
	return check("train eligibility").
		require(e.Status != "", "status is required").
		require(e.ReadinessScore >= 0, "readiness_score must not be negative").
		err()
}

// FailurePrediction is the ML model's failure risk for a train.
type FailurePrediction struct {
	TrainID              int                `json:"train_id"`
	TrainNumber          string             `json:"train_number"`
	FailureProbability   float64            `json:"failure_probability"`
	RiskLevel            string             `json:"risk_level"`
	PredictedFailureType string             `json:"predicted_failure_type"`
	Confidence           float64            `json:"confidence"`
	Recommendation       string             `json:"recommendation"`
	Features             map[string]float64 `json:"features,omitempty"`
}

func (f FailurePrediction) Validate() error {
	return check("failure prediction").
		require(f.FailureProbability >= 0 && f.FailureProbability <= 1, "failure_probability %v out of range", f.FailureProbability).
		require(f.RiskLevel != "", "risk_level is required").
		err()
}

// IsHighRisk reports whether the prediction is high or critical risk.
func (f FailurePrediction) IsHighRisk() bool {
	return f.RiskLevel == "high" || f.RiskLevel == "critical"
}

// ModelTrainingResult is the outcome of retraining the failure model.
type ModelTrainingResult struct {
	Success           bool               `json:"success"`
	Accuracy          *float64           `json:"accuracy"`
	TrainingSamples   *int               `json:"training_samples"`
	TestSamples       *int               `json:"test_samples"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
}

func (ModelTrainingResult) Validate() error { return nil }

// OptimizationStats summarizes fleet availability for planning.
type OptimizationStats struct {
	TotalTrains              int     `json:"total_trains"`
	ActiveTrains             int     `json:"active_trains"`
	EligibleTrains           int     `json:"eligible_trains"`
	PlannedServiceTrains     int     `json:"planned_service_trains"`
	PlannedStandbyTrains     int     `json:"planned_standby_trains"`
	PlannedMaintenanceTrains int     `json:"planned_maintenance_trains"`
	UtilizationRate          float64 `json:"utilization_rate"`
}

func (s OptimizationStats) Validate() error {
	return check("optimization stats").
		require(s.TotalTrains >= 0 && s.ActiveTrains >= 0 && s.EligibleTrains >= 0, "counts must not be negative").
		err()
}

// DashboardOverview is the backend's aggregated dashboard document.
type DashboardOverview struct {
	Summary struct {
		TotalTrains     int     `json:"total_trains"`
		ActiveTrains    int     `json:"active_trains"`
		EligibleTrains  int     `json:"eligible_trains"`
		UtilizationRate float64 `json:"utilization_rate"`
	} `json:"summary"`
	Maintenance struct {
		OpenJobCards          int    `json:"open_job_cards"`
		TrainsNeedMaintenance int    `json:"trains_need_maintenance"`
		MaintenanceUrgency    string `json:"maintenance_urgency"`
	} `json:"maintenance"`
	Branding struct {
		ActiveContracts       int `json:"active_contracts"`
		ContractsNeedExposure int `json:"contracts_need_exposure"`
		ExposureGap           int `json:"exposure_gap"`
	} `json:"branding"`
	TodayPlan struct {
		ServiceTrains  int    `json:"service_trains"`
		StandbyTrains  int    `json:"standby_trains"`
		TotalPlanned   int    `json:"total_planned"`
		ApprovalStatus string `json:"approval_status"`
	} `json:"today_plan"`
	RiskAssessment struct {
		HighRiskTrains int    `json:"high_risk_trains"`
		RiskLevel      string `json:"risk_level"`
	} `json:"risk_assessment"`
}

func (d DashboardOverview) Validate() error {
	return check("dashboard overview").
		require(d.Summary.ActiveTrains <= d.Summary.TotalTrains, "active_trains exceeds total_trains").
		err()
}

// ChatQuery is a message to the assistant.
type ChatQuery struct {
	Message string `json:"message"`
	UserID  *int   `json:"user_id"`
}

// ChatReply is the assistant's answer. Data carries intent-specific detail.
type ChatReply struct {
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

func (r ChatReply) Validate() error {
	return check("chat reply").
		require(r.Message != "", "message is required").
		err()
}

// WhatIfScenario asks the assistant to analyze a hypothetical change.
type WhatIfScenario struct {
	ScenarioType string `json:"scenario_type"`
	Parameters   string `json:"parameters"`
	UserID       *int   `json:"user_id"`
}

// WhatIfAnalysis is the assistant's scenario result.
type WhatIfAnalysis struct {
	ScenarioType    string   `json:"scenario_type"`
	Parameters      string   `json:"parameters"`
	Analysis        string   `json:"analysis"`
	Data            any      `json:"data,omitempty"`
	Recommendations []string `json:"recommendations"`
}

func (w WhatIfAnalysis) Validate() error {
	return check("what-if analysis").
		require(w.Analysis != "", "analysis is required").
		err()
}
