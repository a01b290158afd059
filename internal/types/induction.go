package types

// Induction types.
const (
	InductionService     = "service"
	InductionStandby     = "standby"
	InductionMaintenance = "maintenance"
)

// InductionPlan is one train's assignment for a plan date.
type InductionPlan struct {
	ID            int        `json:"id"`
	TrainID       int        `json:"train_id"`
	PlanDate      Date       `json:"plan_date"`
	InductionType string     `json:"induction_type"`
	Rank          int        `json:"rank"`
	Reason        string     `json:"reason,omitempty"`
	ApprovedBy    *int       `json:"approved_by,omitempty"`
	ApprovedAt    *Timestamp `json:"approved_at,omitempty"`
}

func (p InductionPlan) Validate() error {
	return check("induction plan").
		require(!p.PlanDate.IsZero(), "plan_date is required").
		require(p.InductionType != "", "induction_type is required").
		require(p.Rank >= 0, "rank must not be negative").
		err()
}

// IsApproved reports whether a supervisor has approved the plan.
func (p InductionPlan) IsApproved() bool {
	return p.ApprovedBy != nil
}

// InductionPlanCreate is the request body for a plan.
type InductionPlanCreate struct {
	TrainID       int    `json:"train_id"`
	PlanDate      Date   `json:"plan_date"`
	InductionType string `json:"induction_type"`
	Rank          int    `json:"rank"`
	Reason        string `json:"reason,omitempty"`
}

// PlanConstraints are the optional knobs for plan generation.
type PlanConstraints struct {
	MaxTrains            int     `json:"max_trains,omitempty"`
	PriorityTrains       []int   `json:"priority_trains,omitempty"`
	MaintenanceThreshold float64 `json:"maintenance_threshold,omitempty"`
	AvailableOnly        *bool   `json:"available_only,omitempty"`
}

// GeneratePlanRequest is the body of a plan generation call. A nil date
// lets the backend pick tomorrow.
type GeneratePlanRequest struct {
	PlanDate    *Date            `json:"plan_date"`
	Constraints *PlanConstraints `json:"constraints"`
}

// PlannedInduction is one row of a generated plan.
type PlannedInduction struct {
	TrainID       int            `json:"train_id"`
	TrainNumber   string         `json:"train_number"`
	PlanDate      Date           `json:"plan_date"`
	InductionType string         `json:"induction_type"`
	Rank          int            `json:"rank"`
	Reason        string         `json:"reason"`
	Score         float64        `json:"score"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

func (p PlannedInduction) Validate() error {
	return check("planned induction").
		require(p.InductionType != "", "induction_type is required").
		err()
}

// CountByType tallies plan rows per induction type.
func CountByType[T interface{ inductionType() string }](rows []T) map[string]int {
	out := make(map[string]int)
	for _, r := range rows {
		out[r.inductionType()]++
	}
	return out
}

func (p InductionPlan) inductionType() string    { return p.InductionType }
func (p PlannedInduction) inductionType() string { return p.InductionType }

// OptimizationConstraints mirrors the backend defaults for fleet balancing.
type OptimizationConstraints struct {
	MinServiceTrains       int     `json:"min_service_trains"`
	MaxServiceTrains       int     `json:"max_service_trains"`
	MinStandbyTrains       int     `json:"min_standby_trains"`
	MaxStandbyTrains       int     `json:"max_standby_trains"`
	TargetBrandingExposure float64 `json:"target_branding_exposure"`
	MaxMileageVariance     float64 `json:"max_mileage_variance"`
}

// DefaultOptimizationConstraints returns the backend defaults.
func DefaultOptimizationConstraints() OptimizationConstraints {
	return OptimizationConstraints{
		MinServiceTrains:       15,
		MaxServiceTrains:       20,
		MinStandbyTrains:       3,
		MaxStandbyTrains:       5,
		TargetBrandingExposure: 0.8,
		MaxMileageVariance:     0.2,
	}
}
