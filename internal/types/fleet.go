package types

import "time"

// Train statuses.
const (
	TrainActive      = "active"
	TrainMaintenance = "maintenance"
	TrainStandby     = "standby"
	TrainInactive    = "inactive"
)

// Train is a rolling-stock unit.
type Train struct {
	ID                  int    `json:"id"`
	TrainNumber         string `json:"train_number"`
	CurrentMileage      int    `json:"current_mileage"`
	LastMaintenanceDate *Date  `json:"last_maintenance_date,omitempty"`
	MaintenanceInterval int    `json:"maintenance_interval"`
	EquipmentStatus     string `json:"equipment_status"`
	Status              string `json:"status"`
}

func (t Train) Validate() error {
	return check("train").
		require(t.TrainNumber != "", "train_number is required").
		require(t.CurrentMileage >= 0, "current_mileage must not be negative").
		require(t.MaintenanceInterval >= 0, "maintenance_interval must not be negative").
		err()
}

// IsActive reports whether the train is in active service.
func (t Train) IsActive() bool {
	return t.Status == TrainActive
}

// MaintenanceDue reports whether the maintenance interval (days) has elapsed
// since the last maintenance as of now. Trains never maintained are due.
func (t Train) MaintenanceDue(now time.Time) bool {
	if t.LastMaintenanceDate == nil || t.LastMaintenanceDate.IsZero() {
		return true
	}
	due := t.LastMaintenanceDate.AddDate(0, 0, t.MaintenanceInterval)
	return !now.Before(due)
}

// TrainCreate is the request body for creating or replacing a train.
type TrainCreate struct {
	TrainNumber         string `json:"train_number"`
	CurrentMileage      int    `json:"current_mileage"`
	LastMaintenanceDate *Date  `json:"last_maintenance_date,omitempty"`
	MaintenanceInterval int    `json:"maintenance_interval"`
	EquipmentStatus     string `json:"equipment_status"`
	Status              string `json:"status"`
}

// NewTrainCreate returns a create body with the backend defaults.
func NewTrainCreate(number string) TrainCreate {
	return TrainCreate{
		TrainNumber:         number,
		MaintenanceInterval: 90,
		EquipmentStatus:     "operational",
		Status:              TrainActive,
	}
}

// FitnessCertificate is a departmental certificate of fitness.
type FitnessCertificate struct {
	ID         int    `json:"id"`
	TrainID    int    `json:"train_id"`
	Department string `json:"department"`
	ValidFrom  Date   `json:"valid_from"`
	ValidUntil Date   `json:"valid_until"`
	IsValid    bool   `json:"is_valid"`
}

func (f FitnessCertificate) Validate() error {
	return check("fitness certificate").
		require(f.Department != "", "department is required").
		require(!f.ValidFrom.IsZero(), "valid_from is required").
		require(!f.ValidUntil.IsZero(), "valid_until is required").
		require(f.ValidUntil.IsZero() || !f.ValidUntil.Before(f.ValidFrom.Time), "valid_until before valid_from").
		err()
}

// CoversDate reports whether the certificate is valid on day.
func (f FitnessCertificate) CoversDate(day time.Time) bool {
	d := NewDate(day)
	return f.IsValid && !d.Before(f.ValidFrom.Time) && !d.After(f.ValidUntil.Time)
}

// FitnessCertificateCreate is the request body for a certificate.
type FitnessCertificateCreate struct {
	TrainID    int    `json:"train_id"`
	Department string `json:"department"`
	ValidFrom  Date   `json:"valid_from"`
	ValidUntil Date   `json:"valid_until"`
	IsValid    bool   `json:"is_valid"`
}

// Job card statuses.
const (
	JobOpen   = "open"
	JobClosed = "closed"
)

// JobCard is a maintenance work order.
type JobCard struct {
	ID          int        `json:"id"`
	TrainID     int        `json:"train_id"`
	WorkOrderID string     `json:"work_order_id"`
	Status      string     `json:"status"`
	Description string     `json:"description,omitempty"`
	CreatedAt   Timestamp  `json:"created_at"`
	ClosedAt    *Timestamp `json:"closed_at,omitempty"`
}

func (j JobCard) Validate() error {
	return check("job card").
		require(j.WorkOrderID != "", "work_order_id is required").
		require(j.Status != "", "status is required").
		err()
}

// IsOpen reports whether the job card is still open.
func (j JobCard) IsOpen() bool {
	return j.Status == JobOpen
}

// JobCardCreate is the request body for a job card.
type JobCardCreate struct {
	TrainID     int    `json:"train_id"`
	WorkOrderID string `json:"work_order_id"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// CleaningSlot is a scheduled cleaning in a bay.
type CleaningSlot struct {
	ID               int       `json:"id"`
	TrainID          int       `json:"train_id"`
	SlotTime         Timestamp `json:"slot_time"`
	BayNumber        int       `json:"bay_number"`
	ManpowerRequired int       `json:"manpower_required"`
	Status           string    `json:"status"`
}

func (c CleaningSlot) Validate() error {
	return check("cleaning slot").
		require(!c.SlotTime.IsZero(), "slot_time is required").
		require(c.BayNumber > 0, "bay_number must be positive").
		require(c.ManpowerRequired >= 0, "manpower_required must not be negative").
		err()
}

// StablingGeometry is where a train is stabled overnight.
type StablingGeometry struct {
	ID               int        `json:"id"`
	TrainID          int        `json:"train_id"`
	BayPosition      string     `json:"bay_position"`
	ShuntingRequired bool       `json:"shunting_required"`
	StabledAt        *Timestamp `json:"stabled_at,omitempty"`
}

func (s StablingGeometry) Validate() error {
	return check("stabling geometry").
		require(s.BayPosition != "", "bay_position is required").
		err()
}
