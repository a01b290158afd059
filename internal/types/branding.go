package types

import "time"

// BrandingContract is an advertiser's exposure commitment on a train.
type BrandingContract struct {
	ID                     int     `json:"id"`
	TrainID                int     `json:"train_id"`
	AdvertiserName         string  `json:"advertiser_name"`
	ContractValue          float64 `json:"contract_value"`
	ExposureHoursRequired  int     `json:"exposure_hours_required"`
	ExposureHoursFulfilled int     `json:"exposure_hours_fulfilled"`
	StartDate              Date    `json:"start_date"`
	EndDate                Date    `json:"end_date"`
}

func (b BrandingContract) Validate() error {
	return check("branding contract").
		require(b.AdvertiserName != "", "advertiser_name is required").
		require(b.ExposureHoursRequired >= 0, "exposure_hours_required must not be negative").
		require(b.ExposureHoursFulfilled >= 0, "exposure_hours_fulfilled must not be negative").
		require(!b.StartDate.IsZero() && !b.EndDate.IsZero(), "start_date and end_date are required").
		require(b.EndDate.IsZero() || !b.EndDate.Before(b.StartDate.Time), "end_date before start_date").
		err()
}

// RemainingHours is the exposure still owed, never negative.
func (b BrandingContract) RemainingHours() int {
	if r := b.ExposureHoursRequired - b.ExposureHoursFulfilled; r > 0 {
		return r
	}
	return 0
}

// NeedsExposure reports whether the contract still owes exposure hours.
func (b BrandingContract) NeedsExposure() bool {
	return b.RemainingHours() > 0
}

// Completion is the fulfilled fraction of required hours in [0, 1].
func (b BrandingContract) Completion() float64 {
	if b.ExposureHoursRequired <= 0 {
		return 1
	}
	c := float64(b.ExposureHoursFulfilled) / float64(b.ExposureHoursRequired)
	if c > 1 {
		return 1
	}
	return c
}

// ActiveOn reports whether day falls within the contract period.
func (b BrandingContract) ActiveOn(day time.Time) bool {
	d := NewDate(day)
	return !d.Before(b.StartDate.Time) && !d.After(b.EndDate.Time)
}

// BrandingContractCreate is the request body for a contract.
type BrandingContractCreate struct {
	TrainID                int     `json:"train_id"`
	AdvertiserName         string  `json:"advertiser_name"`
	ContractValue          float64 `json:"contract_value"`
	ExposureHoursRequired  int     `json:"exposure_hours_required"`
	ExposureHoursFulfilled int     `json:"exposure_hours_fulfilled"`
	StartDate              Date    `json:"start_date"`
	EndDate                Date    `json:"end_date"`
}
