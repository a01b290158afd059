package railapi

import (
	"context"
	"net/url"

	"railspark/internal/apiclient"
	"railspark/internal/types"
)

// TrainService covers /trains.
type TrainService struct {
	c *apiclient.Client
}

// List returns a page of trains. A zero limit uses the backend default of 100.
func (s *TrainService) List(ctx context.Context, skip, limit int) ([]types.Train, error) {
	if limit <= 0 {
		limit = 100
	}
	q := url.Values{"skip": {itoa(skip)}, "limit": {itoa(limit)}}
	return apiclient.GetJSON[[]types.Train](ctx, s.c, withQuery("/trains/", q))
}

func (s *TrainService) Get(ctx context.Context, id int) (types.Train, error) {
	return apiclient.GetJSON[types.Train](ctx, s.c, path("/trains/%d", id))
}

func (s *TrainService) Active(ctx context.Context) ([]types.Train, error) {
	return apiclient.GetJSON[[]types.Train](ctx, s.c, "/trains/active")
}

func (s *TrainService) Create(ctx context.Context, t types.TrainCreate) (types.Train, error) {
	return apiclient.PostJSON[types.Train](ctx, s.c, "/trains/", t)
}

func (s *TrainService) Update(ctx context.Context, id int, t types.TrainCreate) (types.Train, error) {
	return apiclient.PutJSON[types.Train](ctx, s.c, path("/trains/%d", id), t)
}

func (s *TrainService) Delete(ctx context.Context, id int) (types.Message, error) {
	return apiclient.DeleteJSON[types.Message](ctx, s.c, path("/trains/%d", id))
}

// AddMileage adds kilometres to a train's odometer.
func (s *TrainService) AddMileage(ctx context.Context, id, additional int) (types.Message, error) {
	q := url.Values{"additional_mileage": {itoa(additional)}}
	return apiclient.PatchJSON[types.Message](ctx, s.c, withQuery(path("/trains/%d/mileage", id), q),
		map[string]int{"additional_mileage": additional})
}

// FitnessService covers /fitness.
type FitnessService struct {
	c *apiclient.Client
}

func (s *FitnessService) List(ctx context.Context) ([]types.FitnessCertificate, error) {
	return apiclient.GetJSON[[]types.FitnessCertificate](ctx, s.c, "/fitness/")
}

func (s *FitnessService) ForTrain(ctx context.Context, trainID int) ([]types.FitnessCertificate, error) {
	return apiclient.GetJSON[[]types.FitnessCertificate](ctx, s.c, path("/fitness/train/%d", trainID))
}

func (s *FitnessService) ValidForTrain(ctx context.Context, trainID int) ([]types.FitnessCertificate, error) {
	return apiclient.GetJSON[[]types.FitnessCertificate](ctx, s.c, path("/fitness/train/%d/valid", trainID))
}

func (s *FitnessService) Create(ctx context.Context, f types.FitnessCertificateCreate) (types.FitnessCertificate, error) {
	return apiclient.PostJSON[types.FitnessCertificate](ctx, s.c, "/fitness/", f)
}

func (s *FitnessService) Update(ctx context.Context, id int, f types.FitnessCertificateCreate) (types.FitnessCertificate, error) {
	return apiclient.PutJSON[types.FitnessCertificate](ctx, s.c, path("/fitness/%d", id), f)
}

func (s *FitnessService) Delete(ctx context.Context, id int) (types.Message, error) {
	return apiclient.DeleteJSON[types.Message](ctx, s.c, path("/fitness/%d", id))
}

// ServiceCheck asks whether the train's certificates allow service today.
func (s *FitnessService) ServiceCheck(ctx context.Context, trainID int) (types.ServiceCheck, error) {
	return apiclient.GetJSON[types.ServiceCheck](ctx, s.c, path("/fitness/train/%d/service-check", trainID))
}

// JobCardService covers /job-cards.
type JobCardService struct {
	c *apiclient.Client
}

func (s *JobCardService) List(ctx context.Context) ([]types.JobCard, error) {
	return apiclient.GetJSON[[]types.JobCard](ctx, s.c, "/job-cards/")
}

func (s *JobCardService) ForTrain(ctx context.Context, trainID int) ([]types.JobCard, error) {
	return apiclient.GetJSON[[]types.JobCard](ctx, s.c, path("/job-cards/train/%d", trainID))
}

// Open lists open job cards, optionally for one train (trainID 0 = all).
func (s *JobCardService) Open(ctx context.Context, trainID int) ([]types.JobCard, error) {
	endpoint := "/job-cards/open"
	if trainID > 0 {
		endpoint = withQuery(endpoint, url.Values{"train_id": {itoa(trainID)}})
	}
	return apiclient.GetJSON[[]types.JobCard](ctx, s.c, endpoint)
}

func (s *JobCardService) Create(ctx context.Context, j types.JobCardCreate) (types.JobCard, error) {
	return apiclient.PostJSON[types.JobCard](ctx, s.c, "/job-cards/", j)
}

func (s *JobCardService) Update(ctx context.Context, id int, j types.JobCardCreate) (types.JobCard, error) {
	return apiclient.PutJSON[types.JobCard](ctx, s.c, path("/job-cards/%d", id), j)
}

func (s *JobCardService) Delete(ctx context.Context, id int) (types.Message, error) {
	return apiclient.DeleteJSON[types.Message](ctx, s.c, path("/job-cards/%d", id))
}

func (s *JobCardService) Close(ctx context.Context, id int) (types.JobCard, error) {
	return apiclient.PatchJSON[types.JobCard](ctx, s.c, path("/job-cards/%d/close", id), nil)
}

func (s *JobCardService) HasOpenJobs(ctx context.Context, trainID int) (types.OpenJobsCheck, error) {
	return apiclient.GetJSON[types.OpenJobsCheck](ctx, s.c, path("/job-cards/train/%d/has-open-jobs", trainID))
}

// CleaningService covers /cleaning.
type CleaningService struct {
	c *apiclient.Client
}

func (s *CleaningService) List(ctx context.Context) ([]types.CleaningSlot, error) {
	return apiclient.GetJSON[[]types.CleaningSlot](ctx, s.c, "/cleaning/")
}

func (s *CleaningService) ForDate(ctx context.Context, day types.Date) ([]types.CleaningSlot, error) {
	return apiclient.GetJSON[[]types.CleaningSlot](ctx, s.c, path("/cleaning/date/%s", day))
}

func (s *CleaningService) Complete(ctx context.Context, id int) (types.CleaningSlot, error) {
	return apiclient.PatchJSON[types.CleaningSlot](ctx, s.c, path("/cleaning/%d/complete", id), nil)
}

// StablingService covers /stabling.
type StablingService struct {
	c *apiclient.Client
}

func (s *StablingService) List(ctx context.Context) ([]types.StablingGeometry, error) {
	return apiclient.GetJSON[[]types.StablingGeometry](ctx, s.c, "/stabling/")
}

func (s *StablingService) ShuntingRequired(ctx context.Context) ([]types.StablingGeometry, error) {
	return apiclient.GetJSON[[]types.StablingGeometry](ctx, s.c, "/stabling/shunting-required")
}
