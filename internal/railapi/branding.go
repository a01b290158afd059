package railapi

import (
	"context"
	"net/url"

	"railspark/internal/apiclient"
	"railspark/internal/types"
)

// BrandingService covers /branding.
type BrandingService struct {
	c *apiclient.Client
}

func (s *BrandingService) List(ctx context.Context) ([]types.BrandingContract, error) {
	return apiclient.GetJSON[[]types.BrandingContract](ctx, s.c, "/branding/")
}

func (s *BrandingService) ForTrain(ctx context.Context, trainID int) ([]types.BrandingContract, error) {
	return apiclient.GetJSON[[]types.BrandingContract](ctx, s.c, path("/branding/train/%d", trainID))
}

// Active lists running contracts, optionally for one train (trainID 0 = all).
func (s *BrandingService) Active(ctx context.Context, trainID int) ([]types.BrandingContract, error) {
	endpoint := "/branding/active"
	if trainID > 0 {
		endpoint = withQuery(endpoint, url.Values{"train_id": {itoa(trainID)}})
	}
	return apiclient.GetJSON[[]types.BrandingContract](ctx, s.c, endpoint)
}

func (s *BrandingService) NeedExposure(ctx context.Context) ([]types.BrandingContract, error) {
	return apiclient.GetJSON[[]types.BrandingContract](ctx, s.c, "/branding/need-exposure")
}

func (s *BrandingService) Create(ctx context.Context, b types.BrandingContractCreate) (types.BrandingContract, error) {
	return apiclient.PostJSON[types.BrandingContract](ctx, s.c, "/branding/", b)
}

func (s *BrandingService) Update(ctx context.Context, id int, b types.BrandingContractCreate) (types.BrandingContract, error) {
	return apiclient.PutJSON[types.BrandingContract](ctx, s.c, path("/branding/%d", id), b)
}

func (s *BrandingService) Delete(ctx context.Context, id int) (types.Message, error) {
	return apiclient.DeleteJSON[types.Message](ctx, s.c, path("/branding/%d", id))
}

// AddExposure records fulfilled exposure hours against a contract.
func (s *BrandingService) AddExposure(ctx context.Context, id, hours int) (types.Message, error) {
	q := url.Values{"hours": {itoa(hours)}}
	return apiclient.PatchJSON[types.Message](ctx, s.c, withQuery(path("/branding/%d/exposure", id), q),
		map[string]int{"hours": hours})
}
