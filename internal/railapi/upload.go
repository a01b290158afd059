package railapi

import (
	"context"
	"fmt"
	"io"

	"railspark/internal/apiclient"
	"railspark/internal/types"
)

// UploadService covers /upload.
type UploadService struct {
	c *apiclient.Client
}

// CSV posts a CSV file as multipart form data with fields file and data_type.
// Callers validate the file first; see package upload.
func (s *UploadService) CSV(ctx context.Context, filename, dataType string, content io.Reader) (types.UploadResult, error) {
	mp := apiclient.NewMultipart()
	if err := mp.AddFile("file", filename, "text/csv", content); err != nil {
		return types.UploadResult{}, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := mp.AddField("data_type", dataType); err != nil {
		return types.UploadResult{}, fmt.Errorf("failed to build upload: %w", err)
	}
	return apiclient.PostJSON[types.UploadResult](ctx, s.c, "/upload/csv", mp)
}

// Manual posts a JSON batch of records.
func (s *UploadService) Manual(ctx context.Context, batch types.ManualUpload) (types.ManualUploadResult, error) {
	return apiclient.PostJSON[types.ManualUploadResult](ctx, s.c, "/upload/manual", batch)
}

// Template fetches the example CSV for dataType.
func (s *UploadService) Template(ctx context.Context, dataType string) (types.CSVTemplate, error) {
	if !types.IsUploadDataType(dataType) {
		return types.CSVTemplate{}, fmt.Errorf("unknown data type %q", dataType)
	}
	return apiclient.GetJSON[types.CSVTemplate](ctx, s.c, path("/upload/templates/%s", dataType))
}
