// Package upload checks CSV files locally and sends them to the backend's
// bulk import endpoint. Every check runs before any network call.
package upload

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"railspark/internal/logging"
	"railspark/internal/railapi"
	"railspark/internal/types"
)

// MaxFileSize is the largest file the backend accepts (10 MiB).
const MaxFileSize int64 = 10 * 1024 * 1024

// User-facing rejection messages.
const (
	msgNoFile          = "No file selected"
	msgNoFileToUpload  = "Please select a file first"
	msgNotCSV          = "Please select a valid CSV file"
	msgTooLarge        = "File size exceeds 10MB limit"
	msgEmpty           = "CSV file appears to be empty or has no data rows"
	msgMissingHeaders  = "CSV file missing headers"
	csvValidationLabel = "CSV validation failed"
)

// ErrRejected is matched by errors.Is for every local rejection.
var ErrRejected = errors.New("upload rejected")

// RejectedError is a local rejection with the message shown to the user.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return e.Message }

func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

func reject(msg string) error {
	return &RejectedError{Message: msg}
}

func rejectCSV(msg string) error {
	return &RejectedError{Message: fmt.Sprintf("%s: %s", csvValidationLabel, msg)}
}

// File is a candidate upload held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file size in bytes.
func (f *File) Size() int64 {
	return int64(len(f.Data))
}

// ReadFile loads path, deriving the content type from its extension.
// Non-CSV names and files over maxBytes are rejected from the stat alone,
// before any content is read. maxBytes <= 0 uses MaxFileSize.
func ReadFile(path string, maxBytes int64) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	f := &File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
	}
	if !isCSV(f) {
		return nil, reject(msgNotCSV)
	}
	if maxBytes <= 0 {
		maxBytes = MaxFileSize
	}
	if info.Size() > maxBytes {
		return nil, reject(msgTooLarge)
	}
	if f.Data, err = os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return f, nil
}

// Preview summarizes a CSV that passed validation.
type Preview struct {
	Headers  []string
	DataRows int
	Warnings []string
}

// Check validates f for upload: presence, CSV type (by extension or
// content type), size and content. maxBytes <= 0 uses MaxFileSize.
func Check(f *File, maxBytes int64) (*Preview, error) {
	if f == nil {
		return nil, reject(msgNoFile)
	}
	if !isCSV(f) {
		return nil, reject(msgNotCSV)
	}
	if maxBytes <= 0 {
		maxBytes = MaxFileSize
	}
	if f.Size() > maxBytes {
		return nil, reject(msgTooLarge)
	}
	return CheckContent(f.Data)
}

func isCSV(f *File) bool {
	if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(f.ContentType)
	return err == nil && mediaType == "text/csv"
}

// CheckContent requires a header row and at least one data row, ignoring
// blank lines.
func CheckContent(data []byte) (*Preview, error) {
	var lines [][]byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, rejectCSV(msgEmpty)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, rejectCSV(fmt.Sprintf("unreadable header row: %v", err))
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	if allBlank(headers) {
		return nil, rejectCSV(msgMissingHeaders)
	}

	p := &Preview{Headers: headers}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rejectCSV(fmt.Sprintf("row %d: %v", p.DataRows+2, err))
		}
		if allBlank(rec) {
			continue
		}
		if p.DataRows == 0 && !hasNumeric(rec) {
			p.Warnings = append(p.Warnings, "first data row has no numeric values")
		}
		if len(rec) != len(headers) {
			p.Warnings = append(p.Warnings, fmt.Sprintf("row %d has %d fields, header has %d", p.DataRows+2, len(rec), len(headers)))
		}
		p.DataRows++
	}
	return p, nil
}

func allBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func hasNumeric(fields []string) bool {
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || strings.IndexFunc(f, isLetter) >= 0 {
			continue
		}
		if _, err := strconv.ParseFloat(f, 64); err == nil {
			return true
		}
	}
	return false
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Uploader validates then posts CSV files.
type Uploader struct {
	svc      *railapi.UploadService
	maxBytes int64
}

// NewUploader returns an uploader posting through svc.
func NewUploader(svc *railapi.UploadService, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = MaxFileSize
	}
	return &Uploader{svc: svc, maxBytes: maxBytes}
}

// Upload checks f and, if it passes, posts it as dataType.
func (u *Uploader) Upload(ctx context.Context, f *File, dataType string) (types.UploadResult, *Preview, error) {
	if f == nil {
		return types.UploadResult{}, nil, reject(msgNoFileToUpload)
	}
	if !types.IsUploadDataType(dataType) {
		return types.UploadResult{}, nil, reject(fmt.Sprintf("Unknown data type %q (expected one of %s)",
			dataType, strings.Join(types.UploadDataTypes, ", ")))
	}
	preview, err := Check(f, u.maxBytes)
	if err != nil {
		logging.UploadWarn("rejected %s: %v", f.Name, err)
		return types.UploadResult{}, nil, err
	}
	for _, w := range preview.Warnings {
		logging.UploadWarn("%s: %s", f.Name, w)
	}

	logging.Upload("uploading %s as %s (%d rows, %d bytes)", f.Name, dataType, preview.DataRows, f.Size())
	res, err := u.svc.CSV(ctx, f.Name, dataType, bytes.NewReader(f.Data))
	if err != nil {
		return res, preview, err
	}
	logging.Upload("uploaded %s: %d records loaded", f.Name, res.RecordsLoaded)
	return res, preview, nil
}
