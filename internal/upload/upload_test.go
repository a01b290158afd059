package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railspark/internal/apiclient"
	"railspark/internal/railapi"
	"railspark/internal/session"
)

const trainsCSV = "train_number,current_mileage,last_maintenance_date,status\nKMRL-001,15000,2024-01-15,active\nKMRL-002,12000,2024-01-10,active\n"

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		file    *File
		max     int64
		wantErr string
		rows    int
	}{
		{"nil", nil, 0, "No file selected", 0},
		{"wrong extension", &File{Name: "trains.xlsx", Data: []byte(trainsCSV)}, 0, "Please select a valid CSV file", 0},
		{"content type rescues extension", &File{Name: "export", ContentType: "text/csv; charset=utf-8", Data: []byte(trainsCSV)}, 0, "", 2},
		{"upper-case extension", &File{Name: "TRAINS.CSV", Data: []byte(trainsCSV)}, 0, "", 2},
		{"too large", &File{Name: "t.csv", Data: []byte(trainsCSV)}, 10, "File size exceeds 10MB limit", 0},
		{"empty", &File{Name: "t.csv", Data: []byte("\n\n  \n")}, 0, "CSV validation failed: CSV file appears to be empty or has no data rows", 0},
		{"header only", &File{Name: "t.csv", Data: []byte("a,b,c\n")}, 0, "CSV validation failed: CSV file appears to be empty or has no data rows", 0},
		{"blank headers", &File{Name: "t.csv", Data: []byte(" , ,\n1,2,3\n")}, 0, "CSV validation failed: CSV file missing headers", 0},
		{"blank lines skipped", &File{Name: "t.csv", Data: []byte("a,b\n\n1,2\n\n3,4\n")}, 0, "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Check(tt.file, tt.max)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.True(t, errors.Is(err, ErrRejected))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rows, p.DataRows)
		})
	}
}

func TestCheckContent_Warnings(t *testing.T) {
	p, err := CheckContent([]byte("train_number,advertiser_name\nKMRL-001,Coca-Cola\nKMRL-002\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"train_number", "advertiser_name"}, p.Headers)
	assert.Equal(t, 2, p.DataRows)
	assert.Contains(t, p.Warnings, "first data row has no numeric values")
	assert.Contains(t, p.Warnings, "row 3 has 1 fields, header has 2")
}

func TestMaxFileSizeIsTenMiB(t *testing.T) {
	assert.Equal(t, int64(10485760), MaxFileSize)
	big := &File{Name: "big.csv", Data: make([]byte, MaxFileSize+1)}
	_, err := Check(big, 0)
	assert.EqualError(t, err, "File size exceeds 10MB limit")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fitness.csv")
	require.NoError(t, os.WriteFile(path, []byte(trainsCSV), 0644))

	f, err := ReadFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "fitness.csv", f.Name)
	assert.Equal(t, int64(len(trainsCSV)), f.Size())

	_, err = ReadFile(dir, 0)
	assert.Error(t, err)
	_, err = ReadFile(filepath.Join(dir, "missing.csv"), 0)
	assert.Error(t, err)
}

func TestReadFile_RejectsBeforeReading(t *testing.T) {
	dir := t.TempDir()

	// Sparse file: its size is reported without any data being written.
	big := filepath.Join(dir, "huge.csv")
	require.NoError(t, os.WriteFile(big, nil, 0644))
	require.NoError(t, os.Truncate(big, MaxFileSize+1))
	_, err := ReadFile(big, 0)
	assert.ErrorIs(t, err, ErrRejected)
	assert.EqualError(t, err, "File size exceeds 10MB limit")

	small := filepath.Join(dir, "small.csv")
	require.NoError(t, os.WriteFile(small, []byte(trainsCSV), 0644))
	_, err = ReadFile(small, 16)
	assert.EqualError(t, err, "File size exceeds 10MB limit")

	// Unreadable, so a read would fail with a different error.
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("a,b\n1,2\n"), 0000))
	_, err = ReadFile(notes, 0)
	assert.ErrorIs(t, err, ErrRejected)
	assert.EqualError(t, err, "Please select a valid CSV file")
}

func newUploader(t *testing.T, handler http.HandlerFunc) *Uploader {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := apiclient.New(server.URL, session.New(), apiclient.WithHTTPClient(server.Client()))
	return NewUploader(railapi.New(client, nil).Uploads, 0)
}

func TestUpload_NonCSVMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	u := newUploader(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	_, _, err := u.Upload(context.Background(), &File{Name: "plan.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, "trains")
	require.Error(t, err)
	assert.Equal(t, "Please select a valid CSV file", err.Error())
	assert.Equal(t, int32(0), hits.Load())

	_, _, err = u.Upload(context.Background(), nil, "trains")
	assert.EqualError(t, err, "Please select a file first")

	_, _, err = u.Upload(context.Background(), &File{Name: "t.csv", Data: []byte(trainsCSV)}, "cleaning")
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, int32(0), hits.Load())
}

func TestUpload_PostsMultipart(t *testing.T) {
	var contentType, dataType, fileName, fileBody string
	u := newUploader(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		dataType = r.FormValue("data_type")
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		fileName = hdr.Filename
		data, _ := io.ReadAll(f)
		fileBody = string(data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"data_type":"trains","records_loaded":2,"database_results":{"errors":[]},"file_name":"trains.csv"}`)
	})

	res, preview, err := u.Upload(context.Background(), &File{Name: "trains.csv", Data: []byte(trainsCSV)}, "trains")
	require.NoError(t, err)
	assert.Equal(t, 2, res.RecordsLoaded)
	assert.Equal(t, 2, preview.DataRows)

	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data"))
	assert.Equal(t, "trains", dataType)
	assert.Equal(t, "trains.csv", fileName)
	assert.Equal(t, trainsCSV, fileBody)
}

func TestUpload_BackendError(t *testing.T) {
	u := newUploader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"detail":"Invalid data type. Must be one of: trains, fitness, job_cards, branding"}`)
	})

	_, _, err := u.Upload(context.Background(), &File{Name: "trains.csv", Data: []byte(trainsCSV)}, "trains")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRejected))
	assert.Equal(t, apiclient.KindRequestFailed, apiclient.KindOf(err))
}
