package types

// Upload data types accepted by the CSV endpoint.
const (
	DataTrains   = "trains"
	DataFitness  = "fitness"
	DataJobCards = "job_cards"
	DataBranding = "branding"
)

// UploadDataTypes lists the accepted data types in display order.
var UploadDataTypes = []string{DataTrains, DataFitness, DataJobCards, DataBranding}

// IsUploadDataType reports whether s is an accepted data type.
func IsUploadDataType(s string) bool {
	for _, t := range UploadDataTypes {
		if t == s {
			return true
		}
	}
	return false
}

// UploadResult is the response of a CSV upload.
type UploadResult struct {
	Success         bool           `json:"success"`
	DataType        string         `json:"data_type"`
	RecordsLoaded   int            `json:"records_loaded"`
	DatabaseResults map[string]any `json:"database_results,omitempty"`
	FileName        string         `json:"file_name"`
}

func (u UploadResult) Validate() error {
	return check("upload result").
		require(u.RecordsLoaded >= 0, "records_loaded must not be negative").
		err()
}

// Errors returns per-row error strings reported by the database step.
func (u UploadResult) Errors() []string {
	raw, ok := u.DatabaseResults["errors"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		out = append(out, ExtractString(e))
	}
	return out
}

// ManualUpload is a JSON batch of records to create.
type ManualUpload struct {
	Trains              []TrainCreate              `json:"trains,omitempty"`
	FitnessCertificates []FitnessCertificateCreate `json:"fitness_certificates,omitempty"`
	JobCards            []JobCardCreate            `json:"job_cards,omitempty"`
	BrandingContracts   []BrandingContractCreate   `json:"branding_contracts,omitempty"`
}

// ManualUploadResult counts processed records per kind.
type ManualUploadResult struct {
	TrainsProcessed            int      `json:"trains_processed"`
	FitnessCertsProcessed      int      `json:"fitness_certs_processed"`
	JobCardsProcessed          int      `json:"job_cards_processed"`
	BrandingContractsProcessed int      `json:"branding_contracts_processed"`
	Errors                     []string `json:"errors"`
}

func (ManualUploadResult) Validate() error { return nil }

// CSVTemplate is a downloadable example file for a data type.
type CSVTemplate struct {
	DataType string `json:"data_type"`
	Template string `json:"template"`
	Filename string `json:"filename"`
}

func (t CSVTemplate) Validate() error {
	return check("csv template").
		require(t.Template != "", "template is required").
		err()
}
