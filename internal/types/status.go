package types

// Message is the backend's plain acknowledgement body.
type Message struct {
	Message string `json:"message"`
}

func (Message) Validate() error { return nil }

// ServiceCheck reports whether a train's certificates allow service.
type ServiceCheck struct {
	TrainID       int    `json:"train_id"`
	FitForService bool   `json:"fit_for_service"`
	Message       string `json:"message"`
}

func (ServiceCheck) Validate() error { return nil }

// OpenJobsCheck reports whether a train has open job cards.
type OpenJobsCheck struct {
	TrainID         int    `json:"train_id"`
	HasOpenJobCards bool   `json:"has_open_job_cards"`
	Message         string `json:"message"`
}

func (OpenJobsCheck) Validate() error { return nil }

// ChatContext is the assistant's remembered conversation state for a user.
type ChatContext struct {
	UserID          int            `json:"user_id"`
	Context         map[string]any `json:"context"`
	LastInteraction string         `json:"last_interaction"`
}

func (ChatContext) Validate() error { return nil }

// Capability is one assistant skill with example prompts.
type Capability struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
}

// Capabilities lists what the assistant can do.
type Capabilities struct {
	Capabilities []Capability `json:"capabilities"`
}

func (c Capabilities) Validate() error {
	return check("capabilities").
		require(len(c.Capabilities) > 0, "no capabilities listed").
		err()
}
