package directors

// Status values used across ProvisionResult, StepResult and CheckReport.
const (
	StatusOK         = "ok"
	StatusError      = "error"
	StatusInProgress = "in-progress"
	StatusSkipped    = "skipped"
)

// ProvisionResult is the outcome of one bootstrap run.
type ProvisionResult struct {
	Status   string       `json:"status"`
	RunID    string       `json:"run"`
	Database string       `json:"database"`
	Steps    []StepResult `json:"steps"`
}

// StepResult is the outcome of a single step, in execution order.
type StepResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// CheckReport describes how a provisioned database compares to the declared collections.
type CheckReport struct {
	Status        string   `json:"status"`
	ServerVersion string   `json:"serverVersion"`
	Database      string   `json:"database"`
	Collections   []string `json:"collections"`
	Problems      []string `json:"problems,omitempty"`
}

// Step returns the result recorded for name, if any.
func (r *ProvisionResult) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}
