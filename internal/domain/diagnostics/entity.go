package diagnostics

import "time"

// Failure is one recorded assessment failure. It never carries the user's
// input or a generated assessment; PayloadRef points at a quarantined
// malformed payload when one was kept.
type Failure struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Provider   string    `json:"provider,omitempty"`
	Model      string    `json:"model,omitempty"`
	Status     int       `json:"status,omitempty"`
	Message    string    `json:"message"`
	PayloadRef string    `json:"payload_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
