package models

// Coordinator is the identity resolved from an access token: who is running
// which hall of which event. Read once at dashboard start and treated as
// immutable for the dashboard's lifetime.
type Coordinator struct {
	CoordinatorID string `json:"coordinator_id"`
	EventID       string `json:"event_id"`
	EventName     string `json:"event_name,omitempty"`
	Hall          string `json:"hall"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
}
