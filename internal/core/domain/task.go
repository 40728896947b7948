package domain

// DefaultTaskPriority is used when the caller does not set one.
const DefaultTaskPriority = "Medium"

// Task is the payload for a delegated CRM task creation.
type Task struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// Validate checks the payload and fills defaults. An empty name is
// rejected; an empty priority becomes DefaultTaskPriority.
func (t *Task) Validate() error {
	if t.Name == "" {
		return ErrInvalidInput
	}
	if t.Priority == "" {
		t.Priority = DefaultTaskPriority
	}
	return nil
}
