package taskstore

import "strings"

// Validate checks the client-controlled fields and reports every
// violation at once. Validation is pure: the store invokes it
// explicitly before any mutation, nothing is checked on construction.
func (in TaskInput) Validate() error {
	var fields []FieldError
	if in.ID < 0 {
		fields = append(fields, FieldError{Field: "id", Reason: "must be a positive integer"})
	}
	if strings.TrimSpace(in.Title) == "" {
		fields = append(fields, FieldError{Field: "title", Reason: "must not be empty"})
	}
	if strings.TrimSpace(in.Description) == "" {
		fields = append(fields, FieldError{Field: "description", Reason: "must not be empty"})
	}
	switch in.Status {
	case StatusPending, StatusCompleted:
	default:
		fields = append(fields, FieldError{Field: "status", Reason: "must be pending or completed"})
	}
	if len(fields) > 0 {
		return InvalidTask{Fields: fields}
	}
	return nil
}
