package taskstore

import (
	"fmt"
	"strings"
)

type (
	TaskNotFound struct {
		ID int64
	}

	DuplicateTaskID struct {
		ID int64
	}

	DuplicateUsername struct {
		Username string
	}

	UserNotFound struct {
		Username string
	}

	FieldError struct {
		Field  string `json:"field"`
		Reason string `json:"reason"`
	}

	InvalidTask struct {
		Fields []FieldError
	}
)

func (t TaskNotFound) Error() string {
	return fmt.Sprintf("task %v not found", t.ID)
}

func (d DuplicateTaskID) Error() string {
	return fmt.Sprintf("task %v already exists", d.ID)
}

func (d DuplicateUsername) Error() string {
	return fmt.Sprintf("username %v is already taken", d.Username)
}

func (u UserNotFound) Error() string {
	return fmt.Sprintf("user %v not found", u.Username)
}

func (i InvalidTask) Error() string {
	parts := make([]string, 0, len(i.Fields))
	for _, f := range i.Fields {
		parts = append(parts, fmt.Sprintf("%v: %v", f.Field, f.Reason))
	}
	return fmt.Sprintf("invalid task: %v", strings.Join(parts, "; "))
}
