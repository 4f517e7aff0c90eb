package model

import "time"

type Status string

const (
	StatusYetToStart Status = "Yet to start"
	StatusInProgress Status = "In progress"
	StatusCompleted  Status = "Completed"
	StatusBlocked    Status = "Blocked"
)

// ParseStatus validates a status string at the boundary. Transitions
// between valid statuses are unrestricted.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusYetToStart, StatusInProgress, StatusCompleted, StatusBlocked:
		return Status(s), true
	}
	return "", false
}

type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Assignee    string    `json:"assignee"`
	AssignedBy  string    `json:"assigned_by"`
	Deadline    time.Time `json:"deadline"`
	Status      Status    `json:"status"`
	Comments    []string  `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}
