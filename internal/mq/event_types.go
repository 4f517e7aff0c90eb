package mq

import "time"

// Routing keys for published events.
const (
	KeyAccountCreated    = "account.created"
	KeyTaskCreated       = "task.created"
	KeyTaskStatusUpdated = "task.status_updated"
	KeyTaskCommented     = "task.commented"
	KeyTaskDeleted       = "task.deleted"
)

type AccountCreatedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type TaskCreatedPayload struct {
	TaskID     string    `json:"task_id"`
	Assignee   string    `json:"assignee"`
	AssignedBy string    `json:"assigned_by"`
	Deadline   time.Time `json:"deadline"`
}

type TaskStatusUpdatedPayload struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type TaskCommentedPayload struct {
	TaskID string `json:"task_id"`
}

type TaskDeletedPayload struct {
	TaskID string `json:"task_id"`
}
