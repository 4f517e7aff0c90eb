// Package task implements the task workflow over the repository:
// assignment, listing, status updates, comments and deletion.
package task

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workload/internal/apperr"
	"workload/internal/model"
	"workload/internal/mq"
	"workload/pkg/metrics"
)

type TaskStore interface {
	Insert(ctx context.Context, t *model.Task) (string, error)
	Get(ctx context.Context, id string) (*model.Task, error)
	ListAll(ctx context.Context) ([]model.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]model.Task, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) error
	AppendComment(ctx context.Context, id, text string) error
	Delete(ctx context.Context, id string) error
}

type UserStore interface {
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	ListEmployees(ctx context.Context) ([]model.User, error)
}

type Service struct {
	tasks     TaskStore
	users     UserStore
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewService(tasks TaskStore, users UserStore, publisher mq.Publisher, logger *zap.Logger) *Service {
	return &Service{
		tasks:     tasks,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

// Create assigns a new task. The assignee must be an existing user with
// the employee role. Status always starts at "Yet to start" with no
// comments; the deadline is stored as given, past dates included.
func (s *Service) Create(ctx context.Context, description, assignee, assignedBy string, deadline time.Time) (*model.Task, error) {
	if description == "" {
		return nil, &apperr.ValidationError{Reason: "description is required"}
	}

	u, err := s.users.FindUserByID(ctx, assignee)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperr.NotFoundError{Resource: "user", ID: assignee}
	}
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "look up assignee", Err: err}
	}
	if u.Role != model.RoleEmployee {
		return nil, &apperr.ValidationError{Reason: "assignee is not an employee"}
	}

	t := &model.Task{
		Description: description,
		Assignee:    assignee,
		AssignedBy:  assignedBy,
		Deadline:    deadline,
		Status:      model.StatusYetToStart,
		Comments:    []string{},
	}
	if _, err := s.tasks.Insert(ctx, t); err != nil {
		return nil, &apperr.PersistenceError{Op: "create task", Err: err}
	}
	metrics.IncrementTaskOperation("create")

	if err := s.publisher.Publish(mq.KeyTaskCreated, mq.TaskCreatedPayload{
		TaskID:     t.ID,
		Assignee:   t.Assignee,
		AssignedBy: t.AssignedBy,
		Deadline:   t.Deadline,
	}); err != nil {
		s.logger.Warn("Failed to publish task.created", zap.Error(err))
	}

	return t, nil
}

// ListAll returns every task, for administrative oversight.
func (s *Service) ListAll(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.tasks.ListAll(ctx)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "list tasks", Err: err}
	}
	return tasks, nil
}

// ListFor returns the tasks assigned to one user.
func (s *Service) ListFor(ctx context.Context, userID string) ([]model.Task, error) {
	tasks, err := s.tasks.ListByAssignee(ctx, userID)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "list tasks for assignee", Err: err}
	}
	return tasks, nil
}

// Employees lists the assignable users.
func (s *Service) Employees(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListEmployees(ctx)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "list employees", Err: err}
	}
	return users, nil
}

// ChangeStatus replaces a task's status. The raw value is parsed
// against the closed enumeration before anything touches storage;
// transitions between valid statuses are unrestricted. The actor must
// be the task's assignee — tasks belonging to someone else look
// missing on purpose.
func (s *Service) ChangeStatus(ctx context.Context, taskID, rawStatus, actorID string) error {
	status, ok := model.ParseStatus(rawStatus)
	if !ok {
		return &apperr.ValidationError{Reason: "unknown status: " + rawStatus}
	}

	if err := s.requireAssignee(ctx, taskID, actorID); err != nil {
		return err
	}

	if err := s.tasks.UpdateStatus(ctx, taskID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &apperr.NotFoundError{Resource: "task", ID: taskID}
		}
		return &apperr.PersistenceError{Op: "update task status", Err: err}
	}
	metrics.IncrementTaskOperation("status_update")

	if err := s.publisher.Publish(mq.KeyTaskStatusUpdated, mq.TaskStatusUpdatedPayload{
		TaskID: taskID,
		Status: string(status),
	}); err != nil {
		s.logger.Warn("Failed to publish task.status_updated", zap.Error(err))
	}
	return nil
}

// Comment appends one comment to the actor's own task.
func (s *Service) Comment(ctx context.Context, taskID, text, actorID string) error {
	if text == "" {
		return &apperr.ValidationError{Reason: "comment text is required"}
	}

	if err := s.requireAssignee(ctx, taskID, actorID); err != nil {
		return err
	}

	if err := s.tasks.AppendComment(ctx, taskID, text); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &apperr.NotFoundError{Resource: "task", ID: taskID}
		}
		return &apperr.PersistenceError{Op: "append comment", Err: err}
	}
	metrics.IncrementTaskOperation("comment")

	if err := s.publisher.Publish(mq.KeyTaskCommented, mq.TaskCommentedPayload{TaskID: taskID}); err != nil {
		s.logger.Warn("Failed to publish task.commented", zap.Error(err))
	}
	return nil
}

// Delete removes a task permanently. No soft delete; the comments go
// with it.
func (s *Service) Delete(ctx context.Context, taskID string) error {
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &apperr.NotFoundError{Resource: "task", ID: taskID}
		}
		return &apperr.PersistenceError{Op: "delete task", Err: err}
	}
	metrics.IncrementTaskOperation("delete")

	if err := s.publisher.Publish(mq.KeyTaskDeleted, mq.TaskDeletedPayload{TaskID: taskID}); err != nil {
		s.logger.Warn("Failed to publish task.deleted", zap.Error(err))
	}
	return nil
}

func (s *Service) requireAssignee(ctx context.Context, taskID, actorID string) error {
	t, err := s.tasks.Get(ctx, taskID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &apperr.NotFoundError{Resource: "task", ID: taskID}
	}
	if err != nil {
		return &apperr.PersistenceError{Op: "look up task", Err: err}
	}
	if t.Assignee != actorID {
		return &apperr.NotFoundError{Resource: "task", ID: taskID}
	}
	return nil
}
