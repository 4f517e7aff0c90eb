package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workload/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// Insert stores a new task. ID and creation time are assigned by the
// database and written back into t.
func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) (string, error) {
	query := `
        INSERT INTO tasks (description, assignee, assigned_by, deadline, status, comments)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		t.Description,
		t.Assignee,
		t.AssignedBy,
		t.Deadline,
		t.Status,
		t.Comments,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.String("assignee", t.Assignee),
		)
		return "", err
	}
	r.logger.Info("Task inserted",
		zap.String("task_id", t.ID),
		zap.String("assignee", t.Assignee),
	)
	return t.ID, nil
}

// Get returns a single task by ID.
func (r *TaskRepository) Get(ctx context.Context, id string) (*model.Task, error) {
	query := `
        SELECT id, description, assignee, assigned_by, deadline, status, comments, created_at
        FROM tasks
        WHERE id = $1
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Description,
		&t.Assignee,
		&t.AssignedBy,
		&t.Deadline,
		&t.Status,
		&t.Comments,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAll returns every task, newest first.
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	query := `
        SELECT id, description, assignee, assigned_by, deadline, status, comments, created_at
        FROM tasks
        ORDER BY created_at DESC
    `
	return r.queryTasks(ctx, query)
}

// ListByAssignee returns the tasks assigned to one user, newest first.
func (r *TaskRepository) ListByAssignee(ctx context.Context, userID string) ([]model.Task, error) {
	query := `
        SELECT id, description, assignee, assigned_by, deadline, status, comments, created_at
        FROM tasks
        WHERE assignee = $1
        ORDER BY created_at DESC
    `
	return r.queryTasks(ctx, query, userID)
}

// UpdateStatus replaces the status field. Last write wins; there is no
// version check. Returns pgx.ErrNoRows for an unknown task.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	query := `
        UPDATE tasks
        SET status = $2
        WHERE id = $1
    `
	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.logger.Error("Failed to update task status",
			zap.Error(err),
			zap.String("task_id", id),
		)
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	r.logger.Info("Task status updated",
		zap.String("task_id", id),
		zap.String("status", string(status)),
	)
	return nil
}

// AppendComment appends one comment to the task's comment array in a
// single UPDATE, so concurrent appends both land and keep arrival
// order. Comments are never edited or removed.
func (r *TaskRepository) AppendComment(ctx context.Context, id, text string) error {
	query := `
        UPDATE tasks
        SET comments = comments || to_jsonb($2::text)
        WHERE id = $1
    `
	result, err := r.db.Exec(ctx, query, id, text)
	if err != nil {
		r.logger.Error("Failed to append comment",
			zap.Error(err),
			zap.String("task_id", id),
		)
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a task permanently, comments included.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	query := `
        DELETE FROM tasks
        WHERE id = $1
    `
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete task",
			zap.Error(err),
			zap.String("task_id", id),
		)
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	r.logger.Info("Task deleted", zap.String("task_id", id))
	return nil
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.Description,
			&t.Assignee,
			&t.AssignedBy,
			&t.Deadline,
			&t.Status,
			&t.Comments,
			&t.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan task row", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
