package task

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workload/internal/apperr"
	"workload/internal/model"
	"workload/internal/mq"
)

type fakeTaskStore struct {
	tasks  []*model.Task
	nextID int
}

func (f *fakeTaskStore) Insert(_ context.Context, t *model.Task) (string, error) {
	f.nextID++
	t.ID = fmt.Sprintf("t%d", f.nextID)
	t.CreatedAt = time.Now()
	clone := *t
	clone.Comments = append([]string{}, t.Comments...)
	f.tasks = append(f.tasks, &clone)
	return t.ID, nil
}

func (f *fakeTaskStore) find(id string) *model.Task {
	for _, t := range f.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (f *fakeTaskStore) Get(_ context.Context, id string) (*model.Task, error) {
	t := f.find(id)
	if t == nil {
		return nil, pgx.ErrNoRows
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTaskStore) ListAll(_ context.Context) ([]model.Task, error) {
	out := []model.Task{}
	for _, t := range f.tasks {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTaskStore) ListByAssignee(_ context.Context, userID string) ([]model.Task, error) {
	out := []model.Task{}
	for _, t := range f.tasks {
		if t.Assignee == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) UpdateStatus(_ context.Context, id string, status model.Status) error {
	t := f.find(id)
	if t == nil {
		return pgx.ErrNoRows
	}
	t.Status = status
	return nil
}

func (f *fakeTaskStore) AppendComment(_ context.Context, id, text string) error {
	t := f.find(id)
	if t == nil {
		return pgx.ErrNoRows
	}
	t.Comments = append(t.Comments, text)
	return nil
}

func (f *fakeTaskStore) Delete(_ context.Context, id string) error {
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeUserStore struct {
	users map[string]*model.User
}

func (f *fakeUserStore) FindUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) ListEmployees(_ context.Context) ([]model.User, error) {
	out := []model.User{}
	for _, u := range f.users {
		if u.Role == model.RoleEmployee {
			out = append(out, *u)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeTaskStore, *fakeUserStore) {
	tasks := &fakeTaskStore{}
	users := &fakeUserStore{users: map[string]*model.User{
		"u1":    {ID: "u1", Email: "e1@x.com", Role: model.RoleEmployee},
		"u2":    {ID: "u2", Email: "e2@x.com", Role: model.RoleEmployee},
		"admin": {ID: "admin", Email: "boss@x.com", Role: model.RoleAdmin},
	}}
	return NewService(tasks, users, mq.NoopPublisher{}, zap.NewNop()), tasks, users
}

func TestCreateInitialState(t *testing.T) {
	svc, _, _ := newTestService()
	deadline := time.Now().Add(48 * time.Hour)

	created, err := svc.Create(context.Background(), "Write report", "u1", "admin", deadline)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.Status != model.StatusYetToStart {
		t.Errorf("initial status = %q, want %q", created.Status, model.StatusYetToStart)
	}
	if len(created.Comments) != 0 {
		t.Errorf("initial comments = %v, want empty", created.Comments)
	}
	if created.ID == "" {
		t.Error("expected an assigned id")
	}
	if created.AssignedBy != "admin" {
		t.Errorf("assigned_by = %q, want admin", created.AssignedBy)
	}
}

func TestCreatePastDeadlineAllowed(t *testing.T) {
	svc, _, _ := newTestService()

	// No validation that the deadline is in the future.
	_, err := svc.Create(context.Background(), "Overdue already", "u1", "admin", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Create with past deadline: %v", err)
	}
}

func TestCreateAssigneeChecks(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	deadline := time.Now()

	if _, err := svc.Create(ctx, "desc", "ghost", "admin", deadline); !apperr.IsNotFound(err) {
		t.Errorf("unknown assignee: expected NotFoundError, got %v", err)
	}
	if _, err := svc.Create(ctx, "desc", "admin", "admin", deadline); !apperr.IsValidation(err) {
		t.Errorf("non-employee assignee: expected ValidationError, got %v", err)
	}
	if _, err := svc.Create(ctx, "", "u1", "admin", deadline); !apperr.IsValidation(err) {
		t.Errorf("empty description: expected ValidationError, got %v", err)
	}
}

func TestListForReturnsExactSubset(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	deadline := time.Now()

	t1, _ := svc.Create(ctx, "for u1 a", "u1", "admin", deadline)
	t2, _ := svc.Create(ctx, "for u2", "u2", "admin", deadline)
	t3, _ := svc.Create(ctx, "for u1 b", "u1", "admin", deadline)

	got, err := svc.ListFor(ctx, "u1")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListFor(u1) returned %d tasks, want 2", len(got))
	}
	for _, task := range got {
		if task.Assignee != "u1" {
			t.Errorf("task %s has assignee %q", task.ID, task.Assignee)
		}
		if task.ID == t2.ID {
			t.Error("u2's task leaked into u1's list")
		}
	}
	_ = t1
	_ = t3
}

func TestChangeStatus(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "desc", "u1", "admin", time.Now())

	if err := svc.ChangeStatus(ctx, created.ID, "In progress", "u1"); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if got := store.find(created.ID).Status; got != model.StatusInProgress {
		t.Errorf("status = %q, want In progress", got)
	}

	// Any valid transition is allowed, including backwards.
	if err := svc.ChangeStatus(ctx, created.ID, "Yet to start", "u1"); err != nil {
		t.Fatalf("backwards transition: %v", err)
	}

	if err := svc.ChangeStatus(ctx, created.ID, "Done", "u1"); !apperr.IsValidation(err) {
		t.Errorf("unknown status: expected ValidationError, got %v", err)
	}
	if err := svc.ChangeStatus(ctx, "missing", "Blocked", "u1"); !apperr.IsNotFound(err) {
		t.Errorf("missing task: expected NotFoundError, got %v", err)
	}
}

func TestChangeStatusOwnershipEnforced(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "desc", "u1", "admin", time.Now())

	err := svc.ChangeStatus(ctx, created.ID, "Completed", "u2")
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected NotFoundError for someone else's task, got %v", err)
	}
	if got := store.find(created.ID).Status; got != model.StatusYetToStart {
		t.Errorf("status changed by non-assignee: %q", got)
	}
}

func TestCommentOrderPreserved(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "desc", "u1", "admin", time.Now())

	if err := svc.Comment(ctx, created.ID, "first", "u1"); err != nil {
		t.Fatalf("Comment: %v", err)
	}
	if err := svc.Comment(ctx, created.ID, "second", "u1"); err != nil {
		t.Fatalf("Comment: %v", err)
	}

	got := store.find(created.ID).Comments
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("comments = %v, want [first second]", got)
	}

	if err := svc.Comment(ctx, created.ID, "", "u1"); !apperr.IsValidation(err) {
		t.Errorf("empty comment: expected ValidationError, got %v", err)
	}
	if err := svc.Comment(ctx, created.ID, "sneaky", "u2"); !apperr.IsNotFound(err) {
		t.Errorf("non-assignee comment: expected NotFoundError, got %v", err)
	}
}

func TestDeleteRemovesTask(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, "desc", "u1", "admin", time.Now())

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	for _, task := range all {
		if task.ID == created.ID {
			t.Error("deleted task still listed")
		}
	}

	if err := svc.Delete(ctx, created.ID); !apperr.IsNotFound(err) {
		t.Errorf("second delete: expected NotFoundError, got %v", err)
	}
}

func TestEmployees(t *testing.T) {
	svc, _, _ := newTestService()

	users, err := svc.Employees(context.Background())
	if err != nil {
		t.Fatalf("Employees: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d employees, want 2", len(users))
	}
	for _, u := range users {
		if u.Role != model.RoleEmployee {
			t.Errorf("non-employee %q in employee list", u.ID)
		}
	}
}

// Full lifecycle: create, list, progress, comment, delete.
func TestTaskLifecycle(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	deadline := time.Now().Add(72 * time.Hour)

	created, err := svc.Create(ctx, "Write report", "u1", "admin", deadline)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	mine, err := svc.ListFor(ctx, "u1")
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(mine) != 1 || mine[0].Status != model.StatusYetToStart {
		t.Fatalf("unexpected task list: %+v", mine)
	}

	if err := svc.ChangeStatus(ctx, created.ID, "In progress", "u1"); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	refetched, _ := store.Get(ctx, created.ID)
	if refetched.Status != model.StatusInProgress {
		t.Errorf("status after update = %q", refetched.Status)
	}

	if err := svc.Comment(ctx, created.ID, "started", "u1"); err != nil {
		t.Fatalf("Comment: %v", err)
	}
	refetched, _ = store.Get(ctx, created.ID)
	if len(refetched.Comments) != 1 || refetched.Comments[0] != "started" {
		t.Errorf("comments after append = %v", refetched.Comments)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, _ := svc.ListAll(ctx)
	if len(all) != 0 {
		t.Errorf("ListAll after delete = %+v", all)
	}
}
