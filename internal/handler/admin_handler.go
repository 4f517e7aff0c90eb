package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workload/internal/model"
	"workload/internal/session"
)

// TaskService is the slice of the task workflow the HTTP layer needs.
type TaskService interface {
	Create(ctx context.Context, description, assignee, assignedBy string, deadline time.Time) (*model.Task, error)
	ListAll(ctx context.Context) ([]model.Task, error)
	ListFor(ctx context.Context, userID string) ([]model.Task, error)
	ChangeStatus(ctx context.Context, taskID, rawStatus, actorID string) error
	Comment(ctx context.Context, taskID, text, actorID string) error
	Delete(ctx context.Context, taskID string) error
	Employees(ctx context.Context) ([]model.User, error)
}

// AdminHandler serves the administrator routes: employee provisioning,
// task assignment and oversight.
type AdminHandler struct {
	tasks   TaskService
	gateway Gateway
	logger  *zap.Logger
}

func NewAdminHandler(tasks TaskService, gateway Gateway, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{tasks: tasks, gateway: gateway, logger: logger}
}

type createEmployeeRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateEmployee handles POST /employees.
func (h *AdminHandler) CreateEmployee(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	u, err := h.gateway.CreateAccount(c.Request.Context(), req.Email, req.Password, model.RoleEmployee)
	if err != nil {
		h.logger.Warn("CreateEmployee failed", zap.String("email", req.Email), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    u.ID,
		"email": u.Email,
		"role":  u.Role,
	})
}

// ListEmployees handles GET /employees.
func (h *AdminHandler) ListEmployees(c *gin.Context) {
	users, err := h.tasks.Employees(c.Request.Context())
	if err != nil {
		h.logger.Error("ListEmployees failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employees": users})
}

type createTaskRequest struct {
	Description string    `json:"description" binding:"required"`
	Assignee    string    `json:"assignee" binding:"required"`
	Deadline    time.Time `json:"deadline" binding:"required"`
}

// CreateTask handles POST /tasks. The assigner is taken from the
// session, never from the request body.
func (h *AdminHandler) CreateTask(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description, assignee and deadline are required"})
		return
	}

	t, err := h.tasks.Create(c.Request.Context(), req.Description, req.Assignee, sess.UserID, req.Deadline)
	if err != nil {
		h.logger.Warn("CreateTask failed",
			zap.String("assignee", req.Assignee),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": t})
}

// ListTasks handles GET /tasks: every task, for oversight.
func (h *AdminHandler) ListTasks(c *gin.Context) {
	tasks, err := h.tasks.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("ListTasks failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// TasksForEmployee handles GET /employees/:id/tasks.
func (h *AdminHandler) TasksForEmployee(c *gin.Context) {
	employeeID := c.Param("id")

	tasks, err := h.tasks.ListFor(c.Request.Context(), employeeID)
	if err != nil {
		h.logger.Error("TasksForEmployee failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// DeleteTask handles DELETE /tasks/:id.
func (h *AdminHandler) DeleteTask(c *gin.Context) {
	taskID := c.Param("id")

	if err := h.tasks.Delete(c.Request.Context(), taskID); err != nil {
		h.logger.Warn("DeleteTask failed", zap.String("task_id", taskID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
