package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workload/internal/session"
)

// EmployeeHandler serves the employee routes: own tasks, status updates
// and comments.
type EmployeeHandler struct {
	tasks  TaskService
	logger *zap.Logger
}

func NewEmployeeHandler(tasks TaskService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{tasks: tasks, logger: logger}
}

// MyTasks handles GET /me/tasks.
func (h *EmployeeHandler) MyTasks(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	tasks, err := h.tasks.ListFor(c.Request.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("MyTasks failed", zap.String("user_id", sess.UserID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /tasks/:id/status.
func (h *EmployeeHandler) UpdateStatus(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	taskID := c.Param("id")
	if err := h.tasks.ChangeStatus(c.Request.Context(), taskID, req.Status, sess.UserID); err != nil {
		h.logger.Warn("UpdateStatus failed",
			zap.String("task_id", taskID),
			zap.String("status", req.Status),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type addCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddComment handles POST /tasks/:id/comments.
func (h *EmployeeHandler) AddComment(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	taskID := c.Param("id")
	if err := h.tasks.Comment(c.Request.Context(), taskID, req.Text, sess.UserID); err != nil {
		h.logger.Warn("AddComment failed", zap.String("task_id", taskID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
