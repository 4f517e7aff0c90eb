package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"workload/internal/handler"
	"workload/pkg/rbac"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	employeeHandler *handler.EmployeeHandler,
	jwtSecret string,
	markers MarkerStore,
	roles RoleResolver,
	db *pgxpool.Pool,
) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret, markers, roles))
	{
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authHandler.Me)

		// Admin routes
		auth.POST("/employees", RequirePermission(rbac.PermissionCreateEmployee), adminHandler.CreateEmployee)
		auth.GET("/employees", RequirePermission(rbac.PermissionListEmployees), adminHandler.ListEmployees)
		auth.GET("/employees/:id/tasks", RequirePermission(rbac.PermissionReadAllTasks), adminHandler.TasksForEmployee)
		auth.POST("/tasks", RequirePermission(rbac.PermissionCreateTask), adminHandler.CreateTask)
		auth.GET("/tasks", RequirePermission(rbac.PermissionReadAllTasks), adminHandler.ListTasks)
		auth.DELETE("/tasks/:id", RequirePermission(rbac.PermissionDeleteTask), adminHandler.DeleteTask)

		// Employee routes
		auth.GET("/me/tasks", RequirePermission(rbac.PermissionReadOwnTasks), employeeHandler.MyTasks)
		auth.PATCH("/tasks/:id/status", RequirePermission(rbac.PermissionUpdateStatus), employeeHandler.UpdateStatus)
		auth.POST("/tasks/:id/comments", RequirePermission(rbac.PermissionComment), employeeHandler.AddComment)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
