package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/formdesk-api/internal/middleware"
	"github.com/noah-isme/formdesk-api/internal/models"
	"github.com/noah-isme/formdesk-api/internal/service"
)

// Routes bundles everything Register mounts.
type Routes struct {
	Prefix        string
	Auth          *service.AuthService
	AuthHandler   *AuthHandler
	Submissions   *SubmissionHandler
	Forms         *FormHandler
	Metrics       *MetricsHandler
	EnableMetrics bool
	EnableExports bool
	LegacyAliases bool
}

// adminRoles may use the review dashboard.
var adminRoles = []models.AdminRole{models.RoleAdministrator, models.RoleManager}

// Register mounts the public and admin routes on the engine.
func Register(r *gin.Engine, rt Routes) {
	r.GET("/health", rt.Metrics.Health)
	r.GET("/ready", rt.Metrics.Ready)
	if rt.EnableMetrics {
		r.GET("/metrics", rt.Metrics.Prometheus)
	}

	api := r.Group(rt.Prefix)
	api.POST("/auth/login", rt.AuthHandler.Login)
	api.GET("/forms", rt.Forms.Catalog)
	api.POST("/submissions", rt.Submissions.Submit)

	session := api.Group("/auth", middleware.JWT(rt.Auth))
	session.GET("/me", rt.AuthHandler.Me)
	session.POST("/logout", rt.AuthHandler.Logout)

	admin := api.Group("/admin", middleware.JWT(rt.Auth), middleware.RequireRoles(adminRoles...))
	admin.GET("/submissions", rt.Submissions.List)
	admin.POST("/submissions/comments", rt.Submissions.UpdateComments)
	admin.GET("/submissions/:id/audit", rt.Submissions.History)
	if rt.EnableExports {
		admin.GET("/submissions/export", rt.Submissions.Export)
	}

	if rt.LegacyAliases {
		api.POST("/admin/auth/login", rt.AuthHandler.Login)
		admin.GET("/get-submissions", rt.Submissions.List)
		admin.POST("/update-comments", rt.Submissions.UpdateComments)
		admin.POST("/submissions/update-comments", rt.Submissions.UpdateComments)
	}
}
