package report

import (
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/domain"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	reports := r.Group("/payroll-reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollReport, "read"), h.Generate)
		reports.GET("/analytics", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollReport, "read"), h.Analytics)
	}
}
