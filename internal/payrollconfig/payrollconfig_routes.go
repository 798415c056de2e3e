package payrollconfig

import (
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/domain"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	settings := r.Group("/payroll-settings")
	settings.Use(middleware.AuthMiddleware())
	{
		settings.GET("", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollSetting, "read"), h.Get)
		settings.PUT("", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollSetting, "update"), h.Update)
		settings.GET("/history", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollSetting, "read"), h.History)
	}
}
