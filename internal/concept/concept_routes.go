package concept

import (
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/domain"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	concepts := r.Group("/payroll-concepts")
	concepts.Use(middleware.AuthMiddleware(), middleware.UUIDParam("id"))

	read := middleware.RBACAuthorize(rbacService, domain.ResourcePayrollConcept, "read")
	{
		concepts.GET("", read, h.List)
		concepts.POST("/validate-formula", read, h.ValidateFormula)
		concepts.GET("/:id", read, h.GetByID)
		concepts.POST("", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollConcept, "create"), h.Create)
		concepts.PATCH("/:id", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollConcept, "update"), h.Update)
		concepts.DELETE("/:id", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollConcept, "delete"), h.Delete)
		concepts.POST("/:id/activate", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollConcept, "update"), h.Activate)
		concepts.POST("/:id/deactivate", middleware.RBACAuthorize(rbacService, domain.ResourcePayrollConcept, "update"), h.Deactivate)
	}
}
