package period

import (
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/domain"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	periods := r.Group("/payroll-periods")
	periods.Use(middleware.AuthMiddleware(), middleware.UUIDParam("id"))

	authorize := func(action string) gin.HandlerFunc {
		return middleware.RBACAuthorize(rbacService, domain.ResourcePayrollPeriod, action)
	}
	{
		periods.GET("", authorize("read"), h.List)
		periods.GET("/:id", authorize("read"), h.GetByID)
		periods.GET("/:id/summary", authorize("read"), h.Summary)
		periods.POST("", authorize("create"), h.Create)
		periods.PATCH("/:id", authorize("update"), h.Update)
		periods.DELETE("/:id", authorize("delete"), h.Delete)
		periods.POST("/:id/open", authorize("update"), h.Open)
		periods.POST("/:id/process", authorize("update"), h.StartProcessing)
		periods.POST("/:id/close", authorize("close"), h.Close)
		periods.POST("/:id/reopen", authorize("close"), h.Reopen)
	}
}
