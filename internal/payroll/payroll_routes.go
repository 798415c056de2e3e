package payroll

import (
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/domain"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Calculation endpoints allow a burst of 20 per user, refilled at 5/s.
const (
	calculateRate  = rate.Limit(5)
	calculateBurst = 20
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware(), middleware.UUIDParam("id"))

	authorize := func(action string) gin.HandlerFunc {
		return middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, action)
	}

	calculate := []gin.HandlerFunc{
		middleware.RateLimitByUser(calculateRate, calculateBurst),
		authorize("calculate"),
	}
	if redisClient != nil {
		calculate = append(calculate, middleware.Idempotency(redisClient))
	}
	calculate = append(calculate, handler.Calculate)
	{
		payrolls.GET("", authorize("read"), handler.List)
		payrolls.GET("/:id", authorize("read"), handler.GetByID)
		payrolls.GET("/:id/breakdown", authorize("read"), handler.GetBreakdown)
		payrolls.GET("/:id/payslip", authorize("read"), handler.DownloadPayslip)
		payrolls.POST("", authorize("create"), handler.Create)
		payrolls.POST("/calculate", calculate...)
		payrolls.PATCH("/:id", authorize("update"), handler.Update)
		payrolls.DELETE("/:id", authorize("delete"), handler.Delete)
		payrolls.POST("/:id/approve", authorize("approve"), handler.Approve)
		payrolls.POST("/:id/reject", authorize("approve"), handler.Reject)
		payrolls.POST("/:id/pay", authorize("pay"), handler.MarkAsPaid)
	}
}
