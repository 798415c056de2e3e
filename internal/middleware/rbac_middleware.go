package middleware

import (
	"net/http"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/domain"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContextKey string

const (
	ContextEmployeeID ContextKey = "employee_id"
	ContextCompanyID  ContextKey = "company_id"
)

// RBACService is satisfied by anything that can answer an EnforceRequest.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID := c.GetString(string(ContextEmployeeID))
		companyID := c.GetString(string(ContextCompanyID))

		if employeeID == "" || companyID == "" {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Missing auth context")
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			EmployeeID: employeeID,
			CompanyID:  companyID,
			Resource:   resource,
			Action:     action,
		})
		if err != nil {
			zap.L().Named("middleware.rbac").Error("rbac enforce failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			response.Abort(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.ErrInternal.Message)
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ApiEnvelope{
				Success: false,
				Code:    apperror.CodeForbidden,
				Message: apperror.ErrForbidden.Message,
				Errors:  map[string]string{"required": resource + ":" + action},
			})
			return
		}
		c.Next()
	}
}
