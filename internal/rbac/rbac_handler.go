package rbac

import (
	"net/http"
	"strings"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Enforce answers a permission question for the caller's own company.
func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest
	req.CompanyID = c.GetString("company_id")
	req.EmployeeID = c.GetString("employee_id")

	var body struct {
		Resource string `json:"resource" binding:"required"`
		Action   string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	req.Resource = strings.TrimSpace(body.Resource)
	req.Action = strings.TrimSpace(body.Action)

	allowed, err := h.service.Enforce(req)
	if err != nil {
		zap.L().Named("rbac.handler").Error("enforce failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.ErrInternal.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, "OK", EnforceResponse{Allowed: allowed}, nil)
}

// Me lists the effective permissions of the caller.
func (h *Handler) Me(c *gin.Context) {
	perms, err := h.service.PermissionsFor(c.GetString("company_id"), c.GetString("employee_id"))
	if err != nil {
		zap.L().Named("rbac.handler").Error("list permissions failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.ErrInternal.Message, nil)
		return
	}
	response.Success(c, http.StatusOK, "OK", perms, nil)
}
