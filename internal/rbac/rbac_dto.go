package rbac

import "github.com/Jkrlos982/wl-soccer-school-sub000/internal/domain"

type EnforceRequest = domain.EnforceRequest

type EnforceResponse = domain.EnforceResponse

type PermissionResponse struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
