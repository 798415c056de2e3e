package concept

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateConceptRequest struct {
	Code                  string           `json:"code" binding:"required,max=50"`
	Name                  string           `json:"name" binding:"required,max=150"`
	Description           string           `json:"description"`
	Type                  string           `json:"type" binding:"required,oneof=earning deduction tax benefit"`
	CalculationType       string           `json:"calculation_type" binding:"required,oneof=fixed percentage formula"`
	DefaultValue          *decimal.Decimal `json:"default_value"`
	PercentageBase        string           `json:"percentage_base" binding:"max=50"`
	Formula               string           `json:"formula"`
	IsTaxable             *bool            `json:"is_taxable"`
	AffectsSocialSecurity bool             `json:"affects_social_security"`
	IsMandatory           bool             `json:"is_mandatory"`
	DisplayOrder          int              `json:"display_order" binding:"gte=0"`
	PriorityOrder         int              `json:"priority_order" binding:"gte=0"`
}

// UpdateConceptRequest has PATCH semantics: nil fields are left alone.
type UpdateConceptRequest struct {
	Code                  *string          `json:"code" binding:"omitempty,max=50"`
	Name                  *string          `json:"name" binding:"omitempty,max=150"`
	Description           *string          `json:"description"`
	Type                  *string          `json:"type" binding:"omitempty,oneof=earning deduction tax benefit"`
	CalculationType       *string          `json:"calculation_type" binding:"omitempty,oneof=fixed percentage formula"`
	DefaultValue          *decimal.Decimal `json:"default_value"`
	PercentageBase        *string          `json:"percentage_base" binding:"omitempty,max=50"`
	Formula               *string          `json:"formula"`
	IsTaxable             *bool            `json:"is_taxable"`
	AffectsSocialSecurity *bool            `json:"affects_social_security"`
	IsMandatory           *bool            `json:"is_mandatory"`
	DisplayOrder          *int             `json:"display_order" binding:"omitempty,gte=0"`
	PriorityOrder         *int             `json:"priority_order" binding:"omitempty,gte=0"`
}

type ListFilter struct {
	Type   string `form:"type" binding:"omitempty,oneof=earning deduction tax benefit"`
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
	Search string `form:"search"`
}

type ValidateFormulaRequest struct {
	Formula    string   `json:"formula" binding:"required"`
	KnownCodes []string `json:"known_codes"`
}

type ValidateFormulaResponse struct {
	Valid     bool     `json:"valid"`
	Variables []string `json:"variables"`
	Missing   []string `json:"missing,omitempty"`
}

type ConceptResponse struct {
	ID                    string           `json:"id"`
	Code                  string           `json:"code"`
	Name                  string           `json:"name"`
	Description           string           `json:"description,omitempty"`
	Type                  string           `json:"type"`
	CalculationType       string           `json:"calculation_type"`
	DefaultValue          *decimal.Decimal `json:"default_value"`
	PercentageBase        string           `json:"percentage_base,omitempty"`
	Formula               string           `json:"formula,omitempty"`
	IsTaxable             bool             `json:"is_taxable"`
	AffectsSocialSecurity bool             `json:"affects_social_security"`
	IsMandatory           bool             `json:"is_mandatory"`
	DisplayOrder          int              `json:"display_order"`
	PriorityOrder         int              `json:"priority_order"`
	Status                string           `json:"status"`
	CreatedAt             string           `json:"created_at"`
	UpdatedAt             string           `json:"updated_at"`
}

// GroupedConcepts maps a concept type to its active concepts.
type GroupedConcepts map[string][]ConceptResponse

func mapToResponse(c PayrollConcept) ConceptResponse {
	return ConceptResponse{
		ID:                    c.ID.String(),
		Code:                  c.Code,
		Name:                  c.Name,
		Description:           c.Description,
		Type:                  c.Type,
		CalculationType:       c.CalculationType,
		DefaultValue:          c.DefaultValue,
		PercentageBase:        c.PercentageBase,
		Formula:               c.Formula,
		IsTaxable:             c.IsTaxable,
		AffectsSocialSecurity: c.AffectsSocialSecurity,
		IsMandatory:           c.IsMandatory,
		DisplayOrder:          c.DisplayOrder,
		PriorityOrder:         c.PriorityOrder,
		Status:                string(c.Status),
		CreatedAt:             c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             c.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(concepts []PayrollConcept) []ConceptResponse {
	out := make([]ConceptResponse, 0, len(concepts))
	for _, c := range concepts {
		out = append(out, mapToResponse(c))
	}
	return out
}
