package concept

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/calculation"
	concepterrors "github.com/Jkrlos982/wl-soccer-school-sub000/internal/concept/errors"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/formula"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
)

const (
	GroupedKeyPrefix = "payroll_concepts:grouped:"
	GroupedCacheTTL  = 30 * time.Minute
)

func GetGroupedKey(companyID string) string {
	return GroupedKeyPrefix + companyID
}

//go:generate mockgen -source=concept_service.go -destination=mock/concept_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateConceptRequest) (ConceptResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateConceptRequest) (ConceptResponse, error)
	GetByID(ctx context.Context, companyID, id string) (ConceptResponse, error)
	List(ctx context.Context, companyID string, filter ListFilter) ([]ConceptResponse, error)
	ListGrouped(ctx context.Context, companyID string) (GroupedConcepts, error)
	Activate(ctx context.Context, companyID, id string) (ConceptResponse, error)
	Deactivate(ctx context.Context, companyID, id string) (ConceptResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	ValidateFormula(ctx context.Context, companyID string, req ValidateFormulaRequest) (ValidateFormulaResponse, error)
	// ActiveForCalculation returns the active catalog in the engine's shape.
	ActiveForCalculation(ctx context.Context, companyID string) ([]calculation.Concept, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("concept.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("concept.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

var codePattern = regexp.MustCompile(`^[A-Z0-9_]+$`)

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// validateCode keeps codes referenceable from formulas and apart from the
// lines the engine writes itself.
func validateCode(code string) error {
	if !codePattern.MatchString(code) {
		return concepterrors.ErrInvalidCode.WithDetails(map[string]string{"code": code})
	}
	if calculation.IsReservedCode(code) {
		return concepterrors.ErrReservedCode.WithDetails(map[string]string{"code": code})
	}
	return nil
}

func (s *service) Create(ctx context.Context, companyID string, req CreateConceptRequest) (ConceptResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ConceptResponse{}, apperror.InvalidField("company_id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ConceptResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c := &PayrollConcept{
		ID:                    uuid.New(),
		CompanyID:             companyUUID,
		Code:                  normalizeCode(req.Code),
		Name:                  strings.TrimSpace(req.Name),
		Description:           req.Description,
		Type:                  req.Type,
		CalculationType:       req.CalculationType,
		DefaultValue:          req.DefaultValue,
		PercentageBase:        normalizeCode(req.PercentageBase),
		Formula:               strings.TrimSpace(req.Formula),
		IsTaxable:             true,
		AffectsSocialSecurity: req.AffectsSocialSecurity,
		IsMandatory:           req.IsMandatory,
		DisplayOrder:          req.DisplayOrder,
		PriorityOrder:         req.PriorityOrder,
		Status:                StatusActive,
	}
	if req.IsTaxable != nil {
		c.IsTaxable = *req.IsTaxable
	}

	if err := validateCode(c.Code); err != nil {
		return ConceptResponse{}, err
	}
	exists, err := qtx.CodeExists(ctx, companyID, c.Code, nil)
	if err != nil {
		return ConceptResponse{}, err
	}
	if exists {
		return ConceptResponse{}, concepterrors.ErrConceptCodeExists
	}

	if err := s.validateDefinition(ctx, qtx, companyID, c); err != nil {
		return ConceptResponse{}, err
	}

	if err := qtx.Create(ctx, c); err != nil {
		return ConceptResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return ConceptResponse{}, err
	}

	s.invalidate(ctx, companyID)
	s.logger.Info("payroll concept created",
		zap.String("company_id", companyID),
		zap.String("code", c.Code),
	)
	return mapToResponse(*c), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateConceptRequest) (ConceptResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ConceptResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ConceptResponse{}, mapRepositoryError(err)
	}

	if req.Code != nil {
		code := normalizeCode(*req.Code)
		if code != c.Code {
			if err := validateCode(code); err != nil {
				return ConceptResponse{}, err
			}
			exists, err := qtx.CodeExists(ctx, companyID, code, &id)
			if err != nil {
				return ConceptResponse{}, err
			}
			if exists {
				return ConceptResponse{}, concepterrors.ErrConceptCodeExists
			}
			c.Code = code
		}
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Type != nil {
		c.Type = *req.Type
	}
	if req.CalculationType != nil {
		c.CalculationType = *req.CalculationType
	}
	if req.DefaultValue != nil {
		c.DefaultValue = req.DefaultValue
	}
	if req.PercentageBase != nil {
		c.PercentageBase = normalizeCode(*req.PercentageBase)
	}
	if req.Formula != nil {
		c.Formula = strings.TrimSpace(*req.Formula)
	}
	if req.IsTaxable != nil {
		c.IsTaxable = *req.IsTaxable
	}
	if req.AffectsSocialSecurity != nil {
		c.AffectsSocialSecurity = *req.AffectsSocialSecurity
	}
	if req.IsMandatory != nil {
		if *req.IsMandatory && !c.IsMandatory && c.Status == StatusInactive {
			return ConceptResponse{}, concepterrors.ErrInactiveMandatory
		}
		c.IsMandatory = *req.IsMandatory
	}
	if req.DisplayOrder != nil {
		c.DisplayOrder = *req.DisplayOrder
	}
	if req.PriorityOrder != nil {
		c.PriorityOrder = *req.PriorityOrder
	}

	if err := s.validateDefinition(ctx, qtx, companyID, c); err != nil {
		return ConceptResponse{}, err
	}

	if err := qtx.Update(ctx, c); err != nil {
		return ConceptResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return ConceptResponse{}, err
	}

	s.invalidate(ctx, companyID)
	return mapToResponse(*c), nil
}

// validateDefinition enforces the per-calculation-type requirements and
// compiles formulas into their stored AST.
func (s *service) validateDefinition(ctx context.Context, repo Repository, companyID string, c *PayrollConcept) error {
	if c.DefaultValue != nil && c.DefaultValue.IsNegative() {
		return apperror.InvalidField("default_value")
	}

	switch calculation.CalculationType(c.CalculationType) {
	case calculation.CalcFixed:
		if c.DefaultValue == nil {
			return apperror.RequiredField("default_value")
		}
		c.Formula, c.FormulaAST, c.PercentageBase = "", nil, ""
		return nil

	case calculation.CalcPercentage:
		if c.DefaultValue == nil {
			return apperror.RequiredField("default_value")
		}
		c.Formula, c.FormulaAST = "", nil
		if c.PercentageBase == "" {
			return nil
		}
		known, err := s.knownVariables(ctx, repo, companyID, nil, c.Code)
		if err != nil {
			return err
		}
		if _, ok := known[c.PercentageBase]; !ok {
			return concepterrors.ErrInvalidPercentageBase.WithDetails(map[string]string{
				"percentage_base": c.PercentageBase,
			})
		}
		return nil

	case calculation.CalcFormula:
		if c.Formula == "" {
			return apperror.RequiredField("formula")
		}
		known, err := s.knownVariables(ctx, repo, companyID, nil, c.Code)
		if err != nil {
			return err
		}
		node, err := compileFormula(c.Formula, known)
		if err != nil {
			return err
		}
		ast, err := json.Marshal(node)
		if err != nil {
			return err
		}
		c.FormulaAST = datatypes.JSON(ast)
		c.PercentageBase = ""
		return nil
	}
	return apperror.InvalidField("calculation_type")
}

// knownVariables is the built-in set plus supplied codes, or the catalog
// codes when none are supplied. self is never a valid reference.
func (s *service) knownVariables(ctx context.Context, repo Repository, companyID string, supplied []string, self string) (map[string]struct{}, error) {
	codes := supplied
	if len(codes) == 0 {
		var err error
		codes, err = repo.Codes(ctx, companyID)
		if err != nil {
			return nil, err
		}
	}
	known := formula.KnownSet(calculation.BuiltinVariables(), codes)
	if self != "" {
		delete(known, self)
	}
	return known, nil
}

func compileFormula(src string, known map[string]struct{}) (*formula.Node, error) {
	node, err := formula.Validate(src, known)
	if err == nil {
		return node, nil
	}
	var missing *formula.MissingVariablesError
	if errors.As(err, &missing) {
		return nil, concepterrors.ErrMissingVariables.WithDetails(map[string][]string{
			"missing": missing.Missing,
		})
	}
	var syntax *formula.SyntaxError
	if errors.As(err, &syntax) {
		return nil, concepterrors.ErrInvalidFormula.WithDetails(map[string]string{
			"formula": syntax.Error(),
		})
	}
	return nil, err
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (ConceptResponse, error) {
	c, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ConceptResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*c), nil
}

func (s *service) List(ctx context.Context, companyID string, filter ListFilter) ([]ConceptResponse, error) {
	concepts, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(concepts), nil
}

func (s *service) ListGrouped(ctx context.Context, companyID string) (GroupedConcepts, error) {
	cacheKey := GetGroupedKey(companyID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp GroupedConcepts
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		concepts, err := s.repo.ListActive(ctx, companyID)
		if err != nil {
			return nil, err
		}

		resp := GroupedConcepts{}
		for _, t := range []calculation.ConceptType{
			calculation.ConceptEarning,
			calculation.ConceptDeduction,
			calculation.ConceptTax,
			calculation.ConceptBenefit,
		} {
			resp[string(t)] = []ConceptResponse{}
		}
		for _, c := range concepts {
			resp[c.Type] = append(resp[c.Type], mapToResponse(c))
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, string(jsonData), GroupedCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(GroupedConcepts), nil
}

func (s *service) Activate(ctx context.Context, companyID, id string) (ConceptResponse, error) {
	return s.setStatus(ctx, companyID, id, StatusActive)
}

func (s *service) Deactivate(ctx context.Context, companyID, id string) (ConceptResponse, error) {
	return s.setStatus(ctx, companyID, id, StatusInactive)
}

func (s *service) setStatus(ctx context.Context, companyID, id string, status ConceptStatus) (ConceptResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ConceptResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ConceptResponse{}, mapRepositoryError(err)
	}
	if status == StatusInactive && c.IsMandatory {
		s.logger.Warn("deactivate mandatory concept rejected",
			zap.String("company_id", companyID),
			zap.String("code", c.Code),
		)
		return ConceptResponse{}, concepterrors.ErrMandatoryConcept
	}
	if c.Status == status {
		return mapToResponse(*c), nil
	}

	c.Status = status
	if err := qtx.Update(ctx, c); err != nil {
		return ConceptResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return ConceptResponse{}, err
	}

	s.invalidate(ctx, companyID)
	return mapToResponse(*c), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByIDAndCompany(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	referenced, err := qtx.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return concepterrors.ErrConceptInUse
	}
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidate(ctx, companyID)
	return nil
}

func (s *service) ValidateFormula(ctx context.Context, companyID string, req ValidateFormulaRequest) (ValidateFormulaResponse, error) {
	known, err := s.knownVariables(ctx, s.repo, companyID, req.KnownCodes, "")
	if err != nil {
		return ValidateFormulaResponse{}, err
	}
	node, err := compileFormula(req.Formula, known)
	if err != nil {
		return ValidateFormulaResponse{}, err
	}
	return ValidateFormulaResponse{Valid: true, Variables: formula.Variables(node)}, nil
}

func (s *service) ActiveForCalculation(ctx context.Context, companyID string) ([]calculation.Concept, error) {
	concepts, err := s.repo.ListActive(ctx, companyID)
	if err != nil {
		return nil, err
	}

	out := make([]calculation.Concept, 0, len(concepts))
	for _, c := range concepts {
		ec := calculation.Concept{
			ID:                    c.ID.String(),
			Code:                  c.Code,
			Name:                  c.Name,
			Type:                  calculation.ConceptType(c.Type),
			CalculationType:       calculation.CalculationType(c.CalculationType),
			PercentageBase:        c.PercentageBase,
			IsTaxable:             c.IsTaxable,
			AffectsSocialSecurity: c.AffectsSocialSecurity,
			Mandatory:             c.IsMandatory,
			Priority:              c.PriorityOrder,
		}
		if c.DefaultValue != nil {
			ec.Value = *c.DefaultValue
		}
		if ec.CalculationType == calculation.CalcFormula {
			node, err := storedFormula(c)
			if err != nil {
				return nil, &calculation.CalculationError{Code: c.Code, Err: err}
			}
			ec.Formula = node
		}
		out = append(out, ec)
	}
	return out, nil
}

// storedFormula prefers the AST compiled at save time and parses the
// source when it is absent.
func storedFormula(c PayrollConcept) (*formula.Node, error) {
	if len(c.FormulaAST) > 0 {
		var node formula.Node
		if err := json.Unmarshal(c.FormulaAST, &node); err == nil && node.Kind != "" {
			return &node, nil
		}
	}
	return formula.Parse(c.Formula)
}

func (s *service) invalidate(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetGroupedKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("invalidate concept cache failed", zap.String("key", cacheKey), zap.Error(err))
	}
}
