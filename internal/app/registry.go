package app

import (
	"net/http"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/concept"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/employee"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/messaging/kafka"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/middleware"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payroll"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/payrollconfig"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/period"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/rbac"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/rbac/infra"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/report"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newConceptService(in *Infra, logger *zap.Logger) concept.Service {
	return concept.NewService(in.DB, concept.NewRepository(in.GormDB), in.Redis, logger)
}

func newSettingsService(in *Infra, logger *zap.Logger) payrollconfig.Service {
	return payrollconfig.NewService(in.DB, payrollconfig.NewRepository(in.GormDB), in.Redis, in.Config.Rates, logger)
}

// newPayrollService wires the payroll aggregate with its collaborators. The
// API and the payslip consumer share it.
func newPayrollService(
	in *Infra,
	conceptService concept.Service,
	settingsService payrollconfig.Service,
	outbox kafka.OutboxRepository,
	logger *zap.Logger,
) payroll.Service {
	return payroll.NewService(in.DB, payroll.NewRepository(in.GormDB), payroll.Collaborators{
		Periods:    period.NewRepository(in.GormDB),
		Employees:  employee.NewRepository(in.GormDB),
		Concepts:   conceptService,
		Settings:   settingsService,
		Counters:   counter.NewRepository(in.GormDB),
		Outbox:     outbox,
		Store:      in.Store,
		IssuerName: in.Config.PayslipIssuer,
	}, logger)
}

// RegisterModules wires every module onto router.
func RegisterModules(router *gin.Engine, in *Infra, logger *zap.Logger) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(in.GormDB)
	periodRepo := period.NewRepository(in.GormDB)
	reportRepo := report.NewRepository(in.GormDB)
	outboxRepo := kafka.NewOutboxRepository(in.DB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer("")
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Services ---
	conceptService := newConceptService(in, logger)
	periodService := period.NewService(in.DB, periodRepo, outboxRepo, logger)
	settingsService := newSettingsService(in, logger)
	payrollService := newPayrollService(in, conceptService, settingsService, outboxRepo, logger)
	reportService := report.NewService(reportRepo, logger)

	// --- Handlers ---
	rbacHandler := rbac.NewHandler(rbacService)
	conceptHandler := concept.NewHandler(conceptService, logger)
	periodHandler := period.NewHandler(periodService, logger)
	settingsHandler := payrollconfig.NewHandler(settingsService, logger)
	payrollHandler := payroll.NewHandler(payrollService, logger)
	reportHandler := report.NewHandler(reportService, logger)

	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		rbac.RegisterRoutes(api, rbacHandler)
		concept.RegisterRoutes(api, conceptHandler, rbacService)
		period.RegisterRoutes(api, periodHandler, rbacService)
		payrollconfig.RegisterRoutes(api, settingsHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, in.Redis)
		report.RegisterRoutes(api, reportHandler, rbacService)
	}

	return nil
}
