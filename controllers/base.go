package controllers

import (
	"fmt"
	"net/http"

	"github.com/radhian/expense-reconciliation/config"
	"github.com/radhian/expense-reconciliation/handler"
	"github.com/radhian/expense-reconciliation/infra/db/dao"
	"github.com/radhian/expense-reconciliation/infra/db/model"
	"github.com/radhian/expense-reconciliation/infra/locker"
	"github.com/radhian/expense-reconciliation/middlewares"
	reconciliationUsecase "github.com/radhian/expense-reconciliation/usecase/reconciliation"

	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" //postgres
	"github.com/labstack/gommon/log"
)

type App struct {
	DB      *gorm.DB
	Router  *mux.Router
	Config  config.Config
	Handler *handler.ReconciliationHandler
}

// OpenDatabase connects to postgres and migrates the process log tables.
func OpenDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	log.Infof("DB Config - Host: %q, Port: %q, User: %q, Name: %q", cfg.Host, cfg.Port, cfg.User, cfg.Name)

	db, err := gorm.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database %s: %w", cfg.Name, err)
	}
	log.Infof("We are connected to the database %s", cfg.Name)

	if err := db.AutoMigrate(
		&model.ReconciliationProcessLog{},
		&model.ReconciliationProcessLogAsset{},
	).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewHandler wires the reconciliation stack on top of db.
func NewHandler(db *gorm.DB, cfg config.Config, l *locker.Locker) (*handler.ReconciliationHandler, error) {
	normalizerCfg, err := cfg.Rules.NormalizerConfig()
	if err != nil {
		return nil, err
	}
	matcherCfg, err := cfg.Rules.MatcherConfig()
	if err != nil {
		return nil, err
	}

	pipeline := reconciliationUsecase.NewPipeline(normalizerCfg, matcherCfg)
	reconciliationUc := reconciliationUsecase.NewReconciliationUsecase(dao.NewDaoMethod(db), l, pipeline, cfg.Storage)
	return handler.NewReconciliationHandler(reconciliationUc), nil
}

func (a *App) Initialize(cfg config.Config) error {
	var err error
	a.Config = cfg

	a.DB, err = OpenDatabase(cfg.Database)
	if err != nil {
		return err
	}

	a.Handler, err = NewHandler(a.DB, cfg, nil)
	if err != nil {
		return err
	}

	a.Router = NewRouter(a.Handler)
	return nil
}

func NewRouter(h *handler.ReconciliationHandler) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(middlewares.Recovery, middlewares.RequestID, middlewares.Logger, middlewares.SetContentTypeMiddleware)
	RegisterReconciliationRoutes(router, h)
	return router
}

func (a *App) RunServer() error {
	log.Infof("Server starting on port %v", a.Config.Server.Port)
	return http.ListenAndServe(":"+a.Config.Server.Port, a.Router)
}
