package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/radhian/expense-reconciliation/config"
	"github.com/radhian/expense-reconciliation/controllers"
	"github.com/radhian/expense-reconciliation/handler"
	"github.com/radhian/expense-reconciliation/infra/locker"

	"github.com/jinzhu/gorm"
	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
)

type CronWorkerConfig struct {
	Schedule string
	Workers  int
}

type App struct {
	DB      *gorm.DB
	Locker  *locker.Locker
	Handler *handler.ReconciliationHandler
	Cron    *cron.Cron
}

func (a *App) Initialize(cfg config.Config) error {
	var err error
	a.DB, err = controllers.OpenDatabase(cfg.Database)
	if err != nil {
		return err
	}

	a.Locker = locker.New()
	a.Handler, err = controllers.NewHandler(a.DB, cfg, a.Locker)
	return err
}

func (a *App) reconcileExecutorJob(ctx context.Context, workerID int) func() {
	return func() {
		err := a.Handler.ReconciliationExecution(ctx)
		switch {
		case errors.Is(err, handler.ErrNoProcessHandled):
			log.Debugf("[Worker %d] idle", workerID)
		case err != nil:
			log.Errorf("[Worker %d] error: %s", workerID, err.Error())
		default:
			log.Infof("[Worker %d] success", workerID)
		}
	}
}

// startCronWorker registers one job per worker. A worker never overlaps
// itself; concurrent workers are kept apart by the locker.
func (a *App) startCronWorker(ctx context.Context, cfg CronWorkerConfig) error {
	a.Cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	for i := 0; i < cfg.Workers; i++ {
		workerID := i + 1
		if _, err := a.Cron.AddFunc(cfg.Schedule, a.reconcileExecutorJob(ctx, workerID)); err != nil {
			return err
		}
		log.Infof("spawn [Worker %d] schedule=%q", workerID, cfg.Schedule)
	}

	a.Cron.Start()
	return nil
}

func (a *App) RunServer(cfg CronWorkerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.startCronWorker(ctx, cfg); err != nil {
		return err
	}

	<-ctx.Done()
	log.Infof("Shutting down cron workers")
	<-a.Cron.Stop().Done()
	return nil
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	config.ApplyLogLevel(cfg.LogLevel)

	app := App{}
	if err := app.Initialize(cfg); err != nil {
		log.Fatalf("failed to initialize cron server: %v", err)
	}
	defer app.DB.Close()

	if err := app.RunServer(CronWorkerConfig{
		Schedule: cfg.Cron.Schedule,
		Workers:  cfg.Cron.Workers,
	}); err != nil {
		log.Fatalf("cron server stopped: %v", err)
	}
}
