package jobs

import (
	"context"
	"time"

	"bytebite/internal/core/application/usecases/commands"
	"bytebite/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

const DefaultReconcileSchedule = "0 * * * * *"

type reconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcilePendingDeliveriesCommand) (commands.ReconcileResult, error)
}

type ReconcileConfig struct {
	Schedule   string
	StaleAfter time.Duration
	Batch      int
	Timeout    time.Duration // bounds one run
}

// ReconcileJob periodically republishes pending deliveries nobody was told about.
type ReconcileJob struct {
	handler reconciler
	cfg     ReconcileConfig
	cron    *cron.Cron
	logger  logger.ILogger
}

func NewReconcileJob(handler reconciler, cfg ReconcileConfig, log logger.ILogger) *ReconcileJob {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultReconcileSchedule
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	log = log.With(logger.String("component", "reconcile_job"))

	return &ReconcileJob{
		handler: handler,
		cfg:     cfg,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
		),
		logger: log,
	}
}

func (j *ReconcileJob) Name() string {
	return "reconcile"
}

// Start validates the command and schedule, then starts the cron runner.
func (j *ReconcileJob) Start() error {
	if _, err := commands.NewReconcilePendingDeliveriesCommand(j.cfg.StaleAfter, j.cfg.Batch); err != nil {
		return err
	}
	if _, err := j.cron.AddFunc(j.cfg.Schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("reconcile job started", logger.String("schedule", j.cfg.Schedule))
	return nil
}

// Run executes one reconciliation pass.
func (j *ReconcileJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.cfg.Timeout)
	defer cancel()

	cmd, err := commands.NewReconcilePendingDeliveriesCommand(j.cfg.StaleAfter, j.cfg.Batch)
	if err != nil {
		j.logger.Error("invalid reconcile settings", logger.Error(err))
		return
	}

	res, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("reconcile job failed", logger.Error(err))
		return
	}
	if res.Scanned > 0 {
		j.logger.Info("reconciled pending deliveries",
			logger.Int("scanned", res.Scanned),
			logger.Int("republished", res.Republished),
			logger.Int("failed", res.Failed),
		)
	}
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *ReconcileJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("reconcile job stopped")
}

// cronLogger feeds cron's own messages into the service logger.
type cronLogger struct {
	log logger.ILogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, logger.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, logger.Error(err), logger.Any("details", keysAndValues))
}
