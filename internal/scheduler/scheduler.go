package scheduler

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/laborbook/internal/config"
	"github.com/mamadbah2/laborbook/internal/domain/models"
	"github.com/mamadbah2/laborbook/internal/service/hours"
	"github.com/mamadbah2/laborbook/internal/service/reporting"
	exportclient "github.com/mamadbah2/laborbook/pkg/clients/export"
)

// Scheduler manages scheduled tasks: the periodic reconciliation probe and
// the monthly export run.
type Scheduler struct {
	cron         *cron.Cron
	hoursSvc     *hours.Service
	reportingSvc *reporting.Service
	delivery     exportclient.Client // nil when no webhook is configured
	cfg          config.Config
	location     *time.Location
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. delivery may be nil.
func NewScheduler(cfg config.Config, hoursSvc *hours.Service, reportingSvc *reporting.Service, delivery exportclient.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to local", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		hoursSvc:     hoursSvc,
		reportingSvc: reportingSvc,
		delivery:     delivery,
		cfg:          cfg,
		location:     location,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.Duration("refresh_interval", s.cfg.Reporting.RefreshInterval),
		zap.String("export_schedule", s.cfg.Reporting.ExportCronSchedule))

	// @every accepts a Go duration, which allows sub-minute cadences the
	// five-field cron syntax cannot express.
	_, err := s.cron.AddFunc("@every "+s.cfg.Reporting.RefreshInterval.String(), s.refreshRoster)
	if err != nil {
		s.logger.Error("failed to schedule reconciliation probe", zap.Error(err))
	}

	_, err = s.cron.AddFunc(s.cfg.Reporting.ExportCronSchedule, s.exportMonth)
	if err != nil {
		s.logger.Error("failed to schedule monthly export", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// refreshRoster re-runs today's reconciliation for every category. It is
// read-only: it mutates nothing and exists so store trouble shows up in the
// logs within one interval. Errors are logged and the next tick re-issues
// the whole fetch.
func (s *Scheduler) refreshRoster() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	today := time.Now().In(s.location).Format(models.DateLayout)

	for _, category := range models.Categories {
		rows, err := s.hoursSvc.Reconcile(ctx, category, today)
		if err != nil {
			s.logger.Error("reconciliation probe failed",
				zap.String("category", string(category)),
				zap.String("date", today),
				zap.Error(err))
			continue
		}
		s.logger.Debug("reconciliation probe ok",
			zap.String("category", string(category)),
			zap.String("date", today),
			zap.Int("laborers", len(rows)))
	}
}

// exportMonth writes the current month's CSV for every category and, when a
// webhook is configured, delivers each file.
func (s *Scheduler) exportMonth() {
	s.logger.Info("generating monthly exports")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now().In(s.location)

	for _, category := range models.Categories {
		path, err := s.reportingSvc.ExportMonth(ctx, category, now.Year(), now.Month(), s.cfg.Export.Dir)
		if err != nil {
			s.logger.Error("monthly export failed",
				zap.String("category", string(category)),
				zap.Error(err))
			continue
		}

		if s.delivery == nil {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Error("failed reading export for delivery", zap.String("path", path), zap.Error(err))
			continue
		}

		filename := reporting.FileName(category, now.Year(), now.Month())
		if err := s.delivery.SendReport(ctx, filename, data); err != nil {
			s.logger.Error("export delivery failed", zap.String("file", filename), zap.Error(err))
		} else {
			s.logger.Info("export delivered", zap.String("file", filename))
		}
	}
}
