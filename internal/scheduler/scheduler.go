package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mfbarbosa/padaria/internal/config"
	"github.com/mfbarbosa/padaria/internal/domain/models"
	"github.com/mfbarbosa/padaria/internal/repository/mongodb"
	"github.com/mfbarbosa/padaria/internal/repository/sheets"
	"github.com/mfbarbosa/padaria/internal/service/billing"
	"github.com/mfbarbosa/padaria/internal/service/production"
	"github.com/mfbarbosa/padaria/pkg/clients/webhook"
)

// Scheduler manages the nightly billing and quebra jobs.
type Scheduler struct {
	cron          *cron.Cron
	billingSvc    *billing.Service
	productionSvc *production.Service
	clients       mongodb.ClientRepository
	exporter      sheets.Exporter
	notifier      webhook.Client
	cfg           config.Config
	logger        *zap.Logger
	now           func() time.Time
}

// NewScheduler creates a new scheduler instance. exporter and notifier may be
// nil when the corresponding integrations are not configured. loc is the
// bakery's timezone; cron fires in it and the nightly close stamps its
// business date in it, so the 22:00 job closes the bakery's day even when the
// host clock has already rolled past midnight UTC. nil falls back to the host
// zone.
func NewScheduler(cfg config.Config, loc *time.Location, billingSvc *billing.Service, productionSvc *production.Service, clients mongodb.ClientRepository, exporter sheets.Exporter, notifier webhook.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		billingSvc:    billingSvc,
		productionSvc: productionSvc,
		clients:       clients,
		exporter:      exporter,
		notifier:      notifier,
		cfg:           cfg,
		logger:        logger,
		now:           func() time.Time { return time.Now().In(loc) },
	}
}

// Start registers the nightly close job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Billing.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.Billing.CronSchedule, s.runNightlyClose)
	if err != nil {
		s.logger.Error("failed to schedule nightly close", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// runNightlyClose recomputes every client's balance, exports the day's
// quebra report and ships the balance digest. Each step logs and moves on;
// a failed export must not block the recompute.
func (s *Scheduler) runNightlyClose() {
	s.logger.Info("running nightly close")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	allClients, err := s.clients.ListClients(ctx)
	if err != nil {
		s.logger.Error("failed listing clients", zap.Error(err))
		return
	}

	var digest []webhook.DigestEntry
	for _, client := range allClients {
		debt, err := s.billingSvc.RecomputeBalance(ctx, client.ID)
		if err != nil {
			s.logger.Error("failed recomputing balance", zap.String("client_id", client.ID), zap.Error(err))
			continue
		}
		digest = append(digest, webhook.DigestEntry{
			ClientID:   client.ID,
			ClientName: client.Name,
			Balance:    debt.Total.StringFixed(2),
			DaysCount:  debt.DaysCount,
		})
	}

	today := models.NewDate(s.now())
	if s.exporter != nil {
		report, err := s.productionSvc.DailyBreakage(ctx, today)
		if err != nil {
			s.logger.Error("failed building quebra report", zap.Error(err))
		} else if err := s.exporter.ExportDailyBreakage(ctx, report); err != nil {
			s.logger.Error("failed exporting quebra report", zap.Error(err))
		}
	}

	if s.notifier != nil && len(digest) > 0 {
		if err := s.notifier.BalanceDigest(ctx, digest); err != nil {
			s.logger.Error("failed sending balance digest", zap.Error(err))
		} else {
			s.logger.Info("balance digest sent", zap.Int("clients", len(digest)))
		}
	}
}
