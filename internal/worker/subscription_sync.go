package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pratik-mahalle/bizlytic/internal/domain/billing"
	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/metrics"
)

const syncBatchSize = 100

// SyncResult summarizes one sync run
type SyncResult struct {
	Checked int
	Updated int
	Failed  int
}

// SubscriptionSync periodically reconciles local subscription state with the billing provider
type SubscriptionSync struct {
	billing   billing.Service
	users     user.Repository
	schedule  string
	logger    *logger.Logger
	scheduler *cron.Cron

	runningMutex sync.Mutex
	isRunning    bool
	// runMutex keeps a slow run from overlapping the next tick
	runMutex sync.Mutex
}

// NewSubscriptionSync creates a new sync worker. schedule is a standard cron
// expression or descriptor such as "@every 6h".
func NewSubscriptionSync(
	billingService billing.Service,
	userRepo user.Repository,
	schedule string,
	log *logger.Logger,
) (*SubscriptionSync, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	return &SubscriptionSync{
		billing:  billingService,
		users:    userRepo,
		schedule: schedule,
		logger:   log,
	}, nil
}

// Start schedules sync runs until ctx is done
func (s *SubscriptionSync) Start(ctx context.Context) error {
	s.runningMutex.Lock()
	defer s.runningMutex.Unlock()

	if s.isRunning {
		return fmt.Errorf("subscription sync is already running")
	}

	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.ErrorWithErr(err, "Subscription sync run failed")
		}
	}); err != nil {
		return err
	}

	s.scheduler.Start()
	s.isRunning = true
	s.logger.With("schedule", s.schedule).Info("Subscription sync worker started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop stops scheduling and waits for a running sync to finish
func (s *SubscriptionSync) Stop() {
	s.runningMutex.Lock()
	defer s.runningMutex.Unlock()

	if !s.isRunning {
		return
	}
	<-s.scheduler.Stop().Done()
	s.isRunning = false
	s.logger.Info("Subscription sync worker stopped")
}

// RunOnce walks every user with a billing customer and syncs them. A failure
// for one user does not stop the run.
func (s *SubscriptionSync) RunOnce(ctx context.Context) (SyncResult, error) {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	start := time.Now()
	var result SyncResult

	for offset := 0; ; offset += syncBatchSize {
		users, err := s.users.ListWithBillingCustomer(ctx, syncBatchSize, offset)
		if err != nil {
			metrics.RecordSubscriptionSync("error", time.Since(start))
			return result, err
		}

		for _, u := range users {
			if ctx.Err() != nil {
				metrics.RecordSubscriptionSync("canceled", time.Since(start))
				return result, ctx.Err()
			}
			result.Checked++
			changed, err := s.billing.SyncUser(ctx, u)
			if err != nil {
				result.Failed++
				s.logger.WithError(err).With("user_id", u.ID).Warn("Failed to sync subscription")
				continue
			}
			if changed {
				result.Updated++
			}
		}

		if len(users) < syncBatchSize {
			break
		}
	}

	outcome := "success"
	if result.Failed > 0 {
		outcome = "partial"
	}
	metrics.RecordSubscriptionSync(outcome, time.Since(start))

	s.logger.WithFields(map[string]interface{}{
		"checked":  result.Checked,
		"updated":  result.Updated,
		"failed":   result.Failed,
		"duration": time.Since(start).String(),
	}).Info("Subscription sync completed")

	return result, nil
}
