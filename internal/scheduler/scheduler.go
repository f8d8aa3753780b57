package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// DefaultPlansRegenerationCron is every Sunday at midnight, with a leading seconds field.
const DefaultPlansRegenerationCron = "0 0 0 * * SUN"

type plansRegenerator interface {
	RegenerateAllPlans(ctx context.Context) error
}

type sessionsCleaner interface {
	ScanAndClean(ctx context.Context)
}

type Params struct {
	Regenerator           plansRegenerator
	PlansRegenerationCron string
	SessionsCleaner       sessionsCleaner
	// zero disables the sessions cleanup
	SessionsCleanupInterval time.Duration
}

// Scheduler runs the weekly plans regeneration and the periodic sessions cleanup.
type Scheduler struct {
	cron            *cron.Cron
	regenerator     plansRegenerator
	sessionsCleaner sessionsCleaner
	cleanupInterval time.Duration

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(params Params) (*Scheduler, error) {
	spec := params.PlansRegenerationCron
	if spec == "" {
		spec = DefaultPlansRegenerationCron
	}

	s := &Scheduler{
		cron:            cron.New(),
		regenerator:     params.Regenerator,
		sessionsCleaner: params.SessionsCleaner,
		cleanupInterval: params.SessionsCleanupInterval,
		ctx:             context.Background(),
	}
	if s.regenerator != nil {
		if err := s.cron.AddFunc(spec, func() { s.RunRegeneration(s.jobContext()) }); err != nil {
			return nil, fmt.Errorf("plans regeneration schedule [%s]: %w", spec, err)
		}
	}
	return s, nil
}

func (s *Scheduler) jobContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Start is a no-op when already running.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.cron.Start()
	if s.sessionsCleaner != nil && s.cleanupInterval > 0 {
		s.wg.Add(1)
		go s.cleanupLoop(s.ctx)
	}
	log.Debugf("scheduler started, %d cron entries", len(s.cron.Entries()))
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.cron.Stop()
	s.wg.Wait()
	log.Debugln("scheduler stopped")
}

func (s *Scheduler) cleanupLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sessionsCleaner.ScanAndClean(ctx)
		}
	}
}

// RunRegeneration regenerates the plans of every user. Failures are logged, never returned.
func (s *Scheduler) RunRegeneration(ctx context.Context) {
	start := time.Now()
	log.Infoln("weekly plans regeneration starting")
	err := s.regenerator.RegenerateAllPlans(ctx)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			log.Errorf("plans regeneration: %s", e)
		}
	}
	log.Infof("weekly plans regeneration done in %s, %d failures", time.Since(start), len(multierr.Errors(err)))
}
