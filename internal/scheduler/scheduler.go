package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"MacroTables/internal/batch"
	"MacroTables/internal/notifier"
)

// Notifier delivers batch summaries. TelegramNotifier satisfies it.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the batch on a cron schedule and reports each run.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *batch.Runner
	Notifier Notifier // nil disables notifications
	Ctx      context.Context

	running sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner *batch.Runner, n Notifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Notifier: n,
		Ctx:      ctx,
	}
}

// Register adds the batch task under spec (six-field cron with seconds).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.batchTask); err != nil {
		return fmt.Errorf("register batch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running batch to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one batch immediately and returns its report.
// Only a missing credential is returned as an error.
func (s *Scheduler) RunNow() (*batch.Report, error) {
	s.running.Lock()
	defer s.running.Unlock()

	report, err := s.Runner.Run(s.Ctx)
	if err != nil {
		return nil, err
	}
	s.trySend(notifier.FormatBatchSummary(report))
	return report, nil
}

func (s *Scheduler) batchTask() {
	log.Println("[INFO] running scheduled batch")
	if _, err := s.RunNow(); err != nil {
		log.Printf("[ERROR] scheduled batch aborted: %v", err)
		s.trySend(fmt.Sprintf("❌ batch aborted: %v", err))
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
