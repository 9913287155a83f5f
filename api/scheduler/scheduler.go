package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PruneSpec runs the task pruning job every minute
const PruneSpec = "* * * * *"

// TaskPruner drops finished analysis tasks older than a retention window
type TaskPruner interface {
	Prune(olderThan time.Duration) int
}

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron      *cron.Cron
	Tasks     TaskPruner
	Retention time.Duration
}

// NewScheduler creates a new scheduler instance
func NewScheduler(tasks TaskPruner, retention time.Duration) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		Tasks:     tasks,
		Retention: retention,
	}
}

// Start registers every job and starts the cron runner
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(PruneSpec, s.pruneTasks); err != nil {
		return fmt.Errorf("register task prune job: %w", err)
	}
	s.cron.Start()
	zap.S().Infow("scheduler started", "retention", s.Retention)
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("scheduler stopped")
}

func (s *Scheduler) pruneTasks() {
	if removed := s.Tasks.Prune(s.Retention); removed > 0 {
		zap.S().Infow("pruned analysis tasks", "removed", removed, "retention", s.Retention)
	}
}
