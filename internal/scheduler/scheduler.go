// Package scheduler wires the notification jobs to cron triggers.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs registered jobs on cron schedules. Every job is wrapped
// with SkipIfStillRunning so a slow run never overlaps the next trigger.
type Scheduler struct {
	cron *cron.Cron
}

func New(loc *time.Location) *Scheduler {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	return &Scheduler{cron: c}
}

// Add registers job under the standard 5-field cron spec.
func (s *Scheduler) Add(spec, name string, job func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(context.Background()); err != nil {
			slog.Error("scheduled job failed", "job", name, "error", err)
		}
	})
	return err
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the triggers and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
