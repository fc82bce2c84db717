package schedule

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// NextRun returns the next time spec fires after now in loc.
func NextRun(spec string, loc *time.Location, now time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing cron spec %q: %w", spec, err)
	}
	return sched.Next(now.In(loc)), nil
}

// RunDaemon runs job on spec in loc until ctx is cancelled. When runNow is
// set the job also runs once at startup. Runs never overlap.
func RunDaemon(ctx context.Context, spec string, loc *time.Location, runNow bool, job Job) error {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	run := func() {
		if err := job(ctx); err != nil {
			log.Printf("Scheduled fetch failed: %v", err)
		}
	}
	if _, err := c.AddFunc(spec, run); err != nil {
		return fmt.Errorf("scheduling %q: %w", spec, err)
	}

	if runNow {
		go run()
	}

	c.Start()
	if next, err := NextRun(spec, loc, time.Now()); err == nil {
		log.Printf("Scheduler started, next run at %s", next.Format("Mon Jan 2 15:04 MST"))
	}

	<-ctx.Done()
	log.Println("Shutting down scheduler...")
	<-c.Stop().Done()
	return nil
}
