package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/srushti1125/techdigest/internal/aggregate"
	"github.com/srushti1125/techdigest/internal/digest"
)

// startupDelay is how long after process start the first fetch cycle runs.
const startupDelay = 5 * time.Second

// AggregationLoop drives the recurring fetch cycle. Cycles run inline in
// the loop goroutine, so two cycles of this loop can never overlap.
type AggregationLoop struct {
	svc      *aggregate.Service
	interval time.Duration
	ticker   *time.Ticker
	done     chan bool
}

// NewAggregationLoop creates a loop running the fetch cycle at the given
// interval.
func NewAggregationLoop(svc *aggregate.Service, interval time.Duration) *AggregationLoop {
	return &AggregationLoop{
		svc:      svc,
		interval: interval,
		done:     make(chan bool),
	}
}

// Run starts the loop: one cycle shortly after startup, then one per
// interval. Blocks until Stop is called.
func (l *AggregationLoop) Run() {
	log.Info().Dur("interval", l.interval).Msg("Starting aggregation loop...")

	startup := time.NewTimer(startupDelay)
	select {
	case <-l.done:
		startup.Stop()
		return
	case <-startup.C:
	}
	l.runCycle()

	l.ticker = time.NewTicker(l.interval)
	defer l.ticker.Stop()
	for {
		select {
		case <-l.done:
			log.Info().Msg("Stopping aggregation loop.")
			return
		case <-l.ticker.C:
			l.runCycle()
		}
	}
}

// Stop halts the loop.
func (l *AggregationLoop) Stop() {
	l.done <- true
}

func (l *AggregationLoop) runCycle() {
	// Bound the whole cycle so a stalled source cannot run into the next
	// tick.
	ctx, cancel := context.WithTimeout(context.Background(), l.interval)
	defer cancel()
	l.svc.RunCycle(ctx)
}

// DigestLoop fires the digest run at the times given by a standard cron
// expression (e.g. "0 8 * * *" for daily at 08:00 local).
type DigestLoop struct {
	svc      *digest.Service
	schedule cron.Schedule
	done     chan bool
}

// NewDigestLoop creates a loop from a cron spec.
func NewDigestLoop(svc *digest.Service, spec string) (*DigestLoop, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &DigestLoop{
		svc:      svc,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the loop. Blocks until Stop is called.
func (l *DigestLoop) Run() {
	log.Info().Time("next_run", l.schedule.Next(time.Now())).Msg("Starting digest loop...")
	for {
		timer := time.NewTimer(time.Until(l.schedule.Next(time.Now())))
		select {
		case <-l.done:
			timer.Stop()
			log.Info().Msg("Stopping digest loop.")
			return
		case <-timer.C:
			l.svc.Run()
		}
	}
}

// Stop halts the loop.
func (l *DigestLoop) Stop() {
	l.done <- true
}
