package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"office_climate/internal/logger"
	"office_climate/internal/models"
	"office_climate/internal/repository"
)

// PowerSink delivers recommendation changes to the heater socket.
type PowerSink interface {
	Publish(ctx context.Context, u models.PowerUpdate) error
}

// Recorder observes every computed recommendation, e.g. for metrics.
type Recorder interface {
	ObserveRecommendation(rec models.PowerRecommendation)
	ObservePublishError()
}

type nopSink struct{}

func (nopSink) Publish(context.Context, models.PowerUpdate) error { return nil }

type nopRecorder struct{}

func (nopRecorder) ObserveRecommendation(models.PowerRecommendation) {}
func (nopRecorder) ObservePublishError()                             {}

// PublisherService recomputes the recommendation on a ticker and pushes changes.
type PublisherService struct {
	power    Power
	events   repository.EventRepo
	sink     PowerSink
	recorder Recorder
	log      *logger.Logger
	now      func() time.Time

	mu        sync.Mutex
	published bool
	last      *models.PowerState
}

func NewPublisherService(power Power, events repository.EventRepo, sink PowerSink, recorder Recorder, log *logger.Logger) *PublisherService {
	if sink == nil {
		sink = nopSink{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &PublisherService{
		power:    power,
		events:   events,
		sink:     sink,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// Run ticks immediately and then at the given interval until ctx is canceled.
func (s *PublisherService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = time.Minute
	}
	t := time.NewTicker(tick)
	defer t.Stop()

	s.step(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.step(ctx)
		}
	}
}

// step runs one publish cycle. It reports whether an update was delivered.
func (s *PublisherService) step(ctx context.Context) bool {
	now := s.now().UTC()
	rec, err := s.power.Recommend(ctx, now)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("recommendation_failed", "err", err)
		}
		return false
	}
	s.recorder.ObserveRecommendation(rec)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.published && models.SamePowerState(s.last, rec.State) {
		return false
	}

	update := models.PowerUpdate{State: rec.State, Target: rec.Target.Temperature, At: now}
	if rec.Reading != nil {
		cur := rec.Reading.Temperature
		update.Current = &cur
	}
	if err := s.sink.Publish(ctx, update); err != nil {
		// last state stays put so the next tick retries
		s.recorder.ObservePublishError()
		if s.log != nil {
			s.log.Warnw("power_publish_failed", "err", err)
		}
		return false
	}

	s.published = true
	s.last = rec.State
	recordEvent(ctx, s.events, s.log, powerEvent(update))
	if s.log != nil {
		s.log.Infow("power_published", "state", stateLabel(rec.State), "target", update.Target)
	}
	return true
}

func stateLabel(p *models.PowerState) string {
	if p == nil {
		return "unknown"
	}
	return p.String()
}

func powerEvent(u models.PowerUpdate) models.Event {
	meta := map[string]any{"target": u.Target}
	if u.Current != nil {
		meta["current"] = *u.Current
	}
	e := models.Event{OccurredAt: u.At, Metadata: meta}
	switch {
	case u.State == nil:
		e.Type = models.EventPowerUnknown
		e.Description = "No reading yet; power state unknown"
	case *u.State == models.PowerOn:
		e.Type = models.EventPowerOn
		e.Description = fmt.Sprintf("Heating on, target %.1f", u.Target)
	default:
		e.Type = models.EventPowerOff
		e.Description = fmt.Sprintf("Heating off, target %.1f", u.Target)
	}
	return e
}
