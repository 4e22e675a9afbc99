package service

import (
	"home_temperature_control/internal/logger"
	"home_temperature_control/internal/models"
	"home_temperature_control/internal/repository"
)

// Signal is a requested process lifecycle transition.
type Signal string

const (
	SignalStop    Signal = "stop"
	SignalRestart Signal = "restart"
)

// LifecycleService turns authorized control commands into signals consumed
// by main. The channel is buffered so a handler never blocks on shutdown
// already being in progress.
type LifecycleService struct {
	ch     chan Signal
	events repository.EventRepo
	log    *logger.Logger
}

func NewLifecycleService(events repository.EventRepo, log *logger.Logger) *LifecycleService {
	return &LifecycleService{
		ch:     make(chan Signal, 1),
		events: events,
		log:    log,
	}
}

func (s *LifecycleService) Stop(reason string)    { s.trigger(SignalStop, reason) }
func (s *LifecycleService) Restart(reason string) { s.trigger(SignalRestart, reason) }

// Signals is consumed by main alongside OS signals.
func (s *LifecycleService) Signals() <-chan Signal { return s.ch }

func (s *LifecycleService) trigger(sig Signal, reason string) {
	s.log.Infow("lifecycle command accepted", "signal", string(sig), "reason", reason)
	if s.events != nil {
		ctx, cancel := eventContext()
		if err := s.events.Append(ctx, models.ControlEvent{
			Type:        models.EventSystem,
			Description: "authorized " + string(sig) + " command",
			Metadata:    map[string]any{"reason": reason},
		}); err != nil {
			s.log.Warnw("failed to append lifecycle event", "err", err)
		}
		cancel()
	}

	select {
	case s.ch <- sig:
	default:
		// A transition is already pending; drop the duplicate.
	}
}
