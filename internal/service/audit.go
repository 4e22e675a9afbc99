package service

import (
	"home_temperature_control/internal/logger"
	"home_temperature_control/internal/models"
	"home_temperature_control/internal/repository"
)

// AuthAudit persists token validation attempts to the action log. It is the
// security package's AuditSink; only the outcome and a short token prefix
// ever reach storage.
type AuthAudit struct {
	events repository.EventRepo
	log    *logger.Logger
}

func NewAuthAudit(events repository.EventRepo, log *logger.Logger) *AuthAudit {
	return &AuthAudit{events: events, log: log}
}

func (a *AuthAudit) RecordAuth(outcome string, ok bool, tokenPrefix string) {
	if a.events == nil {
		return
	}
	description := "control token rejected"
	if ok {
		description = "control token accepted"
	}

	ctx, cancel := eventContext()
	defer cancel()
	if err := a.events.Append(ctx, models.ControlEvent{
		Type:        models.EventAuth,
		Description: description,
		Metadata: map[string]any{
			"outcome":      outcome,
			"ok":           ok,
			"token_prefix": tokenPrefix,
		},
	}); err != nil {
		a.log.Warnw("failed to append auth event", "err", err)
	}
}
