package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"home_temperature_control/internal/logger"
)

// TokenWindow is the maximum accepted distance between a token's timestamp
// and the current time, on either side. Tokens dated further in the past or
// the future are rejected.
const TokenWindow = 30 * time.Second

// tokenPrefixLen bounds how much of a token may appear in logs and audit
// records. The PIN and the full token never leave this package.
const tokenPrefixLen = 8

// AuditSink receives one record per validation attempt.
type AuditSink interface {
	RecordAuth(outcome string, ok bool, tokenPrefix string)
}

// Internal validation outcomes. Callers only ever see the boolean.
const (
	outcomeValid         = "valid"
	outcomeNoPin         = "no_pin_configured"
	outcomeBadTimestamp  = "malformed_timestamp"
	outcomeOutsideWindow = "outside_window"
	outcomeReplayed      = "token_reused"
	outcomeMismatch      = "token_mismatch"
)

// Service generates and validates PIN-derived command tokens. The zero PIN
// makes the service inert: Generate yields nothing and Validate always denies.
type Service struct {
	pin     string
	enabled bool
	log     *logger.Logger
	audit   AuditSink
	now     func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time // accepted tokens, purged as they age out
}

// New builds a token service for the given PIN. An empty PIN disables the
// service; the caller should surface that as a startup warning.
func New(pin string, log *logger.Logger, audit AuditSink) *Service {
	return &Service{
		pin:     pin,
		enabled: pin != "",
		log:     log,
		audit:   audit,
		now:     time.Now,
		seen:    make(map[string]time.Time),
	}
}

// Enabled reports whether a PIN is configured.
func (s *Service) Enabled() bool { return s.enabled }

// Generate derives the token for the given unix-seconds timestamp string.
// An empty timestamp uses the current time. Returns ok=false when no PIN is
// configured.
func (s *Service) Generate(timestamp string) (string, bool) {
	if !s.enabled {
		return "", false
	}
	if timestamp == "" {
		timestamp = strconv.FormatInt(s.now().Unix(), 10)
	}
	return s.digest(timestamp), true
}

// Validate checks a token against the expected value for its timestamp.
// All failure modes collapse to false; the distinct reasons are only logged
// and recorded in the audit trail.
func (s *Service) Validate(token, timestamp string) bool {
	if !s.enabled {
		return s.deny(outcomeNoPin, token)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil || ts < 0 {
		return s.deny(outcomeBadTimestamp, token)
	}

	drift := s.now().Sub(time.Unix(ts, 0))
	if drift > TokenWindow || drift < -TokenWindow {
		return s.deny(outcomeOutsideWindow, token)
	}

	if s.alreadySeen(token) {
		return s.deny(outcomeReplayed, token)
	}

	if !constantTimeEqual(token, s.digest(timestamp)) {
		return s.deny(outcomeMismatch, token)
	}

	s.markSeen(token)
	s.record(outcomeValid, true, token)
	return true
}

// digest computes HMAC-SHA256(pin, pin:timestamp) as lowercase hex.
func (s *Service) digest(timestamp string) string {
	mac := hmac.New(sha256.New, []byte(s.pin))
	mac.Write([]byte(s.pin + ":" + timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}

// constantTimeEqual compares two strings in time independent of their length
// and of the position of the first differing byte: both sides are reduced to
// fixed-length digests before the constant-time comparison.
func constantTimeEqual(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}

func (s *Service) alreadySeen(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[token]
	return ok
}

// markSeen caches an accepted token so a captured request cannot be replayed,
// and drops cached tokens that can no longer pass the window check anyway.
func (s *Service) markSeen(token string) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, acceptedAt := range s.seen {
		if now.Sub(acceptedAt) > 2*TokenWindow {
			delete(s.seen, t)
		}
	}
	s.seen[token] = now
}

func (s *Service) deny(outcome, token string) bool {
	s.record(outcome, false, token)
	return false
}

func (s *Service) record(outcome string, ok bool, token string) {
	prefix := token
	if len(prefix) > tokenPrefixLen {
		prefix = prefix[:tokenPrefixLen]
	}
	if s.log != nil {
		if ok {
			s.log.Infow("control_token_accepted", "token_prefix", prefix)
		} else {
			s.log.Warnw("control_token_rejected", "reason", outcome, "token_prefix", prefix)
		}
	}
	if s.audit != nil {
		s.audit.RecordAuth(outcome, ok, prefix)
	}
}
