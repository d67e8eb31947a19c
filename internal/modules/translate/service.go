package translate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asl-dict/core/internal/config"
	"github.com/asl-dict/core/internal/modules/analytics"
	"github.com/asl-dict/core/internal/pkg/iphash"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Credential sources, reported back to the handler for response metadata.
const (
	SourceCaller  = "caller"
	SourceShared  = "shared"
	SourceDefault = "default"
)

var (
	// ErrNoCredential means no usable API key could be resolved.
	ErrNoCredential = errors.New("no llm credential available")
	// ErrLLMUnavailable means the provider circuit breaker is open.
	ErrLLMUnavailable = errors.New("llm provider temporarily unavailable")
)

// QuotaError carries the quota standing that caused a rejection.
type QuotaError struct {
	Status analytics.QuotaStatus
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily quota exceeded (%d/%d)", e.Status.Used, e.Status.Limit)
}

// Meta describes how one translation was served.
type Meta struct {
	CacheHit bool
	Source   string
	// Quota is set only on the shared-credential path.
	Quota *analytics.QuotaStatus
}

type clientFactory func(Credential) (LLMClient, error)

// Service orchestrates one translation: cache lookup, credential
// resolution, the two-stage LLM workflow behind a circuit breaker, and
// cache write-back.
type Service struct {
	cfg       *config.AppConfig
	cache     *Cache
	analytics *analytics.Service
	logger    *zap.Logger
	breaker   *gobreaker.CircuitBreaker
	newClient clientFactory
}

func NewService(cfg *config.AppConfig, cache *Cache, an *analytics.Service, logger *zap.Logger) *Service {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "llm-workflow",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("llm circuit breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &Service{
		cfg:       cfg,
		cache:     cache,
		analytics: an,
		logger:    logger,
		breaker:   breaker,
		newClient: NewClient,
	}
}

// Translate serves one query. callerKey is the optional key supplied by
// the client; clientIP identifies the caller for shared-key quota
// accounting. Cache hits return before any credential or quota work.
func (s *Service) Translate(ctx context.Context, text, callerKey, clientIP string) (*Result, Meta, error) {
	if cached := s.cache.Lookup(ctx, text); cached != nil {
		return cached, Meta{CacheHit: true}, nil
	}

	cred, meta, err := s.resolveCredential(clientIP, callerKey)
	if err != nil {
		return nil, meta, err
	}

	client, err := s.newClient(cred)
	if err != nil {
		return nil, meta, err
	}

	timeout := time.Duration(s.cfg.LLM.TimeoutSec) * time.Second
	raw, err := s.breaker.Execute(func() (interface{}, error) {
		return runWorkflow(ctx, client, text, timeout)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, meta, ErrLLMUnavailable
		}
		return nil, meta, err
	}

	result := raw.(*Result)
	s.cache.Store(ctx, text, result)
	return result, meta, nil
}

// resolveCredential applies the precedence chain: a caller-supplied key
// bypasses quota entirely; otherwise the shared key is used subject to
// the daily limit; otherwise the default configured key; otherwise the
// service has nothing to offer.
func (s *Service) resolveCredential(clientIP, callerKey string) (Credential, Meta, error) {
	base := Credential{
		Type:     s.cfg.LLM.Type,
		Endpoint: s.cfg.LLM.Endpoint,
		Model:    s.cfg.LLM.Model,
	}

	if callerKey != "" {
		base.APIKey = callerKey
		return base, Meta{Source: SourceCaller}, nil
	}

	if s.cfg.SharedAPIKey != "" {
		status, err := s.analytics.CheckQuota(iphash.Hash(clientIP), int64(s.cfg.SharedKeyDailyLimit))
		if err != nil {
			// Quota accounting is best-effort; an unreadable ledger must
			// not take the service down.
			s.logger.Warn("quota check failed, allowing request", zap.Error(err))
			status = analytics.QuotaStatus{
				Allowed:   true,
				Limit:     int64(s.cfg.SharedKeyDailyLimit),
				Remaining: int64(s.cfg.SharedKeyDailyLimit),
			}
		}
		meta := Meta{Source: SourceShared, Quota: &status}
		if !status.Allowed {
			return Credential{}, meta, &QuotaError{Status: status}
		}
		base.APIKey = s.cfg.SharedAPIKey
		return base, meta, nil
	}

	if s.cfg.LLM.APIKey != "" {
		base.APIKey = s.cfg.LLM.APIKey
		return base, Meta{Source: SourceDefault}, nil
	}

	return Credential{}, Meta{}, ErrNoCredential
}

// QuotaInfo reports the caller's current shared-key quota standing
// without consuming anything.
func (s *Service) QuotaInfo(clientIP string) (bool, analytics.QuotaStatus, error) {
	if s.cfg.SharedAPIKey == "" {
		return false, analytics.QuotaStatus{}, nil
	}
	status, err := s.analytics.CheckQuota(iphash.Hash(clientIP), int64(s.cfg.SharedKeyDailyLimit))
	return true, status, err
}

// CacheStats exposes cache health for the admin surface.
func (s *Service) CacheStats(ctx context.Context) CacheStats {
	return s.cache.Stats(ctx)
}

// ClearCache drops every cached translation and returns how many were
// removed.
func (s *Service) ClearCache(ctx context.Context) int64 {
	return s.cache.InvalidateAll(ctx)
}
