package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitprogress/internal/telemetry/metrics"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// ErrUnavailable means no tier produced usable content. Callers fall back to
// their own deterministic output.
var ErrUnavailable = errors.New("inference unavailable")

const (
	TierPrimary  = "primary"
	TierFallback = "fallback"
)

type completer interface {
	Complete(ctx context.Context, model string, req Request) (string, error)
}

type OrchestratorParams struct {
	PrimaryModel   string
	FallbackModel  string
	CacheSizeMB    int
	CacheTTL       time.Duration
	MetricsManager *metrics.Manager
}

type Orchestrator struct {
	completer      completer
	primaryModel   string
	fallbackModel  string
	cache          *freecache.Cache
	cacheTTLSecs   int
	metricsManager *metrics.Manager
}

func NewOrchestrator(c completer, params OrchestratorParams) *Orchestrator {
	o := &Orchestrator{
		completer:      c,
		primaryModel:   params.PrimaryModel,
		fallbackModel:  params.FallbackModel,
		metricsManager: params.MetricsManager,
	}
	if params.CacheSizeMB > 0 && params.CacheTTL > 0 {
		o.cache = freecache.NewCache(params.CacheSizeMB * 1024 * 1024)
		o.cacheTTLSecs = int(params.CacheTTL.Seconds())
	}
	return o
}

// Generate asks the primary model, then the fallback model once. The returned
// content is sanitized. ErrUnavailable wraps the errors of every tier tried.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (_ string, err error) {
	ctx, span := tracing.GlobalInferenceTracer.Start(ctx, "inference.generate")
	span.SetAttributes(attribute.String("budget", req.Budget.Name))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cacheKey := []byte(req.Budget.Name + "::" + req.Prompt)
	if o.cache != nil {
		if cached, cacheErr := o.cache.Get(cacheKey); cacheErr == nil {
			log.Tracef("inference [%s]: served from cache", req.Budget.Name)
			span.SetAttributes(attribute.Bool("cached", true))
			return string(cached), nil
		}
	}

	var tierErrs error
	for _, tier := range o.tiers() {
		content, tierErr := o.call(ctx, tier.name, tier.model, req)
		if tierErr != nil {
			log.Warnf("inference [%s] tier %s failed: %s", req.Budget.Name, tier.name, tierErr)
			tierErrs = multierr.Append(tierErrs, fmt.Errorf("%s: %w", tier.name, tierErr))
			continue
		}

		span.SetAttributes(attribute.String("tier", tier.name))
		if o.cache != nil {
			if cacheErr := o.cache.Set(cacheKey, []byte(content), o.cacheTTLSecs); cacheErr != nil {
				log.Errorf("inference [%s]: set cache: %s", req.Budget.Name, cacheErr)
			}
		}
		return content, nil
	}

	if tierErrs == nil {
		tierErrs = ErrNotConfigured
	}
	return "", fmt.Errorf("%w: %w", ErrUnavailable, tierErrs)
}

type tier struct {
	name  string
	model string
}

func (o *Orchestrator) tiers() []tier {
	tiers := []tier{{name: TierPrimary, model: o.primaryModel}}
	if o.fallbackModel != "" {
		tiers = append(tiers, tier{name: TierFallback, model: o.fallbackModel})
	}
	return tiers
}

func (o *Orchestrator) call(ctx context.Context, tierName, model string, req Request) (string, error) {
	start := time.Now()
	raw, err := o.completer.Complete(ctx, model, req)
	o.observe(tierName, time.Since(start), err)
	if err != nil {
		return "", err
	}

	content := Sanitize(raw)
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

func (o *Orchestrator) observe(tierName string, took time.Duration, err error) {
	if o.metricsManager == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	o.metricsManager.CounterInferenceCalls.WithLabelValues(tierName, outcome).Inc()
	o.metricsManager.HistogramInferenceDuration.WithLabelValues(tierName).Observe(took.Seconds())
}
