// Package pipeline runs the moderation gates in order and folds their
// outcomes into a single Decision.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aditya1583/community-pulse-sub002/aigate"
	"github.com/aditya1583/community-pulse-sub002/blocklist"
	"github.com/aditya1583/community-pulse-sub002/flagstore"
	"github.com/aditya1583/community-pulse-sub002/heuristic"
	"github.com/aditya1583/community-pulse-sub002/normalize"
	"github.com/aditya1583/community-pulse-sub002/pii"
	"github.com/aditya1583/community-pulse-sub002/toxicity"
)

// Engine evaluates content against the gate sequence: blocklist and PII in
// parallel, then the local heuristics, then the policy classifier, then the
// optional toxicity signal. It is stateless per call; concurrent Evaluate
// invocations are independent.
type Engine struct {
	Logger    *slog.Logger
	Config    Config
	Blocklist *blocklist.Matcher
	Flags     flagstore.FlagStore
	PII       *pii.Detector
	Heuristic *heuristic.Classifier
	AI        *aigate.Gate
	Toxicity  *toxicity.Gate
}

// NewEngine assembles the full gate stack from config. The blocklist matcher
// and flag store are injected since their backing stores vary by deployment.
func NewEngine(logger *slog.Logger, cfg Config, bl *blocklist.Matcher, flags flagstore.FlagStore) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = def.OpenAIModel
	}
	if cfg.ToxicityConfidenceCutoff == 0 {
		cfg.ToxicityConfidenceCutoff = def.ToxicityConfidenceCutoff
	}
	if cfg.ToxicityThreshold == 0 {
		cfg.ToxicityThreshold = def.ToxicityThreshold
	}
	if cfg.SevereToxicityThreshold == 0 {
		cfg.SevereToxicityThreshold = def.SevereToxicityThreshold
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.AITimeout == 0 {
		cfg.AITimeout = def.AITimeout
	}
	if cfg.BlocklistTTL == 0 {
		cfg.BlocklistTTL = def.BlocklistTTL
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if bl != nil {
		bl.TTL = cfg.BlocklistTTL
	}

	client := aigate.NewClient(logger, cfg.OpenAIAPIKey)
	if cfg.OpenAIHost != "" {
		client.BaseURL = cfg.OpenAIHost
	}
	client.Model = cfg.OpenAIModel
	client.Timeout = cfg.AITimeout

	gate := aigate.NewGate(client, logger, cfg.Production, cfg.FailOpen)
	gate.Cache.TTL = cfg.CacheTTL

	toxGate := toxicity.NewGate(toxicity.NewAnalyzer(logger, cfg.PerspectiveAPIKey), logger)
	toxGate.ToxicityThreshold = cfg.ToxicityThreshold
	toxGate.SevereToxicityThreshold = cfg.SevereToxicityThreshold

	return &Engine{
		Logger:    logger,
		Config:    cfg,
		Blocklist: bl,
		Flags:     flags,
		PII: &pii.Detector{
			AllowNames:         cfg.AllowNames,
			AllowSocialHandles: cfg.AllowSocialHandles,
		},
		Heuristic: heuristic.NewClassifier(logger, nil),
		AI:        gate,
		Toxicity:  toxGate,
	}
}

// EvalOpts carries caller context for telemetry.
type EvalOpts struct {
	Endpoint string
	UserID   string
}

// Evaluate runs the gate sequence. Any single gate blocking means the
// content is rejected with the uniform reason.
func (e *Engine) Evaluate(ctx context.Context, text string, opts EvalOpts) Decision {
	start := time.Now()
	requestID := uuid.NewString()
	hash := HashOfString(text)
	logger := e.Logger.With("requestId", requestID, "endpoint", opts.Endpoint)
	if opts.UserID != "" {
		logger = logger.With("userId", opts.UserID)
	}

	if e.Config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Config.RequestTimeout)
		defer cancel()
	}

	d := Decision{Allowed: true}
	rec := func(layer, decision, category string, dur time.Duration) {
		gateDuration.WithLabelValues(layer).Observe(dur.Seconds())
		gateDecisionCount.WithLabelValues(layer, decision).Inc()
		tr := TelemetryRecord{
			RequestID:   requestID,
			Layer:       layer,
			Decision:    decision,
			Category:    category,
			Duration:    dur,
			ContentHash: hash,
		}
		attrs := []any{
			"layer", layer,
			"decision", decision,
			"category", category,
			"duration", dur,
			"contentHash", hash,
		}
		if !e.Config.Production {
			tr.Content = text
			attrs = append(attrs, "content", text)
		}
		d.Telemetry = append(d.Telemetry, tr)
		logger.Info("gate check", attrs...)
	}

	n := normalize.Normalize(text)

	// blocklist and PII are independent, so they run concurrently with
	// separate clocks; the join below still gives the blocklist priority
	// in telemetry.
	var blRes blocklist.Result
	var piiRes pii.Result
	var blDur, piiDur time.Duration
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t0 := time.Now()
		if !e.safely(logger, LayerBlocklist, func() { blRes = e.Blocklist.Check(gctx, n) }) {
			blRes = blocklist.Result{Allowed: true}
		}
		blDur = time.Since(t0)
		return nil
	})
	g.Go(func() error {
		t0 := time.Now()
		if !e.safely(logger, LayerPII, func() { piiRes = e.PII.Detect(text) }) {
			piiRes = pii.Result{}
		}
		piiDur = time.Since(t0)
		return nil
	})
	_ = g.Wait()

	if len(blRes.Warned) > 0 {
		e.recordWarnFlags(ctx, logger, hash, blRes.Warned)
	}

	if !blRes.Allowed {
		rec(LayerBlocklist, "block", blRes.Category, blDur)
		return e.finish(logger, d, start)
	}
	rec(LayerBlocklist, "allow", "", blDur)

	if piiRes.Blocked {
		rec(LayerPII, "block", strings.Join(piiRes.Categories, ","), piiDur)
		return e.finish(logger, d, start)
	}
	rec(LayerPII, "allow", "", piiDur)

	heurStart := time.Now()
	heurRes := heuristic.Result{Allowed: true}
	e.safely(logger, LayerHeuristic, func() { heurRes = e.Heuristic.Check(n) })
	if !heurRes.Allowed {
		rec(LayerHeuristic, "block", heurRes.Category, time.Since(heurStart))
		return e.finish(logger, d, start)
	}
	rec(LayerHeuristic, "allow", "", time.Since(heurStart))

	aiStart := time.Now()
	aiRes := aigate.Result{}
	if !e.safely(logger, LayerAI, func() { aiRes = e.AI.Check(ctx, text, aigate.CacheKey(n.Text)) }) {
		// the classifier is the only gate allowed to fail closed; a panic
		// here gets the same treatment as an unreachable upstream
		aiRes = aigate.Result{
			Allowed:      !e.Config.Production && e.Config.FailOpen,
			ServiceError: true,
		}
	}
	if aiRes.ServiceError {
		serviceErrorCount.Inc()
		d.ServiceError = true
	}
	if !aiRes.Allowed {
		rec(LayerAI, "block", aiRes.Category, time.Since(aiStart))
		return e.finish(logger, d, start)
	}
	rec(LayerAI, "allow", aiRes.Category, time.Since(aiStart))

	if e.Toxicity.Configured() && aiRes.Confidence < e.Config.ToxicityConfidenceCutoff && !aiRes.ServiceError {
		toxStart := time.Now()
		toxRes := toxicity.Result{Allowed: true}
		e.safely(logger, LayerToxicity, func() { toxRes = e.Toxicity.Check(ctx, text) })
		if !toxRes.Allowed {
			rec(LayerToxicity, "block", "toxicity", time.Since(toxStart))
			return e.finish(logger, d, start)
		}
		rec(LayerToxicity, "allow", "", time.Since(toxStart))
	}

	return e.finish(logger, d, start)
}

// safely invokes fn, recovering any panic. Returns false when fn panicked,
// matching how an HTTP server isolates handler crashes.
func (e *Engine) safely(logger *slog.Logger, layer string, fn func()) bool {
	ok := true
	func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("gate execution exception", "layer", layer, "err", r)
				ok = false
			}
		}()
		fn()
	}()
	return ok
}

func (e *Engine) recordWarnFlags(ctx context.Context, logger *slog.Logger, hash string, warned []string) {
	if e.Flags == nil {
		return
	}
	if err := e.Flags.Add(ctx, hash, warned); err != nil {
		logger.Warn("failed recording review flags", "err", err, "contentHash", hash)
		return
	}
	warnFlagCount.Inc()
	logger.Info("recorded review flags", "contentHash", hash, "flags", warned)
}

// finish stamps the rejection reason when any gate blocked and emits the
// canonical per-evaluation log line.
func (e *Engine) finish(logger *slog.Logger, d Decision, start time.Time) Decision {
	for _, tr := range d.Telemetry {
		if tr.Decision == "block" {
			d.Allowed = false
			d.Reason = RejectionReason
			break
		}
	}

	dur := time.Since(start)
	evaluateDuration.Observe(dur.Seconds())
	outcome := "allow"
	if !d.Allowed {
		outcome = "block"
	}
	evaluateCount.WithLabelValues(outcome).Inc()
	logger.Info("evaluation complete",
		"allowed", d.Allowed,
		"serviceError", d.ServiceError,
		"gates", len(d.Telemetry),
		"duration", dur,
	)
	return d
}

