package aigate

import (
	"context"
	"log/slog"
)

// Result is the gate outcome as consumed by the pipeline. ServiceError set
// means the classifier was unavailable, never that content was rejected.
type Result struct {
	Allowed      bool
	Category     string
	Confidence   float64
	Reason       string
	ServiceError bool
	Cached       bool
}

// Gate wraps the classifier client with the decision cache and the fail
// policy. In production every classifier failure fails closed; the FailOpen
// flag is honored only outside production, as a local-testing convenience.
type Gate struct {
	Client     *Client
	Cache      *DecisionCache
	Logger     *slog.Logger
	Production bool
	FailOpen   bool
}

func NewGate(client *Client, logger *slog.Logger, production, failOpen bool) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		Client:     client,
		Cache:      NewDecisionCache(),
		Logger:     logger,
		Production: production,
		FailOpen:   failOpen,
	}
}

// Check classifies raw text, consulting the cache first. cacheKey should be
// derived from the normalized text via CacheKey.
func (g *Gate) Check(ctx context.Context, raw, cacheKey string) Result {
	if g.Cache != nil {
		if v, ok := g.Cache.Get(cacheKey); ok {
			return Result{
				Allowed:    v.Allowed,
				Category:   v.Category,
				Confidence: v.Confidence,
				Reason:     v.Reason,
				Cached:     true,
			}
		}
	}

	v, err := g.Client.Moderate(ctx, raw)
	if err != nil {
		return g.failResult(err)
	}

	if g.Cache != nil {
		g.Cache.Put(cacheKey, v)
	}
	return Result{
		Allowed:    v.Allowed,
		Category:   v.Category,
		Confidence: v.Confidence,
		Reason:     v.Reason,
	}
}

func (g *Gate) failResult(err error) Result {
	if !g.Production && g.FailOpen {
		g.Logger.Warn("moderation classifier failed, allowing content (fail-open outside production)", "err", err)
		return Result{Allowed: true, ServiceError: true}
	}
	g.Logger.Error("moderation classifier failed, rejecting content", "err", err)
	return Result{Allowed: false, ServiceError: true}
}
