// Package toxicity is the supplementary scoring signal: a Perspective-style
// comment analyzer consulted only when the authoritative gate allowed the
// content with low confidence. The signal is advisory, so every failure
// path allows the content through.
package toxicity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aditya1583/community-pulse-sub002/internal/httputil"
)

const DefaultBaseURL = "https://commentanalyzer.googleapis.com/v1alpha1"

const (
	DefaultToxicityThreshold       = 0.7
	DefaultSevereToxicityThreshold = 0.5
)

type Scores struct {
	Toxicity       float64
	SevereToxicity float64
	IdentityAttack float64
	Insult         float64
	Threat         float64
}

type Analyzer struct {
	HTTP    *http.Client
	Logger  *slog.Logger
	APIKey  string
	BaseURL string
}

func NewAnalyzer(logger *slog.Logger, apiKey string) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		HTTP:    httputil.RobustHTTPClient(),
		Logger:  logger,
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
	}
}

type analyzeRequest struct {
	Comment             struct{ Text string `json:"text"` } `json:"comment"`
	RequestedAttributes map[string]struct{}                 `json:"requestedAttributes"`
	DoNotStore          bool                                `json:"doNotStore"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

// Analyze requests attribute scores for the text.
func (a *Analyzer) Analyze(ctx context.Context, text string) (Scores, error) {
	var req analyzeRequest
	req.Comment.Text = text
	req.DoNotStore = true
	req.RequestedAttributes = map[string]struct{}{
		"TOXICITY":        {},
		"SEVERE_TOXICITY": {},
		"IDENTITY_ATTACK": {},
		"INSULT":          {},
		"THREAT":          {},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return Scores{}, err
	}

	url := a.baseURL() + "/comments:analyze?key=" + a.APIKey
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return Scores{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTP.Do(httpReq)
	if err != nil {
		return Scores{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Scores{}, fmt.Errorf("toxicity endpoint status %d", resp.StatusCode)
	}

	var ar analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return Scores{}, fmt.Errorf("decoding toxicity response: %w", err)
	}

	return Scores{
		Toxicity:       ar.AttributeScores["TOXICITY"].SummaryScore.Value,
		SevereToxicity: ar.AttributeScores["SEVERE_TOXICITY"].SummaryScore.Value,
		IdentityAttack: ar.AttributeScores["IDENTITY_ATTACK"].SummaryScore.Value,
		Insult:         ar.AttributeScores["INSULT"].SummaryScore.Value,
		Threat:         ar.AttributeScores["THREAT"].SummaryScore.Value,
	}, nil
}

func (a *Analyzer) baseURL() string {
	if a.BaseURL != "" {
		return a.BaseURL
	}
	return DefaultBaseURL
}

// Result of a supplementary check. Scores is nil when the signal errored.
type Result struct {
	Allowed bool
	Scores  *Scores
}

// Gate applies the configured thresholds to analyzer scores.
type Gate struct {
	Analyzer                *Analyzer
	Logger                  *slog.Logger
	ToxicityThreshold       float64
	SevereToxicityThreshold float64
}

func NewGate(analyzer *Analyzer, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		Analyzer:                analyzer,
		Logger:                  logger,
		ToxicityThreshold:       DefaultToxicityThreshold,
		SevereToxicityThreshold: DefaultSevereToxicityThreshold,
	}
}

// Configured reports whether the signal can run at all.
func (g *Gate) Configured() bool {
	return g != nil && g.Analyzer != nil && g.Analyzer.APIKey != ""
}

// Check scores the text and applies thresholds. Errors always allow: this
// layer is advisory, never authoritative.
func (g *Gate) Check(ctx context.Context, text string) Result {
	scores, err := g.Analyzer.Analyze(ctx, text)
	if err != nil {
		g.Logger.Warn("toxicity signal failed, skipping", "err", err)
		return Result{Allowed: true}
	}
	if scores.SevereToxicity >= g.SevereToxicityThreshold || scores.Toxicity >= g.ToxicityThreshold {
		return Result{Allowed: false, Scores: &scores}
	}
	return Result{Allowed: true, Scores: &scores}
}
