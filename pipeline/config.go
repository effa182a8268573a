package pipeline

import (
	"time"

	"github.com/aditya1583/community-pulse-sub002/aigate"
)

// Config holds every tunable for the evaluation pipeline. Zero values are
// filled from DefaultConfig by NewEngine.
type Config struct {
	// Production controls fail policy for the authoritative gate and
	// whether raw content appears in telemetry.
	Production bool

	// FailOpen allows content through when the authoritative gate is
	// unreachable. Ignored when Production is set.
	FailOpen bool

	// OpenAIAPIKey, OpenAIHost, OpenAIModel configure the policy classifier.
	OpenAIAPIKey string
	OpenAIHost   string
	OpenAIModel  string

	// PerspectiveAPIKey enables the supplementary toxicity signal. Empty
	// disables it.
	PerspectiveAPIKey string

	// ToxicityConfidenceCutoff is the policy-classifier confidence below
	// which the supplementary signal is consulted for allowed content.
	ToxicityConfidenceCutoff float64

	ToxicityThreshold       float64
	SevereToxicityThreshold float64

	// AllowNames and AllowSocialHandles relax the corresponding identity
	// detectors for communities where sharing them is expected.
	AllowNames         bool
	AllowSocialHandles bool

	// RequestTimeout bounds a whole evaluation; AITimeout bounds each
	// individual classifier attempt.
	RequestTimeout time.Duration
	AITimeout      time.Duration

	BlocklistTTL time.Duration
	CacheTTL     time.Duration
}

func DefaultConfig() Config {
	return Config{
		OpenAIModel:              "gpt-4o-mini",
		ToxicityConfidenceCutoff: 0.85,
		ToxicityThreshold:        0.7,
		SevereToxicityThreshold:  0.5,
		RequestTimeout:           10 * time.Second,
		AITimeout:                aigate.DefaultTimeout,
		BlocklistTTL:             60 * time.Second,
		CacheTTL:                 60 * time.Second,
	}
}
