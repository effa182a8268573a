package pipeline

import (
	"fmt"
	"time"

	"github.com/spaolacci/murmur3"
)

// RejectionReason is the single user-facing message for every rejected
// submission. Which rule matched is never exposed, so that probing cannot
// be used to tune evasions.
const RejectionReason = "This content violates our community guidelines and cannot be posted."

// Layer names, as they appear in telemetry.
const (
	LayerBlocklist = "blocklist"
	LayerPII       = "pii"
	LayerHeuristic = "heuristic"
	LayerAI        = "ai"
	LayerToxicity  = "toxicity"
)

// TelemetryRecord is one gate invocation. Content is the truncated hash in
// production; the raw text appears only in non-production environments.
type TelemetryRecord struct {
	RequestID   string        `json:"requestId"`
	Layer       string        `json:"layer"`
	Decision    string        `json:"decision"`
	Category    string        `json:"category,omitempty"`
	Duration    time.Duration `json:"duration"`
	ContentHash string        `json:"contentHash"`
	Content     string        `json:"content,omitempty"`
}

// Decision is the final pipeline outcome.
type Decision struct {
	Allowed bool
	// Reason is set only on rejection and is always RejectionReason.
	Reason string
	// ServiceError means the authoritative classifier was unavailable,
	// never that content violated policy.
	ServiceError bool
	Telemetry    []TelemetryRecord
}

// HashOfString returns a fast, compact hash of a string.
//
// current implementation uses murmur3, default seed, and hex encoding
func HashOfString(s string) string {
	val := murmur3.Sum64([]byte(s))
	return fmt.Sprintf("%016x", val)
}
