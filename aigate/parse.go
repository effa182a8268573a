package aigate

import (
	"encoding/json"
	"fmt"
	"strings"
)

type wireVerdict struct {
	Decision   string   `json:"decision"`
	Category   string   `json:"category"`
	Confidence *float64 `json:"confidence"`
	Reason     string   `json:"reason"`
}

// parseVerdict extracts the first JSON object from model output and decodes
// it strictly. A missing or unrecognized decision, or a missing confidence,
// is a parse failure and surfaces as a service error, never as an allow.
func parseVerdict(content string) (Verdict, error) {
	objText, ok := firstJSONObject(content)
	if !ok {
		return Verdict{}, fmt.Errorf("no JSON object in classifier output")
	}

	var w wireVerdict
	if err := json.Unmarshal([]byte(objText), &w); err != nil {
		return Verdict{}, fmt.Errorf("malformed classifier JSON: %w", err)
	}
	if w.Confidence == nil {
		return Verdict{}, fmt.Errorf("classifier JSON missing confidence")
	}

	switch strings.ToLower(strings.TrimSpace(w.Decision)) {
	case "allow":
		return Verdict{Allowed: true, Category: w.Category, Confidence: *w.Confidence, Reason: w.Reason}, nil
	case "block":
		return Verdict{Allowed: false, Category: w.Category, Confidence: *w.Confidence, Reason: w.Reason}, nil
	default:
		return Verdict{}, fmt.Errorf("classifier JSON has unrecognized decision %q", w.Decision)
	}
}

// firstJSONObject scans for a balanced top-level {...} span, ignoring braces
// inside JSON strings.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
