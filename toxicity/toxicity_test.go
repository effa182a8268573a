package toxicity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzerStub(t *testing.T, scores map[string]float64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comments:analyze", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "requestedAttributes")

		attrs := map[string]any{}
		for name, val := range scores {
			attrs[name] = map[string]any{"summaryScore": map[string]any{"value": val}}
		}
		json.NewEncoder(w).Encode(map[string]any{"attributeScores": attrs})
	}))
}

func newTestGate(srv *httptest.Server) *Gate {
	analyzer := NewAnalyzer(nil, "test-key")
	analyzer.BaseURL = srv.URL
	return NewGate(analyzer, nil)
}

func TestAnalyze(t *testing.T) {
	assert := assert.New(t)

	srv := analyzerStub(t, map[string]float64{
		"TOXICITY":        0.91,
		"SEVERE_TOXICITY": 0.42,
		"IDENTITY_ATTACK": 0.12,
		"INSULT":          0.88,
		"THREAT":          0.05,
	})
	defer srv.Close()

	analyzer := NewAnalyzer(nil, "test-key")
	analyzer.BaseURL = srv.URL

	scores, err := analyzer.Analyze(context.Background(), "you absolute garbage person")
	assert.NoError(err)
	assert.Equal(0.91, scores.Toxicity)
	assert.Equal(0.42, scores.SevereToxicity)
	assert.Equal(0.88, scores.Insult)
}

func TestGateThresholds(t *testing.T) {
	tests := []struct {
		toxicity float64
		severe   float64
		allowed  bool
	}{
		{0.1, 0.1, true},
		{0.69, 0.49, true},
		{0.7, 0.0, false},
		{0.95, 0.1, false},
		{0.3, 0.5, false},
		{0.0, 0.9, false},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("tox=%.2f severe=%.2f", tc.toxicity, tc.severe), func(t *testing.T) {
			srv := analyzerStub(t, map[string]float64{
				"TOXICITY":        tc.toxicity,
				"SEVERE_TOXICITY": tc.severe,
			})
			defer srv.Close()

			res := newTestGate(srv).Check(context.Background(), "some comment")
			assert.Equal(t, tc.allowed, res.Allowed)
			assert.NotNil(t, res.Scores)
		})
	}
}

func TestGateErrorsAllow(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	res := newTestGate(srv).Check(context.Background(), "anything")
	assert.True(res.Allowed)
	assert.Nil(res.Scores)
}

func TestGateUnreachableAllows(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	gate := newTestGate(srv)
	gate.Analyzer.HTTP = &http.Client{}

	res := gate.Check(context.Background(), "anything")
	assert.True(res.Allowed)
}

func TestGateConfigured(t *testing.T) {
	assert := assert.New(t)

	assert.False((&Gate{}).Configured())
	assert.False(NewGate(NewAnalyzer(nil, ""), nil).Configured())
	assert.True(NewGate(NewAnalyzer(nil, "k"), nil).Configured())
}
