package aigate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifierStub(t *testing.T, content string, status int, calls *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Contains(t, r.Header.Get("Authorization"), "Bearer ")
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func testClient(url string) *Client {
	c := NewClient(nil, "test-key")
	c.BaseURL = url
	c.Backoff = time.Millisecond
	return c
}

func TestClientModerate(t *testing.T) {
	assert := assert.New(t)

	srv := classifierStub(t, `{"decision": "block", "category": "harassment", "confidence": 0.92}`, http.StatusOK, nil)
	defer srv.Close()

	v, err := testClient(srv.URL).Moderate(context.Background(), "some nasty text")
	assert.NoError(err)
	assert.False(v.Allowed)
	assert.Equal("harassment", v.Category)
}

func TestClientRetriesOnce(t *testing.T) {
	assert := assert.New(t)

	var calls atomic.Int32
	srv := classifierStub(t, "", http.StatusInternalServerError, &calls)
	defer srv.Close()

	_, err := testClient(srv.URL).Moderate(context.Background(), "text")
	assert.Error(err)
	assert.Equal(int32(2), calls.Load())
}

func TestClientMissingKey(t *testing.T) {
	assert := assert.New(t)

	c := NewClient(nil, "")
	_, err := c.Moderate(context.Background(), "text")
	assert.Error(err)
}

func TestGateFailClosedInProduction(t *testing.T) {
	assert := assert.New(t)

	srv := classifierStub(t, "", http.StatusInternalServerError, nil)
	defer srv.Close()

	// fail-open flag has no effect in production
	g := NewGate(testClient(srv.URL), nil, true, true)
	res := g.Check(context.Background(), "text", CacheKey("text"))
	assert.False(res.Allowed)
	assert.True(res.ServiceError)

	// missing API key is the same failure class
	g = NewGate(NewClient(nil, ""), nil, true, true)
	res = g.Check(context.Background(), "text", CacheKey("text"))
	assert.False(res.Allowed)
	assert.True(res.ServiceError)
}

func TestGateFailOpenOutsideProduction(t *testing.T) {
	assert := assert.New(t)

	srv := classifierStub(t, "", http.StatusInternalServerError, nil)
	defer srv.Close()

	g := NewGate(testClient(srv.URL), nil, false, true)
	res := g.Check(context.Background(), "text", CacheKey("text"))
	assert.True(res.Allowed)
	assert.True(res.ServiceError)

	// without fail-open, non-production still fails closed
	g = NewGate(testClient(srv.URL), nil, false, false)
	res = g.Check(context.Background(), "text", CacheKey("text"))
	assert.False(res.Allowed)
}

func TestGateCaching(t *testing.T) {
	assert := assert.New(t)

	var calls atomic.Int32
	srv := classifierStub(t, `{"decision": "allow", "category": "none", "confidence": 0.99}`, http.StatusOK, &calls)
	defer srv.Close()

	g := NewGate(testClient(srv.URL), nil, true, false)

	res := g.Check(context.Background(), "hello neighbors", CacheKey("hello neighbors"))
	assert.True(res.Allowed)
	assert.False(res.Cached)

	res = g.Check(context.Background(), "hello neighbors", CacheKey("hello neighbors"))
	assert.True(res.Allowed)
	assert.True(res.Cached)
	assert.Equal(int32(1), calls.Load())
}

func TestGateMalformedResponseIsServiceError(t *testing.T) {
	assert := assert.New(t)

	for _, content := range []string{
		"I think this is fine!",
		`{"decision": "allow"}`,
	} {
		srv := classifierStub(t, content, http.StatusOK, nil)
		g := NewGate(testClient(srv.URL), nil, true, false)
		res := g.Check(context.Background(), "text", CacheKey(fmt.Sprintf("text-%s", content)))
		srv.Close()

		assert.False(res.Allowed, "content: %q", content)
		assert.True(res.ServiceError, "content: %q", content)
	}
}

func TestClientTimeout(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.Timeout = 20 * time.Millisecond

	start := time.Now()
	_, err := c.Moderate(context.Background(), "text")
	assert.Error(err)
	// two attempts plus one fixed backoff, well under the handler delay x2
	assert.Less(time.Since(start), 200*time.Millisecond)
}
