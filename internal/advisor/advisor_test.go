package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/zerodesign/internal/footprint"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{Endpoint: srv.URL + "/", RatePerSecond: 1000, MaxRetries: 2})
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func TestClient_Suggest(t *testing.T) {
	t.Parallel()

	var got Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, suggestionsPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true,"suggestions":[
			{"type":"material","title":"Swap","description":"d","impact":"high","co2_reduction":"30%","confidence":0.8}
		]}`))
	})

	out, err := c.Suggest(context.Background(), Request{ProductType: "Tops", Material: "Pamuk", CurrentCO2: 5.9})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Swap", out[0].Title)
	assert.Equal(t, footprint.ImpactHigh, out[0].Impact)
	assert.InDelta(t, 0.8, out[0].Confidence, 1e-9)
	assert.Equal(t, Request{ProductType: "Tops", Material: "Pamuk", CurrentCO2: 5.9}, got)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte(`{"suggestions":[]}`))
		}
	})

	out, err := c.Suggest(context.Background(), Request{})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Suggest(context.Background(), Request{})
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.Suggest(context.Background(), Request{})
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RejectedAndNoEndpoint(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"model offline"}`))
	})
	_, err := c.Suggest(context.Background(), Request{})
	require.ErrorIs(t, err, ErrServiceRejected)
	assert.Contains(t, err.Error(), "model offline")

	_, err = NewClient(Config{}).Suggest(context.Background(), Request{})
	require.ErrorIs(t, err, ErrNoEndpoint)
	require.ErrorIs(t, NewClient(Config{}).Feedback(context.Background(), "s1", "helpful"), ErrNoEndpoint)
}

func TestClient_Feedback(t *testing.T) {
	t.Parallel()

	var body map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, feedbackPath, r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Feedback(context.Background(), "s1", "helpful"))
	assert.Equal(t, map[string]string{"suggestion_id": "s1", "feedback": "helpful"}, body)
}

type stubSuggester struct {
	out []RemoteSuggestion
	err error
	req Request
}

func (s *stubSuggester) Suggest(_ context.Context, req Request) ([]RemoteSuggestion, error) {
	s.req = req
	return s.out, s.err
}

func TestAdvise(t *testing.T) {
	t.Parallel()

	fibers := []footprint.FiberComponent{
		{Type: footprint.FiberElastane, Percentage: 20},
		{Type: footprint.FiberPolyester, Percentage: 80},
	}
	local := footprint.GenerateSuggestions(fibers, footprint.ProcessConfig{}, 9.1)

	t.Run("remote suggestions win", func(t *testing.T) {
		t.Parallel()
		s := &stubSuggester{out: []RemoteSuggestion{{Suggestion: footprint.Suggestion{Title: "Remote"}}}}
		got := Advise(context.Background(), s, "Tops", fibers, footprint.ProcessConfig{}, 9.1)
		assert.Equal(t, SourceRemote, got.Source)
		assert.Equal(t, "Remote", got.Suggestions[0].Title)
		assert.Equal(t, Request{ProductType: "Tops", Material: footprint.FiberPolyester, CurrentCO2: 9.1}, s.req)
	})

	t.Run("empty remote falls back", func(t *testing.T) {
		t.Parallel()
		got := Advise(context.Background(), &stubSuggester{}, "Tops", fibers, footprint.ProcessConfig{}, 9.1)
		assert.Equal(t, SourceLocal, got.Source)
		assert.Equal(t, local, got.Suggestions)
	})

	t.Run("remote error falls back", func(t *testing.T) {
		t.Parallel()
		got := Advise(context.Background(), &stubSuggester{err: errors.New("down")}, "Tops", fibers, footprint.ProcessConfig{}, 9.1)
		assert.Equal(t, SourceLocal, got.Source)
		assert.Equal(t, local, got.Suggestions)
	})

	t.Run("no suggester", func(t *testing.T) {
		t.Parallel()
		got := Advise(context.Background(), nil, "", fibers, footprint.ProcessConfig{}, 9.1)
		assert.Equal(t, SourceLocal, got.Source)
	})
}

func TestDominantFiber(t *testing.T) {
	t.Parallel()

	assert.Empty(t, DominantFiber(nil))
	assert.Equal(t, "A", DominantFiber([]footprint.FiberComponent{{Type: "A", Percentage: 50}, {Type: "B", Percentage: 50}}))
	assert.Equal(t, "B", DominantFiber([]footprint.FiberComponent{{Type: "A", Percentage: 0}, {Type: "B", Percentage: 1}}))
}

func TestJitter(t *testing.T) {
	t.Parallel()

	for range 20 {
		d := jitter(time.Second)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, time.Second+time.Second/4)
	}
	assert.Zero(t, jitter(0))
}
