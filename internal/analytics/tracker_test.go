package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type fakeBackend struct {
	mu      sync.Mutex
	batches [][]trackedEvent
	tokens  []string
	status  int
}

// newFakeBackend serves the ingest endpoint the tracker posts to.
func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{status: http.StatusAccepted}
	r := chi.NewRouter()
	r.Post("/v1/track", func(w http.ResponseWriter, req *http.Request) {
		var batch []trackedEvent
		if err := json.NewDecoder(req.Body).Decode(&batch); err != nil {
			t.Errorf("decode batch: %v", err)
		}
		auth := req.Header.Get("Authorization")
		fb.mu.Lock()
		fb.batches = append(fb.batches, batch)
		fb.tokens = append(fb.tokens, auth)
		status := fb.status
		fb.mu.Unlock()
		w.WriteHeader(status)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) batchCount() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.batches)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestTrackerFlushesOnBatchSize(t *testing.T) {
	fb, srv := newFakeBackend(t)
	tr := New(Config{
		BaseURL:       srv.URL,
		AppID:         "app-1",
		AppKey:        "secret",
		FlushInterval: time.Hour, // size-triggered only
		BatchSize:     3,
	}, zap.NewNop())
	defer tr.Close()

	tr.Track("a", map[string]any{"n": 1})
	tr.Track("b", nil)
	if fb.batchCount() != 0 {
		t.Fatal("flushed before batch size reached")
	}
	tr.Track("c", nil)

	waitFor(t, func() bool { return fb.batchCount() == 1 })
	fb.mu.Lock()
	defer fb.mu.Unlock()
	batch := fb.batches[0]
	if len(batch) != 3 || batch[0].Event != "a" || batch[2].Event != "c" {
		t.Fatalf("batch = %+v", batch)
	}
	if batch[0].Timestamp == 0 {
		t.Fatal("missing timestamp")
	}
}

func TestTrackerCloseFlushesRemainder(t *testing.T) {
	fb, srv := newFakeBackend(t)
	tr := New(Config{
		BaseURL:       srv.URL,
		AppID:         "app-1",
		AppKey:        "secret",
		FlushInterval: time.Hour,
		BatchSize:     100,
	}, zap.NewNop())

	tr.Track("pending", nil)
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	if fb.batchCount() != 1 {
		t.Fatalf("Close flushed %d batches, want 1", fb.batchCount())
	}
}

func TestTrackerAuthTokenVerifiable(t *testing.T) {
	fb, srv := newFakeBackend(t)
	tr := New(Config{
		BaseURL:   srv.URL,
		AppID:     "app-42",
		AppKey:    "topsecret",
		BatchSize: 1,
	}, zap.NewNop())
	defer tr.Close()

	tr.Track("ping", nil)
	waitFor(t, func() bool { return fb.batchCount() == 1 })

	fb.mu.Lock()
	auth := fb.tokens[0]
	fb.mu.Unlock()
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
		t.Fatalf("authorization header = %q", auth)
	}

	tok, err := jwt.Parse(auth[len(prefix):], func(*jwt.Token) (any, error) {
		return []byte("topsecret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["sub"] != "app-42" || claims["iss"] != "nudgekit-sdk" {
		t.Fatalf("claims = %v", claims)
	}
}

func TestTrackerDropsRejectedBatch(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.status = http.StatusInternalServerError

	tr := New(Config{
		BaseURL:   srv.URL,
		AppID:     "app-1",
		AppKey:    "secret",
		BatchSize: 1,
	}, zap.NewNop())
	defer tr.Close()

	tr.Track("doomed", nil)
	waitFor(t, func() bool { return fb.batchCount() == 1 })

	// The rejected batch is dropped, not retried: a later event arrives alone.
	fb.mu.Lock()
	fb.status = http.StatusAccepted
	fb.mu.Unlock()
	tr.Track("next", nil)
	waitFor(t, func() bool { return fb.batchCount() == 2 })

	fb.mu.Lock()
	defer fb.mu.Unlock()
	if len(fb.batches[1]) != 1 || fb.batches[1][0].Event != "next" {
		t.Fatalf("second batch = %+v, want only the later event", fb.batches[1])
	}
}

func TestTrackerUnreachableBackend(t *testing.T) {
	tr := New(Config{
		BaseURL:   "http://127.0.0.1:1", // nothing listens here
		AppID:     "app-1",
		AppKey:    "secret",
		BatchSize: 1,
	}, zap.NewNop())

	tr.Track("lost", nil)
	if err := tr.Close(); err != nil {
		t.Fatalf("Close after failed post: %v", err)
	}
}
