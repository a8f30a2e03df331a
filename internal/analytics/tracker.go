// Package analytics reports dispatched events to the NudgeKit backend.
package analytics

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/NudgeKit/nudgekit-sdk/pkg/sdk"
)

type Config struct {
	BaseURL       string
	AppID         string
	AppKey        string
	FlushInterval time.Duration
	BatchSize     int
}

type trackedEvent struct {
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties"`
	Timestamp  int64          `json:"timestamp"`
}

// Tracker buffers tracked events and ships them in batches to the ingest
// endpoint. Track never blocks the caller: events are appended under a
// mutex and flushed from a background goroutine on batch size, interval, or
// Close. Failed batches are logged and dropped; there are no retries.
type Tracker struct {
	cfg    Config
	log    *zap.Logger
	client *http.Client

	mu  sync.Mutex
	buf []trackedEvent

	kick chan struct{}
	stop chan struct{}
	done chan struct{}

	closeOnce sync.Once
}

var _ sdk.AnalyticsTracker = (*Tracker)(nil)

func New(cfg Config, log *zap.Logger) *Tracker {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 10 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	t := &Tracker{
		cfg:    cfg,
		log:    log,
		client: &http.Client{Timeout: 10 * time.Second},
		kick:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.loop()
	return t
}

// Track queues one event for delivery.
func (t *Tracker) Track(event string, properties map[string]any) {
	t.mu.Lock()
	t.buf = append(t.buf, trackedEvent{
		Event:      event,
		Properties: properties,
		Timestamp:  time.Now().UnixMilli(),
	})
	full := len(t.buf) >= t.cfg.BatchSize
	t.mu.Unlock()

	if full {
		select {
		case t.kick <- struct{}{}:
		default:
		}
	}
}

// Close flushes buffered events and stops the background loop.
func (t *Tracker) Close() error {
	t.closeOnce.Do(func() { close(t.stop) })
	<-t.done
	return nil
}

func (t *Tracker) loop() {
	defer close(t.done)
	ticker := time.NewTicker(t.cfg.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.flush()
		case <-t.kick:
			t.flush()
		case <-t.stop:
			t.flush()
			return
		}
	}
}

func (t *Tracker) flush() {
	t.mu.Lock()
	batch := t.buf
	t.buf = nil
	t.mu.Unlock()
	if len(batch) == 0 {
		return
	}

	body, err := json.Marshal(batch)
	if err != nil {
		t.log.Warn("marshal analytics batch", zap.Error(err))
		return
	}
	tok, err := mintToken(t.cfg.AppID, t.cfg.AppKey, time.Now())
	if err != nil {
		t.log.Warn("sign analytics token", zap.Error(err))
		return
	}

	req, err := http.NewRequest(http.MethodPost, t.cfg.BaseURL+"/v1/track", bytes.NewReader(body))
	if err != nil {
		t.log.Warn("build analytics request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := t.client.Do(req)
	if err != nil {
		t.log.Warn("analytics post failed, dropping batch",
			zap.Int("events", len(batch)), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		t.log.Warn("analytics post rejected, dropping batch",
			zap.Int("events", len(batch)), zap.Int("status", resp.StatusCode))
		return
	}
	t.log.Debug("analytics batch delivered", zap.Int("events", len(batch)))
}
