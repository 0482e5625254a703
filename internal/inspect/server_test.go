package inspect

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/playforge/internal/engine"
	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/physics"
	"github.com/vovakirdan/playforge/internal/session"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(cfg)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		s.Hub().CloseAll()
		ts.Close()
	})
	return s, ts
}

func testSnapshot(score int) session.Snapshot {
	return session.Snapshot{
		Scene:  "meadow",
		Genre:  mechanics.Platformer,
		Status: "running",
		Now:    time.Second,
		World: physics.Snapshot{Bodies: []physics.BodySnapshot{
			{ID: "player"},
			{ID: "goal"},
		}},
		State: mechanics.GameState{Score: score},
	}
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	s, ts := newTestServer(t, Config{})
	if err := s.Publish(testSnapshot(0)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["status"] != "ok" || got["scene"] != "meadow" || got["engine"] != "running" {
		t.Errorf("health = %v", got)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	s, ts := newTestServer(t, Config{})

	resp, _ := get(t, ts.URL+"/snapshot")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("before publish status = %d, want 503", resp.StatusCode)
	}

	if err := s.Publish(testSnapshot(25)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	resp, body := get(t, ts.URL+"/snapshot")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{`"scene":"meadow"`, `"genre":"platformer"`, `"score":25`} {
		if !strings.Contains(body, want) {
			t.Errorf("snapshot missing %s: %s", want, body)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, ts := newTestServer(t, Config{})
	s.ObserveFrame(engine.Frame{
		Steps:   2,
		Elapsed: time.Millisecond,
		Status:  engine.Running,
		State:   mechanics.GameState{Score: 10},
	})
	if err := s.Publish(testSnapshot(10)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	_, body := get(t, ts.URL+"/metrics")
	for _, want := range []string{
		"playforge_frame_duration_seconds",
		"playforge_physics_steps_total 2",
		`playforge_frames_total{status="running"} 1`,
		"playforge_bodies 2",
		"playforge_score 10",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestScenesEndpoint(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp, body := get(t, ts.URL+"/scenes")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got []sceneInfo
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, s := range got {
		if s.ID == "" || s.Genre == "" {
			t.Errorf("incomplete scene entry %+v", s)
		}
	}
}

func TestRateLimit(t *testing.T) {
	_, ts := newTestServer(t, Config{RateLimit: RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}})

	for i := 0; i < 2; i++ {
		resp, _ := get(t, ts.URL+"/scenes")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, resp.StatusCode)
		}
	}
	resp, _ := get(t, ts.URL+"/scenes")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}

	// Health and metrics are exempt.
	if resp, _ := get(t, ts.URL+"/healthz"); resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"remote", nil, "10.0.0.1:5000", "10.0.0.1"},
		{"forwarded", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"}, "10.0.0.1:5000", "1.2.3.4"},
		{"real ip", map[string]string{"X-Real-IP": "5.6.7.8"}, "10.0.0.1:5000", "5.6.7.8"},
		{"no port", nil, "10.0.0.9", "10.0.0.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// streamed is the part of a snapshot message the tests look at.
type streamed struct {
	Scene string `json:"scene"`
	State struct {
		Score int `json:"score"`
	} `json:"state"`
}

func readSnapshot(t *testing.T, conn *websocket.Conn) streamed {
	t.Helper()
	//nolint:errcheck // Deadline errors surface on the read
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var snap streamed
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return snap
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", h.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStream(t *testing.T) {
	s, ts := newTestServer(t, Config{})
	if err := s.Publish(testSnapshot(10)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	conn := dial(t, ts)
	if got := readSnapshot(t, conn); got.State.Score != 10 {
		t.Errorf("first message score = %d, want latest 10", got.State.Score)
	}
	waitClients(t, s.Hub(), 1)

	if err := s.Publish(testSnapshot(35)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := readSnapshot(t, conn); got.State.Score != 35 {
		t.Errorf("streamed score = %d, want 35", got.State.Score)
	}

	conn.Close()
	waitClients(t, s.Hub(), 0)
}

func TestStreamClientLimit(t *testing.T) {
	s, ts := newTestServer(t, Config{MaxClients: 1})
	dial(t, ts)
	waitClients(t, s.Hub(), 1)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("second dial succeeded, want rejection")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("rejection response = %v, want 503", resp)
	}
}
