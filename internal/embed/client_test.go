package embed

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tunebar/tunebar/internal/core"
)

// recorder collects events delivered by the client.
type recorder struct {
	mu     sync.Mutex
	ready  int
	states []core.EmbedState
	errs   []core.ErrorCode
}

func (r *recorder) OnReady() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ready++
}

func (r *recorder) OnStateChange(s core.EmbedState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) OnError(c core.ErrorCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, c)
}

// fakeDaemon answers every request from responses[method] and can push
// events to the connected client.
type fakeDaemon struct {
	t         *testing.T
	ln        net.Listener
	mu        sync.Mutex
	conn      net.Conn
	requests  []request
	responses map[string]string
}

func newFakeDaemon(t *testing.T, responses map[string]string) (*fakeDaemon, string) {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "player.sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	d := &fakeDaemon{t: t, ln: ln, responses: responses}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		d.mu.Lock()
		d.conn = conn
		d.mu.Unlock()

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			var req request
			if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
				continue
			}
			d.mu.Lock()
			d.requests = append(d.requests, req)
			result, ok := d.responses[req.Method]
			d.mu.Unlock()
			if !ok {
				result = "null"
			}
			reply, _ := json.Marshal(map[string]any{
				"id":     req.ID,
				"result": json.RawMessage(result),
			})
			_, _ = conn.Write(append(reply, '\n'))
		}
	}()
	return d, socket
}

func (d *fakeDaemon) push(event string, data string) {
	d.mu.Lock()
	conn := d.conn
	d.mu.Unlock()
	if conn == nil {
		d.t.Fatal("no client connected")
	}
	msg, _ := json.Marshal(map[string]any{
		"event": event,
		"data":  json.RawMessage(data),
	})
	_, _ = conn.Write(append(msg, '\n'))
}

func (d *fakeDaemon) lastRequest() (request, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.requests) == 0 {
		return request{}, false
	}
	return d.requests[len(d.requests)-1], true
}

func TestCommandsAndQueries(t *testing.T) {
	daemon, socket := newFakeDaemon(t, map[string]string{
		"getVolume":      "85",
		"isMuted":        "true",
		"getCurrentTime": "42.5",
		"getDuration":    "180",
		"getVideoData":   `{"videoId":"abc123","title":"Some Track"}`,
		"getPlayerState": `"playing"`,
	})

	client, err := Dial(socket, &recorder{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer client.Close()

	if err := client.CueVideo("abc123", 30); err != nil {
		t.Fatalf("CueVideo() error = %v", err)
	}
	req, ok := daemon.lastRequest()
	if !ok || req.Method != "cueVideo" {
		t.Fatalf("last request = %+v, want cueVideo", req)
	}
	if req.Params["videoId"] != "abc123" || req.Params["startSeconds"] != 30.0 {
		t.Errorf("cueVideo params = %v", req.Params)
	}

	if v, err := client.Volume(); err != nil || v != 85 {
		t.Errorf("Volume() = %d, %v, want 85", v, err)
	}
	if m, err := client.Muted(); err != nil || !m {
		t.Errorf("Muted() = %v, %v, want true", m, err)
	}
	if ct, err := client.CurrentTime(); err != nil || ct != 42.5 {
		t.Errorf("CurrentTime() = %v, %v, want 42.5", ct, err)
	}
	if d, err := client.Duration(); err != nil || d != 180 {
		t.Errorf("Duration() = %v, %v, want 180", d, err)
	}
	if id, err := client.VideoID(); err != nil || id != "abc123" {
		t.Errorf("VideoID() = %q, %v, want abc123", id, err)
	}
	if s, err := client.State(); err != nil || s != core.EmbedPlaying {
		t.Errorf("State() = %v, %v, want playing", s, err)
	}
}

func TestEventDispatch(t *testing.T) {
	daemon, socket := newFakeDaemon(t, nil)
	rec := &recorder{}

	client, err := Dial(socket, rec, zerolog.Nop())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer client.Close()

	// One command forces the accept loop to register the connection.
	if err := client.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	daemon.push("ready", "{}")
	daemon.push("stateChange", `{"state":"buffering"}`)
	daemon.push("stateChange", `{"state":"playing"}`)
	daemon.push("error", `{"code":100}`)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec.mu.Lock()
		done := rec.ready == 1 && len(rec.states) == 2 && len(rec.errs) == 1
		rec.mu.Unlock()
		if done {
			break
		}
		time.Sleep(time.Millisecond)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.ready != 1 {
		t.Errorf("ready events = %d, want 1", rec.ready)
	}
	if len(rec.states) != 2 || rec.states[0] != core.EmbedBuffering || rec.states[1] != core.EmbedPlaying {
		t.Errorf("states = %v, want [buffering playing]", rec.states)
	}
	if len(rec.errs) != 1 || rec.errs[0] != core.ErrCodeNotFound {
		t.Errorf("errors = %v, want [100]", rec.errs)
	}
}

// queryingHandler calls back into the client from inside the event
// callback, the way the controller resolves the current video and
// position on every state change.
type queryingHandler struct {
	mu        sync.Mutex
	client    *Client
	positions []float64
	queryErrs []error
}

func (h *queryingHandler) setClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.client = c
}

func (h *queryingHandler) OnReady() {}

func (h *queryingHandler) OnStateChange(core.EmbedState) {
	h.mu.Lock()
	client := h.client
	h.mu.Unlock()

	pos, err := client.CurrentTime()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.positions = append(h.positions, pos)
	h.queryErrs = append(h.queryErrs, err)
}

func (h *queryingHandler) OnError(core.ErrorCode) {}

func TestHandlerCanQueryDuringEvent(t *testing.T) {
	daemon, socket := newFakeDaemon(t, map[string]string{
		"getCurrentTime": "42.5",
	})
	handler := &queryingHandler{}

	client, err := Dial(socket, handler, zerolog.Nop())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer client.Close()
	handler.setClient(client)

	// One command forces the accept loop to register the connection.
	if err := client.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	daemon.push("stateChange", `{"state":"playing"}`)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		handler.mu.Lock()
		done := len(handler.positions) == 1
		handler.mu.Unlock()
		if done {
			break
		}
		time.Sleep(time.Millisecond)
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	if len(handler.positions) != 1 {
		t.Fatal("state change never delivered")
	}
	if handler.queryErrs[0] != nil {
		t.Fatalf("CurrentTime() inside handler error = %v", handler.queryErrs[0])
	}
	if handler.positions[0] != 42.5 {
		t.Errorf("CurrentTime() inside handler = %v, want 42.5", handler.positions[0])
	}
}

func TestDialFailure(t *testing.T) {
	_, err := Dial(filepath.Join(t.TempDir(), "missing.sock"), &recorder{}, zerolog.Nop())
	if err == nil {
		t.Fatal("Dial() error = nil for missing socket")
	}
}
