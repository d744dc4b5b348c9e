// Package embed is the adapter to the embedded player daemon, the
// external process that does the actual streaming. It speaks
// newline-delimited JSON over a unix socket: requests matched to
// responses by id, with events pushed on the same stream.
package embed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tunebar/tunebar/internal/core"
	tberrors "github.com/tunebar/tunebar/internal/errors"
)

const (
	dialTimeout = 5 * time.Second
	callTimeout = 5 * time.Second

	// Scanner limit; daemon replies are small.
	maxLineSize = 256 * 1024
)

type request struct {
	ID     int64          `json:"id,omitempty"`
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

type message struct {
	ID     int64           `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	Event  string          `json:"event,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Client implements core.EmbedPlayer against a daemon socket.
type Client struct {
	conn    net.Conn
	handler core.EventHandler
	log     zerolog.Logger

	wmu sync.Mutex // serializes writes
	enc *json.Encoder

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan message

	// Events are queued here by the read loop and delivered by a
	// dedicated dispatcher goroutine, in arrival order. Handlers may
	// therefore call back into the client: replies keep flowing on the
	// read loop while a handler runs.
	evmu     sync.Mutex
	evcond   *sync.Cond
	events   []message
	evClosed bool

	closed    chan struct{}
	closeOnce sync.Once
}

// Dial connects to the daemon socket and starts dispatching its
// events to handler. The daemon fires a "ready" event once it has
// constructed its internal player.
func Dial(socketPath string, handler core.EventHandler, log zerolog.Logger) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tberrors.ErrDaemonUnreachable, err)
	}

	c := &Client{
		conn:    conn,
		handler: handler,
		log:     log,
		enc:     json.NewEncoder(conn),
		pending: make(map[int64]chan message),
		closed:  make(chan struct{}),
	}
	c.evcond = sync.NewCond(&c.evmu)
	go c.readLoop()
	go c.dispatchLoop()
	return c, nil
}

func (c *Client) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 4096), maxLineSize)
	for scanner.Scan() {
		var msg message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			c.log.Warn().Err(err).Msg("bad daemon message")
			continue
		}
		if msg.Event != "" {
			c.enqueueEvent(msg)
			continue
		}
		c.mu.Lock()
		ch, ok := c.pending[msg.ID]
		if ok {
			delete(c.pending, msg.ID)
		}
		c.mu.Unlock()
		if ok {
			ch <- msg
		}
	}
	if err := scanner.Err(); err != nil {
		c.log.Debug().Err(err).Msg("daemon connection closed")
	}
	_ = c.Close()
}

func (c *Client) enqueueEvent(msg message) {
	c.evmu.Lock()
	c.events = append(c.events, msg)
	c.evmu.Unlock()
	c.evcond.Signal()
}

// dispatchLoop drains queued events one at a time. Remaining events are
// still delivered after Close so a trailing state change is not lost.
func (c *Client) dispatchLoop() {
	for {
		c.evmu.Lock()
		for len(c.events) == 0 && !c.evClosed {
			c.evcond.Wait()
		}
		if len(c.events) == 0 {
			c.evmu.Unlock()
			return
		}
		msg := c.events[0]
		c.events = c.events[1:]
		c.evmu.Unlock()
		c.dispatchEvent(msg)
	}
}

func (c *Client) dispatchEvent(msg message) {
	switch msg.Event {
	case "ready":
		c.handler.OnReady()
	case "stateChange":
		var data struct {
			State string `json:"state"`
		}
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.log.Warn().Err(err).Msg("bad stateChange event")
			return
		}
		c.handler.OnStateChange(parseState(data.State))
	case "error":
		var data struct {
			Code int `json:"code"`
		}
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.log.Warn().Err(err).Msg("bad error event")
			return
		}
		c.handler.OnError(core.ErrorCode(data.Code))
	default:
		c.log.Debug().Str("event", msg.Event).Msg("ignoring unknown daemon event")
	}
}

func (c *Client) call(method string, params map[string]any) (json.RawMessage, error) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	ch := make(chan message, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	c.wmu.Lock()
	err := c.enc.Encode(request{ID: id, Method: method, Params: params})
	c.wmu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("failed to send %s: %w", method, err)
	}

	select {
	case msg := <-ch:
		if msg.Error != "" {
			return nil, fmt.Errorf("%s failed: %s", method, msg.Error)
		}
		return msg.Result, nil
	case <-time.After(callTimeout):
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", method, tberrors.ErrTimeout)
	case <-c.closed:
		return nil, tberrors.ErrDaemonUnreachable
	}
}

// CueVideo loads a video at the given start offset without playing it.
func (c *Client) CueVideo(videoID string, startSeconds float64) error {
	_, err := c.call("cueVideo", map[string]any{
		"videoId":      videoID,
		"startSeconds": startSeconds,
	})
	return err
}

// Play starts or resumes playback.
func (c *Client) Play() error {
	_, err := c.call("play", nil)
	return err
}

// Pause pauses playback.
func (c *Client) Pause() error {
	_, err := c.call("pause", nil)
	return err
}

// SeekTo seeks to a position in the current video.
func (c *Client) SeekTo(seconds float64) error {
	_, err := c.call("seekTo", map[string]any{"seconds": seconds})
	return err
}

// Mute mutes playback.
func (c *Client) Mute() error {
	_, err := c.call("mute", nil)
	return err
}

// UnMute unmutes playback.
func (c *Client) UnMute() error {
	_, err := c.call("unMute", nil)
	return err
}

// SetVolume sets the playback volume (0-100).
func (c *Client) SetVolume(percent int) error {
	_, err := c.call("setVolume", map[string]any{"volume": percent})
	return err
}

// Volume returns the current volume (0-100).
func (c *Client) Volume() (int, error) {
	var v int
	err := c.query("getVolume", &v)
	return v, err
}

// Muted returns whether playback is muted.
func (c *Client) Muted() (bool, error) {
	var m bool
	err := c.query("isMuted", &m)
	return m, err
}

// CurrentTime returns the playback position in seconds.
func (c *Client) CurrentTime() (float64, error) {
	var t float64
	err := c.query("getCurrentTime", &t)
	return t, err
}

// Duration returns the current video duration in seconds, 0 if unknown.
func (c *Client) Duration() (float64, error) {
	var d float64
	err := c.query("getDuration", &d)
	return d, err
}

// VideoID returns the id of the loaded video.
func (c *Client) VideoID() (string, error) {
	var data struct {
		VideoID string `json:"videoId"`
	}
	err := c.query("getVideoData", &data)
	return data.VideoID, err
}

// State returns the daemon's playback state.
func (c *Client) State() (core.EmbedState, error) {
	var s string
	if err := c.query("getPlayerState", &s); err != nil {
		return core.EmbedUnstarted, err
	}
	return parseState(s), nil
}

// Close tears down the connection. Safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
		c.evmu.Lock()
		c.evClosed = true
		c.evmu.Unlock()
		c.evcond.Broadcast()
	})
	return err
}

func (c *Client) query(method string, out any) error {
	result, err := c.call(method, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("failed to parse %s result: %w", method, err)
	}
	return nil
}

func parseState(s string) core.EmbedState {
	switch s {
	case "ended":
		return core.EmbedEnded
	case "playing":
		return core.EmbedPlaying
	case "paused":
		return core.EmbedPaused
	case "buffering":
		return core.EmbedBuffering
	case "cued":
		return core.EmbedCued
	default:
		return core.EmbedUnstarted
	}
}

// Ensure Client implements core.EmbedPlayer
var _ core.EmbedPlayer = (*Client)(nil)
