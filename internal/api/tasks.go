package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/hy4ri/todolist/internal/logging"
)

const (
	maxReconnectDelay  = 30 * time.Second
	baseReconnectDelay = 1 * time.Second
)

// CreateTask creates a new task and returns its id.
func (c *Client) CreateTask(ctx context.Context, t Task) (string, error) {
	var created CreatedResponse
	if err := c.Post(ctx, "/v1/tasks", t, &created); err != nil {
		return "", fmt.Errorf("failed to create task: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("failed to create task: server returned no id")
	}
	return created.ID, nil
}

// SubscribeTasks opens a WebSocket subscription on the document server.
// The first dial happens synchronously so configuration errors surface to
// the caller; later disconnects are retried with exponential backoff until
// Close is called.
func (c *Client) SubscribeTasks(ctx context.Context, filter TaskFilter) (Subscription, error) {
	wsURL := c.websocketURL("/v1/tasks/subscribe", buildFilterQuery(filter))

	subCtx, cancel := context.WithCancel(ctx)
	conn, err := c.dial(subCtx, wsURL)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to tasks: %w", err)
	}

	sub := &remoteSubscription{
		ch:     make(chan []Task, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go sub.loop(subCtx, c, wsURL, conn)
	return sub, nil
}

func (c *Client) dial(ctx context.Context, wsURL string) (*websocket.Conn, error) {
	// The HTTP client's timeout would cut long-lived connections; the
	// context bounds the dial instead.
	opts := &websocket.DialOptions{}
	if c.accessToken != "" {
		opts.HTTPHeader = http.Header{
			"Authorization": []string{"Bearer " + c.accessToken},
		}
	}
	conn, _, err := websocket.Dial(ctx, wsURL, opts)
	if err != nil {
		return nil, err
	}
	// Snapshots of large lists exceed the 32KiB default.
	conn.SetReadLimit(8 << 20)
	return conn, nil
}

type remoteSubscription struct {
	ch        chan []Task
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func (s *remoteSubscription) Snapshots() <-chan []Task { return s.ch }

func (s *remoteSubscription) Close() error {
	s.closeOnce.Do(s.cancel)
	<-s.done
	return nil
}

func (s *remoteSubscription) loop(ctx context.Context, c *Client, wsURL string, conn *websocket.Conn) {
	defer close(s.done)
	defer close(s.ch)

	failures := 0
	for {
		if conn != nil {
			err := s.read(ctx, conn)
			if ctx.Err() != nil {
				return
			}
			logging.Log.Warn("task subscription disconnected", "err", err)
			conn = nil
		}

		failures++
		delay := time.Duration(float64(baseReconnectDelay) * math.Pow(2, float64(min(failures-1, 5))))
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}

		next, err := c.dial(ctx, wsURL)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logging.Log.Warn("task subscription redial failed", "err", err, "failures", failures)
			continue
		}
		failures = 0
		conn = next
	}
}

// read pumps snapshots from one connection until it fails.
func (s *remoteSubscription) read(ctx context.Context, conn *websocket.Conn) error {
	defer conn.CloseNow()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			logging.Log.Debug("failed to parse task snapshot", "err", err)
			continue
		}
		if snap.Tasks == nil {
			snap.Tasks = []Task{}
		}

		// Only the latest snapshot matters; replace an undelivered one.
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- snap.Tasks:
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "client closing")
			return ctx.Err()
		}
	}
}
