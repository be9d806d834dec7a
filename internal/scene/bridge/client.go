package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"pcbooth/internal/logging"
)

var commandContext = exec.CommandContext

// scanBufferSize bounds a single protocol line; object listings for dense
// boards run to megabytes.
const scanBufferSize = 8 * 1024 * 1024

const shutdownGrace = 5 * time.Second

// Option configures the client.
type Option func(*Client)

// WithLogger routes engine events and stderr chatter to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client drives the engine bridge subprocess over line-oriented JSON stdio.
// One request is in flight at a time; calls from multiple goroutines are
// serialized by an internal mutex.
type Client struct {
	mu     sync.Mutex
	logger *slog.Logger
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *json.Encoder
	lines  *bufio.Scanner
	nextID int64
	closed bool
}

type args = map[string]any

// Start launches the bridge binary and returns a connected client. The
// context governs the subprocess lifetime; cancel it or call Close to stop
// the engine.
func Start(ctx context.Context, binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("bridge binary required")
	}

	client := &Client{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(client)
	}

	cmd := commandContext(ctx, binary)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start bridge: %w", err)
	}

	client.cmd = cmd
	client.stdin = stdin
	client.enc = json.NewEncoder(stdin)
	client.lines = bufio.NewScanner(stdout)
	client.lines.Buffer(make([]byte, 0, 64*1024), scanBufferSize)

	go client.drainStderr(stderr)

	return client, nil
}

func (c *Client) drainStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), scanBufferSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.logger.Debug("bridge stderr", logging.String("line", line))
	}
}

// call sends one request and blocks until its response arrives. Event lines
// received while waiting are forwarded to the logger. A non-nil result is
// filled from the response payload.
func (c *Client) call(ctx context.Context, op string, a map[string]any, result any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("bridge %s: client closed", op)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("bridge %s: %w", op, err)
	}

	c.nextID++
	req := request{ID: c.nextID, Op: op, Args: a}
	if err := c.enc.Encode(&req); err != nil {
		return fmt.Errorf("bridge %s: write request: %w", op, err)
	}

	for c.lines.Scan() {
		line := bytes.TrimSpace(c.lines.Bytes())
		if len(line) == 0 {
			continue
		}
		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			c.logger.Debug("bridge output", logging.String("line", string(line)))
			continue
		}
		if resp.Event != "" {
			c.forwardEvent(resp)
			continue
		}
		if resp.ID != req.ID {
			// Response to an earlier abandoned request.
			continue
		}
		if !resp.OK {
			message := strings.TrimSpace(resp.Error)
			if message == "" {
				message = "engine reported failure without detail"
			}
			return fmt.Errorf("bridge %s: %s", op, message)
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("bridge %s: decode result: %w", op, err)
			}
		}
		return nil
	}

	if err := c.lines.Err(); err != nil {
		return fmt.Errorf("bridge %s: read response: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("bridge %s: %w", op, err)
	}
	return fmt.Errorf("bridge %s: engine exited before responding", op)
}

func (c *Client) forwardEvent(resp response) {
	if resp.Event != "log" || strings.TrimSpace(resp.Msg) == "" {
		return
	}
	switch strings.ToLower(resp.Level) {
	case "debug":
		c.logger.Debug(resp.Msg)
	case "warn", "warning":
		c.logger.Warn(resp.Msg)
	case "error":
		c.logger.Error(resp.Msg)
	default:
		c.logger.Info(resp.Msg)
	}
}

// Close asks the engine to shut down and reaps the subprocess. Safe to call
// more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	c.nextID++
	_ = c.enc.Encode(&request{ID: c.nextID, Op: "shutdown"})
	_ = c.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("bridge exited with status %d", exitErr.ExitCode())
		}
		return err
	case <-time.After(shutdownGrace):
		_ = c.cmd.Process.Kill()
		<-done
		return errors.New("bridge did not shut down; killed")
	}
}
