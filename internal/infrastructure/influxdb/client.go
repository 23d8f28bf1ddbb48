package influxdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/hearth-core/internal/infrastructure/config"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPingTimeout    = 5 * time.Second

	defaultBatchSize     = 100
	defaultFlushInterval = 10 // seconds
)

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures Connect. Only Config is required.
type Options struct {
	Config config.InfluxDBConfig

	// Home is added as the "home" tag on every point when set.
	Home string

	// Logger receives asynchronous write failures.
	Logger Logger
}

// Client records the household's energy history in one InfluxDB bucket.
// It satisfies energy.Sink.
//
// Writes never block the caller: points are batched by the write API and
// failures are logged from a background goroutine.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	schema   schema
	logger   Logger

	mu     sync.RWMutex
	closed bool
}

// Connect pings the server and opens a batched write API for the energy
// bucket.
//
// Parameters:
//   - ctx: Bounds the initial ping
//   - opts: Connection settings and the tags applied to every point
//
// Returns:
//   - *Client: Ready to receive energy readings
//   - error: ErrDisabled, or ErrConnectionFailed when the ping fails
func Connect(ctx context.Context, opts Options) (*Client, error) {
	cfg := opts.Config
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, clientOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()
	if err := ping(pingCtx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	c := &Client{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		schema:   newSchema(cfg.Measurement, opts.Home),
		logger:   opts.Logger,
	}
	if c.logger == nil {
		c.logger = noopLogger{}
	}
	go c.logWriteErrors(c.writeAPI.Errors())

	return c, nil
}

// clientOptions maps batch_size and flush_interval onto the library's
// options, using the defaults for non-positive values.
func clientOptions(cfg config.InfluxDBConfig) *influxdb2.Options {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}
	flushMillis := time.Duration(flushInterval) * time.Second / time.Millisecond

	// #nosec G115 -- both values are positive
	return influxdb2.DefaultOptions().
		SetBatchSize(uint(batchSize)).
		SetFlushInterval(uint(flushMillis))
}

func ping(ctx context.Context, client influxdb2.Client) error {
	healthy, err := client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	if !healthy {
		return fmt.Errorf("server not healthy")
	}
	return nil
}

func (c *Client) logWriteErrors(errorsCh <-chan error) {
	for err := range errorsCh {
		c.logger.Error("energy history write failed",
			"measurement", c.schema.measurement,
			"error", err,
		)
	}
}

// open reports whether writes are still accepted.
func (c *Client) open() bool {
	if c == nil || c.writeAPI == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

// Close flushes buffered readings and releases the connection.
// It is safe to call on a nil or already closed client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}

	c.mu.Lock()
	wasClosed := c.closed
	c.closed = true
	c.mu.Unlock()
	if wasClosed {
		return nil
	}

	c.writeAPI.Flush()
	c.client.Close()
	return nil
}

// HealthCheck pings the server.
//
// Returns:
//   - error: ErrNotConnected after Close, otherwise the ping failure
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.open() {
		return ErrNotConnected
	}

	checkCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := ping(checkCtx, c.client); err != nil {
		return fmt.Errorf("influxdb health check failed: %w", err)
	}
	return nil
}
