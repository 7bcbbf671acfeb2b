package publish

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/block/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultTimeout bounds a publish when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Options configures a Publisher.
type Options struct {
	// URL is the socket.io endpoint, for example http://localhost:3000/socket.io/.
	URL       string
	Namespace string
	Event     string
	Timeout   time.Duration
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool
}

// Publisher emits reports to a socket.io server.
type Publisher struct {
	opts    Options
	baseURL string
	path    string
}

// New validates opts and creates a Publisher. No connection is made until
// Publish is called.
func New(opts Options) (*Publisher, error) {
	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	switch parsed.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme '%s'", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("URL '%s' has no host", opts.URL)
	}
	if opts.Event == "" {
		return nil, fmt.Errorf("event name must not be empty")
	}
	if socket.RESERVED_EVENTS.Has(opts.Event) {
		return nil, fmt.Errorf("'%s' is a reserved socket.io event", opts.Event)
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	return &Publisher{
		opts:    opts,
		baseURL: fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host),
		path:    parsed.Path,
	}, nil
}

// Publish connects, emits the report once the connection is established and
// waits for the server to acknowledge it. A report counts as delivered only
// after the acknowledgement arrives.
func (p *Publisher) Publish(ctx context.Context, r *Report) error {
	ctx = ctxlog.With(ctx, "url", p.opts.URL, "event", p.opts.Event)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Publishing report.")

	payload, err := r.Payload()
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	opCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	if p.path != "" && p.path != "/" {
		opts.SetPath(p.path)
	}
	if p.opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	manager := socket.NewManager(p.baseURL, opts)
	io := manager.Socket(p.opts.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	var connected atomic.Bool
	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	io.On(types.EventName("connect"), func(...any) {
		if connected.Swap(true) {
			return
		}
		logger.Debug("Connected.", "namespace", p.opts.Namespace, "sid", io.Id())
		io.Timeout(p.opts.Timeout).EmitWithAck(p.opts.Event, payload)(func(_ []any, err error) {
			if err != nil {
				finish(fmt.Errorf("server did not acknowledge '%s': %w", p.opts.Event, err))
				return
			}
			finish(nil)
		})
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connection failed")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = fmt.Errorf("connection failed: %w", e)
			}
		}
		finish(err)
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if connected.Load() {
			return fmt.Errorf("timed out waiting for the server to acknowledge '%s'", p.opts.Event)
		}
		return fmt.Errorf("timed out while waiting for initial connection")
	case err := <-done:
		if err != nil {
			return err
		}
		logger.Info("Report published.", "target", r.Target)
		return nil
	}
}
