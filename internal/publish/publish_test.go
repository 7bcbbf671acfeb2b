package publish

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/block/internal/testutil"
	"github.com/zclconf/go-cty/cty"
	server "github.com/zishang520/socket.io/v2/socket"
)

func TestNew_ValidatesOptions(t *testing.T) {
	testCases := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{"ok", Options{URL: "http://localhost:3000/socket.io/", Event: "report"}, ""},
		{"websocket scheme", Options{URL: "wss://example.com", Event: "report"}, ""},
		{"bad scheme", Options{URL: "ftp://example.com", Event: "report"}, "unsupported URL scheme"},
		{"no host", Options{URL: "http://", Event: "report"}, "has no host"},
		{"no event", Options{URL: "http://localhost"}, "must not be empty"},
		{"reserved event", Options{URL: "http://localhost", Event: "connect"}, "reserved"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := New(tc.opts)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "/", p.opts.Namespace)
				assert.Equal(t, DefaultTimeout, p.opts.Timeout)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestNew_SplitsURL(t *testing.T) {
	p, err := New(Options{URL: "http://localhost:3000/rt/", Event: "report", Namespace: "/blocks"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", p.baseURL)
	assert.Equal(t, "/rt/", p.path)
	assert.Equal(t, "/blocks", p.opts.Namespace)
}

func TestEncodeValue(t *testing.T) {
	testCases := []struct {
		name string
		in   cty.Value
		want string
	}{
		{"number", cty.NumberFloatVal(0.5), `0.5`},
		{"string", cty.StringVal("V"), `"V"`},
		{"null", cty.NullVal(cty.Number), `null`},
		{"nil", cty.NilVal, `null`},
		{"object", cty.ObjectVal(map[string]cty.Value{"a": cty.True}), `{"a":true}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EncodeValue(tc.in)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestReport_Payload(t *testing.T) {
	r := &Report{
		Diagram:     "plant.hcl",
		Target:      "line.reliability",
		Type:        "number",
		Value:       json.RawMessage(`0.9`),
		Outputs:     map[string]json.RawMessage{"pump.reliability": json.RawMessage(`0.9`)},
		Computed:    []string{"pump", "line"},
		EvaluatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	payload, err := r.Payload()
	require.NoError(t, err)
	assert.Equal(t, "line.reliability", payload["target"])
	assert.Equal(t, 0.9, payload["value"])
	assert.Equal(t, []any{"pump", "line"}, payload["computed"])
	assert.Equal(t, "2025-01-02T03:04:05Z", payload["evaluated_at"])
}

func TestPublish_UnreachableServer(t *testing.T) {
	p, err := New(Options{URL: "http://127.0.0.1:1", Event: "report", Timeout: 2 * time.Second})
	require.NoError(t, err)

	err = p.Publish(context.Background(), &Report{Value: json.RawMessage(`1`)})
	assert.Error(t, err)
}

// startServer runs a socket.io server that passes every "evaluation" event to
// onEvent and returns its URL.
func startServer(t *testing.T, onEvent func(args ...any)) string {
	t.Helper()
	return serve(t, httptest.NewServer, onEvent)
}

func serve(t *testing.T, newServer func(http.Handler) *httptest.Server, onEvent func(args ...any)) string {
	t.Helper()

	io := server.NewServer(nil, nil)
	io.On("connection", func(clients ...any) {
		client := clients[0].(*server.Socket)
		client.On("evaluation", onEvent)
	})
	srv := newServer(io.ServeHandler(nil))
	t.Cleanup(func() {
		io.Close(nil)
		srv.Close()
	})
	return srv.URL
}

func TestPublish_DeliversReport(t *testing.T) {
	received := make(chan map[string]any, 1)
	url := startServer(t, func(args ...any) {
		payload, _ := args[0].(map[string]any)
		received <- payload
		if ack, ok := args[len(args)-1].(server.Ack); ok {
			ack([]any{"ok"}, nil)
		}
	})

	p, err := New(Options{URL: url, Event: "evaluation", Timeout: 5 * time.Second})
	require.NoError(t, err)

	ctx, logs := testutil.LoggerContext(t)
	err = p.Publish(ctx, &Report{
		Target:   "line.reliability",
		Type:     "number",
		Value:    json.RawMessage(`0.9`),
		Computed: []string{"pump", "line"},
	})
	require.NoError(t, err)

	select {
	case payload := <-received:
		assert.Equal(t, "line.reliability", payload["target"])
		assert.Equal(t, 0.9, payload["value"])
	default:
		t.Fatal("Publish returned before the server received the report")
	}
	assert.Contains(t, logs.String(), "Report published.")
}

func TestPublish_FailsWithoutAck(t *testing.T) {
	received := make(chan struct{}, 1)
	url := startServer(t, func(...any) {
		received <- struct{}{}
	})

	p, err := New(Options{URL: url, Event: "evaluation", Timeout: time.Second})
	require.NoError(t, err)

	ctx, logs := testutil.LoggerContext(t)
	err = p.Publish(ctx, &Report{Value: json.RawMessage(`1`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acknowledge 'evaluation'")
	assert.NotContains(t, logs.String(), "Report published.")

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw the event")
	}
}

func ackAll(args ...any) {
	if ack, ok := args[len(args)-1].(server.Ack); ok {
		ack(nil, nil)
	}
}

func TestPublish_TLS(t *testing.T) {
	url := serve(t, httptest.NewTLSServer, ackAll)

	testCases := []struct {
		name     string
		insecure bool
		wantErr  bool
	}{
		{name: "self-signed certificate rejected", insecure: false, wantErr: true},
		{name: "verification skipped", insecure: true, wantErr: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := New(Options{URL: url, Event: "evaluation", Timeout: 2 * time.Second, InsecureSkipVerify: tc.insecure})
			require.NoError(t, err)

			ctx, logs := testutil.LoggerContext(t)
			err = p.Publish(ctx, &Report{Value: json.RawMessage(`1`)})
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, logs.String(), "Skipping TLS certificate verification")
		})
	}
}
