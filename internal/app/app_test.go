package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/block/internal/graph"
	"github.com/vk/block/internal/hcl"
	"github.com/vk/block/internal/testutil"
)

const lineDiagram = `
block "constant" "pump" {
  params { value = 0.9 }
}

block "series" "line" {
  params { n = 2 }
  inputs {
    in1 = pump.out
    in2 = 0.5
  }
}

block "identity" "result" {
  inputs { in = line.reliability }
}
`

// setupApp writes files into a temp dir, points a fresh App at it and returns
// the App with its captured output and logs.
func setupApp(t *testing.T, files map[string]string, mutate ...func(*Config)) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	cfg := Config{LogLevel: "debug", LogFormat: "text"}
	if files != nil {
		cfg.DiagramPath = testutil.WriteFiles(t, files)
	}
	for _, m := range mutate {
		m(&cfg)
	}
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	a, err := NewApp(out, logs, validated, hcl.NewLoader())
	require.NoError(t, err)
	return a, out, logs
}

func TestNewConfig_RejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "log level", cfg: Config{LogLevel: "verbose"}, want: "LogLevel"},
		{name: "log format", cfg: Config{LogFormat: "xml"}, want: "LogFormat"},
		{name: "missing diagram", cfg: Config{DiagramPath: filepath.Join(t.TempDir(), "nope.hcl")}, want: "DiagramPath"},
		{name: "publish url", cfg: Config{PublishURL: "not a url", PublishEvent: "x"}, want: "PublishURL"},
		{name: "publish event", cfg: Config{PublishURL: "http://localhost:3000"}, want: "PublishEvent"},
		{name: "namespace", cfg: Config{PublishNamespace: "reports"}, want: "PublishNamespace"},
		{name: "negative timeout", cfg: Config{PublishTimeout: -time.Second}, want: "PublishTimeout"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNewConfig_AcceptsDefaults(t *testing.T) {
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)
	assert.Empty(t, cfg.DiagramPath)
}

func TestNewApp_ValidatesRegistry(t *testing.T) {
	a, _, logs := setupApp(t, nil)
	assert.NotEmpty(t, a.Registry().Names())
	assert.Contains(t, logs.String(), "Registry validation passed.")
}

func TestNewApp_RejectsReservedPublishEvent(t *testing.T) {
	cfg, err := NewConfig(Config{PublishURL: "http://localhost:3000", PublishEvent: "connect"})
	require.NoError(t, err)

	_, err = NewApp(&bytes.Buffer{}, &bytes.Buffer{}, cfg, hcl.NewLoader())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid publish settings")
}

func TestNewApp_PassesInsecurePublishSetting(t *testing.T) {
	_, _, logs := setupApp(t, nil, func(c *Config) {
		c.PublishURL = "https://localhost:3000"
		c.PublishEvent = "evaluation"
		c.PublishInsecure = true
	})
	assert.Contains(t, logs.String(), "insecure=true")
}

func TestEvaluate_Output(t *testing.T) {
	a, out, _ := setupApp(t, map[string]string{"main.hcl": lineDiagram})

	require.NoError(t, a.Evaluate(context.Background(), "result.result"))
	assert.Equal(t, "result.result = 0.45\n", out.String())
}

func TestEvaluate_Node(t *testing.T) {
	a, out, _ := setupApp(t, map[string]string{"main.hcl": lineDiagram})

	require.NoError(t, a.Evaluate(context.Background(), "line"))
	assert.Equal(t, "line.reliability = 0.45\n", out.String())
}

func TestEvaluate_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		target string
		want   error
	}{
		{name: "unknown node", target: "ghost.out", want: graph.ErrNotFound},
		{name: "unknown port", target: "line.nope", want: graph.ErrUnknownPort},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, out, _ := setupApp(t, map[string]string{"main.hcl": lineDiagram})
			err := a.Evaluate(context.Background(), tc.target)
			require.ErrorIs(t, err, tc.want)
			assert.Empty(t, out.String())
		})
	}
}

func TestEvaluate_InvalidTarget(t *testing.T) {
	a, _, _ := setupApp(t, map[string]string{"main.hcl": lineDiagram})

	err := a.Evaluate(context.Background(), "a.b.c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid target 'a.b.c'")
}

func TestEvaluate_RequiresDiagram(t *testing.T) {
	a, _, _ := setupApp(t, nil)
	require.ErrorIs(t, a.Evaluate(context.Background(), "line.reliability"), ErrNoDiagram)
}

func TestEvaluate_ReportsBuildErrors(t *testing.T) {
	a, _, _ := setupApp(t, map[string]string{"main.hcl": `
block "identity" "a" {
  inputs { in = b.result }
}

block "identity" "b" {
  inputs { in = a.result }
}
`})

	err := a.Evaluate(context.Background(), "a.result")
	require.ErrorIs(t, err, graph.ErrCycle)
	assert.Contains(t, err.Error(), "failed to build diagram")
}

func TestInspect_PrintsPorts(t *testing.T) {
	a, out, _ := setupApp(t, map[string]string{"main.hcl": lineDiagram})

	require.NoError(t, a.Inspect(context.Background(), "line"))

	text := out.String()
	assert.Contains(t, text, "line (series), 2 node(s) computed")
	assert.Contains(t, text, "pump.out")
	assert.Regexp(t, `in\s+in2\s+number\s+0\.5\s+-`, text)
	assert.Regexp(t, `out\s+reliability\s+number\s+0\.45\s+result\.in`, text)
}

func TestLint_CountsBlocksAndConnections(t *testing.T) {
	a, out, _ := setupApp(t, map[string]string{"main.hcl": lineDiagram})

	require.NoError(t, a.Lint(context.Background()))
	assert.Equal(t, "OK: 3 block(s), 2 connection(s)\n", out.String())
}

func TestKinds_ListsEveryKind(t *testing.T) {
	a, out, _ := setupApp(t, nil)

	require.NoError(t, a.Kinds())

	text := out.String()
	for _, name := range a.Registry().Names() {
		assert.Contains(t, text, name)
	}
	assert.Regexp(t, `k_out_of_n\s+k\*,n\*\s+in1,in2,in3\s+reliability`, text)
	assert.Regexp(t, `weibull\s+-\s+shape,scale,time\s+reliability,unreliability,mttf`, text)
}
