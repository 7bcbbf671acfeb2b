package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vk/block/internal/app"
	"github.com/vk/block/internal/hcl"
	"github.com/vk/block/internal/publish"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// options holds the flag values shared by every command.
type options struct {
	logLevel  string
	logFormat string

	publishURL       string
	publishNamespace string
	publishEvent     string
	publishTimeout   time.Duration
	publishInsecure  bool
}

// NewRootCommand builds the command tree. Command results are written to outW
// and logs to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "block",
		Short: "Evaluate reliability block diagrams",
		Long: `block loads reliability block diagrams written in HCL, checks them and
evaluates any output on demand, computing only the blocks it depends on.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "json", "Log output format. Options: 'text' or 'json'.")

	root.AddCommand(
		newEvalCommand(opts, outW, errW),
		newInspectCommand(opts, outW, errW),
		newLintCommand(opts, outW, errW),
		newKindsCommand(opts, outW, errW),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(fmt.Errorf("%s: %w", cmd.CommandPath(), err))
		}
		return nil
	}
}

// newApp validates the collected flags and builds an App around them.
func newApp(opts *options, diagram string, outW, errW io.Writer) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		DiagramPath:      diagram,
		LogLevel:         strings.ToLower(opts.logLevel),
		LogFormat:        strings.ToLower(opts.logFormat),
		PublishURL:       opts.publishURL,
		PublishNamespace: opts.publishNamespace,
		PublishEvent:     opts.publishEvent,
		PublishTimeout:   opts.publishTimeout,
		PublishInsecure:  opts.publishInsecure,
	})
	if err != nil {
		return nil, usageError(err)
	}
	slog.Debug("CLI parameter validation complete.", "diagram", diagram)

	a, err := app.NewApp(outW, errW, cfg, hcl.NewLoader())
	if err != nil {
		return nil, usageError(err)
	}
	return a, nil
}

func newEvalCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval DIAGRAM_PATH TARGET",
		Short: "Evaluate a node.port output, or every output of a node",
		Long: `Evaluate loads the diagram at DIAGRAM_PATH, a single .hcl file or a
directory of them, and evaluates TARGET. TARGET is either node.port or a bare
node name. With --publish the result is also sent to a socket.io server.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, args[0], outW, errW)
			if err != nil {
				return err
			}
			return a.Evaluate(cmd.Context(), args[1])
		},
	}
	cmd.Flags().StringVar(&opts.publishURL, "publish", "", "socket.io server URL to publish the evaluation report to.")
	cmd.Flags().StringVar(&opts.publishNamespace, "publish-namespace", "/", "socket.io namespace to publish on.")
	cmd.Flags().StringVar(&opts.publishEvent, "publish-event", "evaluation", "Event name the report is emitted under.")
	cmd.Flags().DurationVar(&opts.publishTimeout, "publish-timeout", publish.DefaultTimeout, "Time allowed for connecting and for the server to acknowledge the report.")
	cmd.Flags().BoolVar(&opts.publishInsecure, "publish-insecure", false, "Skip TLS certificate verification when publishing.")
	return cmd
}

func newInspectCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect DIAGRAM_PATH NODE",
		Short: "Evaluate a node and show its inputs and outputs",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, args[0], outW, errW)
			if err != nil {
				return err
			}
			return a.Inspect(cmd.Context(), args[1])
		},
	}
}

func newLintCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "lint DIAGRAM_PATH",
		Short: "Load and check a diagram without evaluating it",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, args[0], outW, errW)
			if err != nil {
				return err
			}
			return a.Lint(cmd.Context())
		},
	}
}

func newKindsCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the available block kinds",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, "", outW, errW)
			if err != nil {
				return err
			}
			return a.Kinds()
		},
	}
}
