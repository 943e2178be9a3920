package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"keybus/internal/config"
)

// buildRootCmdWith constructs the keybusd command tree around opts.
func buildRootCmdWith(opts *Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "keybusd",
		Short:         "Cache invalidation signal bus",
		Long:          "keybusd fans out cache invalidations to subscribers whose key path is a prefix of the invalidated one.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level: debug|info|warn|error (defaults KEYBUSD_LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&opts.LogFormat, "log-format", opts.LogFormat, "Log format: json|console (default console on a terminal)")

	var rootsCSV, corsCSV string
	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP server",
		Example: "  keybusd serve --addr :8080 --roots workspace,datasets\n  keybusd serve --config ~/.config/keybusd.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Roots = splitCSV(rootsCSV)
			opts.CORSOrigins = splitCSV(corsCSV)
			opts.rootsPinned = cmd.Flags().Changed("roots") || cmd.Flags().Changed("roots-file")
			if opts.ConfigPath != "" {
				fc, err := config.Load(opts.ConfigPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				opts.applyFile(fc, cmd.Flags().Changed)
			}
			return runServe(cmd.Context(), opts, cmd.ErrOrStderr(), nil)
		},
	}
	sf := serveCmd.Flags()
	sf.StringVar(&opts.Addr, "addr", opts.Addr, "HTTP listen address (defaults KEYBUSD_ADDR or :8080)")
	sf.StringVar(&opts.ConfigPath, "config", "", "Config file (.yaml, .yml, .json, .toml); reloaded on change")
	sf.IntVar(&opts.MaxSubscribers, "max-subscribers", opts.MaxSubscribers, "Maximum concurrent subscribers")
	sf.IntVar(&opts.ClientBuffer, "client-buffer", opts.ClientBuffer, "Per-subscriber buffered invalidations before dropping")
	sf.IntVar(&opts.MaxDepth, "max-depth", opts.MaxDepth, "Maximum key path segments")
	sf.DurationVar(&opts.KeepAlive, "keepalive", opts.KeepAlive, "Interval between SSE keepalive comments")
	sf.StringVar(&rootsCSV, "roots", "", "Comma separated allowed key path roots (empty allows any)")
	sf.StringVar(&opts.RootsFile, "roots-file", "", "File with one allowed root per line")
	sf.StringVar(&corsCSV, "cors-origins", "", "Comma separated CORS origins (empty disables CORS)")
	sf.Int64Var(&opts.MaxBodyBytes, "max-body-bytes", opts.MaxBodyBytes, "Maximum request body size in bytes")
	sf.StringVar(&opts.LogRequests, "log-requests", opts.LogRequests, "Per-request log level: off, error, info, debug (defaults KEYBUSD_LOG_REQUESTS)")
	root.AddCommand(serveCmd)

	publishCmd := &cobra.Command{
		Use:     "publish <key>...",
		Short:   "Invalidate a key path on a running server",
		Example: "  keybusd publish datasets 42\n  KEYBUSD_SERVER=http://cache-bus:8080 keybusd publish workspace",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd.Context(), opts.Server, args, cmd.OutOrStdout())
		},
	}
	publishCmd.Flags().StringVar(&opts.Server, "server", opts.Server, "Server base URL (defaults KEYBUSD_SERVER)")
	root.AddCommand(publishCmd)

	var maxEvents int
	subscribeCmd := &cobra.Command{
		Use:     "subscribe [key]...",
		Short:   "Print invalidations under a key path as JSON lines",
		Example: "  keybusd subscribe datasets\n  keybusd subscribe --max 1 workspace abc",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscribe(cmd.Context(), opts.Server, args, maxEvents, cmd.OutOrStdout())
		},
	}
	subscribeCmd.Flags().StringVar(&opts.Server, "server", opts.Server, "Server base URL (defaults KEYBUSD_SERVER)")
	subscribeCmd.Flags().IntVar(&maxEvents, "max", 0, "Exit after this many invalidations (0 runs until interrupted)")
	root.AddCommand(subscribeCmd)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "keybusd", version)
		},
	})

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(completionCmd)

	return root
}
