package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seed/internal/rpc"
	"github.com/matzehuels/seed/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout API",
		Long: `Run the HTTP layout API.

Routes:
  POST /v1/layout   document in, layout tree out
  POST /v1/solve    document in, solution out
  POST /v1/graph    document in, constraint graph out
  GET  /healthz     liveness and build information

The listen address defaults to the [server] addr of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger)
			srv.Defaults = cfg.Options()
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// rpcCommand creates the rpc command, which serves JSON-RPC 2.0 over
// stdin and stdout.
func (c *CLI) rpcCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "rpc",
		Short: "Serve the layout API as JSON-RPC 2.0 over stdio",
		Long: `Serve the layout API as JSON-RPC 2.0 over stdin and stdout.

Messages use Content-Length framing. Methods:
  layout/compute    {"document": {...}, "options": {...}}
  constraint/solve  {"document": {...}, "options": {...}}
  server/version

Logs go to stderr so that stdout carries protocol traffic only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			h := rpc.NewHandler(runner, c.Logger)
			h.Defaults = cfg.Options()
			return rpc.Serve(cmd.Context(), rpc.Stdio(os.Stdin, os.Stdout), h)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
