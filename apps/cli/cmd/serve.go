package cmd

import (
	"os/signal"
	"syscall"

	"github.com/abdul-hamid-achik/reqline/packages/core/executor"
	"github.com/abdul-hamid-achik/reqline/packages/server"
	"github.com/spf13/cobra"
)

var (
	serveAddrFlag    string
	serveHistoryFlag bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reqline endpoint over HTTP",
	Long: `Start an HTTP server that accepts {"reqline": "..."} on POST / and answers
with the result envelope.

Failure envelopes are returned with status 400, results with 200. GET /healthz
reports liveness.

Examples:
  reqline serve
  reqline serve --addr 127.0.0.1:9000 --log-format json
  curl -s localhost:8811 -d '{"reqline": "HTTP GET | URL https://example.com"}'`,
	Args: cobra.NoArgs,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddrFlag, "addr", "a", getEnvString("REQLINE_ADDR", ""), "Address to listen on (default from config, :8811) (env: REQLINE_ADDR)")
	serveCmd.Flags().BoolVar(&serveHistoryFlag, "history", getEnvBool("REQLINE_HISTORY", false), "Record every request in the history database (env: REQLINE_HISTORY)")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	addr := appConfig.Server.Addr
	if serveAddrFlag != "" {
		addr = serveAddrFlag
	}

	var opts []executor.ServiceOption
	if serveHistoryFlag || appConfig.GetHistoryEnabled() {
		store, err := openHistory(appConfig)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, executor.WithRecorder(store))
	}

	srv := server.NewServer(
		newService(appConfig, opts...),
		server.WithAddr(addr),
		server.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down reqline server")
	}()

	if err := srv.StartWithContext(ctx); err != nil {
		return exitWith(ExitNetworkError, err)
	}
	return nil
}
