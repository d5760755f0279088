package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hy4ri/todolist/internal/config"
	"github.com/hy4ri/todolist/internal/logging"
	"github.com/hy4ri/todolist/internal/server"
	"github.com/hy4ri/todolist/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		noMetrics  bool
		requestLog bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local document store to remote clients",
		Example: `
todolist serve
todolist serve --addr :7766 --log-requests
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logging.UseWriter(os.Stderr, cfg.Log.Level)

			if addr == "" {
				addr = cfg.Server.Addr
			}
			token, src, err := config.LookupToken()
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			if token == "" {
				logging.Log.Warn("no token configured, the server accepts any client")
			} else {
				logging.Log.Debug("server token loaded", "source", src)
			}

			dir, err := cfg.StoreDir()
			if err != nil {
				return err
			}
			st, err := store.Open(dir)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(st, server.Config{
				Addr:       addr,
				Token:      token,
				Metrics:    cfg.Server.Metrics && !noMetrics,
				RequestLog: requestLog,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, st, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")
	cmd.Flags().BoolVar(&requestLog, "log-requests", false, "log every request")
	return cmd
}

// serve runs the server until ctx is cancelled or either part fails.
func serve(ctx context.Context, st *store.Store, srv *server.Server) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return st.Watch(ctx, store.DefaultWatchDelay)
	})
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})

	logging.Log.Info("serving store", "dir", st.Dir())
	err := g.Wait()
	logging.Log.Info("server stopped")
	return err
}
