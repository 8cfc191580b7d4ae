package command

import (
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/ende/internal/app"
	"github.com/stolasapp/ende/internal/server"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, logger, store, err := loadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(store, &runErr)

			addr := cfg.WebAddress
			if addr == "" {
				logger.WarnContext(cmd.Context(), "web_address is empty; nothing to serve")
				return nil
			}

			grp, ctx := errgroup.WithContext(cmd.Context())
			listener, err := server.Listen(ctx, addr)
			if err != nil {
				return err
			}

			srv := app.New(cfg, logger, store)
			logger.InfoContext(ctx,
				"starting API server...",
				slog.String("address", listener.Addr().String()),
			)
			server.Serve(ctx, grp, logger, srv.Server, listener, server.ShutdownTimeout)
			return grp.Wait()
		},
	}
}
