package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	pdfnarrator "github.com/porticus-lab/go-pdf-narrator"
	"github.com/porticus-lab/go-pdf-narrator/internal/config"
	"github.com/porticus-lab/go-pdf-narrator/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes upload, export, voice selection and narration over HTTP.
One session is shared by all clients. SIGINT or SIGTERM shuts the server
down and cancels any narration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ext, err := newExtractor()
		if err != nil {
			return err
		}
		speech, err := newSpeech()
		if err != nil {
			return err
		}
		defer speech.Close()

		n := pdfnarrator.NewNarrator(ctx, speech, pdfnarrator.WithNarratorLogger(logger))
		session := pdfnarrator.NewSession(ext, n, pdfnarrator.WithSessionLogger(logger))
		srv := server.New(session, cfg.Server, logger)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(srv.ListenAndServe)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag(config.KeyServerAddr, serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
