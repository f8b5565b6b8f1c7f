package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	pdfnarrator "github.com/porticus-lab/go-pdf-narrator"
)

var narrateCmd = &cobra.Command{
	Use:   "narrate <file.pdf>",
	Short: "Read the text of a PDF aloud",
	Long: `Narrate extracts a PDF and reads the text with the browser's speech
synthesis until it finishes. Interrupting the command (Ctrl-C) cancels the
narration.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		voice, _ := cmd.Flags().GetString("voice")
		wait, _ := cmd.Flags().GetDuration("wait")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		data, err := readPDF(args[0])
		if err != nil {
			return err
		}
		ext, err := newExtractor()
		if err != nil {
			return err
		}

		speech, err := newSpeech()
		if err != nil {
			return err
		}
		defer speech.Close()

		finished := make(chan struct{}, 1)
		n := pdfnarrator.NewNarrator(ctx, speech,
			pdfnarrator.WithNarratorLogger(logger),
			pdfnarrator.WithStateObserver(func(s pdfnarrator.State) {
				if s == pdfnarrator.Idle {
					select {
					case finished <- struct{}{}:
					default:
					}
				}
			}),
		)
		session := pdfnarrator.NewSession(ext, n, pdfnarrator.WithSessionLogger(logger))
		defer session.Close(context.Background())

		if voice != "" {
			awaitCatalog(ctx, n, wait)
			if err := session.SetVoice(voice); err != nil {
				return err
			}
		}

		if _, err := session.Upload(data); err != nil {
			return err
		}
		if _, err := session.ToggleNarration(ctx); err != nil {
			return err
		}

		select {
		case <-finished:
		case <-ctx.Done():
			logger.Info("narration interrupted", zap.String("file", args[0]))
		}
		return session.Close(context.Background())
	},
}

func init() {
	narrateCmd.Flags().String("voice", "", "voice name (see the voices command); default is the first voice")
	narrateCmd.Flags().Duration("wait", 2*time.Second, "how long to wait for the browser to load its voices")

	rootCmd.AddCommand(narrateCmd)
}
