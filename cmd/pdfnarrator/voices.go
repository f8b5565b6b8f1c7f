package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	pdfnarrator "github.com/porticus-lab/go-pdf-narrator"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the speech voices available to the browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		wait, _ := cmd.Flags().GetDuration("wait")

		speech, err := newSpeech()
		if err != nil {
			return err
		}
		defer speech.Close()

		n := pdfnarrator.NewNarrator(cmd.Context(), speech, pdfnarrator.WithNarratorLogger(logger))
		defer n.Close(context.Background())

		voices := awaitCatalog(cmd.Context(), n, wait)
		if len(voices) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no voices available; the platform default will be used")
			return nil
		}
		selected, _ := n.SelectedVoice()
		for _, v := range voices {
			mark := " "
			if v.Name == selected.Name {
				mark = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, v)
		}
		return nil
	},
}

// awaitCatalog returns the narrator's catalog, giving the engine up to wait
// to deliver it when it starts out empty.
func awaitCatalog(ctx context.Context, n *pdfnarrator.Narrator, wait time.Duration) []pdfnarrator.Voice {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		if voices := n.Voices(); len(voices) > 0 {
			return voices
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}

func init() {
	voicesCmd.Flags().Duration("wait", 2*time.Second, "how long to wait for the browser to load its voices")

	rootCmd.AddCommand(voicesCmd)
}
