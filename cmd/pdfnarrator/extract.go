package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Extract plain text from a PDF file",
	Long: `Extract reads every page of a PDF in order and prints the text. Each
page is followed by a blank line, including pages without text.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")

		data, err := readPDF(args[0])
		if err != nil {
			return err
		}
		ext, err := newExtractor()
		if err != nil {
			return err
		}
		text, err := ext.Extract(data)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}
		return writeExtract(out, format, args[0], text)
	},
}

type extractResult struct {
	File string `json:"file"`
	Text string `json:"text"`
}

func writeExtract(w io.Writer, format, file, text string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(extractResult{File: file, Text: text}); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case "", "text":
		_, err := io.WriteString(w, text)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

func init() {
	extractCmd.Flags().StringP("output", "o", "", "write output to file (default: stdout)")
	extractCmd.Flags().StringP("format", "f", "text", "output format: text or json")

	rootCmd.AddCommand(extractCmd)
}
