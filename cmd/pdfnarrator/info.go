package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/porticus-lab/go-pdf-narrator/pdf"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.pdf>",
	Short: "Display document version and page dimensions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		data, err := readPDF(args[0])
		if err != nil {
			return err
		}
		info, err := pdf.Inspect(data)
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", args[0], err)
		}
		return writeInfo(cmd.OutOrStdout(), format, args[0], info)
	},
}

func writeInfo(w io.Writer, format, file string, info *pdf.Info) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	case "", "text":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	fmt.Fprintf(w, "File:    %s\n", file)
	fmt.Fprintf(w, "Version: PDF-%s\n", info.Version)
	fmt.Fprintf(w, "Pages:   %d\n", info.Pages)
	if len(info.Sizes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Page dimensions:")
		for i, s := range info.Sizes {
			fmt.Fprintf(w, "  Page %d: %.0f x %.0f pt\n", i+1, s.Width, s.Height)
		}
	}
	return nil
}

func init() {
	infoCmd.Flags().StringP("format", "f", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(infoCmd)
}
