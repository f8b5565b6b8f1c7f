package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pdfnarrator "github.com/porticus-lab/go-pdf-narrator"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.pdf>",
	Short: "Write the text of a PDF to extracted_text.txt",
	Long: `Export extracts a PDF and saves the text, byte for byte, as
extracted_text.txt in the target directory. Nothing is written when the
document yields no text.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")

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
		res, err := pdfnarrator.Export(text)
		if err != nil {
			return err
		}
		path, err := res.WriteToDir(dir)
		if err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("dir", ".", "directory to write extracted_text.txt into")

	rootCmd.AddCommand(exportCmd)
}
