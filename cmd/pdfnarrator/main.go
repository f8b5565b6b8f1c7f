// Package main is the entry point for the pdfnarrator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	pdfnarrator "github.com/porticus-lab/go-pdf-narrator"
	"github.com/porticus-lab/go-pdf-narrator/internal/config"
	"github.com/porticus-lab/go-pdf-narrator/internal/logging"
	"github.com/porticus-lab/go-pdf-narrator/pdf"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfg     *config.Config
	initErr error
)

var logger = zap.NewNop()

// rootCmd is the base command for the pdfnarrator CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfnarrator",
	Short: "Extract text from PDF files and read it aloud",
	Long: `pdfnarrator converts PDF documents to plain text, exports the text as
extracted_text.txt and narrates it with the speech voices of a Chrome or
Chromium browser.

Use serve to run the same workflow behind an HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if initErr != nil {
			return initErr
		}
		c, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		l, err := logging.New(c.Log.Level, c.Log.Format)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		logger.Debug("configuration loaded", zap.String("file", viper.ConfigFileUsed()), zap.String("backend", cfg.Backend))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./pdfnarrator.yaml or ~/.config/pdfnarrator/pdfnarrator.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("backend", pdf.BackendRows, fmt.Sprintf("PDF parsing backend: %v", pdf.Backends()))

	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyBackend, flags.Lookup("backend"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	initErr = config.Init(viper.GetViper(), cfgFile)
}

// newExtractor returns an Extractor over the configured backend.
func newExtractor() (*pdfnarrator.Extractor, error) {
	opener, err := pdf.NewOpener(cfg.Backend)
	if err != nil {
		return nil, err
	}
	return pdfnarrator.NewExtractor(opener, pdfnarrator.WithExtractorLogger(logger)), nil
}

// newSpeech starts the configured Chrome speech engine.
func newSpeech() (*pdfnarrator.ChromeSpeech, error) {
	return pdfnarrator.NewChromeSpeech(cfg.Chrome.Options(logger)...)
}

func readPDF(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
