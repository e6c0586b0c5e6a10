package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-intel/internal/catalog"
	"github.com/jonathan/skill-intel/internal/extract"
	"github.com/jonathan/skill-intel/internal/schemas"
)

var extractText string

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract skills from a text file or --text",
	Long:  `Extract skills from the given text file (or --text, or stdin when neither is provided) and print them as JSON.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractText, "text", "", "Text to extract skills from")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, args []string) error {
	text := extractText
	switch {
	case text != "":
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		text = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	extractor, err := buildExtractor()
	if err != nil {
		return err
	}

	matches := extractor.Extract(text)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(matches)
}

// buildExtractor loads the configured catalog and compiles the matcher.
func buildExtractor() (*extract.Extractor, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.Catalog, schemas.ResolveSchemaPath(cfg.Schema))
	if err != nil {
		return nil, err
	}
	return extract.New(cat), nil
}
