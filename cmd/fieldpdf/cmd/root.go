package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lvillar/fieldpdf"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fieldpdf",
	Short: "Fill PDF templates from declarative field sets",
	Long: `fieldpdf evaluates a declarative field set (conditional branches,
string templates, option mappings) against a runtime value map and renders
the result onto a PDF template.

Examples:
  fieldpdf render --fields invoice.json --values data.json -o out.pdf
  fieldpdf render --fields form.yaml --values data.json --template base.pdf -o out.pdf
  fieldpdf validate --fields invoice.json`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadFieldSet reads a field-set document, picking the decoder by file
// extension: .yaml/.yml are YAML, everything else is JSON.
func loadFieldSet(path string) (*fieldpdf.FieldSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return fieldpdf.ParseFieldSetYAML(data)
	default:
		return fieldpdf.ParseFieldSet(data)
	}
}

func loadValues(path string) (fieldpdf.ValueMap, error) {
	if path == "" {
		return fieldpdf.ValueMap{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return fieldpdf.ParseValueMap(data)
}
