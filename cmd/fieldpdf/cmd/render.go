package cmd

import (
	"fmt"
	"os"

	"github.com/lvillar/fieldpdf/pdfsurface"
	"github.com/lvillar/fieldpdf/render"
	"github.com/lvillar/fieldpdf/tmpl"
	"github.com/spf13/cobra"
)

var (
	renderFields   string
	renderValues   string
	renderTemplate string
	renderOutput   string
	renderPageW    float64
	renderPageH    float64
	renderSmart    bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a field set onto a PDF",
	Long: `Render evaluates every field of the field set against the value map
and writes the filled PDF. With --template, each page of the output is
painted with the corresponding page of the source PDF first.

Examples:
  fieldpdf render --fields invoice.json --values data.json -o out.pdf
  fieldpdf render --fields form.yaml --values data.json --template base.pdf -o out.pdf`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderFields, "fields", "", "field set document (JSON or YAML)")
	renderCmd.Flags().StringVar(&renderValues, "values", "", "runtime value map (JSON)")
	renderCmd.Flags().StringVar(&renderTemplate, "template", "", "source PDF to draw fields over")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "out.pdf", "output PDF path")
	renderCmd.Flags().Float64Var(&renderPageW, "page-width", pdfsurface.A4Width, "page width in points (without --template)")
	renderCmd.Flags().Float64Var(&renderPageH, "page-height", pdfsurface.A4Height, "page height in points (without --template)")
	renderCmd.Flags().BoolVar(&renderSmart, "smart-separators", false, "collapse repeated separators in substituted text")
	renderCmd.MarkFlagRequired("fields")
}

func runRender(cmd *cobra.Command, args []string) error {
	fs, err := loadFieldSet(renderFields)
	if err != nil {
		return err
	}
	if err := fs.Validate(); err != nil {
		return err
	}
	values, err := loadValues(renderValues)
	if err != nil {
		return err
	}

	formatting := tmpl.Formatting{}
	if renderSmart {
		formatting.SeparatorHandling = tmpl.SeparatorsSmart
	}
	pipeline := render.New(render.WithFormatting(formatting))

	surface := pdfsurface.New(renderPageW, renderPageH)
	pages := fs.PageCount()
	if pages < 1 {
		pages = 1
	}
	for page := 1; page <= pages; page++ {
		if renderTemplate != "" {
			if err := surface.ImportTemplatePage(renderTemplate, page); err != nil {
				return err
			}
		} else {
			surface.AddPage()
		}
		warnings, err := pipeline.RenderPage(surface, page, fs, values)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}

	if err := surface.WriteFile(renderOutput); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d page(s))\n", renderOutput, pages)
	return nil
}
