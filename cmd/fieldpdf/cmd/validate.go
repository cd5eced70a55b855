package cmd

import (
	"fmt"

	"github.com/lvillar/fieldpdf"
	"github.com/lvillar/fieldpdf/tmpl"
	"github.com/spf13/cobra"
)

var validateFields string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a field set for descriptor and template problems",
	Long: `Validate checks the field descriptors themselves (missing keys,
unknown types, options fields without mappings) and every template and
branch value for unbalanced braces and references to undeclared fields.

Template problems are diagnostics, not failures at render time: an invalid
template still renders with missing references degraded. The command exits
non-zero so pipelines can gate on a clean field set.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFields, "fields", "", "field set document (JSON or YAML)")
	validateCmd.MarkFlagRequired("fields")
}

func runValidate(cmd *cobra.Command, args []string) error {
	fs, err := loadFieldSet(validateFields)
	if err != nil {
		return err
	}

	problems := 0
	if err := fs.Validate(); err != nil {
		fmt.Println(err)
		problems++
	}

	keys := make([]string, 0, len(fs.Fields))
	for i := range fs.Fields {
		keys = append(keys, fs.Fields[i].Key)
	}

	for i := range fs.Fields {
		f := &fs.Fields[i]
		for _, template := range fieldTemplates(f) {
			res := tmpl.Validate(template, keys)
			if res.IsValid {
				continue
			}
			problems++
			for _, e := range res.Errors {
				fmt.Printf("field %q: %s\n", f.Key, e)
			}
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	fmt.Printf("%s: %d field(s), no problems\n", validateFields, len(fs.Fields))
	return nil
}

// fieldTemplates collects the template-bearing strings of a field: the
// composite template, branch render values, and the conditional default.
func fieldTemplates(f *fieldpdf.Field) []string {
	var out []string
	if f.Template != "" {
		out = append(out, f.Template)
	}
	for i := range f.Branches {
		if v := f.Branches[i].RenderValue; v != "" {
			out = append(out, v)
		}
	}
	if f.DefaultValue != "" {
		out = append(out, f.DefaultValue)
	}
	return out
}
