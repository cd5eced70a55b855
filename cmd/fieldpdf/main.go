// Command fieldpdf renders field-set documents onto PDF templates and
// validates them.
//
//	fieldpdf render --fields fields.json --values values.json \
//	    --template base.pdf --output out.pdf
//	fieldpdf validate --fields fields.json
package main

import "github.com/lvillar/fieldpdf/cmd/fieldpdf/cmd"

func main() {
	cmd.Execute()
}
