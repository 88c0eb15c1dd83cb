// Command wcdbgen generates the table bindings of Go record types.
//
// Usage:
//
//	wcdbgen [options] <file.go>
//
// Every struct of the file with a `wcdb` tag gets a binding, unless --type
// names the records. The output defaults to <file>_wcdb.go. In a
// go:generate directive the file defaults to $GOFILE:
//
//	//go:generate wcdbgen --type Message
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/Tencent/wcdb-sub001/internal/codegen"
	"github.com/Tencent/wcdb-sub001/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wcdbgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		typeNames = fs.StringSlice("type", nil, "Record types to generate, comma separated (default: every tagged struct)")
		output    = fs.StringP("output", "o", "", "Output file (default: <file>_wcdb.go)")
		pkg       = fs.String("package", "", "Package of the output (default: package of the input)")
		noColor   = fs.Bool("no-color", false, "Disable colored output")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: wcdbgen [options] <file.go>

Generates the table bindings of the structs of a Go file tagged with wcdb.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	ui.InitColors(*noColor)

	input := fs.Arg(0)
	if input == "" {
		input = os.Getenv("GOFILE")
	}
	if input == "" || fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	file, err := codegen.ParseFile(input, nil)
	if err != nil {
		ui.Errorf(stderr, "%v", err)
		return 1
	}
	records, err := file.Select(*typeNames...)
	if err != nil {
		ui.Errorf(stderr, "%v", err)
		return 1
	}
	packageName := *pkg
	if packageName == "" {
		packageName = file.Package
	}
	src, err := codegen.Generate(packageName, records)
	if err != nil {
		ui.Errorf(stderr, "%v", err)
		return 1
	}

	path := *output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "_wcdb.go"
	}
	if err := os.WriteFile(path, src, 0o600); err != nil {
		ui.Errorf(stderr, "failed to write %s: %v", path, err)
		return 1
	}
	names := make([]string, len(records))
	for i, record := range records {
		names[i] = record.Name
	}
	ui.Successf(stdout, "generated %s for %s", ui.DimText(path), strings.Join(names, ", "))
	return 0
}
