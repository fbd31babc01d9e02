// Command judo reads JSON from stdin, parses it into a tree, and writes it
// back to stdout.
//
// Errors are written to stderr as stdin:LINE:COL: error: MESSAGE, where the
// column counts code points. Exit status: 0 on success, 1 if the input is
// malformed, 2 if an error occurred while processing the input, 3 if an
// invalid command-line option is specified.
//
// The JSON standard and extensions are fixed at build time:
//
//	go build -ldflags "-X main.standard=json5" ./cmd/judo
//	go build -ldflags "-X main.standard=rfc8259 -X main.extensions=comments,trailing-commas" ./cmd/judo
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/railgunlabs/judo"
	"github.com/railgunlabs/judo/judoerr"
	"github.com/railgunlabs/judo/judoprint"
	"github.com/railgunlabs/judo/judoscan"
	"github.com/railgunlabs/judo/judotree"
)

const version = "1.0.0-rc4"

// Build-time configuration, overridable with -ldflags -X.
var (
	standard   = "rfc8259"
	extensions = ""
)

const (
	exitOK        = 0
	exitMalformed = 1
	exitProcess   = 2
	exitUsage     = 3
)

type options struct {
	quiet  bool
	pretty bool
	tabs   bool
	indent int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func buildConfig() (judoscan.Dialect, judoscan.Extensions, error) {
	var dialect judoscan.Dialect
	switch standard {
	case "rfc8259", "":
		dialect = judoscan.RFC8259
	case "rfc4627":
		dialect = judoscan.RFC4627
	case "json5":
		dialect = judoscan.JSON5
	default:
		return 0, 0, fmt.Errorf("unknown JSON standard %q", standard)
	}

	var ext judoscan.Extensions
	for _, name := range strings.Split(extensions, ",") {
		switch strings.TrimSpace(name) {
		case "":
		case "comments":
			ext |= judoscan.ExtComments
		case "trailing-commas":
			ext |= judoscan.ExtTrailingCommas
		default:
			return 0, 0, fmt.Errorf("unknown JSON extension %q", name)
		}
	}
	if dialect == judoscan.RFC4627 && ext != 0 {
		return 0, 0, fmt.Errorf("extensions cannot be combined with RFC 4627")
	}
	return dialect, ext, nil
}

func extensionNames(ext judoscan.Extensions) string {
	var names []string
	if ext&judoscan.ExtComments != 0 {
		names = append(names, "comments")
	}
	if ext&judoscan.ExtTrailingCommas != 0 {
		names = append(names, "trailing commas")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func longHelp(dialect judoscan.Dialect, ext judoscan.Extensions) string {
	return fmt.Sprintf(`Judo is a command-line interface to the Go library of the same name.
This program reads JSON from stdin and writes it back to stdout.
Errors are written to stderr. Column indices are reported relative
to the code point (not the code unit or grapheme cluster).

Judo is configured at build time. This version of judo was built
with the following options:

  JSON standard: %s
  JSON extension(s): %s
  Maximum structure depth: %d

Exit status:
  0  if OK,
  1  if the JSON input is malformed,
  2  if an error occurred while processing the JSON input,
  3  if an invalid command-line option is specified.`,
		dialect, extensionNames(ext), judoscan.MaxDepth)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	dialect, ext, err := buildConfig()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitProcess
	}

	opts := options{}
	exit := exitOK

	cmd := &cobra.Command{
		Use:           "judo [options...]",
		Short:         "Read JSON from stdin and write it back to stdout",
		Long:          longHelp(dialect, ext),
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			exit = judoMain(&opts, dialect, ext, stdin, stdout, stderr)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false,
		"validate the input, but do not print to stdout")
	cmd.Flags().BoolVarP(&opts.pretty, "pretty", "p", false,
		"print the JSON in a visually appealing way")
	cmd.Flags().IntVarP(&opts.indent, "indent", "i", 4,
		"indention width when pretty printing with spaces")
	cmd.Flags().BoolVarP(&opts.tabs, "tabs", "t", false,
		"indent with tabs instead of spaces when pretty printing")
	cmd.SetVersionTemplate("{{.Version}}\n")
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	return exit
}

func judoMain(opts *options, dialect judoscan.Dialect, ext judoscan.Extensions, stdin io.Reader, stdout, stderr io.Writer) int {
	if opts.indent <= 0 || opts.indent >= 65535 {
		fmt.Fprintln(stderr, "error: indention width is too large or small")
		return exitUsage
	}

	source, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintln(stderr, "error: failed to read stdin")
		return exitProcess
	}

	root, err := judotree.ParseWithOptions(source, int32(len(source)), &judotree.Options{
		Dialect:    dialect,
		Extensions: ext,
	})
	if err != nil {
		return reportParseError(source, err, stderr)
	}
	defer judotree.Free(root, nil)

	if !opts.quiet {
		var buf []byte
		if opts.pretty {
			buf = judoprint.Pretty(buf, root, source, judoprint.Options{
				Indent: opts.indent,
				Tabs:   opts.tabs,
			})
		} else {
			buf = judoprint.Compact(buf, root, source)
		}
		buf = append(buf, '\n')
		if _, err := stdout.Write(buf); err != nil {
			fmt.Fprintln(stderr, "error: failed to write stdout")
			return exitProcess
		}
	}
	return exitOK
}

func reportParseError(source []byte, err error, stderr io.Writer) int {
	e, ok := err.(*judoerr.Error)
	if !ok {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitProcess
	}
	if e.Code == judoerr.OutOfMemory {
		fmt.Fprintln(stderr, "error: memory allocation failed")
		return exitProcess
	}
	line, column := judo.Location(source, e.Where.Offset)
	fmt.Fprintf(stderr, "stdin:%d:%d: error: %s\n", line, column, e.Message)
	return exitMalformed
}
