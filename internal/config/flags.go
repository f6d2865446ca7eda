package config

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// Flags holds the command line overrides
type Flags struct {
	Sequence    string
	DryRun      bool
	NoExtend    bool
	PreviewPath string
	Help        bool
}

// ParseFlags parses args (without the program name). Usage is written to out
// when parsing fails or --help is given.
func ParseFlags(args []string, out io.Writer) (Flags, error) {
	var f Flags

	fs := pflag.NewFlagSet("lineup", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVarP(&f.Sequence, "sequence", "s", "", `left-to-right monitor order, e.g. "2 1 3" or "213"`)
	fs.BoolVar(&f.DryRun, "dry-run", false, "plan and log the layout without staging it")
	fs.BoolVar(&f.NoExtend, "no-extend", false, "do not force extended display mode first")
	fs.StringVar(&f.PreviewPath, "preview", "", "write a PNG preview of each planned layout to this path")
	fs.BoolVarP(&f.Help, "help", "h", false, "show this help")
	fs.Usage = func() {
		fmt.Fprintln(out, "Usage: lineup [flags]")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Arrange attached monitors left to right in the given order.")
		fmt.Fprintln(out)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	if fs.NArg() > 0 {
		return Flags{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if f.Help {
		fs.Usage()
	}
	return f, nil
}
