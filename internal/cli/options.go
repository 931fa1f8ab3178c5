package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// ErrUsage marks command-line mistakes.
var ErrUsage = errors.New("usage error")

// Options are the global flags that precede the command name.
type Options struct {
	ConfigPath string
	Driver     string
	DSN        string
}

const usage = `usage: linkvote [-config file] [-driver sqlite|postgres|gorm] [-dsn dsn] <command> [flags]

commands:
  migrate                                   apply the schema and exit
  user create -username u -password p [-email e]
  user get -id n
  user delete -id n                         also removes the user's content and votes
  content create -user n -url u -title t
  content get -id n
  content list -user n
  content delete -id n
  vote -content n -user n [-down]
  tally -content n
`

// ParseOptions parses the global flags and returns the remaining arguments,
// which start with the command name.
func ParseOptions(args []string, stderr io.Writer) (Options, []string, error) {
	var opts Options

	fs := flag.NewFlagSet("linkvote", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	fs.StringVar(&opts.ConfigPath, "config", "", "YAML config file")
	fs.StringVar(&opts.Driver, "driver", "", "persistence provider: sqlite, postgres or gorm")
	fs.StringVar(&opts.DSN, "dsn", "", "database path or connection URL")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, nil, err
		}
		return opts, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return opts, nil, fmt.Errorf("%w: missing command", ErrUsage)
	}
	return opts, fs.Args(), nil
}
