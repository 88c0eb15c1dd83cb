// Command wcdb operates on wcdb database files.
//
// Usage:
//
//	wcdb [global options] <command> [options] [arguments]
//
// Commands:
//
//	exec      Run SQL statements and print their rows
//	tables    List the tables with their row counts
//	backup    Save the backup material of the database
//	retrieve  Rebuild the database from its backup material
//	dump      Export tables to CSV, TSV, LTSV, Parquet or XLSX files
//	import    Load files into tables
//	check     Run a quick integrity check
//	vacuum    Rebuild the database file
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	flag "github.com/spf13/pflag"

	wcdb "github.com/Tencent/wcdb-sub001"
	"github.com/Tencent/wcdb-sub001/internal/ui"
)

// version is set with -ldflags at build time.
var version = "dev"

// errUsage reports bad arguments; the usage was already printed.
var errUsage = errors.New("usage")

// globals are the options shared by every command.
type globals struct {
	dbPath     string
	configPath string
	keyEnv     string
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) error
}

var commands = []command{
	{name: "exec", summary: "Run SQL statements and print their rows", run: runExec},
	{name: "tables", summary: "List the tables with their row counts", run: runTables},
	{name: "backup", summary: "Save the backup material of the database", run: runBackup},
	{name: "retrieve", summary: "Rebuild the database from its backup material", run: runRetrieve},
	{name: "dump", summary: "Export tables to CSV, TSV, LTSV, Parquet or XLSX files", run: runDump},
	{name: "import", summary: "Load files into tables", run: runImport},
	{name: "check", summary: "Run a quick integrity check", run: runCheck},
	{name: "vacuum", summary: "Rebuild the database file", run: runVacuum},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wcdb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	var (
		g           globals
		noColor     bool
		showVersion bool
	)
	fs.StringVarP(&g.dbPath, "db", "d", "", "Database file")
	fs.StringVarP(&g.configPath, "config", "c", "", "YAML configuration of the database (replaces --db)")
	fs.StringVar(&g.keyEnv, "key-env", "", "Environment variable holding the cipher key")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&showVersion, "version", false, "Show version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: wcdb [global options] <command> [options] [arguments]\n\nCommands:\n")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-9s %s\n", c.name, c.summary)
		}
		fmt.Fprintf(stderr, "\nGlobal Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nFor command help: wcdb <command> --help\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	ui.InitColors(noColor)

	if showVersion {
		fmt.Fprintf(stdout, "wcdb version %s\n", version)
		return 0
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	name := fs.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(ctx, g, fs.Args()[1:], stdout, stderr)
		switch {
		case err == nil, errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errUsage):
			return 2
		default:
			ui.Errorf(stderr, "%v", err)
			return 1
		}
	}
	ui.Errorf(stderr, "unknown command %q", name)
	fs.Usage()
	return 2
}

// openDatabase opens the database the global options name.
func openDatabase(ctx context.Context, g globals) (*wcdb.Database, error) {
	if g.configPath != "" {
		cfg, err := wcdb.LoadConfig(g.configPath)
		if err != nil {
			return nil, err
		}
		return wcdb.OpenConfig(ctx, cfg)
	}
	if g.dbPath == "" {
		return nil, errors.New("no database: pass --db or --config")
	}
	builder := wcdb.NewBuilder(g.dbPath)
	if g.keyEnv != "" {
		key := os.Getenv(g.keyEnv)
		if key == "" {
			return nil, fmt.Errorf("cipher key variable %s is not set", g.keyEnv)
		}
		builder.WithCipherKey([]byte(key), 0, wcdb.CipherVersionDefault)
	}
	return builder.Open(ctx)
}

// withDatabase opens the database, runs fn and closes the database.
func withDatabase(ctx context.Context, g globals, fn func(db *wcdb.Database) error) (err error) {
	db, err := openDatabase(ctx, g)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close(nil))
	}()
	return fn(db)
}

// newFlagSet returns the flag set of a command printing usage to stderr.
func newFlagSet(name, usage string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: wcdb %s\n\nOptions:\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

// parse parses args, mapping parse failures to errUsage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}
