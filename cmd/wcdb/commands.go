package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	wcdb "github.com/Tencent/wcdb-sub001"
	"github.com/Tencent/wcdb-sub001/domain/model"
	"github.com/Tencent/wcdb-sub001/internal/ui"
)

func runExec(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("exec", "exec [options] <sql>...", stderr)
	header := fs.Bool("header", true, "Print the column names of each result")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}
	return withDatabase(ctx, g, func(db *wcdb.Database) error {
		h := db.GetHandle(true)
		defer h.Invalidate()
		for _, query := range fs.Args() {
			if err := execOne(ctx, h, query, *header, stdout); err != nil {
				return err
			}
		}
		return nil
	})
}

func execOne(ctx context.Context, h *wcdb.Handle, query string, header bool, stdout io.Writer) error {
	s, err := h.PrepareSQL(ctx, query)
	if err != nil {
		return err
	}
	defer s.Finalize()
	if !s.IsReadOnly() {
		if err := s.Step(ctx); err != nil {
			return err
		}
		ui.Successf(stdout, "%s row(s) changed", ui.CountText(int(s.Changes())))
		return nil
	}
	rows := 0
	for {
		if err := s.Step(ctx); err != nil {
			return err
		}
		if s.IsDone() {
			break
		}
		if rows == 0 && header {
			names := make([]string, s.ColumnCount())
			for i := range names {
				names[i] = s.ColumnName(i)
			}
			fmt.Fprintln(stdout, ui.Label(strings.Join(names, "\t")))
		}
		cells := make([]string, 0, s.ColumnCount())
		for _, value := range s.GetOneRow() {
			if value.IsNull() {
				cells = append(cells, "NULL")
				continue
			}
			cells = append(cells, value.Text())
		}
		fmt.Fprintln(stdout, strings.Join(cells, "\t"))
		rows++
	}
	fmt.Fprintln(stdout, ui.DimText(fmt.Sprintf("(%d rows)", rows)))
	return nil
}

func runTables(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("tables", "tables", stderr)
	if err := parse(fs, args); err != nil {
		return err
	}
	return withDatabase(ctx, g, func(db *wcdb.Database) error {
		tables, err := db.TableNames(ctx)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			ui.Warningf(stdout, "no tables in %s", db.Path())
			return nil
		}
		ui.Header(stdout, "Tables")
		for _, table := range tables {
			count, err := db.GetValueFromSQL(ctx, "SELECT count(*) FROM "+quoteIdentifier(table))
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "  %s %s\n", ui.Label(table), ui.CountText(int(count.Int())))
		}
		return nil
	})
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func runBackup(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("backup", "backup [options]", stderr)
	tables := fs.StringSlice("table", nil, "Tables to back up (default: every table)")
	compression := fs.String("compress", "", "Compression of the material: none, gz, xz or zstd")
	if err := parse(fs, args); err != nil {
		return err
	}
	return withDatabase(ctx, g, func(db *wcdb.Database) error {
		if len(*tables) > 0 {
			selected := make(map[string]bool, len(*tables))
			for _, table := range *tables {
				selected[table] = true
			}
			db.FilterBackup(func(table string) bool { return selected[table] })
		}
		if *compression != "" {
			db.SetBackupCompression(model.ParseCompressionType(*compression))
		}
		if err := db.Backup(ctx); err != nil {
			return err
		}
		ui.Successf(stdout, "backup material of %s saved", ui.DimText(db.Path()))
		return nil
	})
}

func runRetrieve(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("retrieve", "retrieve [options]", stderr)
	progress := fs.Bool("progress", false, "Print the progress of each table")
	if err := parse(fs, args); err != nil {
		return err
	}
	return withDatabase(ctx, g, func(db *wcdb.Database) error {
		var report func(percentage, increment float64) bool
		if *progress {
			report = func(percentage, _ float64) bool {
				ui.Infof(stdout, "%3.0f%%", percentage*100)
				return true
			}
		}
		score, err := db.Retrieve(ctx, report)
		if err != nil {
			return err
		}
		if score < 1 {
			ui.Warningf(stdout, "retrieved %.0f%% of the tables", score*100)
			return nil
		}
		ui.Successf(stdout, "retrieved every table")
		return nil
	})
}

func runDump(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("dump", "dump [options]", stderr)
	var (
		format      = fs.StringP("format", "f", "csv", "Output format: csv, tsv, ltsv, parquet or xlsx")
		compression = fs.String("compress", "", "Compression of text formats: gz, xz or zstd")
		tables      = fs.StringSlice("table", nil, "Tables to export (default: every table)")
		dir         = fs.StringP("out", "o", ".", "Output directory")
	)
	if err := parse(fs, args); err != nil {
		return err
	}
	opts := model.NewExportOptions().WithFormat(model.ParseOutputFormat(*format))
	if opts.Format == model.OutputFormatUnknown {
		return fmt.Errorf("unknown format %q", *format)
	}
	if *compression != "" {
		c := model.ParseCompressionType(*compression)
		if c == model.CompressionNone || c == model.CompressionBZ2 {
			return fmt.Errorf("unsupported compression %q", *compression)
		}
		opts = opts.WithCompression(c)
	}
	return withDatabase(ctx, g, func(db *wcdb.Database) error {
		var paths []string
		if len(*tables) == 0 {
			written, err := db.ExportDatabase(ctx, *dir, opts)
			if err != nil {
				return err
			}
			paths = written
		}
		for _, table := range *tables {
			path := filepath.Join(*dir, table+opts.FileExtension())
			if err := db.ExportTable(ctx, table, path, opts); err != nil {
				return err
			}
			paths = append(paths, path)
		}
		for _, path := range paths {
			ui.Successf(stdout, "wrote %s", ui.DimText(path))
		}
		return nil
	})
}

func runImport(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("import", "import [options] <file>...", stderr)
	table := fs.StringP("table", "t", "", "Target table (default: named after the file, single file only)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 || (*table != "" && fs.NArg() > 1) {
		fs.Usage()
		return errUsage
	}
	return withDatabase(ctx, g, func(db *wcdb.Database) error {
		for _, path := range fs.Args() {
			rows, err := db.ImportTable(ctx, path, *table)
			if err != nil {
				return err
			}
			ui.Successf(stdout, "imported %s rows from %s", ui.CountText(rows), ui.DimText(path))
		}
		return nil
	})
}

// errCorrupted makes check exit with a failure.
var errCorrupted = errors.New("database is corrupted")

func runCheck(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("check", "check", stderr)
	if err := parse(fs, args); err != nil {
		return err
	}
	return withDatabase(ctx, g, func(db *wcdb.Database) error {
		corrupted, err := db.CheckIfCorrupted(ctx)
		if err != nil {
			return err
		}
		if corrupted {
			return fmt.Errorf("%w: %s", errCorrupted, db.Path())
		}
		ui.Successf(stdout, "%s is intact", ui.DimText(db.Path()))
		return nil
	})
}

func runVacuum(ctx context.Context, g globals, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("vacuum", "vacuum [options]", stderr)
	checkpoint := fs.Bool("checkpoint", true, "Write the WAL back and truncate it first")
	if err := parse(fs, args); err != nil {
		return err
	}
	return withDatabase(ctx, g, func(db *wcdb.Database) error {
		if *checkpoint {
			if err := db.TruncateCheckpoint(ctx); err != nil {
				return err
			}
		}
		before, err := db.FileSize(ctx)
		if err != nil {
			return err
		}
		if err := db.Vacuum(ctx, nil); err != nil {
			return err
		}
		if *checkpoint {
			if err := db.TruncateCheckpoint(ctx); err != nil {
				return err
			}
		}
		after, err := db.FileSize(ctx)
		if err != nil {
			return err
		}
		ui.Successf(stdout, "vacuumed %s: %d -> %d bytes", ui.DimText(db.Path()), before, after)
		return nil
	})
}
