package wcdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"

	"github.com/Tencent/wcdb-sub001/domain/model"
	"github.com/Tencent/wcdb-sub001/winq"
)

// ImportTable loads the file at path into table and returns the number of
// imported rows. An empty table name is derived from the file name. A
// missing table is created with the column types inferred from the file;
// an existing table receives the rows into the columns the header names.
func (db *Database) ImportTable(ctx context.Context, path, table string) (int, error) {
	file, err := os.Open(path) //nolint:gosec // caller-provided path
	if err != nil {
		return 0, NewErrorContext("import", path).Error(err)
	}
	defer file.Close()
	return db.ImportReader(ctx, file, path, table)
}

// ImportReader loads a file read from r into table. name is the file name
// and selects the format and the compression.
func (db *Database) ImportReader(ctx context.Context, r io.Reader, name, table string) (int, error) {
	if table == "" {
		table = model.TableFromFilePath(name)
	}
	errorContext := NewErrorContext("import", name).WithTable(table)
	parsed, err := parseTableFile(r, name, table)
	if err != nil {
		return 0, errorContext.Error(err)
	}
	if err := db.loadTable(ctx, parsed); err != nil {
		if _, ok := AsError(err); ok {
			return 0, err
		}
		return 0, errorContext.Error(err)
	}
	return len(parsed.Records()), nil
}

func parseTableFile(r io.Reader, name, table string) (*model.Table, error) {
	format, compression := model.DetectFormat(name)
	if format == model.OutputFormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	reader, cleanup, err := newCompressionHandler(compression).reader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cleanup() }()

	var header model.Header
	var records []model.Record
	switch format {
	case model.OutputFormatParquet:
		header, records, err = readParquet(reader)
	case model.OutputFormatXLSX:
		header, records, err = readXLSX(reader, table)
	default:
		header, records, err = model.ReadDelimited(reader, format)
	}
	if errors.Is(err, model.ErrEmptyInput) {
		return nil, fmt.Errorf("%w: %w", ErrEmptyData, err)
	}
	if err != nil {
		return nil, err
	}
	return model.NewTable(table, header, records), nil
}

func readParquet(r io.Reader) (model.Header, []model.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	if len(data) == 0 {
		return nil, nil, model.ErrEmptyInput
	}
	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}
	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	header := make(model.Header, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}
	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	var records []model.Record
	for tableReader.Next() {
		batch := tableReader.Record()
		for row := range int(batch.NumRows()) {
			record := make(model.Record, batch.NumCols())
			for col, column := range batch.Columns() {
				record[col] = arrowCellText(column, row)
			}
			records = append(records, record)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, nil, err
	}
	return header, records, nil
}

// arrowCellText formats one cell of a column; NULL is the empty string.
func arrowCellText(column arrow.Array, row int) string {
	if column.IsNull(row) {
		return ""
	}
	switch c := column.(type) {
	case *array.String:
		return c.Value(row)
	case *array.LargeString:
		return c.Value(row)
	case *array.Int64:
		return strconv.FormatInt(c.Value(row), 10)
	case *array.Int32:
		return strconv.FormatInt(int64(c.Value(row)), 10)
	case *array.Float64:
		return strconv.FormatFloat(c.Value(row), 'g', -1, 64)
	case *array.Float32:
		return strconv.FormatFloat(float64(c.Value(row)), 'g', -1, 32)
	case *array.Boolean:
		return strconv.FormatBool(c.Value(row))
	case *array.Binary:
		return string(c.Value(row))
	default:
		return column.ValueStr(row)
	}
}

// readXLSX reads the sheet named table, or the first sheet.
func readXLSX(r io.Reader, table string) (model.Header, []model.Record, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() { _ = workbook.Close() }()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, model.ErrEmptyInput
	}
	sheet := sheets[0]
	for _, name := range sheets {
		if name == table {
			sheet = name
			break
		}
	}
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, nil, err
	}
	for len(rows) > 0 && len(rows[0]) == 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, nil, model.ErrEmptyInput
	}
	header := model.NewHeader(rows[0])
	if name := header.Duplicate(); name != "" {
		return nil, nil, fmt.Errorf("%w: %s", model.ErrDuplicateColumnName, name)
	}
	records := make([]model.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(model.Record, len(header))
		copy(record, row)
		records = append(records, record)
	}
	return header, records, nil
}

// loadTable inserts the records of t, creating the table first when it
// does not exist.
func (db *Database) loadTable(ctx context.Context, t *model.Table) error {
	exists, err := db.TableExists(ctx, t.Name())
	if err != nil {
		return err
	}
	columns := t.ColumnInfo()
	if !exists {
		defs := make([]*winq.ColumnDef, len(columns))
		for i, column := range columns {
			defs[i] = winq.NewColumnDef(column.Name, storageType(column.Type))
		}
		if err := db.Execute(ctx, winq.NewStatementCreateTable().CreateTable(t.Name()).Define(defs...)); err != nil {
			return err
		}
	}
	if len(t.Records()) == 0 {
		return nil
	}
	rows := make(MultiRows, 0, len(t.Records()))
	for _, record := range t.Records() {
		row := make(OneRow, len(columns))
		for i, column := range columns {
			var cell string
			if i < len(record) {
				cell = record[i]
			}
			row[i] = cellValue(cell, column.Type)
		}
		rows = append(rows, row)
	}
	names := make([]string, len(columns))
	for i, column := range columns {
		names[i] = column.Name
	}
	return db.InsertRows(ctx, rows, names, t.Name())
}

func storageType(t model.ColumnType) winq.ColumnType {
	switch t {
	case model.ColumnTypeInteger:
		return winq.ColumnTypeInteger
	case model.ColumnTypeReal:
		return winq.ColumnTypeFloat
	default:
		return winq.ColumnTypeText
	}
}

// cellValue converts a cell to the value stored in a column of type t.
// Empty cells of numeric columns are NULL.
func cellValue(cell string, t model.ColumnType) Value {
	trimmed := strings.TrimSpace(cell)
	switch t {
	case model.ColumnTypeInteger:
		if v, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return IntValue(v)
		}
	case model.ColumnTypeReal:
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return FloatValue(v)
		}
	default:
		return TextValue(cell)
	}
	if trimmed == "" {
		return NullValue()
	}
	return TextValue(cell)
}
