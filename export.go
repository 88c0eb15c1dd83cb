package wcdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"

	"github.com/Tencent/wcdb-sub001/domain/model"
	"github.com/Tencent/wcdb-sub001/winq"
)

// xlsxSheetNameLimit is the longest sheet name a workbook accepts.
const xlsxSheetNameLimit = 31

// tableColumn is a column of a stored table with its declared type.
type tableColumn struct {
	name     string
	declared string
}

// columnType maps the declared type to a storage class with the affinity
// rules of the engine.
func (c tableColumn) columnType() winq.ColumnType {
	declared := strings.ToUpper(c.declared)
	switch {
	case strings.Contains(declared, "INT"):
		return winq.ColumnTypeInteger
	case strings.Contains(declared, "CHAR"), strings.Contains(declared, "CLOB"), strings.Contains(declared, "TEXT"):
		return winq.ColumnTypeText
	case strings.Contains(declared, "BLOB"):
		return winq.ColumnTypeBLOB
	case strings.Contains(declared, "REAL"), strings.Contains(declared, "FLOA"), strings.Contains(declared, "DOUB"):
		return winq.ColumnTypeFloat
	default:
		return winq.ColumnTypeText
	}
}

// readTable returns the columns and every row of table.
func (db *Database) readTable(ctx context.Context, table string) ([]tableColumn, MultiRows, error) {
	var columns []tableColumn
	var rows MultiRows
	err := db.withHandle(ctx, false, func(h *Handle) error {
		s, err := h.PrepareSQL(ctx, "SELECT name, type FROM pragma_table_info(?1) ORDER BY cid")
		if err != nil {
			return err
		}
		s.BindText(1, table)
		info, err := s.GetAllRows(ctx)
		s.Finalize()
		if err != nil {
			return err
		}
		if len(info) == 0 {
			return NewErrorContext("export", db.path).WithTable(table).Error(ErrNoTables)
		}
		columns = make([]tableColumn, 0, len(info))
		for _, row := range info {
			columns = append(columns, tableColumn{name: row[0].Text(), declared: row[1].Text()})
		}
		rows, err = h.GetAllRowsFromStatement(ctx,
			winq.NewStatementSelect().Select(winq.ResultColumnAll()).From(table))
		return err
	})
	return columns, rows, err
}

// ExportTable writes every row of table into path in the format and the
// compression of opts. NULL cells of text formats are written empty.
func (db *Database) ExportTable(ctx context.Context, table, path string, opts model.ExportOptions) error {
	columns, rows, err := db.readTable(ctx, table)
	if err != nil {
		return err
	}
	errorContext := NewErrorContext("export", path).WithTable(table)
	switch {
	case opts.Format.IsText():
		err = exportDelimited(path, opts, columns, rows)
	case opts.Format == model.OutputFormatParquet:
		err = exportParquet(path, columns, rows)
	case opts.Format == model.OutputFormatXLSX:
		err = exportXLSX(path, table, columns, rows)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format)
	}
	if err != nil {
		return errorContext.Error(err)
	}
	return nil
}

// ExportDatabase writes every user table into dir, one file per table
// named after it, and returns the written paths.
func (db *Database) ExportDatabase(ctx context.Context, dir string, opts model.ExportOptions) ([]string, error) {
	tables, err := db.TableNames(ctx)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, NewErrorContext("export", db.path).Error(ErrNoTables)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, NewErrorContext("export", dir).Error(err)
	}
	paths := make([]string, 0, len(tables))
	for _, table := range tables {
		path := filepath.Join(dir, table+opts.FileExtension())
		if err := db.ExportTable(ctx, table, path, opts); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func exportDelimited(path string, opts model.ExportOptions, columns []tableColumn, rows MultiRows) (err error) {
	header := make(model.Header, len(columns))
	for i, column := range columns {
		header[i] = column.name
	}
	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		record := make(model.Record, len(row))
		for i, value := range row {
			record[i] = value.Text()
		}
		records = append(records, record)
	}

	writer, closeFile, err := createCompressedFile(path, opts.Compression)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeFile(); err == nil {
			err = closeErr
		}
	}()
	return model.WriteDelimited(writer, opts.Format, header, records)
}

func arrowType(t winq.ColumnType) arrow.DataType {
	switch t {
	case winq.ColumnTypeInteger:
		return arrow.PrimitiveTypes.Int64
	case winq.ColumnTypeFloat:
		return arrow.PrimitiveTypes.Float64
	case winq.ColumnTypeBLOB:
		return arrow.BinaryTypes.Binary
	default:
		return arrow.BinaryTypes.String
	}
}

func exportParquet(path string, columns []tableColumn, rows MultiRows) (err error) {
	fields := make([]arrow.Field, len(columns))
	for i, column := range columns {
		fields[i] = arrow.Field{Name: column.name, Type: arrowType(column.columnType()), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()
	for _, row := range rows {
		for i, value := range row {
			appendArrowValue(builder.Field(i), value)
		}
	}
	record := builder.NewRecord()
	defer record.Release()

	file, err := os.Create(path) //nolint:gosec // caller-provided path
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Zstd))
	writer, err := pqarrow.NewFileWriter(schema, file, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return err
	}
	if err := writer.Write(record); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

func appendArrowValue(builder array.Builder, value Value) {
	if value.IsNull() {
		builder.AppendNull()
		return
	}
	switch b := builder.(type) {
	case *array.Int64Builder:
		b.Append(value.Int())
	case *array.Float64Builder:
		b.Append(value.Float())
	case *array.BinaryBuilder:
		b.Append(value.BLOB())
	case *array.StringBuilder:
		b.Append(value.Text())
	default:
		builder.AppendNull()
	}
}

func exportXLSX(path, table string, columns []tableColumn, rows MultiRows) (err error) {
	workbook := excelize.NewFile()
	defer func() {
		if closeErr := workbook.Close(); err == nil {
			err = closeErr
		}
	}()
	sheet := table
	if len(sheet) > xlsxSheetNameLimit {
		sheet = sheet[:xlsxSheetNameLimit]
	}
	if err := workbook.SetSheetName(workbook.GetSheetName(0), sheet); err != nil {
		return err
	}

	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = column.name
	}
	if err := workbook.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for r, row := range rows {
		cells := make([]any, len(row))
		for i, value := range row {
			switch value.Type() {
			case winq.ColumnTypeInteger:
				cells[i] = value.Int()
			case winq.ColumnTypeFloat:
				cells[i] = value.Float()
			case winq.ColumnTypeNull:
				cells[i] = nil
			default:
				cells[i] = value.Text()
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := workbook.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return workbook.SaveAs(path)
}
