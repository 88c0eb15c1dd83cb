package model

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadDelimited parses a CSV, TSV or LTSV stream. The first CSV or TSV
// line is the header; LTSV labels become the header in order of first
// appearance.
func ReadDelimited(r io.Reader, format OutputFormat) (Header, []Record, error) {
	switch format {
	case OutputFormatCSV, OutputFormatTSV:
		reader := csv.NewReader(r)
		if format == OutputFormatTSV {
			reader.Comma = '\t'
		}
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, nil, err
		}
		if len(rows) == 0 {
			return nil, nil, ErrEmptyInput
		}
		header := NewHeader(rows[0])
		if name := header.Duplicate(); name != "" {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateColumnName, name)
		}
		records := make([]Record, 0, len(rows)-1)
		for _, row := range rows[1:] {
			records = append(records, NewRecord(row))
		}
		return header, records, nil
	case OutputFormatLTSV:
		return readLTSV(r)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func readLTSV(r io.Reader) (Header, []Record, error) {
	var header Header
	index := make(map[string]int)
	var rows []map[string]string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		row := make(map[string]string)
		for _, pair := range strings.Split(line, "\t") {
			label, value, ok := strings.Cut(pair, ":")
			if !ok {
				continue
			}
			label = strings.TrimSpace(label)
			if _, seen := index[label]; !seen {
				index[label] = len(header)
				header = append(header, label)
			}
			row[label] = value
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyInput
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record := make(Record, len(header))
		for label, value := range row {
			record[index[label]] = value
		}
		records = append(records, record)
	}
	return header, records, nil
}

// WriteDelimited writes a header and records as CSV, TSV or LTSV.
func WriteDelimited(w io.Writer, format OutputFormat, header Header, records []Record) error {
	switch format {
	case OutputFormatCSV, OutputFormatTSV:
		writer := csv.NewWriter(w)
		if format == OutputFormatTSV {
			writer.Comma = '\t'
		}
		if err := writer.Write(header); err != nil {
			return err
		}
		for _, record := range records {
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	case OutputFormatLTSV:
		buffered := bufio.NewWriter(w)
		for _, record := range records {
			for i, label := range header {
				if i > 0 {
					if err := buffered.WriteByte('\t'); err != nil {
						return err
					}
				}
				var value string
				if i < len(record) {
					value = strings.NewReplacer("\t", " ", "\n", " ").Replace(record[i])
				}
				if _, err := buffered.WriteString(label + ":" + value); err != nil {
					return err
				}
			}
			if err := buffered.WriteByte('\n'); err != nil {
				return err
			}
		}
		return buffered.Flush()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
