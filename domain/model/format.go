package model

import (
	"path/filepath"
	"strings"
)

// OutputFormat is the file format of an exported or imported table.
type OutputFormat int

const (
	// OutputFormatCSV is comma separated values.
	OutputFormatCSV OutputFormat = iota
	// OutputFormatTSV is tab separated values.
	OutputFormatTSV
	// OutputFormatLTSV is labeled tab separated values.
	OutputFormatLTSV
	// OutputFormatParquet is Apache Parquet.
	OutputFormatParquet
	// OutputFormatXLSX is an Excel workbook with one sheet per table.
	OutputFormatXLSX
	// OutputFormatUnknown is a path without a known extension.
	OutputFormatUnknown
)

// File extensions
const (
	ExtCSV     = ".csv"
	ExtTSV     = ".tsv"
	ExtLTSV    = ".ltsv"
	ExtParquet = ".parquet"
	ExtXLSX    = ".xlsx"
	ExtGZ      = ".gz"
	ExtBZ2     = ".bz2"
	ExtXZ      = ".xz"
	ExtZSTD    = ".zst"
)

// String returns the name of the format.
func (f OutputFormat) String() string {
	switch f {
	case OutputFormatCSV:
		return "csv"
	case OutputFormatTSV:
		return "tsv"
	case OutputFormatLTSV:
		return "ltsv"
	case OutputFormatParquet:
		return "parquet"
	case OutputFormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// Extension returns the file extension of the format.
func (f OutputFormat) Extension() string {
	switch f {
	case OutputFormatCSV:
		return ExtCSV
	case OutputFormatTSV:
		return ExtTSV
	case OutputFormatLTSV:
		return ExtLTSV
	case OutputFormatParquet:
		return ExtParquet
	case OutputFormatXLSX:
		return ExtXLSX
	default:
		return ""
	}
}

// IsText reports whether the format is a line oriented text format that
// can be wrapped in a compression stream.
func (f OutputFormat) IsText() bool {
	return f == OutputFormatCSV || f == OutputFormatTSV || f == OutputFormatLTSV
}

// ParseOutputFormat returns the format of a name such as "csv".
func ParseOutputFormat(name string) OutputFormat {
	for f := OutputFormatCSV; f < OutputFormatUnknown; f++ {
		if strings.EqualFold(f.String(), name) {
			return f
		}
	}
	return OutputFormatUnknown
}

// CompressionType is the compression of an exported or imported file.
type CompressionType int

const (
	// CompressionNone is no compression.
	CompressionNone CompressionType = iota
	// CompressionGZ is gzip.
	CompressionGZ
	// CompressionBZ2 is bzip2, readable only.
	CompressionBZ2
	// CompressionXZ is xz.
	CompressionXZ
	// CompressionZSTD is zstandard.
	CompressionZSTD
)

// String returns the name of the compression.
func (c CompressionType) String() string {
	switch c {
	case CompressionGZ:
		return "gz"
	case CompressionBZ2:
		return "bz2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// Extension returns the file extension of the compression.
func (c CompressionType) Extension() string {
	switch c {
	case CompressionGZ:
		return ExtGZ
	case CompressionBZ2:
		return ExtBZ2
	case CompressionXZ:
		return ExtXZ
	case CompressionZSTD:
		return ExtZSTD
	default:
		return ""
	}
}

// ParseCompressionType returns the compression of a name such as "zstd".
func ParseCompressionType(name string) CompressionType {
	for c := CompressionGZ; c <= CompressionZSTD; c++ {
		if strings.EqualFold(c.String(), name) {
			return c
		}
	}
	return CompressionNone
}

// DetectFormat returns the format and the compression of a file from its
// extensions, for example OutputFormatCSV and CompressionGZ for
// "users.csv.gz".
func DetectFormat(path string) (OutputFormat, CompressionType) {
	lower := strings.ToLower(path)
	compression := CompressionNone
	for c := CompressionGZ; c <= CompressionZSTD; c++ {
		if strings.HasSuffix(lower, c.Extension()) {
			compression = c
			lower = strings.TrimSuffix(lower, c.Extension())
			break
		}
	}
	ext := filepath.Ext(lower)
	for f := OutputFormatCSV; f < OutputFormatUnknown; f++ {
		if ext == f.Extension() {
			return f, compression
		}
	}
	return OutputFormatUnknown, compression
}

// ExportOptions selects the format and the compression of an export.
type ExportOptions struct {
	Format      OutputFormat
	Compression CompressionType
}

// NewExportOptions returns options for uncompressed CSV.
func NewExportOptions() ExportOptions {
	return ExportOptions{Format: OutputFormatCSV, Compression: CompressionNone}
}

// WithFormat sets the format.
func (o ExportOptions) WithFormat(format OutputFormat) ExportOptions {
	o.Format = format
	return o
}

// WithCompression sets the compression. Binary formats ignore it.
func (o ExportOptions) WithCompression(compression CompressionType) ExportOptions {
	o.Compression = compression
	return o
}

// FileExtension returns the extension of an exported file, compression
// included.
func (o ExportOptions) FileExtension() string {
	if !o.Format.IsText() {
		return o.Format.Extension()
	}
	return o.Format.Extension() + o.Compression.Extension()
}
