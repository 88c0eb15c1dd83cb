package wcdb

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/Tencent/wcdb-sub001/domain/model"
)

// compressionHandler wraps readers and writers in the streams of one
// compression type.
type compressionHandler struct {
	compressionType model.CompressionType
}

func newCompressionHandler(compressionType model.CompressionType) compressionHandler {
	return compressionHandler{compressionType: compressionType}
}

// reader wraps r in a decompression stream.
func (h compressionHandler) reader(r io.Reader) (io.Reader, func() error, error) {
	switch h.compressionType {
	case model.CompressionNone:
		return r, func() error { return nil }, nil
	case model.CompressionGZ:
		gzReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, gzReader.Close, nil
	case model.CompressionBZ2:
		return bzip2.NewReader(r), func() error { return nil }, nil
	case model.CompressionXZ:
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, func() error { return nil }, nil
	case model.CompressionZSTD:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil
	default:
		return nil, nil, fmt.Errorf("%w: compression %v", ErrUnsupportedFormat, h.compressionType)
	}
}

// writer wraps w in a compression stream. The returned func flushes and
// closes the stream, not w.
func (h compressionHandler) writer(w io.Writer) (io.Writer, func() error, error) {
	switch h.compressionType {
	case model.CompressionNone:
		return w, func() error { return nil }, nil
	case model.CompressionGZ:
		gzWriter := gzip.NewWriter(w)
		return gzWriter, gzWriter.Close, nil
	case model.CompressionBZ2:
		return nil, nil, errors.New("wcdb: bzip2 compression is not supported for writing")
	case model.CompressionXZ:
		xzWriter, err := xz.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		return xzWriter, xzWriter.Close, nil
	case model.CompressionZSTD:
		zstdWriter, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zstdWriter, zstdWriter.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: compression %v", ErrUnsupportedFormat, h.compressionType)
	}
}

// openCompressedFile opens path for reading through the decompression
// stream its extension names.
func openCompressedFile(path string) (io.Reader, func() error, error) {
	file, err := os.Open(path) //nolint:gosec // caller-provided path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	_, compression := model.DetectFormat(path)
	reader, cleanup, err := newCompressionHandler(compression).reader(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return reader, func() error {
		return errors.Join(cleanup(), file.Close())
	}, nil
}

// createCompressedFile creates path and returns a writer compressing into
// it. The returned func closes the stream, syncs and closes the file.
func createCompressedFile(path string, compression model.CompressionType) (io.Writer, func() error, error) {
	file, err := os.Create(path) //nolint:gosec // caller-provided path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file: %w", err)
	}
	writer, cleanup, err := newCompressionHandler(compression).writer(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return writer, func() error {
		err := cleanup()
		if err == nil {
			err = file.Sync()
		}
		return errors.Join(err, file.Close())
	}, nil
}

// compressBytes compresses data in memory.
func compressBytes(data []byte, compression model.CompressionType) ([]byte, error) {
	var buf bytes.Buffer
	writer, cleanup, err := newCompressionHandler(compression).writer(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		return nil, errors.Join(err, cleanup())
	}
	if err := cleanup(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decompressBytes reverses compressBytes.
func decompressBytes(data []byte, compression model.CompressionType) ([]byte, error) {
	reader, cleanup, err := newCompressionHandler(compression).reader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(reader)
	return out, errors.Join(err, cleanup())
}
