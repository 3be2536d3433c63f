package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxFiles bounds the number of files a single glob may expand to.
const maxFiles = 1000

// ErrTooManyFiles is returned when a glob expands past maxFiles.
var ErrTooManyFiles = errors.New("too many files")

// IsParquet reports whether path names a Parquet file.
func IsParquet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".parquet")
}

// Open loads the table stored at path. Parquet files are recognised by
// their extension; everything else is read as text, decompressed first when
// the extension names a supported compression.
func Open(path string, opts Options) (*Table, error) {
	if IsParquet(path) {
		return ReadParquet(path, opts)
	}

	rc, err := openText(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return ReadText(rc, path, opts)
}

// ReadHeader returns the labels of the file at path in a table without
// records. Text files are read only up to their header line and Parquet
// files only to their metadata.
func ReadHeader(path string) (*Table, error) {
	if IsParquet(path) {
		r, err := NewParquetReader(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()

		labels := r.Columns()
		if len(labels) == 0 {
			return nil, fmt.Errorf("%s: %w", path, ErrNoData)
		}
		return &Table{Source: path, Labels: labels}, nil
	}

	rc, err := openText(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return ReadTextHeader(rc, path)
}

// textFile closes the decompressor and then the file beneath it.
type textFile struct {
	io.ReadCloser
	file *os.File
}

func (t *textFile) Close() error {
	err := t.ReadCloser.Close()
	if cerr := t.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func openText(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	c, _ := DetectCompression(path)
	rc, err := NewDecompressor(file, c)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &textFile{ReadCloser: rc, file: file}, nil
}

// ExpandPattern returns the files named by pattern. A pattern without glob
// metacharacters is returned as is, even if the file does not exist, so the
// open error can report it.
func ExpandPattern(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[") {
		return []string{pattern}, nil
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched %d files, maximum is %d: %w", len(matches), maxFiles, ErrTooManyFiles)
	}
	return matches, nil
}

// ReadMultipleFiles loads every file matching pattern, one table per file,
// in lexical order.
func ReadMultipleFiles(pattern string, opts Options) ([]*Table, error) {
	paths, err := ExpandPattern(pattern)
	if err != nil {
		return nil, err
	}

	tables := make([]*Table, 0, len(paths))
	for _, path := range paths {
		t, err := Open(path, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}
