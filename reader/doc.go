// Package reader loads numeric tables for filtering.
//
// A table is a header of column labels followed by records of numbers.
// Whitespace-separated text files are the native format; they may be
// compressed with gzip, zstd, lz4 or brotli, which is recognised by the file
// extension. Parquet files are read through github.com/parquet-go/parquet-go
// and their top-level scalar columns become the labels.
//
// # Basic Usage
//
//	table, err := reader.Open("cpool.out.gz", reader.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	prog, err := query.Compile("Total>3", table.Environment())
//	if err != nil {
//	    return err
//	}
//	kept, err := query.ApplyFilter(ctx, prog, table.Rows(), query.FilterOptions{})
//	if err != nil {
//	    return err
//	}
//	matching := table.Select(kept)
//
// # Text Tables
//
// The first non-blank line is the header. A header made only of numerals
// means the file has none: the labels become Column1, Column2 and so on,
// and the line is read as the first record. Lines that are blank, shorter
// than the header or hold a non-numeric item are skipped and reported
// through the logger in Options.
//
// # Multi-file Operations
//
//	tables, err := reader.ReadMultipleFiles("runs/*/cpool.out", opts)
//
// Each matching file becomes its own table, since files may carry
// different headers.
package reader
