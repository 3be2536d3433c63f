// Package output writes filtered tables in the supported output formats.
//
// # Supported Formats
//
//   - text: right-aligned columns separated by a space
//   - tab: the text layout separated by tabs
//   - raw: the header and matching lines echoed verbatim
//   - csv: comma-separated values with a header row
//   - jsonl: one JSON object per record, including "_record"
//   - table: a bordered table rendered with tablewriter
//
// # Basic Usage
//
//	formatter, err := output.New("text", os.Stdout)
//	if err != nil {
//	    return err
//	}
//	if err := formatter.Format(table, table.Select(kept)); err != nil {
//	    return err
//	}
//
// The text and tab layouts size every column from all records of the
// table: the widest integer part, the most decimal places and room for a
// sign. Items that are not plain decimals switch their column to the
// shortest %g form.
//
// # Writing to Different Destinations
//
//	formatter := output.NewCSVFormatter(os.Stdout)
//	formatter.SetOutput(file)
package output
