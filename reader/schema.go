package reader

import (
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// ColumnInfo describes one column as it can be addressed in an expression.
type ColumnInfo struct {
	Ordinal  int    `json:"ordinal"` // position for #N references
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
}

// Ref returns the #N form of the column reference.
func (c ColumnInfo) Ref() string {
	return fmt.Sprintf("#%d", c.Ordinal)
}

// DescribeColumns lists the columns of a loaded table. Text tables carry no
// type information, so every column is reported as NUMBER.
func DescribeColumns(t *Table) []ColumnInfo {
	infos := make([]ColumnInfo, len(t.Labels))
	for i, label := range t.Labels {
		infos[i] = ColumnInfo{Ordinal: i + 1, Name: label, Type: "NUMBER"}
	}
	return infos
}

// ExtractSchemaInfo lists the columns of a Parquet file without reading its
// rows. Only the columns usable in expressions are returned.
func ExtractSchemaInfo(path string) ([]ColumnInfo, error) {
	r, err := NewParquetReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var infos []ColumnInfo
	for _, field := range r.Schema().Fields() {
		if !usableField(field) {
			continue
		}
		infos = append(infos, ColumnInfo{
			Ordinal:  len(infos) + 1,
			Name:     field.Name(),
			Type:     columnType(field),
			Optional: field.Optional(),
		})
	}
	return infos, nil
}

// Describe lists the columns of the file at path. Parquet files are
// described from their metadata; text files are loaded to find the header.
func Describe(path string, opts Options) ([]ColumnInfo, error) {
	if IsParquet(path) {
		return ExtractSchemaInfo(path)
	}
	t, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	return DescribeColumns(t), nil
}

// columnType returns a readable type name for a Parquet leaf column.
func columnType(field parquet.Field) string {
	typ := field.Type()
	if lt := typ.LogicalType(); lt != nil {
		switch s := lt.String(); s {
		case "STRING", "UTF8":
			return "STRING"
		case "DATE", "TIME", "TIMESTAMP", "DECIMAL":
			return s
		}
	}

	switch typ.Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT32"
	case parquet.Double:
		return "FLOAT64"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	}
	return "UNKNOWN"
}
