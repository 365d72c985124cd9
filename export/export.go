/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

/*
Package export serializes query results to CSV (RFC 4180) and JSON.

Pure string builders, no filesystem I/O; the caller decides where the bytes
go. JSON preserves cell types (integers stay numbers, parsed JSON cells are
embedded as-is) and keeps object keys in column order.
*/
package export

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"vizgres/db"
)

// Format selects an export serializer.
type Format uint8

const (
	Csv Format = iota
	Json
)

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	if f == Json {
		return "json"
	}
	return "csv"
}

func (f Format) String() string {
	if f == Json {
		return "JSON"
	}
	return "CSV"
}

// ToCsv serializes results as RFC 4180 CSV: one header line of column
// names, one line per row, \n terminated including the last row.
func ToCsv(results db.QueryResults) string {
	var out strings.Builder

	for i, col := range results.Columns {
		if i > 0 {
			out.WriteByte(',')
		}
		csvEscapeInto(&out, col.Name)
	}
	out.WriteByte('\n')

	for _, row := range results.Rows {
		for i, cell := range row.Values {
			if i > 0 {
				out.WriteByte(',')
			}
			csvEscapeInto(&out, CellExportString(cell))
		}
		out.WriteByte('\n')
	}

	return out.String()
}

// ToJson serializes results as a pretty-printed array of objects, keys in
// column order. Returns "[]" if marshaling fails, which it should not.
func ToJson(results db.QueryResults) string {
	rows := make([]orderedRow, len(results.Rows))
	for i, row := range results.Rows {
		rows[i] = orderedRow{columns: results.Columns, values: row.Values}
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}

// CellExportString is the full untruncated cell text used by the CSV
// serializer and the clipboard actions. NULL becomes the empty string.
func CellExportString(cell db.CellValue) string {
	switch cell.Kind {
	case db.KindNull:
		return ""
	case db.KindInteger:
		return strconv.FormatInt(cell.Int, 10)
	case db.KindFloat:
		return db.FormatFloat(cell.Float)
	case db.KindText, db.KindDateTime, db.KindUuid:
		return cell.Str
	case db.KindBoolean:
		return strconv.FormatBool(cell.Bool)
	case db.KindJson:
		return db.CompactJson(cell.Json)
	case db.KindBinary:
		return hexEncode(cell.Bytes)
	case db.KindArray:
		items := make([]string, len(cell.Array))
		for i, v := range cell.Array {
			items[i] = CellExportString(v)
		}
		return "{" + strings.Join(items, ",") + "}"
	}
	return ""
}

// orderedRow marshals one row as an object whose keys appear in column
// order; map-based marshaling would sort them.
type orderedRow struct {
	columns []db.ColumnDef
	values  []db.CellValue
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, cell := range r.values {
		if i > 0 {
			buf.WriteByte(',')
		}
		name := "?"
		if i < len(r.columns) {
			name = r.columns[i].Name
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(cellToJsonValue(cell))
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return []byte(buf.String()), nil
}

// cellToJsonValue converts a cell into a value encoding/json can emit with
// its type preserved. Non-finite floats are not valid JSON numbers and
// become their string spellings.
func cellToJsonValue(cell db.CellValue) any {
	switch cell.Kind {
	case db.KindNull:
		return nil
	case db.KindInteger:
		return cell.Int
	case db.KindFloat:
		if math.IsNaN(cell.Float) || math.IsInf(cell.Float, 0) {
			return db.FormatFloat(cell.Float)
		}
		return cell.Float
	case db.KindText, db.KindDateTime, db.KindUuid:
		return cell.Str
	case db.KindBoolean:
		return cell.Bool
	case db.KindJson:
		return cell.Json
	case db.KindBinary:
		return hexEncode(cell.Bytes)
	case db.KindArray:
		items := make([]any, len(cell.Array))
		for i, v := range cell.Array {
			items[i] = cellToJsonValue(v)
		}
		return items
	}
	return nil
}

// quote a field when it contains a comma, quote or line break; double
// embedded quotes
func csvEscapeInto(out *strings.Builder, field string) {
	if !strings.ContainsAny(field, ",\"\n\r") {
		out.WriteString(field)
		return
	}
	out.WriteByte('"')
	for i := 0; i < len(field); i++ {
		if field[i] == '"' {
			out.WriteString(`""`)
		} else {
			out.WriteByte(field[i])
		}
	}
	out.WriteByte('"')
}

func hexEncode(b []byte) string {
	return `\x` + hex.EncodeToString(b)
}
