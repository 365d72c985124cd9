/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

/*
Package db defines the data model shared by every component that touches query
results (adapter, results viewer, exporters) and the Database capability the
application depends on.

The adapter owns all wire-format concerns; nothing outside this package ever
sees raw bytes from the server.
*/
package db

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// QueryResults is the output of one executed query.
// Owned by the active view; replaced wholesale on the next execution.
type QueryResults struct {
	Columns       []ColumnDef
	Rows          []Row
	ExecutionTime time.Duration
	// RowCount is the total number of rows the query produced, which may
	// exceed len(Rows) when the result was truncated.
	RowCount int
}

// NewQueryResults asserts the row/column shape invariant on construction.
// Every row must carry exactly one value per column.
func NewQueryResults(columns []ColumnDef, rows []Row, elapsed time.Duration, rowCount int) (QueryResults, error) {
	for i, r := range rows {
		if len(r.Values) != len(columns) {
			return QueryResults{}, fmt.Errorf("row %d has %d values, want %d", i, len(r.Values), len(columns))
		}
	}
	return QueryResults{Columns: columns, Rows: rows, ExecutionTime: elapsed, RowCount: rowCount}, nil
}

// ColumnDef describes one result column.
type ColumnDef struct {
	Name     string
	Type     DataType
	Nullable bool
}

// Row is a single result row, values in column order.
type Row struct {
	Values []CellValue
}

//#region cell values

// CellKind discriminates the CellValue variant.
type CellKind uint8

const (
	KindNull CellKind = iota
	KindInteger
	KindFloat
	KindText
	KindBoolean
	KindJson
	KindBinary
	KindDateTime
	KindUuid
	KindArray
)

// CellValue is a tagged variant over the cell types the adapter produces.
// Exactly the fields relevant to Kind are populated; the rest stay zero.
type CellValue struct {
	Kind  CellKind
	Int   int64
	Float float64
	Str   string // Text, DateTime and Uuid payloads
	Bool  bool
	Json  any // parsed JSON document
	Bytes []byte
	Array []CellValue
}

func Null() CellValue                  { return CellValue{Kind: KindNull} }
func Integer(i int64) CellValue        { return CellValue{Kind: KindInteger, Int: i} }
func Float(f float64) CellValue        { return CellValue{Kind: KindFloat, Float: f} }
func Text(s string) CellValue          { return CellValue{Kind: KindText, Str: s} }
func Boolean(b bool) CellValue         { return CellValue{Kind: KindBoolean, Bool: b} }
func Json(v any) CellValue             { return CellValue{Kind: KindJson, Json: v} }
func Binary(b []byte) CellValue        { return CellValue{Kind: KindBinary, Bytes: b} }
func DateTime(s string) CellValue      { return CellValue{Kind: KindDateTime, Str: s} }
func Uuid(s string) CellValue          { return CellValue{Kind: KindUuid, Str: s} }
func Array(vs []CellValue) CellValue   { return CellValue{Kind: KindArray, Array: vs} }

// IsNull reports whether the cell holds SQL NULL.
func (c CellValue) IsNull() bool { return c.Kind == KindNull }

// DisplayString renders the cell for the results grid, truncating with an
// ellipsis past maxLen bytes.
func (c CellValue) DisplayString(maxLen int) string {
	var full string
	switch c.Kind {
	case KindNull:
		full = "NULL"
	case KindInteger:
		full = strconv.FormatInt(c.Int, 10)
	case KindFloat:
		full = FormatFloat(c.Float)
	case KindText, KindDateTime, KindUuid:
		full = c.Str
	case KindBoolean:
		full = strconv.FormatBool(c.Bool)
	case KindJson:
		full = CompactJson(c.Json)
	case KindBinary:
		full = fmt.Sprintf("<binary %d bytes>", len(c.Bytes))
	case KindArray:
		items := make([]string, len(c.Array))
		for i, v := range c.Array {
			items[i] = v.DisplayString(maxLen)
		}
		full = "{" + strings.Join(items, ",") + "}"
	}

	if len(full) > maxLen {
		cut := maxLen - 3
		if cut < 0 {
			cut = 0
		}
		return full[:cut] + "..."
	}
	return full
}

// FormatFloat renders a float the way the exporters and the grid expect:
// shortest round-trip representation, with NaN/inf/-inf spellings for the
// non-finite values.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// CompactJson renders a parsed JSON document in its compact textual form.
func CompactJson(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

//#endregion cell values

//#region data types

// TypeKind discriminates the DataType variant.
type TypeKind uint8

const (
	TypeUnknown TypeKind = iota
	TypeSmallInt
	TypeInteger
	TypeBigInt
	TypeReal
	TypeDouble
	TypeNumeric
	TypeText
	TypeVarchar
	TypeChar
	TypeBoolean
	TypeDate
	TypeTime
	TypeTimestamp
	TypeTimestampTz
	TypeInterval
	TypeJson
	TypeJsonb
	TypeBytea
	TypeUuid
	TypeArray
)

// DataType classifies a column's type for display and export decisions.
// Length carries the varchar/char bound (0 = unbounded), Elem the array
// element type, Raw the server's type name when the kind is unknown.
type DataType struct {
	Kind   TypeKind
	Length int
	Elem   *DataType
	Raw    string
}

// ArrayOf wraps a DataType as its array type.
func ArrayOf(elem DataType) DataType {
	return DataType{Kind: TypeArray, Elem: &elem}
}

// DisplayName returns the postgres spelling of the type for the tree and
// column headers.
func (t DataType) DisplayName() string {
	switch t.Kind {
	case TypeSmallInt:
		return "smallint"
	case TypeInteger:
		return "integer"
	case TypeBigInt:
		return "bigint"
	case TypeReal:
		return "real"
	case TypeDouble:
		return "double precision"
	case TypeNumeric:
		return "numeric"
	case TypeText:
		return "text"
	case TypeVarchar:
		if t.Length > 0 {
			return fmt.Sprintf("varchar(%d)", t.Length)
		}
		return "varchar"
	case TypeChar:
		if t.Length > 0 {
			return fmt.Sprintf("char(%d)", t.Length)
		}
		return "char"
	case TypeBoolean:
		return "boolean"
	case TypeDate:
		return "date"
	case TypeTime:
		return "time"
	case TypeTimestamp:
		return "timestamp"
	case TypeTimestampTz:
		return "timestamptz"
	case TypeInterval:
		return "interval"
	case TypeJson:
		return "json"
	case TypeJsonb:
		return "jsonb"
	case TypeBytea:
		return "bytea"
	case TypeUuid:
		return "uuid"
	case TypeArray:
		if t.Elem != nil {
			return t.Elem.DisplayName() + "[]"
		}
		return "array"
	}
	return t.Raw
}

//#endregion data types
