/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the live Database implementation over a pgx pool.
// Safe for concurrent use; the schema cache has its own lock.
type Postgres struct {
	pool    *pgxpool.Pool
	timeout time.Duration

	mu    sync.Mutex
	cache *SchemaTree
}

var _ Database = (*Postgres)(nil)

// Connect opens a pool for the conninfo string and verifies it with a ping.
func Connect(ctx context.Context, connString string, timeout time.Duration) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, &ConnError{Message: err.Error()}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, &ConnError{Message: err.Error()}
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, &ConnError{Message: err.Error()}
	}

	return &Postgres{pool: pool, timeout: timeout}, nil
}

// Close releases the pool. Safe to call more than once.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
}

// ExecuteQuery runs one statement and converts its rows. The caller's ctx
// carries cancellation; the per-request timeout is layered on top.
func (p *Postgres) ExecuteQuery(ctx context.Context, sql string) (QueryResults, error) {
	if p.pool == nil {
		return QueryResults{}, ErrNotConnected
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, sql)
	if err != nil {
		return QueryResults{}, classifyQueryErr(ctx, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]ColumnDef, len(fields))
	for i, f := range fields {
		columns[i] = ColumnDef{
			Name:     f.Name,
			Type:     typeForOID(f.DataTypeOID),
			Nullable: true,
		}
	}

	var converted []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return QueryResults{}, classifyQueryErr(ctx, err)
		}
		cells := make([]CellValue, len(values))
		for i, v := range values {
			cell, err := cellFromValue(v, columns[i].Type)
			if err != nil {
				return QueryResults{}, &ConversionError{Column: columns[i].Name, Cause: err}
			}
			cells[i] = cell
		}
		converted = append(converted, Row{Values: cells})
	}
	if err := rows.Err(); err != nil {
		return QueryResults{}, classifyQueryErr(ctx, err)
	}

	elapsed := time.Since(start)

	rowCount := len(converted)
	if tag := rows.CommandTag(); tag.RowsAffected() > int64(rowCount) {
		rowCount = int(tag.RowsAffected())
	}

	return NewQueryResults(columns, converted, elapsed, rowCount)
}

// InvalidateCache drops the cached schema so the next GetSchema hits the
// server; called on explicit refresh.
func (p *Postgres) InvalidateCache() {
	p.mu.Lock()
	p.cache = nil
	p.mu.Unlock()
}

func classifyQueryErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.Canceled):
		return context.Canceled
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &QueryError{Message: pgErr.Message}
	}
	return &QueryError{Message: err.Error()}
}

//#region type mapping

// typeForOID maps a wire type OID to the display classification. Array
// OIDs wrap their element type; anything unrecognized keeps its OID as a
// display fallback.
func typeForOID(oid uint32) DataType {
	switch oid {
	case pgtype.Int2OID:
		return DataType{Kind: TypeSmallInt}
	case pgtype.Int4OID:
		return DataType{Kind: TypeInteger}
	case pgtype.Int8OID:
		return DataType{Kind: TypeBigInt}
	case pgtype.Float4OID:
		return DataType{Kind: TypeReal}
	case pgtype.Float8OID:
		return DataType{Kind: TypeDouble}
	case pgtype.NumericOID:
		return DataType{Kind: TypeNumeric}
	case pgtype.TextOID, pgtype.NameOID:
		return DataType{Kind: TypeText}
	case pgtype.VarcharOID:
		return DataType{Kind: TypeVarchar}
	case pgtype.BPCharOID:
		return DataType{Kind: TypeChar}
	case pgtype.BoolOID:
		return DataType{Kind: TypeBoolean}
	case pgtype.DateOID:
		return DataType{Kind: TypeDate}
	case pgtype.TimeOID:
		return DataType{Kind: TypeTime}
	case pgtype.TimestampOID:
		return DataType{Kind: TypeTimestamp}
	case pgtype.TimestamptzOID:
		return DataType{Kind: TypeTimestampTz}
	case pgtype.IntervalOID:
		return DataType{Kind: TypeInterval}
	case pgtype.JSONOID:
		return DataType{Kind: TypeJson}
	case pgtype.JSONBOID:
		return DataType{Kind: TypeJsonb}
	case pgtype.ByteaOID:
		return DataType{Kind: TypeBytea}
	case pgtype.UUIDOID:
		return DataType{Kind: TypeUuid}
	case pgtype.Int2ArrayOID:
		return ArrayOf(DataType{Kind: TypeSmallInt})
	case pgtype.Int4ArrayOID:
		return ArrayOf(DataType{Kind: TypeInteger})
	case pgtype.Int8ArrayOID:
		return ArrayOf(DataType{Kind: TypeBigInt})
	case pgtype.Float8ArrayOID:
		return ArrayOf(DataType{Kind: TypeDouble})
	case pgtype.TextArrayOID:
		return ArrayOf(DataType{Kind: TypeText})
	case pgtype.VarcharArrayOID:
		return ArrayOf(DataType{Kind: TypeVarchar})
	case pgtype.BoolArrayOID:
		return ArrayOf(DataType{Kind: TypeBoolean})
	case pgtype.UUIDArrayOID:
		return ArrayOf(DataType{Kind: TypeUuid})
	}
	return DataType{Kind: TypeUnknown, Raw: fmt.Sprintf("oid %d", oid)}
}

// cellFromValue converts one decoded wire value into a CellValue. The
// column type disambiguates documents (a json array stays a Json cell, a
// postgres array becomes an Array cell).
func cellFromValue(v any, dt DataType) (CellValue, error) {
	if v == nil {
		return Null(), nil
	}
	switch dt.Kind {
	case TypeJson, TypeJsonb:
		return Json(v), nil
	case TypeArray:
		if elems, ok := v.([]any); ok {
			var elemType DataType
			if dt.Elem != nil {
				elemType = *dt.Elem
			}
			cells := make([]CellValue, len(elems))
			for i, elem := range elems {
				cell, err := cellFromValue(elem, elemType)
				if err != nil {
					return CellValue{}, err
				}
				cells[i] = cell
			}
			return Array(cells), nil
		}
	}

	switch val := v.(type) {
	case nil:
		return Null(), nil
	case int16:
		return Integer(int64(val)), nil
	case int32:
		return Integer(int64(val)), nil
	case int64:
		return Integer(val), nil
	case uint32: // oid, xid and friends
		return Integer(int64(val)), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case bool:
		return Boolean(val), nil
	case string:
		return Text(val), nil
	case []byte:
		return Binary(append([]byte(nil), val...)), nil
	case time.Time:
		return DateTime(val.Format("2006-01-02 15:04:05.999999-07")), nil
	case [16]byte:
		return Uuid(uuid.UUID(val).String()), nil
	case map[string]any:
		return Json(val), nil
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil {
			return CellValue{}, err
		}
		if !f.Valid {
			return Null(), nil
		}
		return Float(f.Float64), nil
	case pgtype.Time:
		t := time.Unix(0, val.Microseconds*int64(time.Microsecond)).UTC()
		return DateTime(t.Format("15:04:05.999999")), nil
	case pgtype.Interval:
		return DateTime(formatInterval(val)), nil
	case []any:
		cells := make([]CellValue, len(val))
		for i, elem := range val {
			cell, err := cellFromValue(elem, DataType{})
			if err != nil {
				return CellValue{}, err
			}
			cells[i] = cell
		}
		return Array(cells), nil
	}
	// json scalars decode to any of the above; everything else renders
	// through fmt as a last resort
	return Text(fmt.Sprint(v)), nil
}

func formatInterval(iv pgtype.Interval) string {
	out := ""
	if iv.Months != 0 {
		out += fmt.Sprintf("%d mons ", iv.Months)
	}
	if iv.Days != 0 {
		out += fmt.Sprintf("%d days ", iv.Days)
	}
	us := iv.Microseconds
	neg := us < 0
	if neg {
		us = -us
	}
	secs := us / 1e6
	frac := us % 1e6
	sign := ""
	if neg {
		sign = "-"
	}
	if frac != 0 {
		out += fmt.Sprintf("%s%02d:%02d:%02d.%06d", sign, secs/3600, (secs/60)%60, secs%60, frac)
	} else {
		out += fmt.Sprintf("%s%02d:%02d:%02d", sign, secs/3600, (secs/60)%60, secs%60)
	}
	return out
}

//#endregion type mapping
