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
)

// Database is the capability the core depends on.
// Implementations must be safe for use from concurrent tasks; the adapter
// carries its own synchronization. Type mapping from wire column types to
// DataType is the adapter's job.
type Database interface {
	// ExecuteQuery runs one SQL statement and returns its results.
	ExecuteQuery(ctx context.Context, sql string) (QueryResults, error)
	// GetSchema introspects the database and returns the full schema tree.
	GetSchema(ctx context.Context) (SchemaTree, error)
	// Close releases the connection. Safe to call more than once.
	Close()
}

//#region errors

var (
	ErrNotConnected = errors.New("not connected to a database")
	ErrTimeout      = errors.New("query timed out")
)

// ConnError wraps a failure to establish or keep a connection.
type ConnError struct {
	Message string
}

func (e *ConnError) Error() string { return "connection failed: " + e.Message }

// QueryError wraps a server-reported query failure. The message is shown
// verbatim in the results pane.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string { return "query failed: " + e.Message }

// SchemaError wraps an introspection failure.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string { return "schema loading failed: " + e.Message }

// ConversionError reports a wire value the adapter could not map into a
// CellValue.
type ConversionError struct {
	Column string
	Cause  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("type conversion failed for column %q: %v", e.Column, e.Cause)
}

func (e *ConversionError) Unwrap() error { return e.Cause }

//#endregion errors
