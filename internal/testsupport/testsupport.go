/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package testsupport provides utility functions and fakes useful across
// disparate testing packages.
package testsupport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vizgres/db"
)

// ExpectedActual returns a standardized expected/actual printout.
func ExpectedActual(expected, actual any) string {
	return fmt.Sprintf("(expected: %v, actual: %v)", expected, actual)
}

// MockDB is a scriptable db.Database for driving the application without a
// server. Safe for concurrent use.
type MockDB struct {
	mu sync.Mutex

	// results returned per query, consumed in order; QueryErr wins if set
	Results  []db.QueryResults
	QueryErr error

	Schema    db.SchemaTree
	SchemaErr error

	// Delay is applied before responses so tests can race cancellation
	Delay time.Duration

	Queries []string
	Closed  bool
}

var _ db.Database = (*MockDB)(nil)

func (m *MockDB) ExecuteQuery(ctx context.Context, sql string) (db.QueryResults, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return db.QueryResults{}, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, sql)
	if m.QueryErr != nil {
		return db.QueryResults{}, m.QueryErr
	}
	if len(m.Results) == 0 {
		return db.QueryResults{}, nil
	}
	r := m.Results[0]
	if len(m.Results) > 1 {
		m.Results = m.Results[1:]
	}
	return r, nil
}

func (m *MockDB) GetSchema(ctx context.Context) (db.SchemaTree, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return db.SchemaTree{}, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SchemaErr != nil {
		return db.SchemaTree{}, m.SchemaErr
	}
	return m.Schema, nil
}

func (m *MockDB) Close() {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
}

// QueryLog returns a copy of the executed queries.
func (m *MockDB) QueryLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Queries...)
}

// SampleSchema is a small two-schema fixture shared by component tests.
func SampleSchema() db.SchemaTree {
	return db.SchemaTree{Schemas: []db.Schema{
		{
			Name: "public",
			Tables: []db.Table{
				{Name: "users", Columns: []db.Column{
					{Name: "id", Type: db.DataType{Kind: db.TypeInteger}, PrimaryKey: true},
					{Name: "username", Type: db.DataType{Kind: db.TypeVarchar, Length: 64}},
				}},
			},
			Views: []db.Table{
				{Name: "user_stats", Columns: []db.Column{
					{Name: "total", Type: db.DataType{Kind: db.TypeBigInt}},
				}},
			},
		},
		{Name: "audit", Tables: []db.Table{{Name: "events"}}},
	}}
}

// SampleResults builds a simple two-column result set.
func SampleResults() db.QueryResults {
	qr, err := db.NewQueryResults(
		[]db.ColumnDef{
			{Name: "id", Type: db.DataType{Kind: db.TypeInteger}},
			{Name: "name", Type: db.DataType{Kind: db.TypeText}, Nullable: true},
		},
		[]db.Row{
			{Values: []db.CellValue{db.Integer(1), db.Text("Alice")}},
			{Values: []db.CellValue{db.Integer(2), db.Text("Bob")}},
		},
		42*time.Millisecond, 2)
	if err != nil {
		panic(err)
	}
	return qr
}
