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
	"strings"
)

const schemasQuery = `
SELECT schema_name
FROM information_schema.schemata
WHERE schema_name NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
ORDER BY (schema_name <> 'public'), schema_name`

const columnsQuery = `
SELECT c.table_schema,
       c.table_name,
       t.table_type,
       c.column_name,
       c.data_type,
       c.character_maximum_length,
       COALESCE(pk.is_pk, false),
       fk.foreign_table,
       fk.foreign_column
FROM information_schema.columns c
JOIN information_schema.tables t
  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
LEFT JOIN (
    SELECT kcu.table_schema, kcu.table_name, kcu.column_name, true AS is_pk
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage kcu
      ON kcu.constraint_name = tc.constraint_name
     AND kcu.table_schema = tc.table_schema
    WHERE tc.constraint_type = 'PRIMARY KEY'
) pk ON pk.table_schema = c.table_schema
    AND pk.table_name = c.table_name
    AND pk.column_name = c.column_name
LEFT JOIN (
    SELECT kcu.table_schema, kcu.table_name, kcu.column_name,
           ccu.table_name AS foreign_table, ccu.column_name AS foreign_column
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage kcu
      ON kcu.constraint_name = tc.constraint_name
     AND kcu.table_schema = tc.table_schema
    JOIN information_schema.constraint_column_usage ccu
      ON ccu.constraint_name = tc.constraint_name
     AND ccu.table_schema = tc.table_schema
    WHERE tc.constraint_type = 'FOREIGN KEY'
) fk ON fk.table_schema = c.table_schema
    AND fk.table_name = c.table_name
    AND fk.column_name = c.column_name
WHERE c.table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
ORDER BY c.table_schema, c.table_name, c.ordinal_position`

const functionsQuery = `
SELECT n.nspname,
       p.proname,
       pg_get_function_arguments(p.oid),
       pg_get_function_result(p.oid)
FROM pg_proc p
JOIN pg_namespace n ON n.oid = p.pronamespace
WHERE n.nspname NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
ORDER BY n.nspname, p.proname`

const indexesQuery = `
SELECT n.nspname,
       t.relname,
       i.relname,
       ix.indisunique,
       ix.indisprimary,
       array_agg(a.attname ORDER BY array_position(ix.indkey, a.attnum))
FROM pg_index ix
JOIN pg_class i ON i.oid = ix.indexrelid
JOIN pg_class t ON t.oid = ix.indrelid
JOIN pg_namespace n ON n.oid = t.relnamespace
JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
WHERE n.nspname NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
GROUP BY n.nspname, t.relname, i.relname, ix.indisunique, ix.indisprimary
ORDER BY n.nspname, t.relname, i.relname`

// GetSchema introspects schemas, tables, views, columns, functions and
// indexes. The result is cached until InvalidateCache.
func (p *Postgres) GetSchema(ctx context.Context) (SchemaTree, error) {
	if p.pool == nil {
		return SchemaTree{}, ErrNotConnected
	}

	p.mu.Lock()
	if p.cache != nil {
		cached := *p.cache
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	tree, err := p.fetchSchema(ctx)
	if err != nil {
		return SchemaTree{}, err
	}

	p.mu.Lock()
	p.cache = &tree
	p.mu.Unlock()
	return tree, nil
}

func (p *Postgres) fetchSchema(ctx context.Context) (SchemaTree, error) {
	var tree SchemaTree
	byName := make(map[string]*Schema)

	rows, err := p.pool.Query(ctx, schemasQuery)
	if err != nil {
		return SchemaTree{}, &SchemaError{Message: err.Error()}
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return SchemaTree{}, &SchemaError{Message: err.Error()}
		}
		tree.Schemas = append(tree.Schemas, Schema{Name: name})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return SchemaTree{}, &SchemaError{Message: err.Error()}
	}
	for i := range tree.Schemas {
		byName[tree.Schemas[i].Name] = &tree.Schemas[i]
	}

	if err := p.fetchColumns(ctx, byName); err != nil {
		return SchemaTree{}, err
	}
	if err := p.fetchFunctions(ctx, byName); err != nil {
		return SchemaTree{}, err
	}
	if err := p.fetchIndexes(ctx, byName); err != nil {
		return SchemaTree{}, err
	}

	return tree, nil
}

func (p *Postgres) fetchColumns(ctx context.Context, byName map[string]*Schema) error {
	rows, err := p.pool.Query(ctx, columnsQuery)
	if err != nil {
		return &SchemaError{Message: err.Error()}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			schemaName, tableName, tableType, colName, dataType string
			maxLen                                              *int32
			isPK                                                bool
			fkTable, fkColumn                                   *string
		)
		if err := rows.Scan(&schemaName, &tableName, &tableType, &colName, &dataType,
			&maxLen, &isPK, &fkTable, &fkColumn); err != nil {
			return &SchemaError{Message: err.Error()}
		}
		schema, ok := byName[schemaName]
		if !ok {
			continue
		}

		col := Column{
			Name:       colName,
			Type:       typeForName(dataType, maxLen),
			PrimaryKey: isPK,
		}
		if fkTable != nil && fkColumn != nil {
			col.ForeignKey = &ForeignKey{Table: *fkTable, Column: *fkColumn}
		}

		isView := tableType == "VIEW"
		list := &schema.Tables
		if isView {
			list = &schema.Views
		}
		if n := len(*list); n > 0 && (*list)[n-1].Name == tableName {
			(*list)[n-1].Columns = append((*list)[n-1].Columns, col)
		} else {
			*list = append(*list, Table{Name: tableName, Columns: []Column{col}})
		}
	}
	if err := rows.Err(); err != nil {
		return &SchemaError{Message: err.Error()}
	}
	return nil
}

func (p *Postgres) fetchFunctions(ctx context.Context, byName map[string]*Schema) error {
	rows, err := p.pool.Query(ctx, functionsQuery)
	if err != nil {
		return &SchemaError{Message: err.Error()}
	}
	defer rows.Close()

	for rows.Next() {
		var schemaName, fnName, params, returns string
		if err := rows.Scan(&schemaName, &fnName, &params, &returns); err != nil {
			return &SchemaError{Message: err.Error()}
		}
		if schema, ok := byName[schemaName]; ok {
			schema.Functions = append(schema.Functions, Function{
				Name: fnName, Params: params, Returns: returns,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return &SchemaError{Message: err.Error()}
	}
	return nil
}

func (p *Postgres) fetchIndexes(ctx context.Context, byName map[string]*Schema) error {
	rows, err := p.pool.Query(ctx, indexesQuery)
	if err != nil {
		return &SchemaError{Message: err.Error()}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			schemaName, tableName, indexName string
			unique, primary                  bool
			columns                          []string
		)
		if err := rows.Scan(&schemaName, &tableName, &indexName, &unique, &primary, &columns); err != nil {
			return &SchemaError{Message: err.Error()}
		}
		if schema, ok := byName[schemaName]; ok {
			schema.Indexes = append(schema.Indexes, Index{
				Name: indexName, Columns: columns,
				Unique: unique, Primary: primary, Table: tableName,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return &SchemaError{Message: err.Error()}
	}
	return nil
}

// typeForName maps an information_schema type name to the display
// classification; used by introspection where only names are available.
func typeForName(name string, maxLen *int32) DataType {
	length := 0
	if maxLen != nil {
		length = int(*maxLen)
	}
	switch strings.ToLower(name) {
	case "smallint":
		return DataType{Kind: TypeSmallInt}
	case "integer":
		return DataType{Kind: TypeInteger}
	case "bigint":
		return DataType{Kind: TypeBigInt}
	case "real":
		return DataType{Kind: TypeReal}
	case "double precision":
		return DataType{Kind: TypeDouble}
	case "numeric", "decimal":
		return DataType{Kind: TypeNumeric}
	case "text":
		return DataType{Kind: TypeText}
	case "character varying":
		return DataType{Kind: TypeVarchar, Length: length}
	case "character":
		return DataType{Kind: TypeChar, Length: length}
	case "boolean":
		return DataType{Kind: TypeBoolean}
	case "date":
		return DataType{Kind: TypeDate}
	case "time without time zone", "time with time zone":
		return DataType{Kind: TypeTime}
	case "timestamp without time zone":
		return DataType{Kind: TypeTimestamp}
	case "timestamp with time zone":
		return DataType{Kind: TypeTimestampTz}
	case "interval":
		return DataType{Kind: TypeInterval}
	case "json":
		return DataType{Kind: TypeJson}
	case "jsonb":
		return DataType{Kind: TypeJsonb}
	case "bytea":
		return DataType{Kind: TypeBytea}
	case "uuid":
		return DataType{Kind: TypeUuid}
	case "array":
		return DataType{Kind: TypeArray}
	}
	return DataType{Kind: TypeUnknown, Raw: name}
}
