// Package migrations embeds the SQL schemas for the database-backed stores
// and applies them in lexical order.
package migrations

import "embed"

// PostgresFS embeds all PostgreSQL migration files.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds all ClickHouse migration files.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
