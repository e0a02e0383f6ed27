// Package db provides the embedded database schema for the stock backend.
package db

import _ "embed"

// Schema contains the DDL statements for the stock tables.
//
//go:embed migrations/001_schema.sql
var Schema string
