// Package migrations содержит SQL миграции схемы для goose
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
