// Package migrations embeds the SQL migration files so the goose
// programmatic API can run them at server startup and in integration tests.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass this to goose.UpContext via a goose provider instead of relying on a
// filesystem path at runtime.
//
//go:embed *.sql
var FS embed.FS
