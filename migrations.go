// Package registration is the root of the account registration service module.
// It embeds the SQL migrations so binaries can apply them without shipping files.
package registration

import "embed"

// Migrations holds the goose SQL migrations under the "migrations" directory.
//
//go:embed migrations/*.sql
var Migrations embed.FS
