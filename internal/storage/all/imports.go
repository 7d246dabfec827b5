// Package all enables every built-in storage backend. Import it for side
// effects only:
//
//	import _ "github.com/valdasjurk/Airplane-accidents-analysis/internal/storage/all"
//
// after which storage.New and storage.EnsureTable accept the kinds
// "sqlite", "postgres", "mssql" and "mysql".
package all

import (
	_ "github.com/valdasjurk/Airplane-accidents-analysis/internal/storage/mssql"
	_ "github.com/valdasjurk/Airplane-accidents-analysis/internal/storage/mysql"
	_ "github.com/valdasjurk/Airplane-accidents-analysis/internal/storage/postgres"
	_ "github.com/valdasjurk/Airplane-accidents-analysis/internal/storage/sqlite"
)
