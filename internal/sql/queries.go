package sql

import "embed"

// Migrations holds the schema migration files, applied in filename order.
//
//go:embed migrations
var Migrations embed.FS

//go:embed queries/insert_attempt.sql
var InsertAttempt string

//go:embed queries/mark_attempt_success.sql
var MarkAttemptSuccess string

//go:embed queries/mark_attempt_failed.sql
var MarkAttemptFailed string

//go:embed queries/get_attempt.sql
var GetAttempt string

//go:embed queries/list_attempts_by_status.sql
var ListAttemptsByStatus string

//go:embed queries/list_attempts_between.sql
var ListAttemptsBetween string
