// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines constants related to database structures,
// including table names and column names. These constants ensure consistent
// database access patterns throughout the application, reducing the risk of
// SQL errors and simplifying schema changes.
package constants

// Table Names define the names of database tables used in the application.
// Using these constants instead of string literals ensures consistency
// and makes database schema changes easier to implement.
const (
	// TableUsers is the name of the table storing user account information.
	TableUsers = "users"

	// TableTasks is the name of the table storing task records.
	TableTasks = "tasks"

	// TableTags is the name of the table storing per-user tag names.
	TableTags = "tags"

	// TableTaskTags is the name of the join table linking tasks to tags.
	TableTaskTags = "task_tags"

	// TablePasswordResetTokens is the name of the table storing password reset tokens.
	TablePasswordResetTokens = "password_reset_tokens"
)

// Common Column Names define frequently used database column names.
// These constants ensure consistent column name usage in SQL queries.
const (
	// ColumnUserID is the column name for user identifier foreign keys.
	ColumnUserID = "user_id"

	// ColumnTaskID is the column name for task identifiers.
	ColumnTaskID = "task_id"

	// ColumnTagID is the column name for tag identifiers.
	ColumnTagID = "tag_id"

	// ColumnPasswordHash is the column name for stored password hashes.
	ColumnPasswordHash = "password_hash"

	// ColumnCreatedAt is the column name for creation timestamps.
	ColumnCreatedAt = "created_at"

	// ColumnUpdatedAt is the column name for last modification timestamps.
	ColumnUpdatedAt = "updated_at"
)

// PostgreSQL Error Codes identify specific database error conditions.
// These constants are used when translating driver errors into application errors.
const (
	// PGErrUniqueViolation is the PostgreSQL error code for unique constraint violations.
	PGErrUniqueViolation = "23505"

	// PGErrForeignKeyViolation is the PostgreSQL error code for foreign key violations.
	PGErrForeignKeyViolation = "23503"

	// PGErrNotNullViolation is the PostgreSQL error code for not-null violations.
	PGErrNotNullViolation = "23502"
)
