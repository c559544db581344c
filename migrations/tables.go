package migrations

import (
	"context"
	"database/sql"
)

// createUsersTable creates the users table
func createUsersTable() Migration {
	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   "users",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS users (
					user_id BIGSERIAL PRIMARY KEY,
					username VARCHAR(50) NOT NULL,
					email VARCHAR(255) NOT NULL,
					password_hash VARCHAR(255) NOT NULL,
					salt VARCHAR(255) NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT idx_username UNIQUE (username),
					CONSTRAINT idx_email UNIQUE (email)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createTasksTable creates the tasks table
func createTasksTable() Migration {
	return Migration{
		Name:        "create_tasks_table",
		Description: "Creates the tasks table",
		TableName:   "tasks",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS tasks (
					task_id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					title VARCHAR(255) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					category VARCHAR(20) NOT NULL DEFAULT 'Other',
					due_date DATE,
					priority VARCHAR(20) NOT NULL DEFAULT 'Medium',
					recurrence VARCHAR(20) NOT NULL DEFAULT 'None',
					completed BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_user_id ON tasks(user_id);
				CREATE INDEX IF NOT EXISTS idx_due_date ON tasks(due_date);
				CREATE INDEX IF NOT EXISTS idx_completed ON tasks(completed);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createTagsTable creates the tags table
func createTagsTable() Migration {
	return Migration{
		Name:        "create_tags_table",
		Description: "Creates the tags table",
		TableName:   "tags",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS tags (
					tag_id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					name VARCHAR(100) NOT NULL,
					CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
					CONSTRAINT idx_user_tag_name UNIQUE (user_id, name)
				);
				CREATE INDEX IF NOT EXISTS idx_tag_user_id ON tags(user_id);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createTaskTagsTable creates the task_tags join table
func createTaskTagsTable() Migration {
	return Migration{
		Name:        "create_task_tags_table",
		Description: "Creates the task_tags join table",
		TableName:   "task_tags",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS task_tags (
					task_id BIGINT NOT NULL,
					tag_id BIGINT NOT NULL,
					CONSTRAINT fk_task FOREIGN KEY (task_id) REFERENCES tasks(task_id) ON DELETE CASCADE,
					CONSTRAINT fk_tag FOREIGN KEY (tag_id) REFERENCES tags(tag_id) ON DELETE CASCADE,
					CONSTRAINT pk_task_tag PRIMARY KEY (task_id, tag_id)
				);
				CREATE INDEX IF NOT EXISTS idx_task_tags_tag_id ON task_tags(tag_id);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createPasswordResetTokensTable creates the password_reset_tokens table
func createPasswordResetTokensTable() Migration {
	return Migration{
		Name:        "create_password_reset_tokens_table",
		Description: "Creates the password_reset_tokens table",
		TableName:   "password_reset_tokens",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS password_reset_tokens (
					id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					token VARCHAR(255) NOT NULL,
					expires_at TIMESTAMP NOT NULL,
					used BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
					CONSTRAINT idx_reset_token UNIQUE (token)
				);
				CREATE INDEX IF NOT EXISTS idx_reset_user_id ON password_reset_tokens(user_id);
				CREATE INDEX IF NOT EXISTS idx_reset_expires_at ON password_reset_tokens(expires_at);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}
