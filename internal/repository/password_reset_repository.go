package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/taskvault/taskvault-backend/internal/constants"
	"github.com/taskvault/taskvault-backend/internal/database"
	"github.com/taskvault/taskvault-backend/internal/models"
	"github.com/taskvault/taskvault-backend/internal/utils"
)

// PasswordResetRepository defines methods for interacting with password
// reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	GetValid(ctx context.Context, token string, now time.Time) (*models.PasswordResetToken, error)
	Consume(ctx context.Context, token, newHash, newSalt string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PostgresPasswordResetRepository is a PostgreSQL implementation of
// PasswordResetRepository
type PostgresPasswordResetRepository struct {
	db *database.Pool
}

// NewPasswordResetRepository creates a new PasswordResetRepository
func NewPasswordResetRepository(db *database.Pool) PasswordResetRepository {
	return &PostgresPasswordResetRepository{
		db: db,
	}
}

// Create stores a new reset token. Issuing a fresh token does not
// invalidate tokens issued earlier; each stays usable until it expires
// or is consumed.
func (r *PostgresPasswordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	// Start query timer
	startTime := time.Now()

	query := `
        INSERT INTO ` + constants.TablePasswordResetTokens + ` (user_id, token, expires_at, used, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `

	err := r.db.QueryRowContext(
		ctx,
		query,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.Used,
		token.CreatedAt,
	).Scan(&token.ID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{token.UserID, constants.LogRedactedValue, token.ExpiresAt, token.Used, token.CreatedAt},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}

	log.Info().
		Int64("token_id", token.ID).
		Int64(constants.ColumnUserID, token.UserID).
		Time("expires_at", token.ExpiresAt).
		Msg("Password reset token created")

	return nil
}

// GetValid retrieves a token by value if it is unused and unexpired.
// Unknown, used and expired tokens are indistinguishable to the caller.
func (r *PostgresPasswordResetRepository) GetValid(ctx context.Context, token string, now time.Time) (*models.PasswordResetToken, error) {
	// Start query timer
	startTime := time.Now()

	query := `
        SELECT id, user_id, token, expires_at, used, created_at
        FROM ` + constants.TablePasswordResetTokens + `
        WHERE token = $1 AND used = FALSE AND expires_at > $2
    `

	prt := &models.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, query, token, now).Scan(
		&prt.ID,
		&prt.UserID,
		&prt.Token,
		&prt.ExpiresAt,
		&prt.Used,
		&prt.CreatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{constants.LogRedactedValue, now},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewInvalidTokenError()
		}
		return nil, fmt.Errorf("failed to get password reset token: %w", err)
	}

	return prt, nil
}

// Consume atomically redeems a token: the owning account's password
// hash is replaced and the token is marked used in one transaction, so
// a token can never apply a new password twice. It returns false when
// the token is unknown, already used or expired.
func (r *PostgresPasswordResetRepository) Consume(ctx context.Context, token, newHash, newSalt string, now time.Time) (bool, error) {
	// Start query timer
	startTime := time.Now()

	consumed := false
	var userID int64

	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		selectQuery := `
            SELECT id, user_id
            FROM ` + constants.TablePasswordResetTokens + `
            WHERE token = $1 AND used = FALSE AND expires_at > $2
            FOR UPDATE
        `

		var tokenID int64
		err := tx.QueryRowContext(ctx, selectQuery, token, now).Scan(&tokenID, &userID)

		// Log the query execution
		utils.LogDBQuery(selectQuery, []interface{}{constants.LogRedactedValue, now}, time.Since(startTime), err)

		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to lock password reset token: %w", err)
		}

		updateUserQuery := `
            UPDATE ` + constants.TableUsers + `
            SET ` + constants.ColumnPasswordHash + ` = $1, salt = $2, ` + constants.ColumnUpdatedAt + ` = $3
            WHERE ` + constants.ColumnUserID + ` = $4
        `
		result, err := tx.ExecContext(ctx, updateUserQuery, newHash, newSalt, now, userID)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("failed to update password: user %d not found", userID)
		}

		markUsedQuery := "UPDATE " + constants.TablePasswordResetTokens + " SET used = TRUE WHERE id = $1"
		if _, err := tx.ExecContext(ctx, markUsedQuery, tokenID); err != nil {
			return fmt.Errorf("failed to mark token used: %w", err)
		}

		consumed = true
		return nil
	})

	if err != nil {
		return false, err
	}

	if consumed {
		log.Info().
			Int64(constants.ColumnUserID, userID).
			Msg("Password reset token consumed")
	}

	return consumed, nil
}

// DeleteExpired removes tokens that are expired or already used.
// It returns the number of tokens removed.
func (r *PostgresPasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	// Start query timer
	startTime := time.Now()

	query := `DELETE FROM ` + constants.TablePasswordResetTokens + ` WHERE expires_at <= $1 OR used = TRUE`

	result, err := r.db.ExecContext(ctx, query, now)

	// Log the query execution
	utils.LogDBQuery(query, []interface{}{now}, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to delete expired password reset tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
