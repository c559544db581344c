package scripts

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/taskvault/taskvault-backend/internal/database"
)

// createMockDB creates a mock database for testing
func createMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return db, mock, cleanup
}

// createMockDBAndTx creates a mock database and transaction for testing
func createMockDBAndTx(t *testing.T) (*sql.DB, *sql.Tx, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}

	mock.ExpectBegin()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	cleanup := func() {
		tx.Rollback()
		db.Close()
	}

	return db, tx, mock, cleanup
}

func TestNewSeeder(t *testing.T) {
	db, _, cleanup := createMockDB(t)
	defer cleanup()

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	assert.NotNil(t, seeder)
	assert.Equal(t, pool, seeder.db)
}

func TestCreateSeedsTable(t *testing.T) {
	db, mock, cleanup := createMockDB(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").
		WillReturnResult(sqlmock.NewResult(0, 0))

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	ctx := context.Background()
	err := seeder.createSeedsTable(ctx)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutedSeeds(t *testing.T) {
	db, mock, cleanup := createMockDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"name"}).
		AddRow("demo_account")
	mock.ExpectQuery("SELECT name FROM seeds").
		WillReturnRows(rows)

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	ctx := context.Background()
	seeds, err := seeder.getExecutedSeeds(ctx)

	assert.NoError(t, err)
	assert.True(t, seeds["demo_account"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutedSeeds_QueryError(t *testing.T) {
	db, mock, cleanup := createMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT name FROM seeds").
		WillReturnError(errors.New("query failed"))

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	ctx := context.Background()
	_, err := seeder.getExecutedSeeds(ctx)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSeed(t *testing.T) {
	db, mock, cleanup := createMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO seeds").
		WithArgs("test_seed").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	ctx := context.Background()
	err := seeder.runSeed(ctx, "test_seed", func(ctx context.Context, tx *sql.Tx) error {
		return nil
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSeed_SeedFuncFails(t *testing.T) {
	db, mock, cleanup := createMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectRollback()

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	ctx := context.Background()
	err := seeder.runSeed(ctx, "test_seed", func(ctx context.Context, tx *sql.Tx) error {
		return errors.New("seed failed")
	})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDemoAccount_AlreadyExists(t *testing.T) {
	_, tx, mock, cleanup := createMockDBAndTx(t)
	defer cleanup()

	// Demo user already present, nothing more happens
	countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery("SELECT COUNT(.+) FROM users").
		WithArgs("demo").
		WillReturnRows(countRows)

	seeder := NewSeeder(&database.Pool{})

	ctx := context.Background()
	err := seeder.seedDemoAccount(ctx, tx)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDemoAccount_CountError(t *testing.T) {
	_, tx, mock, cleanup := createMockDBAndTx(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT(.+) FROM users").
		WithArgs("demo").
		WillReturnError(errors.New("count failed"))

	seeder := NewSeeder(&database.Pool{})

	ctx := context.Background()
	err := seeder.seedDemoAccount(ctx, tx)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDatabase_AllSeedsExecuted(t *testing.T) {
	db, mock, cleanup := createMockDB(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows := sqlmock.NewRows([]string{"name"}).
		AddRow("demo_account")
	mock.ExpectQuery("SELECT name FROM seeds").
		WillReturnRows(rows)

	pool := &database.Pool{DB: db}
	seeder := NewSeeder(pool)

	ctx := context.Background()
	err := seeder.SeedDatabase(ctx)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
