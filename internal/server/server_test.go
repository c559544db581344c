package server

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSetupSeedDataInDevelopment(t *testing.T) {
	s, mock := newTestServer(t)
	s.Config.App.Environment = "development"

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name FROM seeds").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("demo_account"))

	err := s.setupSeedData()

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetupSeedDataSkippedOutsideDevelopment(t *testing.T) {
	for _, env := range []string{"testing", "production"} {
		t.Run(env, func(t *testing.T) {
			s, mock := newTestServer(t)
			s.Config.App.Environment = env

			// No database expectations: seeding must not touch the pool
			err := s.setupSeedData()

			assert.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
