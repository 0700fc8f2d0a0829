// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/signup/internal/users/auth"
)

// fakeRow scans a fixed set of values or returns err.
type fakeRow struct {
	values []any
	err    error
}

func (row fakeRow) Scan(dest ...any) error {
	if row.err != nil {
		return row.err
	}
	if len(dest) != len(row.values) {
		return fmt.Errorf("scan: want %d destinations, got %d", len(row.values), len(dest))
	}
	for i, target := range dest {
		switch pointer := target.(type) {
		case *int64:
			*pointer = row.values[i].(int64)
		case *string:
			*pointer = row.values[i].(string)
		case *time.Time:
			*pointer = row.values[i].(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", target)
		}
	}
	return nil
}

// fakeDB records the last query and answers QueryRow with a canned row.
type fakeDB struct {
	row       fakeRow
	lastSQL   string
	lastArgs  []any
	execCalls int
}

func (db *fakeDB) Exec(_ context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	db.execCalls++
	db.lastSQL, db.lastArgs = sql, arguments
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, arguments ...any) pgx.Row {
	db.lastSQL, db.lastArgs = sql, arguments
	return db.row
}

/*
TestAccountRepository_Save returns the generated ID and maps unique violations.
*/
func TestAccountRepository_Save(t *testing.T) {
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	input := &auth.Account{Username: "alice", Email: "a@x.com", PasswordHash: "hash"}

	tests := []struct {
		name    string
		row     fakeRow
		wantErr error
		wantID  int64
	}{
		{"inserted", fakeRow{values: []any{int64(7), createdAt}}, nil, 7},
		{"email_taken", fakeRow{err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "account_email_key"}}, auth.ErrDuplicateEmail, 0},
		{"username_taken", fakeRow{err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "account_username_key"}}, auth.ErrDuplicateUsername, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{row: tt.row}
			repository := auth.NewAccountRepository(db)

			stored, err := repository.Save(context.Background(), input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, stored.ID)
			assert.Equal(t, createdAt, stored.CreatedAt)
			assert.Equal(t, "alice", stored.Username)
			assert.Contains(t, db.lastSQL, "INSERT INTO users.account")
			assert.Equal(t, []any{"alice", "a@x.com", "hash"}, db.lastArgs)
			assert.Zero(t, input.ID, "input must not be mutated")
		})
	}
}

/*
TestAccountRepository_SaveInfrastructureError wraps unexpected failures.
*/
func TestAccountRepository_SaveInfrastructureError(t *testing.T) {
	boom := errors.New("connection reset")
	repository := auth.NewAccountRepository(&fakeDB{row: fakeRow{err: boom}})

	_, err := repository.Save(context.Background(), &auth.Account{Username: "a", Email: "b"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, auth.ErrDuplicateEmail)
}

/*
TestAccountRepository_FindByUsernameOrEmail covers the lookup contract.
*/
func TestAccountRepository_FindByUsernameOrEmail(t *testing.T) {
	createdAt := time.Now().UTC()
	found := fakeRow{values: []any{int64(3), "alice", "a@x.com", "hash", createdAt}}

	t.Run("missing_parameters", func(t *testing.T) {
		db := &fakeDB{row: found}
		_, err := auth.NewAccountRepository(db).FindByUsernameOrEmail(context.Background(), "", "")
		assert.ErrorIs(t, err, auth.ErrMissingQueryParameter)
		assert.Empty(t, db.lastSQL, "no query should be issued")
	})

	t.Run("found", func(t *testing.T) {
		db := &fakeDB{row: found}
		account, err := auth.NewAccountRepository(db).FindByUsernameOrEmail(context.Background(), "", "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, int64(3), account.ID)
		assert.Equal(t, []any{"", "a@x.com"}, db.lastArgs)
	})

	t.Run("not_found", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
		_, err := auth.NewAccountRepository(db).FindByUsernameOrEmail(context.Background(), "alice", "")
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
	})
}

/*
TestAccountRepository_FindByID maps empty results to ErrAccountNotFound.
*/
func TestAccountRepository_FindByID(t *testing.T) {
	db := &fakeDB{row: fakeRow{values: []any{int64(9), "bob", "b@x.com", "hash", time.Now()}}}
	account, err := auth.NewAccountRepository(db).FindByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "bob", account.Username)
	assert.Equal(t, []any{int64(9)}, db.lastArgs)

	db = &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	_, err = auth.NewAccountRepository(db).FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, auth.ErrAccountNotFound)
}
