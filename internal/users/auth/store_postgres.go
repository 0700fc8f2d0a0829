// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/taibuivan/signup/internal/platform/database/schema"
	"github.com/taibuivan/signup/internal/platform/dberr"
	"github.com/taibuivan/signup/internal/platform/postgres"
)

// # Account Repository

var accountTable = schema.UserAccount

var (
	insertAccountQuery = fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s`,
		accountTable.Table, accountTable.Username, accountTable.Email, accountTable.PasswordHash,
		accountTable.ID, accountTable.CreatedAt)

	findByUsernameOrEmailQuery = fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE ($1 <> '' AND %s = $1) OR ($2 <> '' AND %s = $2)
		LIMIT 1`,
		accountTable.SelectList(), accountTable.Table, accountTable.Username, accountTable.Email)

	findByIDQuery = fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		accountTable.SelectList(), accountTable.Table, accountTable.ID)
)

// PostgresAccountRepository implements [AccountStore] using pgx.
type PostgresAccountRepository struct {
	db postgres.DBTX
}

// NewAccountRepository creates a new PostgreSQL implementation of [AccountStore].
func NewAccountRepository(db postgres.DBTX) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

/*
Save inserts a new account row and returns it with the generated ID.

Description: The username and email unique constraints are the final guard
against two confirmations creating the same identity.

Parameters:
  - context: context.Context
  - input: *Account (Username, Email, PasswordHash)

Returns:
  - *Account: persisted entity with ID and CreatedAt
  - error: ErrDuplicateEmail, ErrDuplicateUsername or database errors
*/
func (repository *PostgresAccountRepository) Save(context context.Context, input *Account) (*Account, error) {
	stored := *input

	err := repository.db.QueryRow(context, insertAccountQuery,
		input.Username,
		input.Email,
		input.PasswordHash,
	).Scan(&stored.ID, &stored.CreatedAt)

	if err != nil {
		if constraint, ok := dberr.UniqueViolation(err); ok {
			switch constraint {
			case accountTable.EmailKey:
				return nil, ErrDuplicateEmail
			case accountTable.UsernameKey:
				return nil, ErrDuplicateUsername
			}
		}
		return nil, fmt.Errorf("postgres_account_repo_save_failed: %w", err)
	}

	return &stored, nil
}

/*
FindByUsernameOrEmail retrieves the account matching either identifier.

Parameters:
  - context: context.Context
  - username: string ("" to skip)
  - email: string ("" to skip)

Returns:
  - *Account: hydrated entity
  - error: ErrMissingQueryParameter, ErrAccountNotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByUsernameOrEmail(context context.Context, username, email string) (*Account, error) {
	if username == "" && email == "" {
		return nil, ErrMissingQueryParameter
	}

	found, err := repository.scanOne(context, findByUsernameOrEmailQuery, username, email)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_find_failed: %w", err)
	}
	return found, nil
}

/*
FindByID retrieves an account by its primary key.

Returns:
  - error: ErrAccountNotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id int64) (*Account, error) {
	found, err := repository.scanOne(context, findByIDQuery, id)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}
	return found, nil
}

func (repository *PostgresAccountRepository) scanOne(context context.Context, query string, arguments ...any) (*Account, error) {
	found := &Account{}
	err := repository.db.QueryRow(context, query, arguments...).Scan(
		&found.ID,
		&found.Username,
		&found.Email,
		&found.PasswordHash,
		&found.CreatedAt,
	)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return found, nil
}
