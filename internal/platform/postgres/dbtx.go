// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the query surface shared by [*pgxpool.Pool], [pgx.Tx] and [*pgx.Conn].
//
// Repositories depend on DBTX instead of the pool so they can run inside a
// transaction or against a fake in tests.
type DBTX interface {
	Exec(context context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(context context.Context, sql string, arguments ...any) pgx.Row
}

var (
	_ DBTX = (*pgxpool.Pool)(nil)
	_ DBTX = (pgx.Tx)(nil)
)
