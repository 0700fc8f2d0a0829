// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables, columns and constraints of the SQL schema
// in data/migrations so queries never spell them inline.
package schema

import "strings"

// UserAccountTable describes the 'users.account' table.
type UserAccountTable struct {
	Table        string
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    string

	// Unique constraint names, used to classify unique_violation errors.
	UsernameKey string
	EmailKey    string
}

// UserAccount is the schema definition for users.account.
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Username:     "username",
	Email:        "email",
	PasswordHash: "passwordhash",
	CreatedAt:    "createdat",
	UsernameKey:  "account_username_key",
	EmailKey:     "account_email_key",
}

// Columns returns every column in SELECT order.
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.PasswordHash, t.CreatedAt}
}

// SelectList returns [UserAccountTable.Columns] joined for a SELECT clause.
func (t UserAccountTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
