// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/taibuivan/signup/internal/users/auth"
)

// memoryAccounts is an in-memory AccountStore enforcing the same unique constraints as Postgres.
type memoryAccounts struct {
	mu       sync.Mutex
	nextID   int64
	accounts []*auth.Account
	saveErr  error
	saves    int
}

func (store *memoryAccounts) Save(_ context.Context, account *auth.Account) (*auth.Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.saves++
	if store.saveErr != nil {
		return nil, store.saveErr
	}

	for _, existing := range store.accounts {
		if existing.Email == account.Email {
			return nil, auth.ErrDuplicateEmail
		}
		if existing.Username == account.Username {
			return nil, auth.ErrDuplicateUsername
		}
	}

	store.nextID++
	stored := *account
	stored.ID = store.nextID
	stored.CreatedAt = time.Now()
	store.accounts = append(store.accounts, &stored)

	result := stored
	return &result, nil
}

func (store *memoryAccounts) FindByUsernameOrEmail(_ context.Context, username, email string) (*auth.Account, error) {
	if username == "" && email == "" {
		return nil, auth.ErrMissingQueryParameter
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	for _, existing := range store.accounts {
		if (username != "" && existing.Username == username) || (email != "" && existing.Email == email) {
			found := *existing
			return &found, nil
		}
	}
	return nil, auth.ErrAccountNotFound
}

func (store *memoryAccounts) FindByID(_ context.Context, id int64) (*auth.Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, existing := range store.accounts {
		if existing.ID == id {
			found := *existing
			return &found, nil
		}
	}
	return nil, auth.ErrAccountNotFound
}

func (store *memoryAccounts) count() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.accounts)
}

func (store *memoryAccounts) seed(username, email string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.nextID++
	store.accounts = append(store.accounts, &auth.Account{ID: store.nextID, Username: username, Email: email, PasswordHash: "x"})
}

func (store *memoryAccounts) failSaves(err error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.saveErr = err
}

// recordingNotifier remembers the last code sent to each address.
type recordingNotifier struct {
	mu    sync.Mutex
	codes map[string]string
	sent  int
	err   error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{codes: map[string]string{}}
}

func (notifier *recordingNotifier) SendVerificationCode(_ context.Context, address, code string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	if notifier.err != nil {
		return notifier.err
	}
	notifier.sent++
	notifier.codes[address] = code
	return nil
}

func (notifier *recordingNotifier) codeFor(address string) string {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return notifier.codes[address]
}

func (notifier *recordingNotifier) sentCount() int {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return notifier.sent
}

var errDatabaseDown = errors.New("database unavailable")
