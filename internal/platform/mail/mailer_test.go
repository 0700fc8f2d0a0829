// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"github.com/taibuivan/signup/internal/platform/mail"
)

type recordingSender struct {
	messages []*gomail.Msg
	err      error
	closed   bool
}

func (s *recordingSender) DialAndSendWithContext(_ context.Context, messages ...*gomail.Msg) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, messages...)
	return nil
}

func (s *recordingSender) Close() error {
	s.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestBuildVerificationMessage renders headers and body of the verification email.
*/
func TestBuildVerificationMessage(t *testing.T) {
	message, err := mail.BuildVerificationMessage("no-reply@example.com", "alice@example.com", "123456")
	require.NoError(t, err)

	var buffer bytes.Buffer
	_, err = message.WriteTo(&buffer)
	require.NoError(t, err)

	rendered := buffer.String()
	assert.Contains(t, rendered, "Subject: Email Verification Code")
	assert.Contains(t, rendered, "alice@example.com")
	assert.Contains(t, rendered, "Your verification code is: 123456")
}

/*
TestBuildVerificationMessage_InvalidAddress rejects malformed recipients.
*/
func TestBuildVerificationMessage_InvalidAddress(t *testing.T) {
	_, err := mail.BuildVerificationMessage("no-reply@example.com", "not an address", "123456")
	assert.Error(t, err)
}

/*
TestMailer_SendVerificationCode hands one message to the SMTP sender.
*/
func TestMailer_SendVerificationCode(t *testing.T) {
	sender := &recordingSender{}
	mailer := mail.NewMailerWithSender(sender, "no-reply@example.com", discardLogger())

	require.NoError(t, mailer.SendVerificationCode(context.Background(), "bob@example.com", "987654"))
	require.Len(t, sender.messages, 1)

	require.NoError(t, mailer.Close())
	assert.True(t, sender.closed)
}

/*
TestMailer_SendFailure surfaces SMTP errors to the caller.
*/
func TestMailer_SendFailure(t *testing.T) {
	boom := errors.New("smtp unavailable")
	mailer := mail.NewMailerWithSender(&recordingSender{err: boom}, "no-reply@example.com", discardLogger())

	err := mailer.SendVerificationCode(context.Background(), "bob@example.com", "987654")
	assert.ErrorIs(t, err, boom)
}
