// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"log/slog"
)

// NewMailerWithSender exposes the sender seam to external tests.
func NewMailerWithSender(sender sender, from string, logger *slog.Logger) *Mailer {
	return newMailer(sender, from, logger)
}
