// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeEmail trims and NFC-normalizes an email address so that lookups
// and the unique constraint agree on equality.
//
// The domain is lower-cased. The local part only has its ASCII letters
// lower-cased; other characters are kept as typed because the code is mailed
// to this exact address.
func NormalizeEmail(email string) string {
	email = norm.NFC.String(strings.TrimSpace(email))

	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return lowerASCII(email)
	}
	return lowerASCII(email[:at]) + "@" + cases.Lower(language.Und).String(email[at+1:])
}

// NormalizeUsername trims and NFC-normalizes a username. Case is preserved.
func NormalizeUsername(username string) string {
	return norm.NFC.String(strings.TrimSpace(username))
}

func lowerASCII(value string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, value)
}
