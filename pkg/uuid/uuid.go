// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the opaque identifiers used for token IDs (jti) and
request correlation.

Version 7 values are used so identifiers sort by creation time in logs.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
// It falls back to a random v4 value if the clock source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
