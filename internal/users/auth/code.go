// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "math/rand/v2"

// CodeGenerator produces verification codes.
type CodeGenerator interface {
	Generate() string
}

// CodeGeneratorFunc adapts a function to [CodeGenerator].
type CodeGeneratorFunc func() string

// Generate calls f.
func (f CodeGeneratorFunc) Generate() string { return f() }

// RandomCodes draws each digit independently and uniformly from 1-9.
// Zero is excluded so codes never start with or contain a 0.
type RandomCodes struct{}

// Generate returns a fresh [VerificationCodeLength]-digit code.
func (RandomCodes) Generate() string {
	var digits [VerificationCodeLength]byte
	for i := range digits {
		digits[i] = byte('1' + rand.IntN(9))
	}
	return string(digits[:])
}
