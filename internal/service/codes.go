package service

import (
	"math/rand"
	"strings"

	"rook-server/internal/rook"
)

// codeAlphabet drops I and O so a code read aloud can't be confused with
// the digits 1 and 0.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeLength   = 6
)

func GenerateGameCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(code)
}

func ValidateGameCode(code string) error {
	if len(code) != codeLength {
		return rook.NewError(rook.CodeValidation, "game code must be exactly %d characters", codeLength)
	}
	for _, ch := range code {
		if !strings.ContainsRune(codeAlphabet, ch) {
			return rook.NewError(rook.CodeValidation, "game code may only contain the letters %s", codeAlphabet)
		}
	}
	return nil
}

func NormalizeGameCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
