package service

import (
	"crypto/rand"
	"io"
	"math/big"
)

const (
	// CodeLength is the number of characters in an election code
	CodeLength = 7

	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"
)

// CodeGenerator produces candidate election codes
type CodeGenerator func() (string, error)

// RandomCodes returns a generator drawing uniformly from the code alphabet using src.
// A nil src means crypto/rand.
func RandomCodes(src io.Reader) CodeGenerator {
	if src == nil {
		src = rand.Reader
	}
	max := big.NewInt(int64(len(codeAlphabet)))

	return func() (string, error) {
		code := make([]byte, CodeLength)
		for i := range code {
			n, err := rand.Int(src, max)
			if err != nil {
				return "", err
			}
			code[i] = codeAlphabet[n.Int64()]
		}
		return string(code), nil
	}
}
