package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"

	// SlugAlphabet is the character set used for slug suffixes.
	SlugAlphabet = lowercaseChars + numberChars
)

var ErrEmptyAlphabet = errors.New("alphabet must not be empty")

// RandomString returns n characters drawn uniformly from alphabet using crypto/rand.
func RandomString(n int, alphabet string) (string, error) {
	if alphabet == "" {
		return "", ErrEmptyAlphabet
	}
	if n <= 0 {
		return "", nil
	}

	result := make([]byte, n)
	for i := range result {
		ch, err := randChar(alphabet)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	return string(result), nil
}

// randChar picks a random character from charset using crypto/rand.
func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}
