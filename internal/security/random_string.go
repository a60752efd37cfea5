package security

import (
	"crypto/rand"
	"errors"
)

var (
	errNegativeLength   = errors.New("length must be non-negative")
	errAlphabetSize     = errors.New("alphabet must hold between 1 and 256 characters")
	errNonASCIIAlphabet = errors.New("alphabet must be ASCII")
)

// RandomString returns a uniformly distributed string drawn from an ASCII
// alphabet using crypto/rand. Bytes at or above the largest multiple of the
// alphabet size are rejected so no character is favoured.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if len(alphabet) == 0 || len(alphabet) > 256 {
		return "", errAlphabetSize
	}
	for index := 0; index < len(alphabet); index++ {
		if alphabet[index] >= 0x80 {
			return "", errNonASCIIAlphabet
		}
	}

	size := len(alphabet)
	limit := 256 - 256%size
	value := make([]byte, 0, length)
	buffer := make([]byte, length+length/2+1)
	for len(value) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}
		for _, b := range buffer {
			if int(b) >= limit {
				continue
			}
			value = append(value, alphabet[int(b)%size])
			if len(value) == length {
				break
			}
		}
	}
	return string(value), nil
}
