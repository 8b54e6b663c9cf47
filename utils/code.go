package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// RandomNumericCode generates a random code of the given length made up of
// decimal digits, e.g. "042913" for length 6.
func RandomNumericCode(length int) (string, error) {
	var sb strings.Builder
	sb.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}

	return sb.String(), nil
}
