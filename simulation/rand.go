package simulation

import (
	"fmt"
	"math/rand"
)

// randomInt63 generates a random int64 between 0 and maxVal.
func randomInt63(r *rand.Rand, maxVal int64) (result int64) {
	if maxVal == 0 {
		return 0
	}
	return r.Int63n(maxVal)
}

// randomBips returns a fee between 0 and maxBips inclusive.
func randomBips(r *rand.Rand, maxBips uint32) uint32 {
	return uint32(r.Int63n(int64(maxBips) + 1))
}

// randomDenom returns a lowercase denom made of prefix and a random suffix.
func randomDenom(r *rand.Rand, prefix string) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, 4)
	for i := range b {
		b[i] = letters[r.Intn(len(letters))]
	}
	return fmt.Sprintf("%s%s", prefix, b)
}
