package referral

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	codeLength  = 6
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// rewardCodePrefix makes milestone coupons recognizable at a glance.
	rewardCodePrefix = "RF"

	// maxCodeAttempts bounds the collision-retry loop. With 36^6 possible
	// codes a handful of attempts is plenty; hitting the bound means the
	// store is in a pathological state and the caller should hear about it.
	maxCodeAttempts = 10
)

// generateCode returns a random 6-character uppercase-alphanumeric code.
func generateCode() (string, error) {
	max := big.NewInt(int64(len(codeCharset)))

	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Join(ErrCodeGeneration, err)
		}
		buf[i] = codeCharset[n.Int64()]
	}
	return string(buf), nil
}
