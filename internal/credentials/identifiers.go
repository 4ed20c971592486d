package credentials

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// inviteCodeLength keeps codes short enough to read over the phone
const inviteCodeLength = 6

// inviteCodeChars is the upper-case base-36 alphabet used for invite codes
const inviteCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateID returns a new collision-resistant opaque identifier
func GenerateID() string {
	return uuid.New().String()
}

// GenerateInviteCode generates a random human-shareable invite code.
// Codes are not guaranteed unique; callers that require uniqueness must
// check against existing codes and retry.
func GenerateInviteCode() (string, error) {
	code := make([]byte, inviteCodeLength)
	for i := 0; i < inviteCodeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeChars))))
		if err != nil {
			return "", err
		}
		code[i] = inviteCodeChars[num.Int64()]
	}
	return string(code), nil
}
