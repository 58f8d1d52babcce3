package cli

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/dmitrijs2005/scuttlebutt/internal/shared"
)

// hashPassword returns the hex SHA-256 of password and wipes both the
// password and the intermediate digest.
func hashPassword(password []byte) string {
	sum := sha256.Sum256(password)
	defer shared.WipeByteArray(sum[:])
	defer shared.WipeByteArray(password)
	return hex.EncodeToString(sum[:])
}
