package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const SignatureHeader = "X-Sync-Signature"

// Sign returns hex(HMAC-SHA256(body)).
func Sign(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(rawBody []byte, signature string, secret string) bool {
	if secret == "" {
		return false
	}
	expected := Sign(rawBody, secret)
	signature = strings.ToLower(strings.TrimSpace(signature))
	return hmac.Equal([]byte(expected), []byte(signature))
}
