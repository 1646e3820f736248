package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature computes the hex-encoded HMAC-SHA256 over "orderID|paymentID"
// with the gateway shared secret. This is the signature scheme the
// gateway attaches to payment confirmations.
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a supplied confirmation signature. The
// comparison is constant-time so a forger learns nothing from response
// timing.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	expected := Signature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
