package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

func GetHMac256(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHMac256 compares in constant time.
func VerifyHMac256(data []byte, secret, signature string) bool {
	expected := GetHMac256(data, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
