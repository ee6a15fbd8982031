package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignaturePrefix is the algorithm tag GitHub puts before the hex digest in
// X-Hub-Signature-256.
const SignaturePrefix = "sha256="

// ComputeHMAC computes the HMAC-SHA256 of body keyed with secret.
func ComputeHMAC(secret, body []byte) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write(body)
	return h.Sum(nil)
}

// Signature renders the signature header value for body: "sha256=" followed
// by 64 lowercase hex chars.
func Signature(secret string, body []byte) string {
	return SignaturePrefix + hex.EncodeToString(ComputeHMAC([]byte(secret), body))
}

// VerifySignature compares the claimed signature against the one computed
// with secret. Case-insensitive; constant-time over equal-length inputs.
func VerifySignature(body []byte, claimed, secret string) bool {
	expected := Signature(secret, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(claimed))))
}

// Verify accepts body when any secret produces the claimed signature.
//
// An empty secret set accepts unconditionally. That is the unauthenticated
// mode for projects that have not provisioned a webhook secret yet, and
// callers log it.
func Verify(body []byte, claimed string, secrets []string) error {
	if len(secrets) == 0 {
		return nil
	}
	for _, secret := range secrets {
		if VerifySignature(body, claimed, secret) {
			return nil
		}
	}
	return ErrNoValidSecret
}
