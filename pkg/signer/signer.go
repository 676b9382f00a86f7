// Package signer issues and verifies the short-lived HMAC tokens that gate
// read access to private card artwork. Tokens are stateless: validity is
// recomputed from (objectKey, expiry), never looked up.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"time"
)

// Token binds an object key to an expiry instant (epoch milliseconds).
// Replayable until expiry; the TTL, not single-use bookkeeping, is the
// access boundary.
type Token struct {
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires"`
	Signature string `json:"token"`
}

// Signer computes HMAC-SHA256 signatures with a process-wide secret loaded
// once at startup
type Signer struct {
	secret []byte
	now    func() time.Time
}

// New creates a Signer around the configured secret
func New(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// Issue mints a token for objectKey valid for ttl from now
func (s *Signer) Issue(objectKey string, ttl time.Duration) Token {
	expires := s.now().Add(ttl).UnixMilli()
	return Token{
		Key:       objectKey,
		ExpiresAt: expires,
		Signature: s.sign(objectKey, expires),
	}
}

// Verify reports whether sig authenticates objectKey until expiresAt.
// Fails closed: expired tokens are rejected even with a valid signature,
// and the signature comparison is constant-time.
func (s *Signer) Verify(objectKey string, expiresAt int64, sig string) bool {
	if s.now().UnixMilli() > expiresAt {
		return false
	}
	expected := s.sign(objectKey, expiresAt)
	return hmac.Equal([]byte(expected), []byte(sig))
}

// SignedQuery builds the query string consumed by the media endpoint:
// key=<urlencoded objectKey>&expires=<epoch-ms>&token=<hex hmac>
func (s *Signer) SignedQuery(objectKey string, ttl time.Duration) string {
	t := s.Issue(objectKey, ttl)
	q := url.Values{}
	q.Set("key", t.Key)
	q.Set("expires", strconv.FormatInt(t.ExpiresAt, 10))
	q.Set("token", t.Signature)
	return q.Encode()
}

func (s *Signer) sign(objectKey string, expiresAt int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(objectKey + ":" + strconv.FormatInt(expiresAt, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
