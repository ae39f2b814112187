package slackhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func signBody(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":"))
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureValid(t *testing.T) {
	now := time.Unix(1750000000, 0)
	body := []byte("token=x&text=https%3A%2F%2Fyoutu.be%2Fabc123DEF45")
	ts := strconv.FormatInt(now.Unix(), 10)
	sig := signBody("secret", ts, body)

	assert.True(t, VerifySignature(body, sig, ts, "secret", now))
}

func TestVerifySignatureWindow(t *testing.T) {
	now := time.Unix(1750000000, 0)
	body := []byte("payload")

	cases := []struct {
		name  string
		skew  time.Duration
		valid bool
	}{
		{"exactly at window edge", 300 * time.Second, true},
		{"just past window", 301 * time.Second, false},
		{"fresh", 0, true},
		{"slightly old", 299 * time.Second, true},
		{"future within window", -200 * time.Second, true},
		{"future past window", -301 * time.Second, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := strconv.FormatInt(now.Add(-tc.skew).Unix(), 10)
			sig := signBody("secret", ts, body)
			assert.Equal(t, tc.valid, VerifySignature(body, sig, ts, "secret", now))
		})
	}
}

func TestVerifySignatureTamperedBody(t *testing.T) {
	now := time.Unix(1750000000, 0)
	body := []byte("text=https://youtu.be/abc123DEF45")
	ts := strconv.FormatInt(now.Unix(), 10)
	sig := signBody("secret", ts, body)

	tampered := append([]byte(nil), body...)
	tampered[0] ^= 0x01
	assert.False(t, VerifySignature(tampered, sig, ts, "secret", now))
}

func TestVerifySignatureRejects(t *testing.T) {
	now := time.Unix(1750000000, 0)
	body := []byte("payload")
	ts := strconv.FormatInt(now.Unix(), 10)
	sig := signBody("secret", ts, body)

	assert.False(t, VerifySignature(body, sig, ts, "", now), "empty secret")
	assert.False(t, VerifySignature(body, "", ts, "secret", now), "missing signature")
	assert.False(t, VerifySignature(body, sig, "", "secret", now), "missing timestamp")
	assert.False(t, VerifySignature(body, sig, "not-a-number", "secret", now), "malformed timestamp")
	assert.False(t, VerifySignature(body, sig, ts, "other-secret", now), "wrong secret")
	assert.False(t, VerifySignature(body, "v0=deadbeef", ts, "secret", now), "wrong signature")
}
