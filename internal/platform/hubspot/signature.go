package hubspot

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	HeaderSignatureV3 = "X-HubSpot-Signature-v3"
	HeaderTimestamp   = "X-HubSpot-Request-Timestamp"

	// MaxSignatureAge is how old a signed request may be before it is rejected.
	MaxSignatureAge = 5 * time.Minute
)

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrStaleSignature   = errors.New("webhook timestamp outside allowed window")
	ErrBadSignature     = errors.New("webhook signature mismatch")
)

// SignV3 computes the v3 request signature: base64(HMAC-SHA256(secret, method+uri+body+timestamp)).
func SignV3(secret, method, uri string, body []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.ToUpper(method)))
	mac.Write([]byte(uri))
	mac.Write(body)
	mac.Write([]byte(timestamp))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyV3 checks a v3 signature and its millisecond timestamp against now.
func VerifyV3(secret, method, uri string, body []byte, timestamp, signature string, now time.Time) error {
	timestamp = strings.TrimSpace(timestamp)
	signature = strings.TrimSpace(signature)
	if timestamp == "" || signature == "" {
		return ErrMissingSignature
	}
	ms, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrStaleSignature
	}
	age := now.Sub(time.UnixMilli(ms))
	if age > MaxSignatureAge || age < -MaxSignatureAge {
		return ErrStaleSignature
	}
	want := SignV3(secret, method, uri, body, timestamp)
	if !hmac.Equal([]byte(want), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}
