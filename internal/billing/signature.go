package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader carries "t=<unix>,v1=<hex>" where v1 is the HMAC-SHA256 of
// "<t>.<body>" under the shared webhook secret.
const SignatureHeader = "X-Payment-Signature"

// SignatureTolerance bounds the age of a signed delivery.
const SignatureTolerance = 5 * time.Minute

var (
	ErrMissingSignature = errors.New("missing signature")
	ErrMalformedHeader  = errors.New("malformed signature header")
	ErrStaleSignature   = errors.New("signature timestamp outside tolerance")
	ErrSignatureInvalid = errors.New("signature mismatch")
)

// Sign returns the header value for body signed at t.
func Sign(secret string, t time.Time, body []byte) string {
	ts := strconv.FormatInt(t.Unix(), 10)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac(secret, ts, body))
}

// VerifySignature checks header against body. Any v1 entry may match so the
// provider can roll secrets.
func VerifySignature(secret, header string, body []byte, now time.Time) error {
	if header == "" {
		return ErrMissingSignature
	}

	var (
		ts         string
		signatures [][]byte
	)
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return ErrMalformedHeader
		}
		switch key {
		case "t":
			ts = value
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				return ErrMalformedHeader
			}
			signatures = append(signatures, sig)
		}
	}
	if ts == "" || len(signatures) == 0 {
		return ErrMalformedHeader
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrMalformedHeader
	}
	age := now.Sub(time.Unix(unix, 0))
	if age > SignatureTolerance || age < -SignatureTolerance {
		return ErrStaleSignature
	}

	expected := mac(secret, ts, body)
	for _, sig := range signatures {
		if hmac.Equal(sig, expected) {
			return nil
		}
	}
	return ErrSignatureInvalid
}

func mac(secret, ts string, body []byte) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(ts))
	h.Write([]byte("."))
	h.Write(body)
	return h.Sum(nil)
}
