package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// signDelivery computes a valid "v1,<base64>" signature entry for the
// given delivery, the way the provider does.
func signDelivery(t *testing.T, secret, msgID, timestamp string, body []byte) string {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString(secret[len(secretPrefix):])
	if err != nil {
		t.Fatalf("test secret is not valid base64: %v", err)
	}
	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func testSecret() string {
	return secretPrefix + base64.StdEncoding.EncodeToString([]byte("test-signing-key"))
}

func newTestVerifier(secret string) *Verifier {
	v := NewVerifier(secret)
	v.now = func() time.Time { return testNow }
	return v
}

func deliveryHeaders(msgID, timestamp, signature string) http.Header {
	h := http.Header{}
	if msgID != "" {
		h.Set(HeaderMessageID, msgID)
	}
	if timestamp != "" {
		h.Set(HeaderTimestamp, timestamp)
	}
	if signature != "" {
		h.Set(HeaderSignature, signature)
	}
	return h
}

func TestVerify(t *testing.T) {
	secret := testSecret()
	body := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	msgID := "msg_p5jXN8AQM9LWM0D4loKWxJek"
	timestamp := strconv.FormatInt(testNow.Unix(), 10)
	goodSig := signDelivery(t, secret, msgID, timestamp, body)

	tests := []struct {
		name    string
		secret  string
		body    []byte
		headers http.Header
		wantErr error
	}{
		{
			name:    "valid signature",
			secret:  secret,
			body:    body,
			headers: deliveryHeaders(msgID, timestamp, goodSig),
		},
		{
			name:    "valid among rotated candidates",
			secret:  secret,
			body:    body,
			headers: deliveryHeaders(msgID, timestamp, "v1,aW52YWxpZA== "+goodSig),
		},
		{
			name:    "tampered body",
			secret:  secret,
			body:    []byte(`{"type":"user.created","data":{"id":"user_2"}}`),
			headers: deliveryHeaders(msgID, timestamp, goodSig),
			wantErr: ErrSignatureInvalid,
		},
		{
			name:    "tampered message id",
			secret:  secret,
			body:    body,
			headers: deliveryHeaders("msg_other", timestamp, goodSig),
			wantErr: ErrSignatureInvalid,
		},
		{
			name:    "wrong secret",
			secret:  secretPrefix + base64.StdEncoding.EncodeToString([]byte("other-signing-key")),
			body:    body,
			headers: deliveryHeaders(msgID, timestamp, goodSig),
			wantErr: ErrSignatureInvalid,
		},
		{
			name:    "missing message id header",
			secret:  secret,
			body:    body,
			headers: deliveryHeaders("", timestamp, goodSig),
			wantErr: ErrMissingHeader,
		},
		{
			name:    "missing timestamp header",
			secret:  secret,
			body:    body,
			headers: deliveryHeaders(msgID, "", goodSig),
			wantErr: ErrMissingHeader,
		},
		{
			name:    "missing signature header",
			secret:  secret,
			body:    body,
			headers: deliveryHeaders(msgID, timestamp, ""),
			wantErr: ErrMissingHeader,
		},
		{
			name:    "malformed timestamp",
			secret:  secret,
			body:    body,
			headers: deliveryHeaders(msgID, "not-a-number", goodSig),
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "signature header without v1 entries",
			secret:  secret,
			body:    body,
			headers: deliveryHeaders(msgID, timestamp, "v2,AAAA"),
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "empty secret",
			secret:  "",
			body:    body,
			headers: deliveryHeaders(msgID, timestamp, goodSig),
			wantErr: ErrConfiguration,
		},
		{
			name:    "secret not base64",
			secret:  secretPrefix + "!!!not-base64!!!",
			body:    body,
			headers: deliveryHeaders(msgID, timestamp, goodSig),
			wantErr: ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestVerifier(tt.secret)
			err := v.Verify(tt.headers, tt.body)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Verify() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_SingleByteMutation(t *testing.T) {
	secret := testSecret()
	body := []byte(`{"type":"user.deleted","data":{"id":"user_1"}}`)
	msgID := "msg_1"
	timestamp := strconv.FormatInt(testNow.Unix(), 10)
	sig := signDelivery(t, secret, msgID, timestamp, body)
	v := newTestVerifier(secret)

	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		if err := v.Verify(deliveryHeaders(msgID, timestamp, sig), mutated); !errors.Is(err, ErrSignatureInvalid) {
			t.Fatalf("byte %d: Verify() error = %v, want ErrSignatureInvalid", i, err)
		}
	}
}

func TestVerify_Freshness(t *testing.T) {
	secret := testSecret()
	body := []byte(`{}`)
	msgID := "msg_1"
	v := newTestVerifier(secret)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "within window", at: testNow.Add(-4 * time.Minute)},
		{name: "future within window", at: testNow.Add(4 * time.Minute)},
		{name: "too old", at: testNow.Add(-6 * time.Minute), wantErr: ErrStaleRequest},
		{name: "too far in future", at: testNow.Add(6 * time.Minute), wantErr: ErrStaleRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timestamp := strconv.FormatInt(tt.at.Unix(), 10)
			// Signature is correct for the stated timestamp; only
			// freshness decides the outcome.
			sig := signDelivery(t, secret, msgID, timestamp, body)
			err := v.Verify(deliveryHeaders(msgID, timestamp, sig), body)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Verify() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
