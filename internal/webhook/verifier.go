package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Svix-style webhook headers. All three are required on every delivery.
const (
	HeaderMessageID = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

// DefaultTolerance is the allowed skew between the delivery timestamp and
// the local clock. Deliveries outside the window are rejected as replays.
const DefaultTolerance = 5 * time.Minute

// secretPrefix is stripped from signing secrets as issued by the provider.
const secretPrefix = "whsec_"

// Verification failure classes. Externally every one of these maps to the
// same generic 400 response; internally they stay distinct for logging.
var (
	ErrConfiguration    = errors.New("webhook signing secret not configured")
	ErrMissingHeader    = errors.New("webhook header missing")
	ErrMalformedHeader  = errors.New("webhook header malformed")
	ErrSignatureInvalid = errors.New("webhook signature invalid")
	ErrStaleRequest     = errors.New("webhook timestamp outside tolerance")
)

// Verifier authenticates webhook deliveries against a shared signing secret.
//
// The signed content is "{svix-id}.{svix-timestamp}.{body}" and the
// expected signature is base64(HMAC-SHA256) under the base64-decoded
// secret. The signature header may carry several space-separated
// "v1,<base64>" candidates (key rotation); any one match passes.
type Verifier struct {
	secret    string
	tolerance time.Duration

	// now is replaceable for tests.
	now func() time.Time
}

// NewVerifier creates a Verifier for the given signing secret.
// An empty secret is allowed here; Verify reports it as ErrConfiguration
// per request so a misconfigured process serves 400s instead of crashing.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret:    secret,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
}

// Verify checks the authenticity and freshness of a delivery.
// It is a pure check: no side effects beyond the returned error.
func (v *Verifier) Verify(headers http.Header, body []byte) error {
	if v.secret == "" {
		return ErrConfiguration
	}

	msgID := headers.Get(HeaderMessageID)
	timestamp := headers.Get(HeaderTimestamp)
	signature := headers.Get(HeaderSignature)
	if msgID == "" || timestamp == "" || signature == "" {
		return ErrMissingHeader
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(v.secret, secretPrefix))
	if err != nil {
		return fmt.Errorf("%w: secret is not valid base64", ErrConfiguration)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: timestamp %q is not unix seconds", ErrMalformedHeader, timestamp)
	}

	if skew := v.now().Sub(time.Unix(ts, 0)); skew > v.tolerance || skew < -v.tolerance {
		return ErrStaleRequest
	}

	expected := computeSignature(key, msgID, timestamp, body)

	candidates, err := parseSignatureHeader(signature)
	if err != nil {
		return err
	}
	for _, candidate := range candidates {
		if subtle.ConstantTimeCompare(expected, candidate) == 1 {
			return nil
		}
	}
	return ErrSignatureInvalid
}

// computeSignature computes the raw HMAC-SHA256 over the signed content
// "{id}.{timestamp}.{body}". The signature covers the exact body bytes;
// any re-serialization upstream invalidates it.
func computeSignature(key []byte, msgID, timestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(body)
	return mac.Sum(nil)
}

// parseSignatureHeader extracts the decoded v1 signature candidates from a
// space-separated "v1,<base64>" list. Entries with other version tags are
// ignored; undecodable v1 entries are skipped. A header with no usable
// entry at all is malformed.
func parseSignatureHeader(header string) ([][]byte, error) {
	var candidates [][]byte
	for _, entry := range strings.Fields(header) {
		version, sig, found := strings.Cut(entry, ",")
		if !found || version != "v1" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(sig)
		if err != nil {
			continue
		}
		candidates = append(candidates, decoded)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no v1 signature entries", ErrMalformedHeader)
	}
	return candidates, nil
}
