// Package webhook verifies signed webhook deliveries and decodes run
// requests from them. Signatures follow the Standard Webhooks scheme:
// HMAC-SHA256 over "<id>.<timestamp>.<body>".
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Header names.
const (
	HeaderID        = "webhook-id"
	HeaderTimestamp = "webhook-timestamp"
	HeaderSignature = "webhook-signature"
)

// Tolerance is the largest accepted difference between the timestamp of a
// delivery and the current time.
const Tolerance = 5 * time.Minute

const (
	secretPrefix    = "whsec_"
	signatureScheme = "v1"
)

// Message types that start a run.
const (
	TypeRun         = "oligocraft.run"
	TypeInteraction = "v2.canvas.userInteracted"
)

var (
	// ErrNoSecret means verification is not configured.
	ErrNoSecret = errors.New("webhook secret is not configured")

	// ErrSignature means the delivery is not signed with the secret.
	ErrSignature = errors.New("webhook signature does not match")

	// ErrTimestamp means the delivery is too old or from the future.
	ErrTimestamp = errors.New("webhook timestamp is out of tolerance")
)

// Headers are the signature headers of a delivery.
type Headers struct {
	ID        string
	Timestamp string
	Signature string
}

func key(secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if !strings.HasPrefix(secret, secretPrefix) {
		return []byte(secret), nil
	}
	res, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return nil, fmt.Errorf("webhook secret is not base64: %w", err)
	}
	return res, nil
}

func sign(k []byte, id, ts string, body []byte) string {
	mac := hmac.New(sha256.New, k)
	mac.Write([]byte(id + "." + ts + "."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Sign returns a signature header value for a delivery.
func Sign(secret, id string, ts time.Time, body []byte) (string, error) {
	k, err := key(secret)
	if err != nil {
		return "", err
	}
	return signatureScheme + "," + sign(k, id, strconv.FormatInt(ts.Unix(), 10), body), nil
}

// Verify checks the signature and the timestamp of a delivery. The header
// may carry several space-separated signatures, one match is enough.
func Verify(secret string, h Headers, body []byte, now time.Time) error {
	k, err := key(secret)
	if err != nil {
		return err
	}
	if h.ID == "" || h.Timestamp == "" || h.Signature == "" {
		return ErrSignature
	}

	sec, err := strconv.ParseInt(h.Timestamp, 10, 64)
	if err != nil {
		return ErrTimestamp
	}
	diff := now.Sub(time.Unix(sec, 0))
	if math.Abs(float64(diff)) > float64(Tolerance) {
		return ErrTimestamp
	}

	want := sign(k, h.ID, h.Timestamp, body)
	for _, s := range strings.Fields(h.Signature) {
		scheme, sig, ok := strings.Cut(s, ",")
		if !ok || scheme != signatureScheme {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(want)) {
			return nil
		}
	}
	return ErrSignature
}

// Message is the payload of a delivery.
type Message struct {
	Type     string   `json:"type"`
	FileIDs  []string `json:"fileIds"`
	PlateIDs []string `json:"plateIds"`
	Notebook string   `json:"notebook"`
}

// Envelope wraps a message.
type Envelope struct {
	Message Message `json:"message"`
}

// Runs tells whether a message starts a run.
func (m Message) Runs() bool {
	return m.Type == TypeRun || m.Type == TypeInteraction
}
