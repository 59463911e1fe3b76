package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ong-shelter-api/internal/domain/donations"
)

var (
	ErrBadSignature = errors.New("stripe webhook signature verification failed")
)

// Tolerancia estándar de Stripe contra replay.
const signatureTolerance = 5 * time.Minute

// VerifyWebhook valida el header Stripe-Signature (formato "t=...,v1=...")
// contra HMAC-SHA256(secret, "<t>.<payload>") y decodifica el evento.
func (c *Client) VerifyWebhook(payload []byte, signature string) (donations.WebhookEvent, error) {
	if c == nil || c.webhookSecret == "" {
		return donations.WebhookEvent{}, ErrNotConfigured
	}

	ts, sigs, err := parseSignatureHeader(signature)
	if err != nil {
		return donations.WebhookEvent{}, err
	}

	if d := time.Since(time.Unix(ts, 0)); d > signatureTolerance || d < -signatureTolerance {
		return donations.WebhookEvent{}, fmt.Errorf("%w: timestamp outside tolerance", ErrBadSignature)
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	valid := false
	for _, s := range sigs {
		decoded, err := hex.DecodeString(s)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			valid = true
			break
		}
	}
	if !valid {
		return donations.WebhookEvent{}, ErrBadSignature
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID string `json:"id"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return donations.WebhookEvent{}, fmt.Errorf("%w: invalid event payload", ErrBadSignature)
	}

	return donations.WebhookEvent{
		Type:      event.Type,
		SessionID: event.Data.Object.ID,
	}, nil
}

func parseSignatureHeader(header string) (int64, []string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0, nil, fmt.Errorf("%w: missing signature header", ErrBadSignature)
	}

	var ts int64
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad timestamp", ErrBadSignature)
			}
			ts = n
		case "v1":
			sigs = append(sigs, v)
		}
	}

	if ts == 0 || len(sigs) == 0 {
		return 0, nil, fmt.Errorf("%w: incomplete signature header", ErrBadSignature)
	}
	return ts, sigs, nil
}
