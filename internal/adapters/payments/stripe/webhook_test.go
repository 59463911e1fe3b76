package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"
)

const testWebhookSecret = "whsec_test"

func testClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(Config{
		SecretKey:     "sk_test",
		WebhookSecret: testWebhookSecret,
	}, nil)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return c
}

func sign(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhook_ValidSignature(t *testing.T) {
	c := testClient(t)

	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_test_123"}}}`)
	header := sign(testWebhookSecret, time.Now().Unix(), payload)

	ev, err := c.VerifyWebhook(payload, header)
	if err != nil {
		t.Fatalf("VerifyWebhook error: %v", err)
	}
	if ev.Type != "checkout.session.completed" {
		t.Fatalf("unexpected event type %q", ev.Type)
	}
	if ev.SessionID != "cs_test_123" {
		t.Fatalf("unexpected session id %q", ev.SessionID)
	}
}

func TestVerifyWebhook_WrongSecret(t *testing.T) {
	c := testClient(t)

	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)
	header := sign("whsec_other", time.Now().Unix(), payload)

	if _, err := c.VerifyWebhook(payload, header); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerifyWebhook_TamperedPayload(t *testing.T) {
	c := testClient(t)

	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)
	header := sign(testWebhookSecret, time.Now().Unix(), payload)

	tampered := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_2"}}}`)
	if _, err := c.VerifyWebhook(tampered, header); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature for tampered payload, got %v", err)
	}
}

func TestVerifyWebhook_StaleTimestamp(t *testing.T) {
	c := testClient(t)

	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)
	header := sign(testWebhookSecret, time.Now().Add(-10*time.Minute).Unix(), payload)

	if _, err := c.VerifyWebhook(payload, header); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature for stale timestamp, got %v", err)
	}
}

func TestVerifyWebhook_MalformedHeader(t *testing.T) {
	c := testClient(t)

	payload := []byte(`{}`)
	for _, header := range []string{"", "t=abc,v1=00", "v1=00", "t=123"} {
		if _, err := c.VerifyWebhook(payload, header); !errors.Is(err, ErrBadSignature) {
			t.Fatalf("expected ErrBadSignature for header %q, got %v", header, err)
		}
	}
}
