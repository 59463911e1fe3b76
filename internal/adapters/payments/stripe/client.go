// Package stripe es un wrapper fino sobre la API de checkout de Stripe.
// Solo cubre lo que el flujo de donaciones usa: crear sesión, consultar
// sesión y verificar webhooks. Nada de SDK completo.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"ong-shelter-api/internal/domain/donations"
	"ong-shelter-api/internal/platform/httpclient"
)

const defaultBaseURL = "https://api.stripe.com"

var (
	ErrNotConfigured = errors.New("stripe client not configured")
	ErrUpstream      = errors.New("stripe upstream error")
)

type Config struct {
	SecretKey     string
	WebhookSecret string

	BaseURL    string // para tests; default api.stripe.com
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

type Client struct {
	secretKey     string
	webhookSecret string
	successURL    string
	cancelURL     string

	http *httpclient.Client
	cb   *gobreaker.CircuitBreaker
}

// interface guard
var _ donations.CheckoutProvider = (*Client)(nil)

func NewClient(cfg Config, cb *gobreaker.CircuitBreaker) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		secretKey:     strings.TrimSpace(cfg.SecretKey),
		webhookSecret: strings.TrimSpace(cfg.WebhookSecret),
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		http:          hc,
		cb:            cb,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.secretKey != ""
}

type sessionResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

func (c *Client) CreateSession(ctx context.Context, in donations.CheckoutInput) (donations.CheckoutSession, error) {
	if !c.IsConfigured() {
		return donations.CheckoutSession{}, ErrNotConfigured
	}

	form := url.Values{}
	form.Set("mode", "payment")
	if in.Recurring {
		form.Set("mode", "subscription")
	}
	form.Set("line_items[0][price_data][currency]", "brl")
	form.Set("line_items[0][price_data][product_data][name]", "Doação ONG Amigo dos Amigos")
	// Stripe trabaja en centavos.
	form.Set("line_items[0][price_data][unit_amount]", fmt.Sprintf("%d", int64(in.Amount*100)))
	if in.Recurring {
		form.Set("line_items[0][price_data][recurring][interval]", "month")
	}
	form.Set("line_items[0][quantity]", "1")
	if in.DonorEmail != "" {
		form.Set("customer_email", in.DonorEmail)
	}
	if c.successURL != "" {
		form.Set("success_url", c.successURL)
	}
	if c.cancelURL != "" {
		form.Set("cancel_url", c.cancelURL)
	}

	var resp sessionResponse
	err := c.doForm(ctx, http.MethodPost, "/v1/checkout/sessions", form, &resp)
	if err != nil {
		return donations.CheckoutSession{}, err
	}

	return donations.CheckoutSession{ID: resp.ID, URL: resp.URL, Status: resp.Status}, nil
}

func (c *Client) GetSession(ctx context.Context, id string) (donations.CheckoutSession, error) {
	if !c.IsConfigured() {
		return donations.CheckoutSession{}, ErrNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return donations.CheckoutSession{}, fmt.Errorf("%w: empty session id", ErrUpstream)
	}

	var resp sessionResponse
	err := c.doForm(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(id), nil, &resp)
	if err != nil {
		return donations.CheckoutSession{}, err
	}

	return donations.CheckoutSession{ID: resp.ID, URL: resp.URL, Status: resp.Status}, nil
}

// doForm pasa el request por el circuit breaker: si Stripe viene fallando,
// cortamos rápido en vez de colgar el formulario de donación.
func (c *Client) doForm(ctx context.Context, method, path string, form url.Values, out any) error {
	headers := map[string]string{
		"Authorization": "Bearer " + c.secretKey,
	}

	exec := func() (any, error) {
		return nil, c.http.DoForm(ctx, method, path, headers, form, out)
	}

	var err error
	if c.cb != nil {
		_, err = c.cb.Execute(exec)
	} else {
		_, err = exec()
	}
	if err != nil {
		var herr *httpclient.HTTPError
		if errors.As(err, &herr) {
			return fmt.Errorf("%w: status=%d", ErrUpstream, herr.StatusCode)
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}
