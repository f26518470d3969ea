// Package paypal drives the subscription payment path: a client-credentials
// token exchange followed by a subscription create, returning the hosted
// approval link the buyer must visit.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

var ErrUnknownPlan = errors.New("unknown subscription plan")

// Plan is a named subscription tier mapped to a pre-registered PayPal plan.
type Plan struct {
	ID          string
	Amount      string
	Description string
}

type Config struct {
	ClientID  string
	Secret    string
	APIBase   string // e.g. https://api-m.sandbox.paypal.com
	BaseURL   string // used to build return/cancel redirect targets
	BrandName string
	Locale    string
	Plans     map[string]Plan
}

// ConfigFromEnv reads the PayPal configuration; confidential credentials
// never leave the server side.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		ClientID:  os.Getenv("PAYPAL_CLIENT_ID"),
		Secret:    os.Getenv("PAYPAL_CLIENT_SECRET"),
		APIBase:   os.Getenv("PAYPAL_API_BASE"),
		BaseURL:   os.Getenv("BASE_URL"),
		BrandName: os.Getenv("PAYPAL_BRAND_NAME"),
		Locale:    os.Getenv("PAYPAL_LOCALE"),
		Plans: map[string]Plan{
			"basic": {
				ID:          os.Getenv("PAYPAL_PLAN_BASIC"),
				Amount:      "20.00",
				Description: "KI-Agent Basic - Monatliches Abo",
			},
			"premium": {
				ID:          os.Getenv("PAYPAL_PLAN_PREMIUM"),
				Amount:      "40.00",
				Description: "KI-Agent Premium - Monatliches Abo",
			},
		},
	}
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api-m.sandbox.paypal.com"
	}
	if cfg.BrandName == "" {
		cfg.BrandName = "KI-Assistent Service"
	}
	if cfg.Locale == "" {
		cfg.Locale = "de-DE"
	}
	if cfg.ClientID == "" || cfg.Secret == "" || cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("paypal configuration missing")
	}
	return cfg, nil
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg, http: &http.Client{Timeout: 30 * time.Second}}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type subscriptionResponse struct {
	ID    string `json:"id"`
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// CreateSubscription creates a PayPal subscription for the named plan and
// returns the approval URL. Unknown plan names fail before any network call.
func (c *Client) CreateSubscription(ctx context.Context, planName string) (string, error) {
	plan, ok := c.cfg.Plans[planName]
	if !ok {
		return "", ErrUnknownPlan
	}

	accessToken, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"plan_id":    plan.ID,
		"start_time": time.Now().Add(time.Minute).UTC().Format(time.RFC3339),
		"subscriber": map[string]interface{}{
			"name": map[string]string{
				"given_name": "Kunde",
				"surname":    "Name",
			},
		},
		"application_context": map[string]interface{}{
			"brand_name":          c.cfg.BrandName,
			"locale":              c.cfg.Locale,
			"shipping_preference": "NO_SHIPPING",
			"user_action":         "SUBSCRIBE_NOW",
			"payment_method": map[string]string{
				"payer_selected":  "PAYPAL",
				"payee_preferred": "IMMEDIATE_PAYMENT_REQUIRED",
			},
			"return_url": c.cfg.BaseURL + "/success",
			"cancel_url": c.cfg.BaseURL + "/cancel",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIBase+"/v1/billing/subscriptions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach PayPal: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal subscription error (%d): %s", resp.StatusCode, string(respBody))
	}

	var sub subscriptionResponse
	if err := json.Unmarshal(respBody, &sub); err != nil {
		return "", fmt.Errorf("failed to parse PayPal response: %w", err)
	}

	for _, link := range sub.Links {
		if link.Rel == "approve" {
			return link.Href, nil
		}
	}
	return "", errors.New("paypal returned no approval link")
}

// token performs the OAuth client-credentials exchange.
func (c *Client) token(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIBase+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach PayPal: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token error (%d): %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to parse PayPal token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", errors.New("paypal returned empty access token")
	}
	return token.AccessToken, nil
}
