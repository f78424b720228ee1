package razorpay

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal Razorpay payment-links client: create a hosted
// checkout link for a booking and verify the webhook that confirms it.
type Client struct {
	HTTP          *http.Client
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string
}

func New(keyID, keySecret, webhookSecret string) *Client {
	return &Client{
		HTTP:          &http.Client{Timeout: 15 * time.Second},
		KeyID:         keyID,
		KeySecret:     keySecret,
		WebhookSecret: webhookSecret,
		BaseURL:       "https://api.razorpay.com/v1",
	}
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact,omitempty"`
}

type paymentLinkRequest struct {
	Amount      int64    `json:"amount"` // paise
	Currency    string   `json:"currency"`
	ReferenceID string   `json:"reference_id"`
	Description string   `json:"description"`
	Customer    Customer `json:"customer"`
	CallbackURL string   `json:"callback_url,omitempty"`
	ExpireBy    int64    `json:"expire_by,omitempty"`
}

type PaymentLink struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreatePaymentLink creates a hosted checkout link. amount is in INR; the
// gateway wants paise.
func (c *Client) CreatePaymentLink(amount int64, referenceID, description string, customer Customer, callbackURL string) (*PaymentLink, error) {
	reqBody := paymentLinkRequest{
		Amount:      amount * 100,
		Currency:    "INR",
		ReferenceID: referenceID,
		Description: description,
		Customer:    customer,
		CallbackURL: callbackURL,
		ExpireBy:    time.Now().Add(24 * time.Hour).Unix(),
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/payment_links", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(bodyBytes, &apiErr); err == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay error: %s", apiErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay: unexpected status %d", resp.StatusCode)
	}

	var link PaymentLink
	if err := json.Unmarshal(bodyBytes, &link); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &link, nil
}

// VerifyWebhookSignature checks X-Razorpay-Signature against the raw body:
// HMAC-SHA256(body, webhook_secret), hex encoded.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	h := hmac.New(sha256.New, []byte(c.WebhookSecret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
