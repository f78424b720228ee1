package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyWebhookSignature(t *testing.T) {
	c := New("key", "secret", "whsec")
	body := []byte(`{"event":"payment_link.paid"}`)

	mac := hmac.New(sha256.New, []byte("whsec"))
	mac.Write(body)
	good := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, c.VerifyWebhookSignature(body, good))
	assert.False(t, c.VerifyWebhookSignature(body, "deadbeef"))
	assert.False(t, c.VerifyWebhookSignature([]byte("tampered"), good))
}

func TestCreatePaymentLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payment_links", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(70000), req["amount"], "INR must be converted to paise")
		assert.Equal(t, "INR", req["currency"])
		assert.Equal(t, "INV-K2XM91QD", req["reference_id"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":        "plink_123",
			"short_url": "https://rzp.io/l/abc",
			"status":    "created",
		})
	}))
	defer srv.Close()

	c := New("key_id", "key_secret", "whsec")
	c.BaseURL = srv.URL

	link, err := c.CreatePaymentLink(700, "INV-K2XM91QD", "Lesson: Mathematics",
		Customer{Name: "Asha", Email: "asha@example.com"}, "https://app/bookings")
	require.NoError(t, err)
	assert.Equal(t, "plink_123", link.ID)
	assert.Equal(t, "https://rzp.io/l/abc", link.ShortURL)
}

func TestCreatePaymentLinkErrorSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":        "BAD_REQUEST_ERROR",
				"description": "amount must be at least 100",
			},
		})
	}))
	defer srv.Close()

	c := New("k", "s", "w")
	c.BaseURL = srv.URL

	_, err := c.CreatePaymentLink(0, "INV-X", "x", Customer{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount must be at least 100")
}
