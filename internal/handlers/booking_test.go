package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/middleware"
	"github.com/essjaykay755/teachersgallery-api/internal/models"
	"github.com/essjaykay755/teachersgallery-api/internal/realtime"
	"github.com/essjaykay755/teachersgallery-api/internal/services/razorpay"
)

func newBookingApp(t *testing.T, db *gorm.DB, gateway *razorpay.Client) *fiber.App {
	t.Helper()

	hub := realtime.NewHub()
	go hub.Run()

	app := fiber.New()
	api := app.Group("/api")

	requireAuth := middleware.JWTFromCookie(testJWTSecret)
	attachLocals := middleware.AttachJWTLocals()

	bookings := &BookingHandler{DB: db, Hub: hub}
	api.Post("/bookings", requireAuth, attachLocals,
		middleware.RequireUserTypes("teacher"), bookings.Create)
	api.Get("/bookings", requireAuth, attachLocals, bookings.ListMine)
	api.Post("/bookings/:id/complete", requireAuth, attachLocals,
		middleware.RequireUserTypes("teacher"), bookings.Complete)
	api.Post("/bookings/:id/cancel", requireAuth, attachLocals, bookings.Cancel)

	payments := &PaymentHandler{DB: db, Gateway: gateway, Hub: hub}
	api.Post("/payments/webhook", payments.Webhook)

	reviews := &ReviewHandler{DB: db}
	api.Post("/reviews", requireAuth, attachLocals,
		middleware.RequireUserTypes("student", "parent"), reviews.Create)

	return app
}

func seedConversation(t *testing.T, db *gorm.DB) (teacher, client *models.User, conv *models.Conversation) {
	t.Helper()

	tu, _ := seedTeacher(t, db, "conv-teacher@example.com")

	cu := models.User{Name: "C", Email: "conv-client@example.com", Password: "x", Provider: "local", IsActive: true}
	require.NoError(t, db.Create(&cu).Error)
	require.NoError(t, db.Create(&models.Profile{
		ID: cu.ID, FullName: "Client", Email: cu.Email, UserType: models.UserTypeStudent,
	}).Error)

	cv := models.Conversation{ClientID: cu.ID, TeacherID: tu.ID, LastMessageAt: time.Now()}
	require.NoError(t, db.Create(&cv).Error)
	return tu, &cu, &cv
}

func TestBookingLifecycle(t *testing.T) {
	db := newTestDB(t)
	gateway := razorpay.New("k", "s", "whsec")
	app := newBookingApp(t, db, gateway)
	teacher, client, conv := seedConversation(t, db)

	createPayload := map[string]any{
		"conversation_id": conv.ID,
		"subject":         "Mathematics",
		"price":           1000,
		"scheduled_at":    time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	}

	t.Run("client cannot create a booking", func(t *testing.T) {
		resp, err := app.Test(jsonReq(t, http.MethodPost, "/api/bookings", createPayload,
			sessionCookie(t, client.ID.String(), "student")))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	var bookingID string
	t.Run("teacher creates with fee split", func(t *testing.T) {
		resp, err := app.Test(jsonReq(t, http.MethodPost, "/api/bookings", createPayload,
			sessionCookie(t, teacher.ID.String(), "teacher")))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		data := decodeBody(t, resp)["data"].(map[string]any)
		bookingID = data["id"].(string)
		assert.Equal(t, float64(100), data["platform_fee"])
		assert.Equal(t, float64(900), data["net_amount"])
		assert.Equal(t, "pending", data["status"])

		// a booking message lands in the thread
		var msgCount int64
		require.NoError(t, db.Model(&models.Message{}).
			Where("conversation_id = ? AND type = ?", conv.ID, "booking").
			Count(&msgCount).Error)
		assert.Equal(t, int64(1), msgCount)
	})

	t.Run("paid webhook flips booking state", func(t *testing.T) {
		var payment models.Payment
		var booking models.Booking
		require.NoError(t, db.First(&booking, "id = ?", bookingID).Error)
		payment = models.Payment{
			BookingID:   booking.ID,
			Reference:   "plink_test",
			MerchantRef: "INV-" + booking.Code,
			Amount:      booking.Price,
			Status:      models.PaymentStatusUnpaid,
		}
		require.NoError(t, db.Create(&payment).Error)

		event := map[string]any{
			"event": "payment_link.paid",
			"payload": map[string]any{
				"payment_link": map[string]any{
					"entity": map[string]any{
						"id":           "plink_test",
						"reference_id": payment.MerchantRef,
						"status":       "paid",
					},
				},
			},
		}
		body, err := json.Marshal(event)
		require.NoError(t, err)

		mac := hmac.New(sha256.New, []byte("whsec"))
		mac.Write(body)
		sig := hex.EncodeToString(mac.Sum(nil))

		t.Run("bad signature is rejected", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
			req.Header.Set("X-Razorpay-Signature", "bogus")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
		req.Header.Set("X-Razorpay-Signature", sig)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		require.NoError(t, db.First(&booking, "id = ?", bookingID).Error)
		assert.Equal(t, models.BookingStatusPaid, booking.Status)

		require.NoError(t, db.First(&payment, "reference = ?", "plink_test").Error)
		assert.Equal(t, models.PaymentStatusPaid, payment.Status)
		assert.NotNil(t, payment.PaidAt)
	})

	t.Run("cancel is refused once paid", func(t *testing.T) {
		resp, err := app.Test(jsonReq(t, http.MethodPost, "/api/bookings/"+bookingID+"/cancel", nil,
			sessionCookie(t, client.ID.String(), "student")))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, decodeBody(t, resp)["success"])
	})

	t.Run("teacher completes and client reviews", func(t *testing.T) {
		resp, err := app.Test(jsonReq(t, http.MethodPost, "/api/bookings/"+bookingID+"/complete", nil,
			sessionCookie(t, teacher.ID.String(), "teacher")))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		reviewPayload := map[string]any{
			"booking_id": bookingID,
			"rating":     5,
			"comment":    "Great lesson.",
		}
		resp, err = app.Test(jsonReq(t, http.MethodPost, "/api/reviews", reviewPayload,
			sessionCookie(t, client.ID.String(), "student")))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		// one review per booking
		resp, err = app.Test(jsonReq(t, http.MethodPost, "/api/reviews", reviewPayload,
			sessionCookie(t, client.ID.String(), "student")))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, decodeBody(t, resp)["success"])
	})
}
