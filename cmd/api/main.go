package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/config"
	"github.com/essjaykay755/teachersgallery-api/internal/db"
	"github.com/essjaykay755/teachersgallery-api/internal/handlers"
	"github.com/essjaykay755/teachersgallery-api/internal/middleware"
	"github.com/essjaykay755/teachersgallery-api/internal/models"
	"github.com/essjaykay755/teachersgallery-api/internal/onboarding"
	"github.com/essjaykay755/teachersgallery-api/internal/realtime"
	"github.com/essjaykay755/teachersgallery-api/internal/services/razorpay"
	"github.com/essjaykay755/teachersgallery-api/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[Main] no .env file, using environment")
	}
	cfg := config.Load()

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("[Main] db connect failed: %v", err)
	}

	if err := database.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.TeacherProfile{},
		&models.TeacherExperience{},
		&models.TeacherEducation{},
		&models.StudentProfile{},
		&models.ParentProfile{},
		&models.Conversation{},
		&models.ConversationMemberRead{},
		&models.Message{},
		&models.Booking{},
		&models.Review{},
		&models.Payment{},
	); err != nil {
		log.Fatalf("[Main] migrate failed: %v", err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)

	hub := realtime.NewHub()
	go hub.Run()

	var store *storage.Client
	if cfg.StorageAccessKey != "" {
		store, err = storage.New(context.Background(),
			cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey,
			cfg.StorageBucket, cfg.StorageBaseURL)
		if err != nil {
			log.Printf("[Main] storage disabled: %v", err)
			store = nil
		}
	}

	var gateway *razorpay.Client
	if cfg.RazorpayKeyID != "" {
		gateway = razorpay.New(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret)
	}

	drafts := onboarding.NewRedisDraftStore(rdb)
	var bucketEnsurer onboarding.BucketEnsurer
	if store != nil {
		bucketEnsurer = store
	}
	controller := onboarding.NewController(database, drafts, bucketEnsurer)

	auth := &handlers.AuthHandler{DB: database, JWTSecret: cfg.JWTSecret, Expires: cfg.JWTExpiresMin}
	google := &handlers.GoogleOAuthHandler{
		DB:              database,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	onboard := &handlers.OnboardingHandler{
		Controller: controller,
		JWTSecret:  cfg.JWTSecret,
		Expires:    cfg.JWTExpiresMin,
	}
	if store != nil {
		onboard.Storage = store
	}
	education := &handlers.EducationHandler{DB: database}
	experience := &handlers.ExperienceHandler{DB: database}
	teachers := &handlers.TeacherHandler{DB: database}
	subjects := &handlers.SubjectHandler{DB: database}
	reviews := &handlers.ReviewHandler{DB: database}
	bookings := &handlers.BookingHandler{DB: database, Hub: hub}
	payments := &handlers.PaymentHandler{
		DB:          database,
		Gateway:     gateway,
		Hub:         hub,
		CallbackURL: cfg.FrontendBaseURL + "/bookings",
	}
	chat := &handlers.ChatHandler{DB: database, Hub: hub, Redis: rdb, JWTSecret: cfg.JWTSecret}
	dashboard := &handlers.DashboardHandler{DB: database}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// session
	api.Post("/auth/register", auth.Register)
	api.Post("/auth/login", auth.Login)
	api.Post("/auth/logout", auth.Logout)
	api.Get("/auth/google/start", google.GoogleStart)
	api.Get("/auth/google/callback", google.GoogleCallback)

	requireAuth := middleware.JWTFromCookie(cfg.JWTSecret)
	attachLocals := middleware.AttachJWTLocals()

	api.Get("/me", requireAuth, attachLocals, func(c *fiber.Ctx) error {
		rawID, _ := c.Locals("userId").(string)

		var u models.User
		if err := database.WithContext(c.Context()).First(&u, "id = ?", rawID).Error; err != nil {
			return fiber.ErrUnauthorized
		}

		hasProfile := true
		var profile models.Profile
		if err := database.WithContext(c.Context()).First(&profile, "id = ?", u.ID).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return fiber.ErrInternalServerError
			}
			hasProfile = false
		}

		resp := fiber.Map{
			"success": true,
			"data": fiber.Map{
				"user": fiber.Map{
					"id":    u.ID,
					"name":  u.Name,
					"email": u.Email,
					"phone": u.Phone,
				},
				"has_profile": hasProfile,
			},
		}
		if hasProfile {
			resp["data"].(fiber.Map)["profile"] = profile
		}
		return c.JSON(resp)
	})

	// onboarding
	api.Get("/onboarding", requireAuth, attachLocals, onboard.GetState)
	api.Post("/onboarding/step", requireAuth, attachLocals, onboard.SubmitStep)
	api.Post("/onboarding/avatar", requireAuth, attachLocals, onboard.UploadAvatar)

	// education/experience editor surface
	api.Get("/education", education.List)
	api.Post("/education", requireAuth, attachLocals, education.Create)
	api.Put("/education/:id", requireAuth, attachLocals, education.Update)
	api.Delete("/education/:id", requireAuth, attachLocals, education.Delete)

	api.Get("/experience", experience.List)
	api.Post("/experience", requireAuth, attachLocals, experience.Create)
	api.Put("/experience/:id", requireAuth, attachLocals, experience.Update)
	api.Delete("/experience/:id", requireAuth, attachLocals, experience.Delete)

	// public browsing
	api.Get("/teachers", teachers.ListPublic)
	api.Get("/teachers/:id", teachers.GetPublicProfile)
	api.Get("/teachers/:id/reviews", reviews.ListForTeacher)
	api.Get("/subjects", subjects.List)

	// reviews
	api.Post("/reviews", requireAuth, attachLocals,
		middleware.RequireUserTypes("student", "parent"), reviews.Create)

	// bookings
	api.Post("/bookings", requireAuth, attachLocals,
		middleware.RequireUserTypes("teacher"), bookings.Create)
	api.Get("/bookings", requireAuth, attachLocals, bookings.ListMine)
	api.Get("/bookings/:id", requireAuth, attachLocals, bookings.Get)
	api.Post("/bookings/:id/complete", requireAuth, attachLocals,
		middleware.RequireUserTypes("teacher"), bookings.Complete)
	api.Post("/bookings/:id/cancel", requireAuth, attachLocals, bookings.Cancel)

	// payments
	api.Post("/payments", requireAuth, attachLocals,
		middleware.RequireUserTypes("student", "parent"), payments.Create)
	api.Post("/payments/webhook", payments.Webhook)

	// chat
	api.Post("/chat/conversations", requireAuth, attachLocals, chat.CreateOrGetConversation)
	api.Get("/chat/conversations", requireAuth, attachLocals, chat.GetConversations)
	api.Get("/chat/unread", requireAuth, attachLocals, chat.GetUnreadTotal)
	api.Get("/chat/conversations/:id/messages", requireAuth, attachLocals, chat.GetMessages)
	api.Post("/chat/conversations/:id/messages", requireAuth, attachLocals, chat.SendMessage)
	api.Post("/chat/conversations/:id/read", requireAuth, attachLocals, chat.MarkAsRead)

	// dashboard
	api.Get("/dashboard/teacher", requireAuth, attachLocals,
		middleware.RequireUserTypes("teacher"), dashboard.TeacherStats)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", chat.WebSocketHandler())

	log.Printf("[Main] listening on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("[Main] server stopped: %v", err)
	}
}
