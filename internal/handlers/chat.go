package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/essjaykay755/teachersgallery-api/internal/models"
	"github.com/essjaykay755/teachersgallery-api/internal/realtime"
	"github.com/essjaykay755/teachersgallery-api/internal/utils"
)

type ChatHandler struct {
	DB        *gorm.DB
	Hub       *realtime.Hub
	Redis     *redis.Client
	JWTSecret string
}

type startConversationReq struct {
	TeacherID uuid.UUID `json:"teacher_id" validate:"required"` // teacher's user id
}

// CreateOrGetConversation opens the thread between the caller and a
// teacher, reusing the existing one when the pair already talked.
func (h *ChatHandler) CreateOrGetConversation(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req startConversationReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "Invalid body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}
	if req.TeacherID == uID {
		return fail200(c, "Cannot start a conversation with yourself")
	}

	var teacherProfile models.Profile
	if err := h.DB.WithContext(c.Context()).
		First(&teacherProfile, "id = ? AND user_type = ?", req.TeacherID, models.UserTypeTeacher).Error; err != nil {
		return fail200(c, "Teacher not found")
	}

	var conv models.Conversation
	err = h.DB.WithContext(c.Context()).
		First(&conv, "client_id = ? AND teacher_id = ?", uID, req.TeacherID).Error
	switch {
	case err == nil:
		// existing thread
	case errors.Is(err, gorm.ErrRecordNotFound):
		conv = models.Conversation{
			ClientID:      uID,
			TeacherID:     req.TeacherID,
			LastMessageAt: time.Now(),
		}
		if err := h.DB.WithContext(c.Context()).Create(&conv).Error; err != nil {
			return fail500(c, "Failed to create conversation")
		}
	default:
		return fail500(c, "Server error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    conv,
	})
}

type conversationSummary struct {
	models.Conversation
	UnreadCount int64           `json:"unread_count"`
	LastMessage *models.Message `json:"last_message,omitempty"`
}

// GetConversations lists the caller's threads with unread counts, most
// recently active first.
func (h *ChatHandler) GetConversations(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}

	var convs []models.Conversation
	if err := h.DB.WithContext(c.Context()).
		Preload("Client").Preload("Teacher").
		Where("client_id = ? OR teacher_id = ?", uID, uID).
		Order("last_message_at DESC").
		Find(&convs).Error; err != nil {
		return fail500(c, "Failed to load conversations")
	}

	out := make([]conversationSummary, 0, len(convs))
	for _, conv := range convs {
		s := conversationSummary{Conversation: conv}

		var last models.Message
		if err := h.DB.WithContext(c.Context()).
			Where("conversation_id = ?", conv.ID).
			Order("created_at DESC").
			First(&last).Error; err == nil {
			s.LastMessage = &last
		}

		if err := h.DB.WithContext(c.Context()).
			Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conv.ID, uID, false).
			Count(&s.UnreadCount).Error; err != nil {
			return fail500(c, "Failed to count unread")
		}

		out = append(out, s)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

// GetUnreadTotal powers the navbar badge.
func (h *ChatHandler) GetUnreadTotal(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}

	var total int64
	if err := h.DB.WithContext(c.Context()).
		Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("(conversations.client_id = ? OR conversations.teacher_id = ?)", uID, uID).
		Where("messages.sender_id <> ? AND messages.is_read = ?", uID, false).
		Count(&total).Error; err != nil {
		return fail500(c, "Failed to count unread")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"unread": total},
	})
}

func (h *ChatHandler) memberOf(c *fiber.Ctx, convID, uID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	if err := h.DB.WithContext(c.Context()).First(&conv, "id = ?", convID).Error; err != nil {
		return nil, err
	}
	if conv.ClientID != uID && conv.TeacherID != uID {
		return nil, gorm.ErrRecordNotFound
	}
	return &conv, nil
}

func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid id")
	}
	if _, err := h.memberOf(c, convID, uID); err != nil {
		return fail200(c, "Conversation not found")
	}
	page, limit := pageParams(c)

	var msgs []models.Message
	if err := h.DB.WithContext(c.Context()).
		Where("conversation_id = ?", convID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return fail500(c, "Failed to load messages")
	}

	// newest-first pages, oldest-first within the page
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    msgs,
	})
}

// MarkAsRead flags the other side's messages in a thread as read and
// records the read position.
func (h *ChatHandler) MarkAsRead(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid id")
	}
	if _, err := h.memberOf(c, convID, uID); err != nil {
		return fail200(c, "Conversation not found")
	}

	now := time.Now()
	if err := h.DB.WithContext(c.Context()).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", convID, uID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		return fail500(c, "Failed to mark as read")
	}

	var last models.Message
	if err := h.DB.WithContext(c.Context()).
		Where("conversation_id = ?", convID).
		Order("created_at DESC").
		First(&last).Error; err == nil {
		var mr models.ConversationMemberRead
		err := h.DB.WithContext(c.Context()).
			First(&mr, "conversation_id = ? AND user_id = ?", convID, uID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			mr = models.ConversationMemberRead{
				ConversationID:    convID,
				UserID:            uID,
				LastReadMessageID: last.ID,
			}
			_ = h.DB.WithContext(c.Context()).Create(&mr).Error
		} else if err == nil {
			_ = h.DB.WithContext(c.Context()).
				Model(&mr).
				Update("last_read_message_id", last.ID).Error
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Marked as read",
	})
}

type sendMessageReq struct {
	Text string `json:"text" validate:"required,max=4000"`
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	uID, err := getAuth(c)
	if err != nil {
		return err
	}
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpError(c, fiber.StatusBadRequest, "invalid id")
	}

	conv, err := h.memberOf(c, convID, uID)
	if err != nil {
		return fail200(c, "Conversation not found")
	}

	var req sendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "Invalid body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	msg := models.Message{
		ConversationID: convID,
		SenderID:       uID,
		Type:           "text",
		Text:           req.Text,
	}
	if err := h.DB.WithContext(c.Context()).Create(&msg).Error; err != nil {
		return fail500(c, "Failed to send message")
	}
	if err := h.DB.WithContext(c.Context()).
		Model(&models.Conversation{}).
		Where("id = ?", convID).
		Update("last_message_at", time.Now()).Error; err != nil {
		log.Printf("[Chat] failed to bump last_message_at: %v", err)
	}

	h.notify(conv, &msg)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    msg,
	})
}

// notify pushes the new message to live sockets and onto the redis channel
// so other instances can do the same.
func (h *ChatHandler) notify(conv *models.Conversation, msg *models.Message) {
	payload := fiber.Map{
		"type":    "new_message",
		"message": msg,
	}
	if h.Hub != nil {
		h.Hub.SendToConversation(conv.ClientID, conv.TeacherID, payload)
	}
	if h.Redis != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return
		}
		if err := h.Redis.Publish(context.Background(), "chat:messages", data).Err(); err != nil {
			log.Printf("[Chat] redis publish failed: %v", err)
		}
	}
}

// WebSocketHandler upgrades the connection. The JWT rides in the token
// query param because browsers cannot set headers on websocket dials.
func (h *ChatHandler) WebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		token := conn.Query("token")
		claims, err := utils.ParseJWT(h.JWTSecret, token)
		if err != nil {
			_ = conn.WriteJSON(fiber.Map{"error": "unauthorized"})
			_ = conn.Close()
			return
		}
		uID, err := uuid.Parse(claims.UserID)
		if err != nil {
			_ = conn.Close()
			return
		}

		client := &realtime.Client{
			ID:     uuid.NewString(),
			UserID: uID,
			Conn:   realtime.NewWebSocketConn(conn),
			Send:   make(chan []byte, 64),
		}
		h.Hub.RegisterClient(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for data := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			}
		}()

		// the read loop only watches for close; clients send via HTTP
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		// unregister closes Send, which ends the writer goroutine
		h.Hub.UnregisterClient(client)
		<-done
	})
}
