package contact

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"devfolio/auth"
	"devfolio/email"
	"devfolio/models"
	"devfolio/store"
	"devfolio/validation"
)

type ContactModule struct {
	store *store.Store
	email *email.EmailService
}

func NewContactModule(st *store.Store, emailService *email.EmailService) *ContactModule {
	return &ContactModule{store: st, email: emailService}
}

func (m *ContactModule) RegisterRoutes(router *gin.Engine) {
	router.POST("/contact", m.create)
	router.GET("/contact", auth.RequireAuth, m.list)
}

// contactRequest deliberately has no createdAt field: the server stamps the
// timestamp and any client-supplied value is dropped during binding.
type contactRequest struct {
	Name        string `json:"name" binding:"required,min=2"`
	Email       string `json:"email" binding:"required,email"`
	Subject     string `json:"subject"`
	Message     string `json:"message" binding:"required,min=10"`
	PortfolioID *int   `json:"portfolioId"`
}

func (m *ContactModule) create(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"fields": validation.FieldErrors(err),
		})
		return
	}

	msg := &models.ContactMessage{
		Name:        req.Name,
		Email:       req.Email,
		Subject:     req.Subject,
		Message:     req.Message,
		CreatedAt:   time.Now().UTC(),
		PortfolioID: req.PortfolioID,
	}

	if err := m.store.CreateContactMessage(msg); err != nil {
		log.Printf("store contact message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store message"})
		return
	}

	// Notification failure never fails the request, the message is stored.
	if m.email != nil {
		if err := m.email.SendContactNotification(msg); err != nil {
			log.Printf("contact notification for message %d: %v", msg.ID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "message": "sent"})
}

func (m *ContactModule) list(c *gin.Context) {
	portfolioID, err := strconv.Atoi(c.Query("portfolioId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "portfolioId must be an integer"})
		return
	}

	messages, err := m.store.GetContactMessages(portfolioID)
	if err != nil {
		log.Printf("list contact messages for portfolio %d: %v", portfolioID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}
