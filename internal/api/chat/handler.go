package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/botstudio/botstudio/internal/domain"
	"github.com/botstudio/botstudio/internal/service"
)

// Handler handles the public chat API consumed by the guest widget
type Handler struct {
	chatService *service.ChatService
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/chatbots/:id", h.GetChatbot)
	r.POST("/guests", h.CreateGuest)
	r.POST("/chat_sessions", h.CreateSession)
	r.POST("/messages", h.CreateMessage)
	r.GET("/chatsessionmessages/:session_id", h.Transcript)
	r.POST("/completions", h.Complete)

	// Orchestrated protocol: registration and exchange as single operations
	r.POST("/chat/start", h.StartChat)
	r.POST("/chat/:session_id/messages", h.Exchange)
}

// GetChatbot returns a chatbot profile with its characteristics
func (h *Handler) GetChatbot(c *gin.Context) {
	chatbot, err := h.chatService.GetChatbot(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatbot)
}

// CreateGuest registers a guest record
func (h *Handler) CreateGuest(c *gin.Context) {
	var req domain.CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guest, err := h.chatService.CreateGuest(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, guest)
}

// CreateSession links a guest to a chatbot
func (h *Handler) CreateSession(c *gin.Context) {
	var req domain.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.chatService.CreateSession(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// CreateMessage appends a raw message to a session's log
func (h *Handler) CreateMessage(c *gin.Context) {
	var req domain.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chatService.CreateMessage(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// Transcript returns the time-ordered message log for a session
func (h *Handler) Transcript(c *gin.Context) {
	transcript, err := h.chatService.Transcript(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transcript)
}

// Complete proxies a single completion request
func (h *Handler) Complete(c *gin.Context) {
	var req domain.CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chatService.Complete(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get response from AI"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// StartChat registers a guest, opens a session and returns the greeting
func (h *Handler) StartChat(c *gin.Context) {
	var req domain.StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chatService.StartSession(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Exchange sends one user message and returns both persisted turns
func (h *Handler) Exchange(c *gin.Context) {
	var req domain.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chatService.Exchange(c.Request.Context(), c.Param("session_id"), req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid email address"})
	case errors.Is(err, domain.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrExchangeInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "a message exchange is already in progress"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
