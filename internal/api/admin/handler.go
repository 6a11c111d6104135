package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/botstudio/botstudio/internal/api/middleware"
	"github.com/botstudio/botstudio/internal/domain"
	"github.com/botstudio/botstudio/internal/service"
)

// Handler handles admin API requests
type Handler struct {
	adminService *service.AdminService
	chatService  *service.ChatService
}

// NewHandler creates a new admin handler
func NewHandler(adminService *service.AdminService, chatService *service.ChatService) *Handler {
	return &Handler{
		adminService: adminService,
		chatService:  chatService,
	}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	chatbots := r.Group("/chatbots")
	{
		chatbots.POST("", h.CreateChatbot)
		chatbots.GET("", h.ListChatbots)
		chatbots.GET("/:id", h.GetChatbot)
		chatbots.PUT("/:id", h.UpdateChatbot)
		chatbots.DELETE("/:id", h.DeleteChatbot)
		chatbots.POST("/:id/characteristics", h.AddCharacteristic)
		chatbots.POST("/:id/characteristics/batch", h.AddCharacteristics)
		chatbots.GET("/:id/sessions", h.ListSessions)
	}

	r.DELETE("/characteristics/:id", h.RemoveCharacteristic)
	r.GET("/sessions/:id/messages", h.SessionTranscript)
	r.GET("/stats", h.GetStats)
}

// Chatbot handlers

func (h *Handler) CreateChatbot(c *gin.Context) {
	var req domain.CreateChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chatbot, err := h.adminService.CreateChatbot(c.Request.Context(), c.GetString(middleware.UserIDKey), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chatbot)
}

func (h *Handler) ListChatbots(c *gin.Context) {
	chatbots, err := h.adminService.ListChatbots(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chatbots": chatbots})
}

func (h *Handler) GetChatbot(c *gin.Context) {
	chatbot, err := h.adminService.GetChatbot(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatbot)
}

func (h *Handler) UpdateChatbot(c *gin.Context) {
	var req domain.UpdateChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chatbot, err := h.adminService.UpdateChatbot(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatbot)
}

func (h *Handler) DeleteChatbot(c *gin.Context) {
	if err := h.adminService.DeleteChatbot(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "chatbot deleted"})
}

// Characteristic handlers

func (h *Handler) AddCharacteristic(c *gin.Context) {
	var req domain.AddCharacteristicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	characteristic, err := h.adminService.AddCharacteristic(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, characteristic)
}

func (h *Handler) AddCharacteristics(c *gin.Context) {
	var req domain.BatchCharacteristicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	characteristics, err := h.adminService.AddCharacteristics(c.Request.Context(), c.Param("id"), req.Contents)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"characteristics": characteristics})
}

func (h *Handler) RemoveCharacteristic(c *gin.Context) {
	if err := h.adminService.RemoveCharacteristic(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "characteristic removed"})
}

// Session handlers

func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.adminService.ListSessions(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *Handler) SessionTranscript(c *gin.Context) {
	transcript, err := h.chatService.Transcript(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transcript)
}

// Stats handler

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
