package handler

import (
	"errors"
	"log"
	"net/http"

	"idcard-backend/internal/idcard"
	"idcard-backend/internal/middleware"
	"idcard-backend/internal/model"
	"idcard-backend/internal/repository"
	"idcard-backend/internal/service"
	"idcard-backend/pkg/pagination"
	"idcard-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	cardService service.CardService
}

func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

func (h *CardHandler) RegisterRoutes(router *gin.RouterGroup) {
	cards := router.Group("/api/id")
	cards.Use(middleware.RequireRole(model.RoleAdmin, model.RoleApprover))
	{
		cards.POST("/generate", h.GenerateCard)
		cards.POST("", h.CreateCard)
		cards.GET("", h.ListCards)
		cards.GET("/:id", h.GetCard)
		cards.PUT("/:id/approve", h.ApproveCard)
		cards.PUT("/:id/reject", h.RejectCard)
		cards.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteCard)
	}
}

type rejectCardDTO struct {
	Reason string `json:"reason"`
}

// GenerateCard runs the full generation pipeline for one submission
// @Summary      Generate an ID card
// @Description  Accepts card-holder fields plus photo and signatorySignature attachments, renders the card PDF and persists the pending record
// @Tags         cards
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        firstName     formData  string  true   "First name"
// @Param        lastName      formData  string  true   "Last name"
// @Param        idNumber      formData  string  true   "ID number"
// @Param        position      formData  string  true   "Position"
// @Param        type          formData  string  true   "Card category (Employee or Intern)"
// @Param        emergencyContactName    formData  string  true  "Emergency contact name"
// @Param        emergencyContactNumber  formData  string  true  "Emergency contact number"
// @Param        signatoryName           formData  string  true  "Signatory name"
// @Param        signatoryPosition       formData  string  true  "Signatory position"
// @Param        companyAddress          formData  string  true  "Company address"
// @Param        barcodeValue  formData  string  true   "Barcode payload"
// @Param        photo               formData  file  true  "Portrait photo"
// @Param        signatorySignature  formData  file  true  "Signatory signature image"
// @Success      200  {object}  response.Generate
// @Failure      400  {object}  response.Generate
// @Failure      500  {object}  response.Generate
// @Router       /api/id/generate [post]
func (h *CardHandler) GenerateCard(c *gin.Context) {
	var req service.GenerateCardRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.GenerateError("Invalid request payload: "+err.Error()))
		return
	}

	photo, err := c.FormFile("photo")
	if err != nil {
		photo = nil
	}
	signature, err := c.FormFile("signatorySignature")
	if err != nil {
		signature = nil
	}

	result, err := h.cardService.GenerateCard(c.Request.Context(), req, photo, signature, currentUserID(c))
	if err != nil {
		status, msg := generateFailure(err)
		c.JSON(status, response.GenerateError(msg))
		return
	}

	c.JSON(http.StatusOK, response.GenerateSuccess(result.File))
}

// generateFailure maps a pipeline error to a client-safe status and message.
// Full errors are logged server-side only.
func generateFailure(err error) (int, string) {
	log.Printf("card generation failed: %v", err)

	switch {
	case errors.Is(err, idcard.ErrMissingAttachment):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, idcard.ErrUnsupportedAttachment):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, idcard.ErrEncodingFailed):
		return http.StatusBadRequest, "barcode encoding failed"
	case errors.Is(err, idcard.ErrPhotoProcessingFailed):
		return http.StatusInternalServerError, "photo processing failed"
	default:
		return http.StatusInternalServerError, "card generation failed"
	}
}

// CreateCard persists a card record without running the generation pipeline
// @Summary      Create a card record
// @Description  Persists submitted card metadata as a pending record
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateCardRequest  true  "Card Record Payload"
// @Success      201      {object}  response.Response{data=service.CardResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/id [post]
func (h *CardHandler) CreateCard(c *gin.Context) {
	var req service.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	card, err := h.cardService.CreateCard(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, card))
}

// ListCards returns card records, optionally filtered by status
// @Summary      List card records
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status (PENDING, APPROVED, REJECTED)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /api/id [get]
func (h *CardHandler) ListCards(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.CardFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	cards, total, err := h.cardService.ListCards(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"cards": cards,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetCard returns a single card record by id
// @Summary      Get a card record
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Card ID"
// @Success      200  {object}  response.Response{data=service.CardResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/id/{id} [get]
func (h *CardHandler) GetCard(c *gin.Context) {
	card, err := h.cardService.GetCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, card))
}

// ApproveCard approves a pending card record
// @Summary      Approve a card record
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Card ID"
// @Success      200  {object}  response.Response{data=service.CardResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/id/{id}/approve [put]
func (h *CardHandler) ApproveCard(c *gin.Context) {
	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	card, err := h.cardService.ApproveCard(c.Request.Context(), c.Param("id"), userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, card))
}

// RejectCard rejects a pending card record
// @Summary      Reject a card record
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true   "Card ID"
// @Param        payload  body      rejectCardDTO  false  "Rejection reason"
// @Success      200      {object}  response.Response{data=service.CardResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/id/{id}/reject [put]
func (h *CardHandler) RejectCard(c *gin.Context) {
	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	var req rejectCardDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		// Allow empty body — reason is optional
		req.Reason = ""
	}

	card, err := h.cardService.RejectCard(c.Request.Context(), c.Param("id"), userIDStr, req.Reason)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, card))
}

// DeleteCard removes a card record and its generated assets
// @Summary      Delete a card record
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Card ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/id/{id} [delete]
func (h *CardHandler) DeleteCard(c *gin.Context) {
	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	if err := h.cardService.DeleteCard(c.Request.Context(), c.Param("id"), userIDStr); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"id": c.Param("id")}))
}

// currentUserID extracts the authenticated user's uuid from the gin context,
// or nil when absent.
func currentUserID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get("userID")
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
