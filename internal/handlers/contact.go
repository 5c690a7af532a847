package handlers

import (
	"net/http"
	"strconv"

	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contact *services.ContactService
}

func NewContactHandler(contact *services.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Submit godoc
// @Summary     Send a contact message
// @Tags        contact
// @Accept      json
// @Produce     json
// @Param       request body models.ContactRequest true "Message"
// @Success     201 {object} models.ContactResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /api/v1/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	msg, err := h.contact.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contactResponse(msg))
}

// ListMessages godoc
// @Summary     List contact messages
// @Tags        contact
// @Produce     json
// @Security    BearerAuth
// @Param       unread query bool false "Only unread messages"
// @Success     200 {object} models.ContactListResponse
// @Router      /api/v1/admin/contact [get]
func (h *ContactHandler) ListMessages(c *gin.Context) {
	unread, _ := strconv.ParseBool(c.Query("unread"))

	msgs, err := h.contact.List(c.Request.Context(), unread)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.ContactListResponse{Messages: make([]models.ContactResponse, 0, len(msgs))}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, contactResponse(m))
	}
	c.JSON(http.StatusOK, resp)
}

// MarkRead godoc
// @Summary     Mark a contact message read or unread
// @Tags        contact
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true  "Message id"
// @Param       request body models.MarkReadRequest false "Defaults to read"
// @Success     200 {object} models.MessageResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/contact/{id}/read [patch]
func (h *ContactHandler) MarkRead(c *gin.Context) {
	var req models.MarkReadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body", err)
			return
		}
	}
	read := req.IsRead == nil || *req.IsRead

	if err := h.contact.MarkRead(c.Request.Context(), c.Param("id"), read); err != nil {
		respondError(c, err)
		return
	}
	msg := "message marked read"
	if !read {
		msg = "message marked unread"
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: msg})
}

// DeleteMessage godoc
// @Summary     Delete a contact message
// @Tags        contact
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Message id"
// @Success     200 {object} models.MessageResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/v1/admin/contact/{id} [delete]
func (h *ContactHandler) DeleteMessage(c *gin.Context) {
	if err := h.contact.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "message deleted"})
}
