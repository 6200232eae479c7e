package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civica-app/civica-backend/pkg/response"
)

type EmailHandler struct {
	Mail Broadcaster
}

func NewEmailHandler(mail Broadcaster) *EmailHandler { return &EmailHandler{Mail: mail} }

type sendEmailRequest struct {
	To      []string `json:"to" binding:"required,min=1,max=100,dive,email"`
	Subject string   `json:"subject" binding:"required,max=200"`
	Text    string   `json:"text" binding:"required_without=HTML"`
	HTML    string   `json:"html"`
}

// Send enqueues one plain email per recipient.
func (h *EmailHandler) Send(c *gin.Context) {
	var req sendEmailRequest
	if !bind(c, &req) {
		return
	}
	n, err := h.Mail.Broadcast(c.Request.Context(), req.To, req.Subject, req.Text, req.HTML)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": n}, "email enqueued", nil)
}
