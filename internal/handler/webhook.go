package handler

import (
	"context"
	"encoding/xml"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/georgeey123/ride-hailing-bot/internal/transport"
)

// MessageDispatcher routes one inbound event and returns the reply.
type MessageDispatcher interface {
	Dispatch(ctx context.Context, msg transport.Message) string
}

// WebhookHandler handles inbound Twilio WhatsApp webhooks.
type WebhookHandler struct {
	dispatcher MessageDispatcher
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(dispatcher MessageDispatcher) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher}
}

// twimlResponse is the reply document Twilio expects from a webhook.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// Handle handles POST /webhook.
func (h *WebhookHandler) Handle(c *gin.Context) {
	from := strings.TrimPrefix(c.PostForm("From"), "whatsapp:")
	if from == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing sender"})
		return
	}

	msg := transport.Message{
		From:      from,
		Body:      c.PostForm("Body"),
		Latitude:  parseCoordinate(c.PostForm("Latitude")),
		Longitude: parseCoordinate(c.PostForm("Longitude")),
	}

	reply := h.dispatcher.Dispatch(c.Request.Context(), msg)

	c.XML(http.StatusOK, twimlResponse{Message: reply})
}

// parseCoordinate parses an optional form field into a coordinate value.
// An absent or malformed field is treated as no location shared.
func parseCoordinate(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}
