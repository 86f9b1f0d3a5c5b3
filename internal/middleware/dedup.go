package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	redisstore "github.com/georgeey123/ride-hailing-bot/internal/redis"
)

const messageSidField = "MessageSid"

// emptyTwiML acknowledges a webhook without sending a reply.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// DedupMiddleware drops repeated webhook deliveries. Twilio retries a
// webhook with the same MessageSid when it does not get a timely response;
// replaying an inbound event would advance a conversation flow twice.
func DedupMiddleware(store redisstore.DedupStoreInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		sid := c.PostForm(messageSidField)
		if sid == "" {
			c.Next()
			return
		}

		ok, err := store.ClaimMessageSID(c.Request.Context(), sid)
		if err != nil {
			// Store error - proceed without deduplication.
			c.Next()
			return
		}

		if !ok {
			c.Data(http.StatusOK, "application/xml", []byte(emptyTwiML))
			c.Abort()
			return
		}

		c.Next()
	}
}
