package tests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
	"github.com/georgeey123/ride-hailing-bot/internal/handler"
	"github.com/georgeey123/ride-hailing-bot/internal/middleware"
)

// ──────────────────────────────────────────────
// 8. WEBHOOK DELIVERY DEDUPLICATION
// ──────────────────────────────────────────────

func newWebhookServer(f *dispatcherFixture, dedup *MockDedupStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	webhook := router.Group("/webhook")
	webhook.Use(middleware.DedupMiddleware(dedup))
	webhook.POST("", handler.NewWebhookHandler(f.dispatcher).Handle)
	return router
}

func postWebhook(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func webhookForm(sid, body string) url.Values {
	form := url.Values{}
	form.Set("From", "whatsapp:"+testPhone)
	form.Set("Body", body)
	if sid != "" {
		form.Set("MessageSid", sid)
	}
	return form
}

func TestDedup_ReplayedDeliveryDoesNotAdvanceFlow(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()
	router := newWebhookServer(f, NewMockDedupStore())
	ctx := context.Background()

	// First delivery starts the registration flow.
	rec := postWebhook(router, webhookForm("SM001", "hi"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "full name") {
		t.Fatalf("expected name prompt, got %q", rec.Body.String())
	}

	// A retry of the same delivery is acknowledged with empty TwiML and
	// never reaches the dispatcher: "hi" must not be consumed as the name.
	rec = postWebhook(router, webhookForm("SM001", "hi"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for replay, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<Response></Response>") {
		t.Errorf("expected empty TwiML for replay, got %q", rec.Body.String())
	}

	sess, err := f.sessions.Get(ctx, testPhone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Step != domain.StepAskName {
		t.Errorf("expected step %s after replay, got %s", domain.StepAskName, sess.Step)
	}
	if sess.FullName != "" {
		t.Errorf("expected no name captured from replay, got %q", sess.FullName)
	}

	// A fresh delivery advances the flow normally.
	rec = postWebhook(router, webhookForm("SM002", "Jane Doe"))
	if !strings.Contains(rec.Body.String(), "driver or a passenger") {
		t.Errorf("expected role prompt, got %q", rec.Body.String())
	}
}

func TestDedup_MissingSidIsNotDeduplicated(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()
	dedup := NewMockDedupStore()
	router := newWebhookServer(f, dedup)

	// Deliveries without a MessageSid pass through untouched.
	for i := 0; i < 2; i++ {
		rec := postWebhook(router, webhookForm("", "hi"))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "full name") {
			t.Errorf("expected dispatcher reply, got %q", rec.Body.String())
		}
	}
	if dedup.ClaimCallCount != 0 {
		t.Errorf("expected no claim attempts, got %d", dedup.ClaimCallCount)
	}
}

func TestDedup_StoreErrorProceedsWithoutDeduplication(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()
	dedup := NewMockDedupStore()
	dedup.ClaimError = errors.New("connection refused")
	router := newWebhookServer(f, dedup)

	rec := postWebhook(router, webhookForm("SM001", "hi"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "full name") {
		t.Errorf("expected dispatcher reply despite store error, got %q", rec.Body.String())
	}
}
