package public

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Notifications ride on the messenger gateway and are strictly best-effort:
// a delivery failure is logged and parked in failed_notifications for a
// replay job, never surfaced to the submitting customer.

func (h *Handler) notifyCaseOpened(ctx context.Context, caseID string, req submitFeedbackRequest) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(h.messengerDest) == "" {
		return
	}

	replyLink := h.buildCustomerReplyLink(caseID, req.CustomerEmail)
	message := buildCaseOpenedMessage(caseID, req, h.dashboardBaseURL, replyLink)

	const attempts = 3
	if err := h.sendMessengerWithRetry(ctx, h.messengerDest, caseID, message, attempts, 200*time.Millisecond); err != nil {
		if h.logger != nil {
			h.logger.Printf("case notification failed: case=%s err=%v", caseID, err)
		}
		h.persistNotificationFailure(ctx, "case_opened", caseID, message, err, attempts)
	}
}

// emailChannel is the messenger-gateway destination that routes a message to
// the identifier as an email address.
const emailChannel = "email"

// NotifyBusinessReply tells the customer a business reply landed on their
// case, carrying a fresh tokenized reply link so they can re-enter the
// thread. Exported because the dashboard reply handler triggers it.
func (h *Handler) NotifyBusinessReply(ctx context.Context, caseID, customerEmail string) {
	if ctx == nil {
		ctx = context.Background()
	}
	email := strings.TrimSpace(customerEmail)
	if email == "" {
		// No address on the case, nobody to notify.
		return
	}

	var builder strings.Builder
	builder.WriteString("The business replied to your feedback.\n")
	if replyLink := h.buildCustomerReplyLink(caseID, email); replyLink != "" {
		builder.WriteString(fmt.Sprintf("- View and reply: %s\n", replyLink))
	}

	const attempts = 3
	if err := h.sendMessengerWithRetry(ctx, emailChannel, email, builder.String(), attempts, 200*time.Millisecond); err != nil {
		if h.logger != nil {
			h.logger.Printf("business reply notification failed: case=%s err=%v", caseID, err)
		}
		h.persistNotificationFailure(ctx, "business_reply", caseID, builder.String(), err, attempts)
	}
}

func buildCaseOpenedMessage(caseID string, req submitFeedbackRequest, dashboardBaseURL, replyLink string) string {
	var builder strings.Builder
	builder.WriteString("New detractor feedback needs attention.\n")
	builder.WriteString(fmt.Sprintf("- Score: %d / 10\n", req.Score))
	if name := strings.TrimSpace(req.CustomerName); name != "" {
		builder.WriteString(fmt.Sprintf("- Customer: %s\n", name))
	}
	if feedback := strings.TrimSpace(req.Feedback); feedback != "" {
		builder.WriteString(fmt.Sprintf("- Feedback: %s\n", feedback))
	}
	if base := strings.TrimSpace(dashboardBaseURL); base != "" {
		builder.WriteString(fmt.Sprintf("- Dashboard: %s/cases/%s\n", strings.TrimRight(base, "/"), caseID))
	}
	if replyLink != "" {
		builder.WriteString(fmt.Sprintf("- Customer reply link: %s\n", replyLink))
	}
	return builder.String()
}

// buildCustomerReplyLink mints a case-scoped token and embeds it into the
// public recovery URL. An empty result means the link could not be built;
// the notification still goes out without it. A case without a recorded
// email gets no link: verification matches the token email against the case,
// so such a token could never be redeemed.
func (h *Handler) buildCustomerReplyLink(caseID, customerEmail string) string {
	base := strings.TrimSpace(h.recoveryBaseURL)
	if base == "" || h.tokens == nil || strings.TrimSpace(customerEmail) == "" {
		return ""
	}
	tokenString, err := h.tokens.IssueReplyToken(caseID, customerEmail)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("reply token issue failed: case=%s err=%v", caseID, err)
		}
		return ""
	}
	return fmt.Sprintf("%s/%s?token=%s", strings.TrimRight(base, "/"), caseID, url.QueryEscape(tokenString))
}

func (h *Handler) sendMessengerWithRetry(ctx context.Context, destination, identifier, text string, attempts int, delay time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := h.sendMessengerMessage(ctx, destination, identifier, text); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return lastErr
}

func (h *Handler) persistNotificationFailure(ctx context.Context, kind, identifier, message string, cause error, attempts int) {
	if h.failedNotifications == nil || cause == nil {
		return
	}
	doc := bson.M{
		"target":      kind,
		"identifier":  identifier,
		"message":     message,
		"error":       cause.Error(),
		"attempts":    attempts,
		"status":      "pending",
		"createdAt":   time.Now().UTC(),
		"lastTriedAt": time.Now().UTC(),
	}
	if _, err := h.failedNotifications.InsertOne(ctx, doc); err != nil && h.logger != nil {
		h.logger.Printf("failed to persist notification failure: %v", err)
	}
}

func (h *Handler) sendMessengerMessage(ctx context.Context, destination, identifier, bodyText string) error {
	endpoint := strings.TrimSpace(h.messengerEndpoint)
	if endpoint == "" {
		return errors.New("messenger endpoint is not configured")
	}

	payload := map[string]any{
		"destination": strings.TrimSpace(destination),
		"userId":      strings.TrimSpace(identifier),
		"text":        bodyText,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal messenger payload: %w", err)
	}

	timeout := h.httpClient.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, strings.TrimRight(endpoint, "/")+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build messenger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send messenger request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("messenger gateway error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	return nil
}
