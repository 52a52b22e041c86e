package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fleet-chatbot/internal/models"
	answerquestion "fleet-chatbot/internal/workers/chatbot/answer-question"
)

const greeting = "Welcome to the API. Use /api/{controller}/{action} to access endpoints."

// ResponseModel is the body of every chatbot answer.
type ResponseModel struct {
	Response     string `json:"response"`
	ResponseCode int    `json:"responseCode"`
	Message      string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(greeting))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Ready runs every readiness check and reports 503 if any fails.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		h.logger.Warn("readiness check failed", map[string]interface{}{"checks": failed})
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not ready",
			"failed": failed,
			"time":   time.Now().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// GetQuestionAnswer answers the form fields siteId, userId and question.
// Answers, including failed ones, are returned with HTTP 200; the outcome
// is carried in responseCode.
func (h *Handler) GetQuestionAnswer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil && err != http.ErrNotMultipart {
		writeJSON(w, http.StatusBadRequest, ResponseModel{
			ResponseCode: int(models.StatusBadRequest),
			Message:      "Invalid form body",
		})
		return
	}

	req := answerquestion.Request{Question: r.FormValue("question")}
	if raw := strings.TrimSpace(r.FormValue("siteId")); raw != "" {
		siteID, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ResponseModel{
				ResponseCode: int(models.StatusBadRequest),
				Message:      "The value '" + raw + "' is not valid for siteId.",
			})
			return
		}
		req.SiteID = &siteID
	}
	if userID := r.FormValue("userId"); userID != "" {
		req.UserID = &userID
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	reply := h.asker.Ask(ctx, answerquestion.SourceAPI, req)
	h.logger.Info("question answered", map[string]interface{}{
		"requestId":    RequestIDFrom(r.Context()),
		"answerId":     reply.RequestID,
		"responseCode": int(reply.Answer.Code),
		"outcome":      reply.Outcome,
	})

	writeJSON(w, http.StatusOK, ResponseModel{
		Response:     reply.Answer.Text,
		ResponseCode: int(reply.Answer.Code),
		Message:      reply.Answer.Message,
	})
}
