package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smartfir/fir-filing-api/api"
	"github.com/smartfir/fir-filing-api/assistant"
	"github.com/smartfir/fir-filing-api/config"
	"github.com/smartfir/fir-filing-api/models"
)

// Chatbot handles conversational assistant requests
type Chatbot struct {
	Bridge *assistant.Bridge
}

// AskHandler forwards one question to the assistant. Upstream failures come
// back as a textual error body, never as an unhandled failure.
func (c Chatbot) AskHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	if !c.Bridge.Configured() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(models.ChatAskResponse{Response: assistant.OfflineResponse})
		return
	}

	var req models.ChatAskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Message == "" {
		config.ErrorStatus("no message provided", http.StatusBadRequest, w,
			errors.New("message is required"))
		return
	}

	reply, err := c.Bridge.Ask(r.Context(), authCtx.SessionID, req.Message)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(models.ChatAskResponse{
			Response: "An error occurred while trying to process your request: " + err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.ChatAskResponse{Response: reply})
}

// HistoryHandler returns the caller's session transcript
func (c Chatbot) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	history, err := c.Bridge.Transcripts.History(r.Context(), authCtx.SessionID)
	if err != nil {
		config.ErrorStatus("failed to load chat history", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.ChatHistoryResponse{History: history})
}

// ClearHandler removes the caller's session transcript entirely
func (c Chatbot) ClearHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	if err := c.Bridge.Transcripts.Clear(r.Context(), authCtx.SessionID); err != nil {
		config.ErrorStatus("failed to clear chat history", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{Message: "Chat history cleared successfully."})
}
