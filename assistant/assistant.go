// Package assistant bridges authenticated users to an external text-completion
// service, wrapping every question in a fixed persona template and keeping a
// per-session transcript.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/smartfir/fir-filing-api/models"
)

// OfflineResponse is returned for every ask when no credential was configured
const OfflineResponse = "I am currently offline. My AI model is not configured."

// personaPrompt is the fixed instruction wrapper applied to every user
// message before it is forwarded to the completion service.
const personaPrompt = `### Your Identity and Role
You are FIR-Bot, an AI assistant for the 'Smart FIR Filing System'. Your tone must be **professional, empathetic, clear, and reassuring**. Avoid complex legal jargon.

### Formatting Rules (VERY IMPORTANT)
- **Use Markdown:** Structure all your responses for maximum readability.
- **Break Up Text:** Use short paragraphs. **NEVER** respond with a single, long block of text.
- **Use Lists:** Use bullet points for lists of items or suggestions (e.g., types of evidence). Use numbered lists for step-by-step instructions.
- **Use Bold:** Use bold text to highlight key terms, actions, or important information. This is crucial for user guidance.

### Your Core Tasks
1.  **Guide Users:** Help the user fill out the 'File a New FIR' form by explaining what each field means.
2.  **Answer Questions:** Answer specific questions about the FIR filing process, what documents are needed, and the difference between various types of complaints.
3.  **Explain Legal Rights:** Provide clear, general information about a citizen's legal rights. You **MUST** include a disclaimer that this is for informational purposes only and not legal advice.
4.  **Check Status:** If a user asks about their FIR status, guide them to the **'Your Filed FIRs'** table on their dashboard.
5.  **Handle Emergencies:** If the user describes a crime in progress, an immediate threat, or an injury, your **ABSOLUTE PRIORITY** is to advise them to **stop chatting and immediately call the emergency number 112**.

### Your Response
Based on all the instructions above, provide a direct, helpful, and well-formatted response to the user's message.
**Do NOT introduce yourself again** (e.g., "Hello, I am FIR-Bot...") unless the user asks who you are.

User's message: "%s"`

type completionRequest struct {
	Prompt string `json:"prompt"`
}

type completionResponse struct {
	Text string `json:"text"`
}

// Bridge forwards persona-wrapped questions to the completion service and
// records each exchange in the session transcript.
type Bridge struct {
	endpoint    string
	apiKey      string
	client      *http.Client
	Transcripts *TranscriptStore
}

// New creates a Bridge. An empty apiKey leaves the bridge in offline mode:
// every ask returns OfflineResponse without an outbound call.
func New(endpoint, apiKey string, transcripts *TranscriptStore) *Bridge {
	if apiKey == "" {
		zap.S().Warn("assistant credential not configured, chatbot will be offline")
	}
	return &Bridge{
		endpoint:    endpoint,
		apiKey:      apiKey,
		client:      &http.Client{},
		Transcripts: transcripts,
	}
}

// Configured reports whether a credential was available at startup
func (b *Bridge) Configured() bool {
	return b.apiKey != "" && b.endpoint != ""
}

// Ask forwards one user message and appends both turns to the transcript.
// The transcript is only written after a successful completion, so a failed
// upstream call leaves the session history untouched.
func (b *Bridge) Ask(ctx context.Context, sessionID, message string) (string, error) {
	if !b.Configured() {
		return OfflineResponse, nil
	}

	reply, err := b.complete(ctx, fmt.Sprintf(personaPrompt, message))
	if err != nil {
		return "", err
	}

	err = b.Transcripts.Append(ctx, sessionID,
		models.ChatMessage{Role: "user", Text: message},
		models.ChatMessage{Role: "bot", Text: reply},
	)
	if err != nil {
		// the reply was produced, losing a transcript row is not worth failing the ask
		zap.S().With(err).Warn("failed to append chat transcript")
	}

	return reply, nil
}

func (b *Bridge) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("completion service returned %d: %s", resp.StatusCode, raw)
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	return completion.Text, nil
}
