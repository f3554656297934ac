package services

import (
	"context"
	"encoding/json"

	"github.com/arogyahealth/arogya-go/internal/client/models"
	"github.com/arogyahealth/arogya-go/internal/client/router"
)

// AgentService calls the AI analysis backend. These are ordinary calls
// through the same façade — offline they queue like any other mutation
// and replay on reconnect, with no special casing.
type AgentService interface {
	Analyze(ctx context.Context, documentURL, question string) (models.Result, error)
	PopulateEventData(ctx context.Context, imageURL string, keys []string) (models.Result, error)
	SummarizeMedicalReport(ctx context.Context, imageURL string) (models.Result, error)
	ChatHistory(ctx context.Context, appointmentID string) (json.RawMessage, bool, error)
}

type agentService struct {
	router *router.Router
}

// NewAgentService constructs an AgentService over the router.
func NewAgentService(r *router.Router) AgentService {
	return &agentService{router: r}
}

// Analyze asks the analysis backend a question about a document.
func (s *agentService) Analyze(ctx context.Context, documentURL, question string) (models.Result, error) {
	body := map[string]any{"question": question}
	if documentURL != "" {
		body["document_url"] = documentURL
	}
	return s.router.PerformMutation(ctx, "/agent/analyze", models.MethodPost, body)
}

// PopulateEventData extracts the given keys from a scanned image into an
// event record.
func (s *agentService) PopulateEventData(ctx context.Context, imageURL string, keys []string) (models.Result, error) {
	return s.router.PerformMutation(ctx, "/agent/populate-event-data", models.MethodPost,
		map[string]any{"image_url": imageURL, "keys": keys})
}

// SummarizeMedicalReport produces a summary of a scanned report image.
func (s *agentService) SummarizeMedicalReport(ctx context.Context, imageURL string) (models.Result, error) {
	return s.router.PerformMutation(ctx, "/agent/summarize-medical-report", models.MethodPost,
		map[string]any{"image_url": imageURL})
}

// ChatHistory returns the analysis chat for an appointment, cached under
// "agent_chat_<id>".
func (s *agentService) ChatHistory(ctx context.Context, appointmentID string) (json.RawMessage, bool, error) {
	key := "agent_chat_" + appointmentID
	return s.router.PerformQuery(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.router.Client().Do(ctx, "GET", "/agent/appointments/"+appointmentID+"/chat", nil)
	})
}
