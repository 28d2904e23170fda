package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nexuslabs/relay/internal/domain"
	"github.com/nexuslabs/relay/internal/observability"
)

// Defaults applied when the caller omits the optional fields, matching the
// service's historical behavior.
const (
	defaultMaxTokens   = 2000
	defaultTemperature = 0.7
)

// Handler handles HTTP requests.
type Handler struct {
	orchestrator *domain.OrchestratorService
	registry     domain.ProviderRegistry
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(orchestrator *domain.OrchestratorService, registry domain.ProviderRegistry) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		registry:     registry,
	}
}

// completionBody is the wire shape of a completion request. Optional
// fields use pointers so zero values are distinguishable from omissions.
type completionBody struct {
	Prompt      string            `json:"prompt"`
	TaskType    string            `json:"task_type"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Temperature *float64          `json:"temperature,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
}

// HandleComplete processes completion requests.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body completionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if body.MaxTokens == 0 {
		body.MaxTokens = defaultMaxTokens
	}
	temperature := defaultTemperature
	if body.Temperature != nil {
		temperature = *body.Temperature
	}

	req, err := domain.NewCompletionRequest(
		body.Prompt,
		domain.ParseTaskType(body.TaskType),
		body.MaxTokens,
		temperature,
		body.Context,
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx = observability.WithTaskType(ctx, string(req.TaskType))
	logger := observability.FromContext(ctx)
	logger.Info("completion request received",
		observability.String("task_type", string(req.TaskType)),
		observability.Int("max_tokens", req.MaxTokens),
	)

	result, err := h.orchestrator.Complete(ctx, req)
	if err != nil {
		logger.Error("completion failed", observability.Error(err))
		http.Error(w, err.Error(), completionStatus(err))
		return
	}

	logger.Info("completion succeeded",
		observability.String("provider", result.ProviderID),
		observability.Int("tokens", result.TokensUsed),
		observability.Bool("used_fallback", result.UsedFallback),
	)

	writeJSON(w, http.StatusOK, result)
}

// completionStatus maps the core error taxonomy to HTTP status codes.
// Both terminal failures are service-level: no upstream could serve.
func completionStatus(err error) int {
	var allFailed *domain.AllProvidersFailedError
	if errors.Is(err, domain.ErrNoProvidersAvailable) || errors.As(err, &allFailed) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// HandleUsage returns the current usage ledger snapshot.
func (h *Handler) HandleUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.orchestrator.GetUsageSnapshot(r.Context())
	writeJSON(w, http.StatusOK, snapshot)
}

// HandleUsageReset zeroes the usage ledger.
func (h *Handler) HandleUsageReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.orchestrator.ResetUsage(r.Context())
	observability.FromContext(r.Context()).Info("usage ledger reset")
	w.WriteHeader(http.StatusNoContent)
}

// HandleHealth handles health check requests, reporting registered providers.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	providers, err := h.registry.List(r.Context())
	if err != nil {
		providers = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"providers": providers,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Status already written; nothing sensible left to do.
		return
	}
}
