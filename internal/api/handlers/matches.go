package handlers

import (
	"net/http"

	"github.com/dom/movie-night/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MatchHandler struct {
	matchService *service.MatchService
	logger       *zap.SugaredLogger
}

func NewMatchHandler(matchService *service.MatchService, logger *zap.SugaredLogger) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		logger:       logger,
	}
}

// Find returns the path user's watched movies that ?friend= has watched too.
func (h *MatchHandler) Find(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	friendID, err := uuid.Parse(r.URL.Query().Get("friend"))
	if err != nil {
		writeValidationError(w, "Invalid query", map[string]string{"friend": "must be a valid id"})
		return
	}

	matches, err := h.matchService.FindMatches(r.Context(), userID, friendID)
	if err != nil {
		h.logger.Errorw("failed to find matches", "userId", userID, "friendId", friendID, "error", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, matches)
}
