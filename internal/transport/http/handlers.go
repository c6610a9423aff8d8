package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

const (
	maxLeaderboardLimit = 100
	maxUploadBytes      = 10 << 20
)

// Handler serves the REST API.
type Handler struct {
	catalog     *app.CatalogService
	plays       *app.PlayService
	leaderboard *app.LeaderboardService
	results     *app.ResultsService
	imports     *app.ImportService
	logger      *slog.Logger
}

func NewHandler(catalog *app.CatalogService, plays *app.PlayService, leaderboard *app.LeaderboardService, results *app.ResultsService, imports *app.ImportService, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:     catalog,
		plays:       plays,
		leaderboard: leaderboard,
		results:     results,
		imports:     imports,
		logger:      logger,
	}
}

type setResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	WordCount int       `json:"wordCount"`
	CreatedAt time.Time `json:"createdAt"`
}

func toSetResponse(s domain.Set) setResponse {
	return setResponse{ID: s.ID, Name: s.Name, WordCount: s.WordCount(), CreatedAt: s.CreatedAt}
}

type resultsResponse struct {
	domain.RoundSummary
	XP int `json:"xp"`
}

type submitRequest struct {
	PlayID string `json:"playId"`
	Name   string `json:"name"`
}

type submitResponse struct {
	XP      int                  `json:"xp"`
	Name    string               `json:"name"`
	Leaders []domain.RankedEntry `json:"leaders"`
}

// ListSets handles GET /sets.
func (h *Handler) ListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.catalog.ListSets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]setResponse, 0, len(sets))
	for _, s := range sets {
		out = append(out, toSetResponse(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"sets": out})
}

// GetSet handles GET /sets/{id}.
func (h *Handler) GetSet(w http.ResponseWriter, r *http.Request) {
	set, err := h.catalog.GetSet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSetResponse(set))
}

// TopLeaderboard handles GET /sets/{id}/leaderboard.
func (h *Handler) TopLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid limit parameter", Field: "limit"})
			return
		}
		limit = min(parsed, maxLeaderboardLimit)
	}

	leaders, err := h.leaderboard.Top(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaders": leaders})
}

// Results handles GET /results?setId=&correct=&wrong=&bonus=. XP is always
// recomputed from the counters.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summary := domain.RoundSummary{
		SetID:   q.Get("setId"),
		Correct: atoiOrZero(q.Get("correct")),
		Wrong:   atoiOrZero(q.Get("wrong")),
		Bonus:   atoiOrZero(q.Get("bonus")),
	}
	if summary.SetID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "setId is required", Field: "setId"})
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{RoundSummary: summary, XP: summary.XP()})
}

// SubmitScore handles POST /sets/{id}/leaderboard. The score comes from the
// completed play named by playId, never from the client.
func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if req.PlayID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "playId is required", Field: "playId"})
		return
	}

	play, err := h.plays.Get(req.PlayID)
	if err == nil && play.SetID() != chi.URLParam(r, "id") {
		err = domain.ErrPlayNotFound
	}
	if err != nil {
		writeError(w, fmt.Errorf("play %s: %w", req.PlayID, err))
		return
	}

	results, err := h.results.SubmitPlay(r.Context(), play, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	leaders, err := results.Top(r.Context(), 0)
	if err != nil {
		// The score is stored; only the ranking view failed.
		h.logger.Warn("leaderboard fetch after submit failed", "set_id", results.Summary().SetID, "error", err)
		leaders = []domain.RankedEntry{}
	}
	writeJSON(w, http.StatusCreated, submitResponse{XP: results.XP(), Name: strings.TrimSpace(req.Name), Leaders: leaders})
}

// Import handles POST /admin/import (multipart: name, file).
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	set, err := h.imports.Import(r.Context(), r.FormValue("name"), filename, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSetResponse(set))
}

// Preview handles POST /admin/preview (multipart: file).
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	rows, err := h.imports.Preview(filename, data, app.DefaultPreviewRows)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid multipart form"})
		return "", nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Please select a CSV file.", Field: "file"})
		return "", nil, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "failed to read upload", Field: "file"})
		return "", nil, false
	}
	return header.Filename, data, true
}

// HealthCheck handles GET /healthz.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

func atoiOrZero(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
