package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

type errorBody struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	NotFound bool   `json:"notFound,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		repo       *domain.RepositoryError
		cfg        *domain.ConfigurationError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: validation.Message, Field: validation.Field})
	case domain.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), NotFound: true})
	case errors.Is(err, app.ErrAlreadySubmitted), errors.Is(err, app.ErrRoundInProgress):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.As(err, &repo):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: repo.Error()})
	case errors.As(err, &cfg):
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: cfg.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}
