package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikhailRaia/link-rewards/internal/middleware"
	"github.com/MikhailRaia/link-rewards/internal/service"
)

type createLinkRequest struct {
	OriginalURL string `json:"originalUrl"`
}

// createLinkResponse keys match the request side's camelCase; short_url is a
// convenience supplement for clients that don't want to build the URL.
type createLinkResponse struct {
	ShortCode string `json:"shortCode"`
	ShortURL  string `json:"short_url"`
}

func (h *Handler) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req createLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	if req.OriginalURL == "" {
		writeMessage(w, http.StatusBadRequest, "originalUrl is required")
		return
	}

	link, err := h.links.CreateLink(r.Context(), userID, req.OriginalURL)
	if err != nil {
		if errors.Is(err, service.ErrInvalidURL) {
			writeMessage(w, http.StatusBadRequest, "originalUrl must be a valid http(s) URL")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "failed to create link")
		return
	}

	writeJSON(w, http.StatusCreated, createLinkResponse{
		ShortCode: link.ShortCode,
		ShortURL:  h.links.ShortURL(link.ShortCode),
	})
}

func (h *Handler) handleUserLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	links, err := h.links.UserLinks(r.Context(), userID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "failed to list links")
		return
	}

	if len(links) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, links)
}
