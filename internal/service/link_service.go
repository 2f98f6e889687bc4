package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/MikhailRaia/link-rewards/internal/generator"
	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/storage"
)

const (
	shortCodeLength = 8
	// Collisions in an 8-character base62 space are rare; a handful of
	// retries is enough before reporting the store error.
	maxCodeAttempts = 5
)

// LinkService creates short links and lists a user's links.
type LinkService struct {
	links   storage.LinkStore
	baseURL string
}

// NewLinkService constructs a LinkService with the given store and base URL.
func NewLinkService(links storage.LinkStore, baseURL string) *LinkService {
	return &LinkService{
		links:   links,
		baseURL: baseURL,
	}
}

// CreateLink registers a new short link owned by the user.
func (s *LinkService) CreateLink(ctx context.Context, ownerID, originalURL string) (*model.Link, error) {
	parsed, err := url.ParseRequestURI(originalURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, ErrInvalidURL
	}

	var link *model.Link
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generator.GenerateID(shortCodeLength)
		if err != nil {
			return nil, fmt.Errorf("error generating short code: %w", err)
		}

		link = &model.Link{
			ShortCode:   code,
			OwnerID:     ownerID,
			OriginalURL: originalURL,
		}

		err = s.links.CreateLink(ctx, link)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, storage.ErrCodeTaken) {
			return nil, err
		}
	}

	return nil, storage.ErrCodeTaken
}

// ShortURL returns the absolute short URL for a code.
func (s *LinkService) ShortURL(code string) string {
	joined, _ := url.JoinPath(s.baseURL, "visit", code)
	return joined
}

// UserLinks returns all links belonging to a user in their external form.
func (s *LinkService) UserLinks(ctx context.Context, userID string) ([]model.UserLink, error) {
	links, err := s.links.GetUserLinks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user links: %w", err)
	}

	result := make([]model.UserLink, len(links))
	for i, link := range links {
		result[i] = model.UserLink{
			ShortURL:    s.ShortURL(link.ShortCode),
			OriginalURL: link.OriginalURL,
			Clicks:      link.Clicks,
		}
	}

	return result, nil
}
