package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/storage"
	"github.com/MikhailRaia/link-rewards/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkService_CreateLink(t *testing.T) {
	tests := []struct {
		name        string
		originalURL string
		wantErr     error
	}{
		{
			name:        "Valid https URL",
			originalURL: "https://example.com/page",
		},
		{
			name:        "Valid http URL",
			originalURL: "http://example.com",
		},
		{
			name:        "Missing scheme",
			originalURL: "example.com/page",
			wantErr:     ErrInvalidURL,
		},
		{
			name:        "Unsupported scheme",
			originalURL: "ftp://example.com/file",
			wantErr:     ErrInvalidURL,
		},
		{
			name:        "Missing host",
			originalURL: "https://",
			wantErr:     ErrInvalidURL,
		},
		{
			name:        "Empty URL",
			originalURL: "",
			wantErr:     ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewLinkService(memory.NewStorage(), "http://localhost:8080")

			link, err := svc.CreateLink(context.Background(), "user-1", tt.originalURL)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, link.ShortCode, shortCodeLength)
			assert.Equal(t, "user-1", link.OwnerID)
			assert.Equal(t, tt.originalURL, link.OriginalURL)
			assert.Equal(t, int64(0), link.Clicks)
		})
	}
}

func TestLinkService_CreateLink_RetriesOnCollision(t *testing.T) {
	var attempts int
	links := &mockLinkStore{
		createLinkFunc: func(link *model.Link) error {
			attempts++
			if attempts < 3 {
				return storage.ErrCodeTaken
			}
			return nil
		},
	}

	svc := NewLinkService(links, "http://localhost:8080")

	link, err := svc.CreateLink(context.Background(), "user-1", "https://example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, link.ShortCode)
	assert.Equal(t, 3, attempts)
}

func TestLinkService_CreateLink_GivesUpAfterMaxAttempts(t *testing.T) {
	var attempts int
	links := &mockLinkStore{
		createLinkFunc: func(link *model.Link) error {
			attempts++
			return storage.ErrCodeTaken
		},
	}

	svc := NewLinkService(links, "http://localhost:8080")

	_, err := svc.CreateLink(context.Background(), "user-1", "https://example.com")
	assert.ErrorIs(t, err, storage.ErrCodeTaken)
	assert.Equal(t, maxCodeAttempts, attempts)
}

func TestLinkService_CreateLink_PropagatesStoreError(t *testing.T) {
	storeErr := errors.New("store down")
	links := &mockLinkStore{
		createLinkFunc: func(link *model.Link) error { return storeErr },
	}

	svc := NewLinkService(links, "http://localhost:8080")

	_, err := svc.CreateLink(context.Background(), "user-1", "https://example.com")
	assert.ErrorIs(t, err, storeErr)
}

func TestLinkService_ShortURL(t *testing.T) {
	svc := NewLinkService(memory.NewStorage(), "http://localhost:8080")
	assert.Equal(t, "http://localhost:8080/visit/abc123", svc.ShortURL("abc123"))

	svc = NewLinkService(memory.NewStorage(), "http://localhost:8080/")
	assert.Equal(t, "http://localhost:8080/visit/abc123", svc.ShortURL("abc123"))
}

func TestLinkService_UserLinks(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStorage()
	require.NoError(t, store.CreateLink(ctx, &model.Link{
		ShortCode:   "abc123",
		OwnerID:     "user-1",
		OriginalURL: "https://example.com",
		Clicks:      7,
	}))
	require.NoError(t, store.CreateLink(ctx, &model.Link{
		ShortCode:   "zzz999",
		OwnerID:     "user-2",
		OriginalURL: "https://other.example.com",
	}))

	svc := NewLinkService(store, "http://localhost:8080")

	links, err := svc.UserLinks(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "http://localhost:8080/visit/abc123", links[0].ShortURL)
	assert.Equal(t, "https://example.com", links[0].OriginalURL)
	assert.Equal(t, int64(7), links[0].Clicks)

	links, err = svc.UserLinks(ctx, "user-3")
	require.NoError(t, err)
	assert.Empty(t, links)
}
