package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/storage"
	"github.com/rs/zerolog/log"
)

// RewardPerClick is the fixed credit applied to a link owner per recorded
// visit: 0.2 currency units.
const RewardPerClick = model.Money(20)

// VisitGate decides whether a visit earns a reward. It is the anti-abuse
// extension point: implementations may rate-limit or fingerprint, but the
// default (nil) gate rewards every visit, so repeated visits by the same
// client all count.
type VisitGate interface {
	Allow(ctx context.Context, visit model.Visit) bool
}

// RewardService is the reward ledger engine: it resolves short codes and
// credits link owners for recorded visits.
type RewardService struct {
	links storage.LinkStore
	users storage.UserStore
	gate  VisitGate
}

// NewRewardService constructs a RewardService. gate may be nil.
func NewRewardService(links storage.LinkStore, users storage.UserStore, gate VisitGate) *RewardService {
	return &RewardService{
		links: links,
		users: users,
		gate:  gate,
	}
}

// Resolve returns the destination URL for a short code without recording a
// visit.
func (s *RewardService) Resolve(ctx context.Context, shortCode string) (string, error) {
	link, err := s.links.GetLink(ctx, shortCode)
	if err != nil {
		return "", err
	}
	return link.OriginalURL, nil
}

// RecordClick counts one visit on the link's click counter. Counting happens
// on the redirect path so every served redirect is a counted click; the
// reward follows separately through CreditVisit.
func (s *RewardService) RecordClick(ctx context.Context, shortCode string) error {
	if err := s.links.IncrementClicks(ctx, shortCode, 1); err != nil {
		return fmt.Errorf("error counting click: %w", err)
	}
	return nil
}

// CreditVisit pays the owner of the visited link. A counted click whose
// credit has not landed yet is the expected in-between state; a crediting
// failure leaves the click counted and is reported, not hidden.
func (s *RewardService) CreditVisit(ctx context.Context, visit model.Visit) error {
	if s.gate != nil && !s.gate.Allow(ctx, visit) {
		log.Debug().Str("shortCode", visit.ShortCode).Msg("Visit gate suppressed reward")
		return nil
	}

	link, err := s.links.GetLink(ctx, visit.ShortCode)
	if err != nil {
		return err
	}

	if err := s.users.CreditBalance(ctx, link.OwnerID, RewardPerClick); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("%w: %s", ErrOwnerNotFound, link.OwnerID)
		}
		return fmt.Errorf("error crediting reward: %w", err)
	}

	return nil
}
