package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"barberbook/internal/access"
	"barberbook/pkg/config"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/keylock"
	"barberbook/pkg/kv"
	"barberbook/pkg/model"

	"github.com/google/uuid"
)

// Redemption rate: 100 points buy $10 of discount. Fixed policy, not
// configuration.
const (
	redeemPointsPerUnit   = 100
	redeemDiscountPerUnit = 10
)

type AwardResult struct {
	PointsAwarded int `json:"pointsAwarded"`
	TotalPoints   int `json:"totalPoints"`
}

type RedeemResult struct {
	PointsRedeemed  int     `json:"pointsRedeemed"`
	DiscountAmount  float64 `json:"discountAmount"`
	RemainingPoints int     `json:"remainingPoints"`
}

type LoyaltyService interface {
	// Award credits the integer portion of a currency label ("$45" -> 45)
	// and appends an earned transaction.
	Award(ctx context.Context, userID, priceLabel, description string) (*AwardResult, error)
	Redeem(ctx context.Context, identity model.Identity, points int, description string) (*RedeemResult, error)
	Stats(ctx context.Context, identity model.Identity) (*model.UserStats, error)
}

type loyaltyService struct {
	store kv.Store
	locks *keylock.KeyedMutex
	cfg   *config.Config
}

func NewLoyaltyService(store kv.Store, locks *keylock.KeyedMutex, cfg *config.Config) LoyaltyService {
	return &loyaltyService{
		store: store,
		locks: locks,
		cfg:   cfg,
	}
}

// ParsePointsLabel turns a currency-formatted price into a points award.
// Only the leading integer counts: "$45" and "$45.50" both award 45.
func ParsePointsLabel(label string) (int, error) {
	trimmed := strings.TrimSpace(label)
	trimmed = strings.TrimPrefix(trimmed, "$")

	digits := 0
	points := 0
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			break
		}
		points = points*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return 0, fmt.Errorf("no numeric amount in price label %q", label)
	}
	return points, nil
}

func (s *loyaltyService) Award(ctx context.Context, userID, priceLabel, description string) (*AwardResult, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	points, err := ParsePointsLabel(priceLabel)
	if err != nil {
		return nil, apperrors.InvalidInput("Price is not a currency amount: " + priceLabel)
	}

	var result *AwardResult
	lockErr := s.locks.WithLock(userID, func() error {
		current, err := s.readInt(ctx, kv.UserPointsKey(userID))
		if err != nil {
			return apperrors.Persistence("Failed to read points balance", err)
		}

		total := current + points
		if err := s.store.Set(ctx, kv.UserPointsKey(userID), total); err != nil {
			return apperrors.Persistence("Failed to write points balance", err)
		}

		if err := s.appendTransaction(ctx, userID, model.PointsTransaction{
			ID:          uuid.NewString(),
			Type:        model.TransactionEarned,
			Points:      points,
			Description: description,
			Date:        time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}

		result = &AwardResult{PointsAwarded: points, TotalPoints: total}
		return nil
	})
	if lockErr != nil {
		s.cfg.Log.Error("Failed to award points", "user_id", userID, "error", lockErr)
		return nil, lockErr
	}

	s.cfg.Log.Info("Points awarded",
		"user_id", userID,
		"points", result.PointsAwarded,
		"total", result.TotalPoints,
	)
	return result, nil
}

func (s *loyaltyService) Redeem(ctx context.Context, identity model.Identity, points int, description string) (*RedeemResult, error) {
	if points <= 0 {
		return nil, apperrors.InvalidInput("Points to redeem must be a positive integer")
	}
	if description == "" {
		description = "Points redeemed"
	}

	var result *RedeemResult
	lockErr := s.locks.WithLock(identity.ID, func() error {
		current, err := s.readInt(ctx, kv.UserPointsKey(identity.ID))
		if err != nil {
			return apperrors.Persistence("Failed to read points balance", err)
		}

		if points > current {
			return apperrors.InsufficientBalance(fmt.Sprintf(
				"Cannot redeem %d points with a balance of %d", points, current,
			))
		}

		remaining := current - points
		if err := s.store.Set(ctx, kv.UserPointsKey(identity.ID), remaining); err != nil {
			return apperrors.Persistence("Failed to write points balance", err)
		}

		if err := s.appendTransaction(ctx, identity.ID, model.PointsTransaction{
			ID:          uuid.NewString(),
			Type:        model.TransactionRedeemed,
			Points:      -points,
			Description: description,
			Date:        time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}

		result = &RedeemResult{
			PointsRedeemed:  points,
			DiscountAmount:  float64(points) / redeemPointsPerUnit * redeemDiscountPerUnit,
			RemainingPoints: remaining,
		}
		return nil
	})
	if lockErr != nil {
		return nil, lockErr
	}

	s.cfg.Log.Info("Points redeemed",
		"user_id", identity.ID,
		"points", result.PointsRedeemed,
		"remaining", result.RemainingPoints,
	)
	return result, nil
}

// Stats reads the four ledger keys, lazily initializing any that are absent.
// Accounts created before the loyalty ledger existed have no keys at all;
// the init runs under the user's lock so two concurrent first reads write at
// most once.
func (s *loyaltyService) Stats(ctx context.Context, identity model.Identity) (*model.UserStats, error) {
	stats := &model.UserStats{
		Role:          access.Role(identity.Metadata),
		Bookings:      []model.Booking{},
		PointsHistory: []model.PointsTransaction{},
	}

	lockErr := s.locks.WithLock(identity.ID, func() error {
		points, found, err := s.readIntFound(ctx, kv.UserPointsKey(identity.ID))
		if err != nil {
			return apperrors.Persistence("Failed to read points", err)
		}
		if !found {
			if err := s.store.Set(ctx, kv.UserPointsKey(identity.ID), 0); err != nil {
				return apperrors.Persistence("Failed to initialize points", err)
			}
		}
		stats.Points = points

		visits, found, err := s.readIntFound(ctx, kv.UserVisitsKey(identity.ID))
		if err != nil {
			return apperrors.Persistence("Failed to read visits", err)
		}
		if !found {
			if err := s.store.Set(ctx, kv.UserVisitsKey(identity.ID), 0); err != nil {
				return apperrors.Persistence("Failed to initialize visits", err)
			}
		}
		stats.Visits = visits

		var bookings []model.Booking
		err = s.store.Get(ctx, kv.UserBookingsKey(identity.ID), &bookings)
		if errors.Is(err, kv.ErrNotFound) {
			if err := s.store.Set(ctx, kv.UserBookingsKey(identity.ID), []model.Booking{}); err != nil {
				return apperrors.Persistence("Failed to initialize bookings", err)
			}
		} else if err != nil {
			return apperrors.Persistence("Failed to read bookings", err)
		} else if bookings != nil {
			stats.Bookings = bookings
		}

		var history []model.PointsTransaction
		err = s.store.Get(ctx, kv.UserPointsHistoryKey(identity.ID), &history)
		if errors.Is(err, kv.ErrNotFound) {
			if err := s.store.Set(ctx, kv.UserPointsHistoryKey(identity.ID), []model.PointsTransaction{}); err != nil {
				return apperrors.Persistence("Failed to initialize points history", err)
			}
		} else if err != nil {
			return apperrors.Persistence("Failed to read points history", err)
		} else if history != nil {
			stats.PointsHistory = history
		}

		return nil
	})
	if lockErr != nil {
		return nil, lockErr
	}

	return stats, nil
}

func (s *loyaltyService) appendTransaction(ctx context.Context, userID string, tx model.PointsTransaction) error {
	var history []model.PointsTransaction
	err := s.store.Get(ctx, kv.UserPointsHistoryKey(userID), &history)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return apperrors.Persistence("Failed to read points history", err)
	}

	history = append(history, tx)
	if err := s.store.Set(ctx, kv.UserPointsHistoryKey(userID), history); err != nil {
		return apperrors.Persistence("Failed to write points history", err)
	}
	return nil
}

func (s *loyaltyService) readInt(ctx context.Context, key string) (int, error) {
	value, _, err := s.readIntFound(ctx, key)
	return value, err
}

func (s *loyaltyService) readIntFound(ctx context.Context, key string) (int, bool, error) {
	var value int
	err := s.store.Get(ctx, key, &value)
	if errors.Is(err, kv.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}
