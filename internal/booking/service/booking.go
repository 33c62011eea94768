package service

import (
	"context"
	"errors"
	"time"

	"barberbook/internal/access"
	"barberbook/internal/booking/validator"
	"barberbook/internal/events"
	loyaltysvc "barberbook/internal/loyalty/service"
	"barberbook/pkg/config"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/keylock"
	"barberbook/pkg/kv"
	"barberbook/pkg/model"

	"github.com/google/uuid"
)

type CreateRequest struct {
	Service  string `json:"service"`
	Barber   string `json:"barber"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Price    string `json:"price"`
	Duration string `json:"duration"`
}

type CreateResult struct {
	Booking       model.Booking `json:"booking"`
	PointsAwarded int           `json:"pointsAwarded"`
	TotalPoints   int           `json:"totalPoints"`
}

type BookingService interface {
	Create(ctx context.Context, identity model.Identity, req CreateRequest) (*CreateResult, error)
	UpdateStatus(ctx context.Context, identity model.Identity, bookingID, targetUserID, status string) error
	ListAll(ctx context.Context, identity model.Identity) ([]model.Booking, error)
}

type bookingService struct {
	store     kv.Store
	locks     *keylock.KeyedMutex
	loyalty   loyaltysvc.LoyaltyService
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	store kv.Store,
	locks *keylock.KeyedMutex,
	loyalty loyaltysvc.LoyaltyService,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		store:     store,
		locks:     locks,
		loyalty:   loyalty,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create persists the booking, mirrors it into the global index, awards
// points and bumps the visit count. The steps are independent record-store
// writes with no rollback: a failure partway leaves the earlier writes in
// place, which is why the error log below names the step that failed.
func (s *bookingService) Create(ctx context.Context, identity model.Identity, req CreateRequest) (*CreateResult, error) {
	input := validator.CreateInput{
		Service:  req.Service,
		Barber:   req.Barber,
		Date:     req.Date,
		Time:     req.Time,
		Price:    req.Price,
		Duration: req.Duration,
	}
	if err := s.validator.ValidateCreate(&input); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "user_id", identity.ID, "error", err)
		return nil, apperrors.Validation("Invalid booking input", map[string]any{"error": err.Error()})
	}

	// Reject unparsable prices before any write happens, not after the
	// booking is already persisted.
	if _, err := loyaltysvc.ParsePointsLabel(req.Price); err != nil {
		return nil, apperrors.InvalidInput("Price is not a currency amount: " + req.Price)
	}

	booking := model.Booking{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		UserName:  identity.Metadata.Name,
		UserPhone: identity.Metadata.Phone,
		Service:   req.Service,
		Barber:    req.Barber,
		Date:      req.Date,
		Time:      req.Time,
		Price:     req.Price,
		Duration:  req.Duration,
		Status:    model.StatusUpcoming,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.appendUserBooking(ctx, identity.ID, booking); err != nil {
		s.cfg.Log.Error("Failed to persist booking", "step", "user_list", "user_id", identity.ID, "error", err)
		return nil, err
	}

	if err := s.appendGlobalBooking(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to persist booking", "step", "global_index",
			"user_id", identity.ID, "booking_id", booking.ID, "error", err)
		return nil, err
	}

	award, err := s.loyalty.Award(ctx, identity.ID, req.Price, "Booked "+req.Service)
	if err != nil {
		s.cfg.Log.Error("Failed to persist booking", "step", "award_points",
			"user_id", identity.ID, "booking_id", booking.ID, "error", err)
		return nil, err
	}

	if err := s.incrementVisits(ctx, identity.ID); err != nil {
		s.cfg.Log.Error("Failed to persist booking", "step", "visits",
			"user_id", identity.ID, "booking_id", booking.ID, "error", err)
		return nil, err
	}

	s.publisher.BookingCreated(ctx, booking)

	s.cfg.Log.Info("Booking created",
		"booking_id", booking.ID,
		"user_id", identity.ID,
		"service", booking.Service,
		"points_awarded", award.PointsAwarded,
	)

	return &CreateResult{
		Booking:       booking,
		PointsAwarded: award.PointsAwarded,
		TotalPoints:   award.TotalPoints,
	}, nil
}

// UpdateStatus rewrites the matching booking in the target user's list and
// in the global index. A booking id present in neither returns NotFound; a
// partial match (one list only) is applied where found and logged, since the
// two copies can drift when an earlier create failed between writes.
func (s *bookingService) UpdateStatus(ctx context.Context, identity model.Identity, bookingID, targetUserID, status string) error {
	if err := access.RequireEmployee(identity); err != nil {
		return err
	}
	if bookingID == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := validator.ValidateStatus(status); err != nil {
		return apperrors.Validation("Invalid status", map[string]any{"error": err.Error()})
	}

	var updated *model.Booking

	foundInUser := false
	if targetUserID != "" {
		var err error
		foundInUser, updated, err = s.setStatusInList(ctx, kv.UserBookingsKey(targetUserID), targetUserID, bookingID, status)
		if err != nil {
			return err
		}
	}

	foundInGlobal, globalCopy, err := s.setStatusInList(ctx, kv.AllBookingsKey, "admin", bookingID, status)
	if err != nil {
		return err
	}
	if globalCopy != nil {
		updated = globalCopy
	}

	if !foundInUser && !foundInGlobal {
		return apperrors.NotFoundWithID("Booking", bookingID)
	}
	if foundInUser != foundInGlobal {
		s.cfg.Log.Warn("Booking lists out of sync during status update",
			"booking_id", bookingID,
			"target_user_id", targetUserID,
			"in_user_list", foundInUser,
			"in_global_index", foundInGlobal,
		)
	}

	if updated != nil {
		s.publisher.BookingStatusChanged(ctx, *updated)
	}

	s.cfg.Log.Info("Booking status updated",
		"booking_id", bookingID,
		"target_user_id", targetUserID,
		"status", status,
		"updated_by", identity.ID,
	)
	return nil
}

func (s *bookingService) ListAll(ctx context.Context, identity model.Identity) ([]model.Booking, error) {
	if err := access.RequireEmployee(identity); err != nil {
		return nil, err
	}

	var bookings []model.Booking
	err := s.store.Get(ctx, kv.AllBookingsKey, &bookings)
	if errors.Is(err, kv.ErrNotFound) {
		return []model.Booking{}, nil
	}
	if err != nil {
		return nil, apperrors.Persistence("Failed to read bookings", err)
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return bookings, nil
}

func (s *bookingService) appendUserBooking(ctx context.Context, userID string, booking model.Booking) error {
	return s.locks.WithLock(userID, func() error {
		var bookings []model.Booking
		err := s.store.Get(ctx, kv.UserBookingsKey(userID), &bookings)
		if err != nil && !errors.Is(err, kv.ErrNotFound) {
			return apperrors.Persistence("Failed to read bookings", err)
		}

		bookings = append(bookings, booking)
		if err := s.store.Set(ctx, kv.UserBookingsKey(userID), bookings); err != nil {
			return apperrors.Persistence("Failed to write bookings", err)
		}
		return nil
	})
}

func (s *bookingService) appendGlobalBooking(ctx context.Context, booking model.Booking) error {
	return s.locks.WithLock("admin", func() error {
		var bookings []model.Booking
		err := s.store.Get(ctx, kv.AllBookingsKey, &bookings)
		if err != nil && !errors.Is(err, kv.ErrNotFound) {
			return apperrors.Persistence("Failed to read global booking index", err)
		}

		bookings = append(bookings, booking)
		if err := s.store.Set(ctx, kv.AllBookingsKey, bookings); err != nil {
			return apperrors.Persistence("Failed to write global booking index", err)
		}
		return nil
	})
}

func (s *bookingService) incrementVisits(ctx context.Context, userID string) error {
	return s.locks.WithLock(userID, func() error {
		var visits int
		err := s.store.Get(ctx, kv.UserVisitsKey(userID), &visits)
		if err != nil && !errors.Is(err, kv.ErrNotFound) {
			return apperrors.Persistence("Failed to read visit count", err)
		}

		if err := s.store.Set(ctx, kv.UserVisitsKey(userID), visits+1); err != nil {
			return apperrors.Persistence("Failed to write visit count", err)
		}
		return nil
	})
}

// setStatusInList rewrites the booking with the given id inside the list at
// key, leaving every other entry untouched.
func (s *bookingService) setStatusInList(ctx context.Context, key, lockKey, bookingID, status string) (bool, *model.Booking, error) {
	var updated *model.Booking
	found := false

	err := s.locks.WithLock(lockKey, func() error {
		var bookings []model.Booking
		err := s.store.Get(ctx, key, &bookings)
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		if err != nil {
			return apperrors.Persistence("Failed to read bookings", err)
		}

		for i := range bookings {
			if bookings[i].ID == bookingID {
				bookings[i].Status = status
				copied := bookings[i]
				updated = &copied
				found = true
				break
			}
		}
		if !found {
			return nil
		}

		if err := s.store.Set(ctx, key, bookings); err != nil {
			return apperrors.Persistence("Failed to write bookings", err)
		}
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return found, updated, nil
}
