package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"gorm.io/gorm"
)

type BadgeService interface {
	CreateBadge(ctx context.Context, req dto.CreateBadgeRequest) (*model.Badge, error)
	ListBadges(ctx context.Context) ([]model.Badge, error)
	DeleteBadge(ctx context.Context, id uint) error
	// Award grants the badge and its XP once per learner.
	Award(ctx context.Context, badgeID uint, req dto.AwardBadgeRequest) (*dto.UserBadgeResponse, error)
	ListUserBadges(ctx context.Context, userID uint) ([]dto.UserBadgeResponse, error)
}

type badgeService struct {
	db               *gorm.DB
	badgeRepo        repository.BadgeRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

func NewBadgeService(
	db *gorm.DB,
	badgeRepo repository.BadgeRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) BadgeService {
	return &badgeService{db: db, badgeRepo: badgeRepo, userRepo: userRepo, notificationRepo: notificationRepo}
}

func (s *badgeService) CreateBadge(ctx context.Context, req dto.CreateBadgeRequest) (*model.Badge, error) {
	badge := model.Badge{Name: req.Name, Description: req.Description, ImageURL: req.ImageURL, XPPoints: req.XPPoints}
	if err := s.badgeRepo.Create(ctx, &badge); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("badge", "name", req.Name)
		}
		log.Error().Err(err).Msg("CreateBadge: failed to save")
		return nil, err
	}
	return &badge, nil
}

func (s *badgeService) ListBadges(ctx context.Context) ([]model.Badge, error) {
	return s.badgeRepo.FindAll(ctx)
}

func (s *badgeService) DeleteBadge(ctx context.Context, id uint) error {
	return s.badgeRepo.Delete(ctx, id)
}

func (s *badgeService) Award(ctx context.Context, badgeID uint, req dto.AwardBadgeRequest) (*dto.UserBadgeResponse, error) {
	var resp *dto.UserBadgeResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		badges := s.badgeRepo.WithTx(tx)
		users := s.userRepo.WithTx(tx)
		badge, err := badges.FindByID(ctx, badgeID)
		if err != nil {
			return err
		}
		if _, err := users.FindByID(ctx, req.UserID); err != nil {
			return err
		}
		has, err := badges.HasUserBadge(ctx, req.UserID, badgeID)
		if err != nil {
			return err
		}
		if has {
			return apperr.Conflict("user badge", "badge_id", badge.Name)
		}
		ub := model.UserBadge{UserID: req.UserID, BadgeID: badgeID, EarnedAt: time.Now()}
		if err := badges.Award(ctx, &ub); err != nil {
			return err
		}
		if err := users.AddXP(ctx, req.UserID, badge.XPPoints); err != nil {
			return err
		}
		if err := s.notificationRepo.WithTx(tx).Create(ctx, &model.Notification{
			UserID:  req.UserID,
			Type:    model.NotificationBadgeEarned,
			Title:   "Badge earned",
			Message: fmt.Sprintf("You earned the %s badge.", badge.Name),
			Payload: map[string]interface{}{"badge_id": badge.ID},
		}); err != nil {
			return err
		}
		ub.Badge = badge
		r := toUserBadgeResponse(&ub)
		resp = &r
		return nil
	})
	if err != nil && !isClientError(err) {
		log.Error().Err(err).Uint("badgeID", badgeID).Uint("userID", req.UserID).Msg("AwardBadge: transaction failed")
	}
	return resp, err
}

func (s *badgeService) ListUserBadges(ctx context.Context, userID uint) ([]dto.UserBadgeResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.badgeRepo.FindUserBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserBadgeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toUserBadgeResponse(&rows[i]))
	}
	return out, nil
}

func toUserBadgeResponse(ub *model.UserBadge) dto.UserBadgeResponse {
	resp := dto.UserBadgeResponse{BadgeID: ub.BadgeID, EarnedAt: ub.EarnedAt}
	if ub.Badge != nil {
		resp.Name = ub.Badge.Name
		resp.Description = ub.Badge.Description
		resp.ImageURL = ub.Badge.ImageURL
	}
	return resp
}

type NotificationService interface {
	List(ctx context.Context, userID uint, unreadOnly bool) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, userID, id uint) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, userRepo: userRepo}
}

func (s *notificationService) List(ctx context.Context, userID uint, unreadOnly bool) ([]dto.NotificationResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.notificationRepo.FindByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toNotificationResponse(&rows[i]))
	}
	return out, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id uint) error {
	return s.notificationRepo.MarkRead(ctx, userID, id)
}
