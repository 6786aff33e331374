package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/config"
	"github.com/vxacademy/academy/internal/apperr"
	"github.com/vxacademy/academy/internal/dto"
	"github.com/vxacademy/academy/internal/model"
	"github.com/vxacademy/academy/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id uint) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, filter repository.UserFilter) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	orgRepo    repository.OrganizationRepository
	roleRepo   repository.RoleRepository
	bcryptCost int
}

func NewUserService(
	db *gorm.DB,
	cfg *config.Config,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	roleRepo repository.RoleRepository,
) UserService {
	cost := cfg.App.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &userService{db: db, userRepo: userRepo, orgRepo: orgRepo, roleRepo: roleRepo, bcryptCost: cost}
}

// checkDetails enforces one detail row matching the user type: sub_admin
// users carry a SubAdminDetail, plain users a NormalUserDetail, admins none.
func checkDetails(t model.UserType, sub *dto.SubAdminDetailDTO, normal *dto.NormalUserDetailDTO) error {
	switch t {
	case model.UserTypeAdmin:
		if sub != nil || normal != nil {
			return apperr.Invalid("user_type", "admin users take no detail record")
		}
	case model.UserTypeSubAdmin:
		if sub == nil {
			return apperr.Invalid("sub_admin_detail", "required for sub_admin users")
		}
		if normal != nil {
			return apperr.Invalid("normal_user_detail", "not allowed for sub_admin users")
		}
	case model.UserTypeUser:
		if normal == nil {
			return apperr.Invalid("normal_user_detail", "required for user accounts")
		}
		if sub != nil {
			return apperr.Invalid("sub_admin_detail", "not allowed for user accounts")
		}
	default:
		return apperr.Invalid("user_type", "must be admin, sub_admin or user")
	}
	return nil
}

// checkClassification verifies the organisation and asset references and their parent links.
func (s *userService) checkClassification(ctx context.Context, orgID, subOrgID, assetID, subAssetID *uint) error {
	if orgID != nil {
		if _, err := s.orgRepo.FindOrganization(ctx, *orgID); err != nil {
			return err
		}
	}
	if subOrgID != nil {
		sub, err := s.orgRepo.FindSubOrganization(ctx, *subOrgID)
		if err != nil {
			return err
		}
		if orgID == nil || sub.OrganizationID != *orgID {
			return apperr.Invalid("sub_organization_id", "must belong to the selected organization")
		}
	}
	if assetID != nil {
		if _, err := s.orgRepo.FindAsset(ctx, *assetID); err != nil {
			return err
		}
	}
	if subAssetID != nil {
		sub, err := s.orgRepo.FindSubAsset(ctx, *subAssetID)
		if err != nil {
			return err
		}
		if assetID == nil || sub.AssetID != *assetID {
			return apperr.Invalid("sub_asset_id", "must belong to the selected asset")
		}
	}
	return nil
}

func (s *userService) checkNormalDetail(ctx context.Context, d *dto.NormalUserDetailDTO) error {
	if d == nil {
		return nil
	}
	if d.RoleID != nil {
		if _, err := s.roleRepo.FindRole(ctx, *d.RoleID); err != nil {
			return err
		}
	}
	if d.SeniorityLevelID != nil {
		if _, err := s.roleRepo.FindSeniority(ctx, *d.SeniorityLevelID); err != nil {
			return err
		}
	}
	return nil
}

func (s *userService) checkUnique(ctx context.Context, email, eid string, userID uint) error {
	if email != "" {
		taken, err := s.userRepo.EmailTaken(ctx, email, userID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("user", "email", email)
		}
	}
	if eid != "" {
		taken, err := s.userRepo.EIDTaken(ctx, eid, userID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("user", "eid", eid)
		}
	}
	return nil
}

func detailEID(sub *dto.SubAdminDetailDTO, normal *dto.NormalUserDetailDTO) string {
	switch {
	case sub != nil:
		return sub.EID
	case normal != nil:
		return normal.EID
	}
	return ""
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	userType := model.UserType(req.UserType)
	if err := checkDetails(userType, req.SubAdminDetail, req.NormalUserDetail); err != nil {
		return nil, err
	}
	if err := s.checkClassification(ctx, req.OrganizationID, req.SubOrganizationID, req.AssetID, req.SubAssetID); err != nil {
		return nil, err
	}
	if err := s.checkNormalDetail(ctx, req.NormalUserDetail); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkUnique(ctx, email, detailEID(req.SubAdminDetail, req.NormalUserDetail), 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("CreateUser: failed to hash password")
		return nil, err
	}
	user := model.User{
		Name:              req.Name,
		Email:             email,
		PasswordHash:      string(hash),
		UserType:          userType,
		OrganizationID:    req.OrganizationID,
		SubOrganizationID: req.SubOrganizationID,
		AssetID:           req.AssetID,
		SubAssetID:        req.SubAssetID,
	}
	if d := req.SubAdminDetail; d != nil {
		user.SubAdminDetail = &model.SubAdminDetail{JobTitle: d.JobTitle, EID: d.EID, Phone: d.Phone}
	}
	if d := req.NormalUserDetail; d != nil {
		user.NormalUserDetail = &model.NormalUserDetail{RoleID: d.RoleID, SeniorityLevelID: d.SeniorityLevelID, EID: d.EID}
	}

	if err := s.userRepo.Create(ctx, &user); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("user", "email", email)
		}
		log.Error().Err(err).Str("email", email).Msg("CreateUser: failed to save")
		return nil, err
	}
	log.Info().Uint("userID", user.ID).Str("type", string(user.UserType)).Msg("User created")
	return toUserResponse(&user), nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]dto.UserResponse, error) {
	if filter.UserType != nil && !filter.UserType.Valid() {
		return nil, apperr.Invalid("user_type", "must be admin, sub_admin or user")
	}
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *toUserResponse(&users[i]))
	}
	return out, nil
}

// UpdateUser edits the profile. The user type is fixed after creation, so a
// detail record may only be replaced by one of the same kind.
func (s *userService) UpdateUser(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch user.UserType {
	case model.UserTypeAdmin:
		if req.SubAdminDetail != nil || req.NormalUserDetail != nil {
			return nil, apperr.Invalid("user_type", "admin users take no detail record")
		}
	case model.UserTypeSubAdmin:
		if req.NormalUserDetail != nil {
			return nil, apperr.Invalid("normal_user_detail", "not allowed for sub_admin users")
		}
	case model.UserTypeUser:
		if req.SubAdminDetail != nil {
			return nil, apperr.Invalid("sub_admin_detail", "not allowed for user accounts")
		}
	}

	setIf(&user.Name, req.Name)
	email := ""
	if req.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*req.Email))
		user.Email = email
	}
	if req.OrganizationID != nil || req.SubOrganizationID != nil {
		user.OrganizationID, user.SubOrganizationID = req.OrganizationID, req.SubOrganizationID
	}
	if req.AssetID != nil || req.SubAssetID != nil {
		user.AssetID, user.SubAssetID = req.AssetID, req.SubAssetID
	}
	if err := s.checkClassification(ctx, user.OrganizationID, user.SubOrganizationID, user.AssetID, user.SubAssetID); err != nil {
		return nil, err
	}
	if err := s.checkNormalDetail(ctx, req.NormalUserDetail); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, email, detailEID(req.SubAdminDetail, req.NormalUserDetail), id); err != nil {
		return nil, err
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			log.Error().Err(err).Uint("userID", id).Msg("UpdateUser: failed to hash password")
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		if d := req.SubAdminDetail; d != nil {
			detail := user.SubAdminDetail
			if detail == nil {
				detail = &model.SubAdminDetail{UserID: user.ID}
			}
			detail.JobTitle, detail.EID, detail.Phone = d.JobTitle, d.EID, d.Phone
			if err := users.SaveSubAdminDetail(ctx, detail); err != nil {
				return err
			}
			user.SubAdminDetail = detail
		}
		if d := req.NormalUserDetail; d != nil {
			detail := user.NormalUserDetail
			if detail == nil {
				detail = &model.NormalUserDetail{UserID: user.ID}
			}
			detail.RoleID, detail.SeniorityLevelID, detail.EID = d.RoleID, d.SeniorityLevelID, d.EID
			if err := users.SaveNormalUserDetail(ctx, detail); err != nil {
				return err
			}
			user.NormalUserDetail = detail
		}
		return nil
	})
	if err != nil {
		if !isClientError(err) {
			log.Error().Err(err).Uint("userID", id).Msg("UpdateUser: transaction failed")
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if !apperr.IsNotFound(err) {
			log.Error().Err(err).Uint("userID", id).Msg("DeleteUser: failed")
		}
		return err
	}
	log.Info().Uint("userID", id).Msg("User deleted")
	return nil
}
