package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"online-voting-backend/internal/domain"
	"online-voting-backend/pkg/utils"
)

// TokenIssuer 登录成功后签发会话令牌
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type AccountService struct {
	store  domain.Store
	hasher utils.PasswordHasher
	tokens TokenIssuer
	log    *zap.Logger
}

func NewAccountService(store domain.Store, hasher utils.PasswordHasher, tokens TokenIssuer, l *zap.Logger) *AccountService {
	return &AccountService{store: store, hasher: hasher, tokens: tokens, log: l}
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// UpdateInput 仅非 nil 字段生效
type UpdateInput struct {
	Name     *string
	Email    *string
	IsActive *bool
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.Internal("hash password failed", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		IsActive:     true,
	}

	err = s.store.Tx(ctx, func(tx domain.Store) error {
		existing, err := tx.Users().FindByEmail(ctx, email)
		if err != nil {
			return domain.Internal("lookup user failed", err)
		}
		if existing != nil {
			return domain.Conflict(domain.MsgUserExists)
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.Conflict(domain.MsgUserExists)
			}
			return domain.Internal("create user failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", domain.Internal("lookup user failed", err)
	}
	if u == nil {
		return "", domain.NotFound(domain.MsgUserNotFound)
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return "", domain.Unauthorized(domain.MsgInvalidCredentials, nil)
	}
	tok, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return "", domain.Internal("issue token failed", err)
	}
	return tok, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in UpdateInput) (*domain.User, error) {
	var out *domain.User
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return domain.Internal("lookup user failed", err)
		}
		if u == nil {
			return domain.NotFound(domain.MsgUserNotFound)
		}

		if in.Name != nil {
			u.Name = strings.TrimSpace(*in.Name)
		}
		if in.Email != nil {
			email := strings.TrimSpace(*in.Email)
			taken, err := tx.Users().EmailTaken(ctx, email, u.ID)
			if err != nil {
				return domain.Internal("check email failed", err)
			}
			if taken {
				return domain.Conflict(domain.MsgUserExists)
			}
			u.Email = email
		}
		if in.IsActive != nil {
			u.IsActive = *in.IsActive
		}

		if err := tx.Users().Update(ctx, u); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.Conflict(domain.MsgUserExists)
			}
			return domain.Internal("update user failed", err)
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAccount 只删账号，已投的票保留计数
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		ok, err := tx.Users().Delete(ctx, userID)
		if err != nil {
			return domain.Internal("delete user failed", err)
		}
		if !ok {
			return domain.NotFound(domain.MsgUserNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("user_id", userID))
	return nil
}
