package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/KHILANO5/Campusfound/internal/model"
	"github.com/KHILANO5/Campusfound/internal/repository"
	"github.com/KHILANO5/Campusfound/pkg/apperr"
	"github.com/KHILANO5/Campusfound/pkg/logger"
)

// invalidCredentials is shared by every login failure so callers cannot tell
// an unknown email from a wrong password.
const invalidCredentials = "invalid email or password"

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService 注册与登录（仅邮箱+密码校验，无会话）
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.PublicUser, error)
	Login(ctx context.Context, in LoginInput) (*model.PublicUser, error)
}

type authService struct {
	users     repository.UserRepository
	cost      int
	dummyHash []byte
	clock     Clock
}

// NewAuthService builds the service. cost outside bcrypt's range falls back to
// bcrypt.DefaultCost.
func NewAuthService(users repository.UserRepository, cost int, clock Clock) (AuthService, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if clock == nil {
		clock = SystemClock
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("campusfound-timing-equaliser"), cost)
	if err != nil {
		return nil, err
	}
	return &authService{users: users, cost: cost, dummyHash: dummy, clock: clock}, nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *authService) Register(ctx context.Context, in RegisterInput) (_ *model.PublicUser, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Register")
	defer func() { endSpan(span, err) }()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Storage("find user by email", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Storage("hash password", err)
	}

	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Storage("insert user", err)
	}

	logger.Info("user registered", zap.Uint64("user_id", u.ID))
	return u.Public(), nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (_ *model.PublicUser, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer func() { endSpan(span, err) }()

	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Storage("find user by email", err)
	}
	if u == nil {
		// keep the response time close to the wrong-password path
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		return nil, apperr.Auth(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperr.Auth(invalidCredentials)
	}
	return u.Public(), nil
}
