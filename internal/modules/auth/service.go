package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rihla/internal/domain"
	"rihla/internal/pkg/jwt"
	"rihla/internal/repository"
)

type Service struct {
	db     *gorm.DB
	tokens *jwt.Service
	log    zerolog.Logger
}

func NewService(db *gorm.DB, tokens *jwt.Service, log zerolog.Logger) *Service {
	return &Service{db: db, tokens: tokens, log: log}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	user, err := s.createUser(ctx, s.db, req.Email, req.Password, req.Name, req.Phone, domain.RoleRequester)
	if err != nil {
		return nil, err
	}
	return s.issue(user, nil)
}

// RegisterProvider creates the account and provider profile atomically.
func (s *Service) RegisterProvider(ctx context.Context, req RegisterProviderRequest) (*AuthResponse, error) {
	businessType := domain.BusinessType(req.BusinessType)
	if !businessType.Valid() {
		return nil, ErrInvalidBusinessType
	}

	var user *domain.User
	var provider *domain.Provider
	err := s.db.Transaction(func(tx *gorm.DB) error {
		u, err := s.createUser(ctx, tx, req.Email, req.Password, req.Name, req.Phone, domain.RoleProvider)
		if err != nil {
			return err
		}
		p := &domain.Provider{
			UserID:       u.ID,
			CompanyName:  req.CompanyName,
			BusinessType: businessType,
			Active:       true,
		}
		if err := repository.NewProviderRepository(tx).Create(ctx, p); err != nil {
			return err
		}
		user, provider = u, p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("user_id", user.ID).
		Str("business_type", req.BusinessType).
		Msg("provider registered")
	return s.issue(user, provider)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := repository.NewUserRepository(s.db).GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	var provider *domain.Provider
	if user.Role == domain.RoleProvider {
		p, err := repository.NewProviderRepository(s.db).GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		provider = p
	}
	return s.issue(user, provider)
}

func (s *Service) createUser(ctx context.Context, tx *gorm.DB, email, password, name, phone string, role domain.UserRole) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	users := repository.NewUserRepository(tx)
	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Name:         name,
		Phone:        phone,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) issue(user *domain.User, provider *domain.Provider) (*AuthResponse, error) {
	var providerID int64
	if provider != nil {
		providerID = provider.ID
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role), providerID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: user, Provider: provider}, nil
}
