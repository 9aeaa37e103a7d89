package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/internal/infrastructure"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/logger"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
)

type CredentialUseCase struct {
	profiles usecase.Profile
	owners   repo.OwnerRepo
	cache    repo.OwnerCache
	tokens   infrastructure.TokenIssuer
	hasher   infrastructure.PasswordHasher

	logger logger.Interface
	now    func() time.Time
}

func New(
	profiles usecase.Profile,
	owners repo.OwnerRepo,
	cache repo.OwnerCache,
	tokens infrastructure.TokenIssuer,
	hasher infrastructure.PasswordHasher,
	l logger.Interface,
) *CredentialUseCase {
	return &CredentialUseCase{
		profiles: profiles,
		owners:   owners,
		cache:    cache,
		tokens:   tokens,
		hasher:   hasher,
		logger:   l,
		now:      time.Now,
	}
}

// Register creates the account and its profile, then issues a session token.
// Exactly one of email or phone number must be supplied.
func (uc *CredentialUseCase) Register(ctx context.Context, in dto.RegisterInput) (dto.Session, error) {
	email := present(in.Profile.Email)
	phone := present(in.Profile.PhoneNumber)

	switch {
	case !email && !phone:
		return dto.Session{}, fmt.Errorf("CredentialUseCase - Register: email or phoneNumber is required: %w", errs.ErrValidation)
	case email && phone:
		return dto.Session{}, fmt.Errorf("CredentialUseCase - Register: only one of email or phoneNumber is allowed: %w", errs.ErrValidation)
	}

	var hash *string
	if in.Password != nil && *in.Password != "" {
		h, err := uc.hasher.Hash(*in.Password)
		if err != nil {
			return dto.Session{}, fmt.Errorf("CredentialUseCase - Register - uc.hasher.Hash: %w", err)
		}
		hash = &h
	}

	owner, err := uc.profiles.Create(ctx, in.Profile, hash)
	if err != nil {
		return dto.Session{}, fmt.Errorf("CredentialUseCase - Register - uc.profiles.Create: %w", err)
	}

	return uc.session(owner)
}

// Authenticate matches identifier against username, email and phone number.
// Every failure past input validation is reported as invalid credentials.
func (uc *CredentialUseCase) Authenticate(ctx context.Context, identifier, password string) (dto.Session, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return dto.Session{}, fmt.Errorf("CredentialUseCase - Authenticate: identifier and password are required: %w", errs.ErrValidation)
	}

	owner, err := uc.lookup(ctx, identifier)
	if err != nil {
		return dto.Session{}, fmt.Errorf("CredentialUseCase - Authenticate - uc.lookup: %w", err)
	}

	if !owner.HasPassword() {
		return dto.Session{}, fmt.Errorf("CredentialUseCase - Authenticate: no password set: %w", errs.ErrInvalidCredentials)
	}

	err = uc.hasher.Compare(*owner.PasswordHash, password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			return dto.Session{}, fmt.Errorf("CredentialUseCase - Authenticate - uc.hasher.Compare: %w", err)
		}
		return dto.Session{}, fmt.Errorf("CredentialUseCase - Authenticate - uc.hasher.Compare: %w: %w", errs.ErrInvalidCredentials, err)
	}

	return uc.session(owner)
}

func (uc *CredentialUseCase) VerifyToken(token string) (dto.Claims, error) {
	c, err := uc.tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		return dto.Claims{}, fmt.Errorf("CredentialUseCase - VerifyToken - uc.tokens.Parse: %w", err)
	}

	return c, nil
}

func (uc *CredentialUseCase) lookup(ctx context.Context, identifier string) (*entity.BusinessOwner, error) {
	if owner, ok := uc.cache.Get(identifier); ok {
		return owner, nil
	}

	owner, err := uc.owners.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return nil, fmt.Errorf("uc.owners.GetByIdentifier: %w", errs.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("uc.owners.GetByIdentifier: %w", err)
	}

	uc.cache.Set(identifier, owner)

	return owner, nil
}

func (uc *CredentialUseCase) session(owner *entity.BusinessOwner) (dto.Session, error) {
	c := dto.Claims{Subject: owner.ID.String()}
	if owner.Email != nil {
		c.Email = *owner.Email
	}
	if owner.PhoneNumber != nil {
		c.PhoneNumber = *owner.PhoneNumber
	}

	token, err := uc.tokens.Issue(c, uc.now())
	if err != nil {
		return dto.Session{}, fmt.Errorf("CredentialUseCase - session - uc.tokens.Issue: %w", err)
	}

	return dto.Session{Owner: owner, Token: token}, nil
}

func present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}
