package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/logger"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/google/uuid"
)

const filesPrefix = "user-files"

type ProfileUseCase struct {
	owners     repo.OwnerRepo
	gateway    usecase.ObjectGateway
	releases   usecase.ReleaseEnqueuer
	transactor repo.Transactor
	cache      repo.OwnerCache

	logger logger.Interface
}

func New(
	owners repo.OwnerRepo,
	gateway usecase.ObjectGateway,
	releases usecase.ReleaseEnqueuer,
	transactor repo.Transactor,
	cache repo.OwnerCache,
	l logger.Interface,
) *ProfileUseCase {
	return &ProfileUseCase{
		owners:     owners,
		gateway:    gateway,
		releases:   releases,
		transactor: transactor,
		cache:      cache,
		logger:     l,
	}
}

// Create stores a new profile. Absent optional fields stay absent.
func (uc *ProfileUseCase) Create(ctx context.Context, in dto.ProfileInput, passwordHash *string) (*entity.BusinessOwner, error) {
	now := time.Now().UTC()

	owner := &entity.BusinessOwner{
		ID:           uuid.New(),
		PasswordHash: passwordHash,
		ObjectKeys:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	apply(owner, in)

	if err := validate(owner); err != nil {
		return nil, fmt.Errorf("ProfileUseCase - Create - validate: %w", err)
	}

	err := uc.owners.Create(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("ProfileUseCase - Create - uc.owners.Create: %w", err)
	}

	return owner, nil
}

func (uc *ProfileUseCase) Get(ctx context.Context, id uuid.UUID) (*entity.BusinessOwner, error) {
	owner, err := uc.owners.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ProfileUseCase - Get - uc.owners.GetByID: %w", err)
	}

	return owner, nil
}

func (uc *ProfileUseCase) List(ctx context.Context) ([]*entity.BusinessOwner, error) {
	owners, err := uc.owners.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ProfileUseCase - List - uc.owners.List: %w", err)
	}

	return owners, nil
}

// Update applies the supplied fields on top of the stored profile.
func (uc *ProfileUseCase) Update(ctx context.Context, id uuid.UUID, in dto.ProfileInput) (*entity.BusinessOwner, error) {
	current, err := uc.owners.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ProfileUseCase - Update - uc.owners.GetByID: %w", err)
	}

	next := *current
	apply(&next, in)
	next.UpdatedAt = time.Now().UTC()

	if err := validate(&next); err != nil {
		return nil, fmt.Errorf("ProfileUseCase - Update - validate: %w", err)
	}

	err = uc.owners.Update(ctx, &next)
	if err != nil {
		return nil, fmt.Errorf("ProfileUseCase - Update - uc.owners.Update: %w", err)
	}

	uc.cache.Invalidate(current)
	uc.cache.Invalidate(&next)

	return &next, nil
}

// AttachFile uploads file as the profile picture. The picture it replaces is released.
func (uc *ProfileUseCase) AttachFile(ctx context.Context, id uuid.UUID, file dto.FileUpload) (string, error) {
	owner, err := uc.owners.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("ProfileUseCase - AttachFile - uc.owners.GetByID: %w", err)
	}

	var oldKey string
	if owner.ProfilePicture != nil {
		oldKey, _ = uc.gateway.KeyFromURL(*owner.ProfilePicture)
	}

	upload := dto.ObjectUpload{
		File: file,
		Hint: dto.KeyHint{Prefix: filesPrefix, Scope: id.String(), FileName: file.Name},
	}

	stored, err := uc.gateway.UploadAndPersist(ctx, []dto.ObjectUpload{upload}, func(ctx context.Context, stored []entity.StoredObject) error {
		return uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			err := uc.owners.ReplaceProfilePicture(ctx, id, stored[0].URL, stored[0].Key, oldKey)
			if err != nil {
				return fmt.Errorf("uc.owners.ReplaceProfilePicture: %w", err)
			}

			if oldKey == "" {
				return nil
			}

			return uc.releases.Enqueue(ctx, []string{oldKey}, entity.ReasonProfilePictureReplaced)
		})
	})
	if err != nil {
		return "", fmt.Errorf("ProfileUseCase - AttachFile - uc.gateway.UploadAndPersist: %w", err)
	}

	uc.cache.Invalidate(owner)

	return stored[0].URL, nil
}

func apply(o *entity.BusinessOwner, in dto.ProfileInput) {
	if in.Username != nil {
		o.Username = normalized(*in.Username, true)
	}
	if in.Email != nil {
		o.Email = normalized(*in.Email, true)
	}
	if in.PhoneNumber != nil {
		o.PhoneNumber = normalized(*in.PhoneNumber, false)
	}
	if in.BusinessName != nil {
		o.BusinessName = strings.TrimSpace(*in.BusinessName)
	}
	if in.BusinessType != nil {
		bt := *in.BusinessType
		o.BusinessType = &bt
	}
	if in.Description != nil {
		o.Description = in.Description
	}
	if in.Address != nil {
		o.Address = in.Address
	}
	if in.City != nil {
		o.City = in.City
	}
	if in.State != nil {
		o.State = in.State
	}
	if in.ZipCode != nil {
		o.ZipCode = in.ZipCode
	}
	if in.Country != nil {
		o.Country = in.Country
	}
	if in.OpeningTime != nil {
		o.OpeningTime = strings.TrimSpace(*in.OpeningTime)
	}
	if in.ClosingTime != nil {
		o.ClosingTime = strings.TrimSpace(*in.ClosingTime)
	}
	if in.BookingDuration != nil {
		o.BookingDuration = *in.BookingDuration
	}
	if in.MaxBookings != nil {
		o.MaxBookings = *in.MaxBookings
	}
	if in.CancellationPolicy != nil {
		o.CancellationPolicy = in.CancellationPolicy
	}
	if in.Website != nil {
		o.Website = in.Website
	}
	if in.SocialMediaLinks != nil {
		o.SocialMediaLinks = in.SocialMediaLinks
	}
	if in.GSTNNumber != nil {
		o.GSTNNumber = in.GSTNNumber
	}
	if in.Bio != nil {
		o.Bio = in.Bio
	}
}

// normalized trims v and returns nil for blank values.
func normalized(v string, lower bool) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if lower {
		v = strings.ToLower(v)
	}

	return &v
}

func validate(o *entity.BusinessOwner) error {
	var missing []string

	if o.Email == nil && o.PhoneNumber == nil {
		missing = append(missing, "email or phoneNumber")
	}
	if o.BusinessName == "" {
		missing = append(missing, "businessName")
	}
	if o.OpeningTime == "" {
		missing = append(missing, "openingTime")
	}
	if o.ClosingTime == "" {
		missing = append(missing, "closingTime")
	}
	if o.BookingDuration <= 0 {
		missing = append(missing, "bookingDuration")
	}
	if o.MaxBookings <= 0 {
		missing = append(missing, "maxBookings")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: invalid or missing %s", errs.ErrValidation, strings.Join(missing, ", "))
	}

	return nil
}
