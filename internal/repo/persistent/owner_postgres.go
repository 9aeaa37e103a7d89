package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/postgres"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	ownersTable = "business_owners"

	// Columns
	ownerIDColumn                 = "id"
	ownerUsernameColumn           = "username"
	ownerEmailColumn              = "email"
	ownerPhoneColumn              = "phone_number"
	ownerPasswordHashColumn       = "password_hash"
	ownerBusinessNameColumn       = "business_name"
	ownerBusinessTypeColumn       = "business_type"
	ownerDescriptionColumn        = "description"
	ownerAddressColumn            = "address"
	ownerCityColumn               = "city"
	ownerStateColumn              = "state"
	ownerZipCodeColumn            = "zip_code"
	ownerCountryColumn            = "country"
	ownerOpeningTimeColumn        = "opening_time"
	ownerClosingTimeColumn        = "closing_time"
	ownerBookingDurationColumn    = "booking_duration"
	ownerMaxBookingsColumn        = "max_bookings"
	ownerCancellationPolicyColumn = "cancellation_policy"
	ownerWebsiteColumn            = "website"
	ownerSocialMediaLinksColumn   = "social_media_links"
	ownerGSTNNumberColumn         = "gstn_number"
	ownerBioColumn                = "bio"
	ownerProfilePictureColumn     = "profile_picture"
	ownerObjectKeysColumn         = "object_keys"
	ownerCreatedAtColumn          = "created_at"
	ownerUpdatedAtColumn          = "updated_at"
)

var ownerColumns = []string{
	ownerIDColumn,
	ownerUsernameColumn,
	ownerEmailColumn,
	ownerPhoneColumn,
	ownerPasswordHashColumn,
	ownerBusinessNameColumn,
	ownerBusinessTypeColumn,
	ownerDescriptionColumn,
	ownerAddressColumn,
	ownerCityColumn,
	ownerStateColumn,
	ownerZipCodeColumn,
	ownerCountryColumn,
	ownerOpeningTimeColumn,
	ownerClosingTimeColumn,
	ownerBookingDurationColumn,
	ownerMaxBookingsColumn,
	ownerCancellationPolicyColumn,
	ownerWebsiteColumn,
	ownerSocialMediaLinksColumn,
	ownerGSTNNumberColumn,
	ownerBioColumn,
	ownerProfilePictureColumn,
	ownerObjectKeysColumn,
	ownerCreatedAtColumn,
	ownerUpdatedAtColumn,
}

type OwnerRepo struct {
	*postgres.Postgres
}

func NewOwnerRepo(pg *postgres.Postgres) *OwnerRepo {
	return &OwnerRepo{pg}
}

// ownerValues follows the order of ownerColumns.
func ownerValues(o *entity.BusinessOwner) []any {
	keys := o.ObjectKeys
	if keys == nil {
		keys = []string{}
	}

	return []any{
		o.ID,
		o.Username,
		o.Email,
		o.PhoneNumber,
		o.PasswordHash,
		o.BusinessName,
		o.BusinessType,
		o.Description,
		o.Address,
		o.City,
		o.State,
		o.ZipCode,
		o.Country,
		o.OpeningTime,
		o.ClosingTime,
		o.BookingDuration,
		o.MaxBookings,
		o.CancellationPolicy,
		o.Website,
		o.SocialMediaLinks,
		o.GSTNNumber,
		o.Bio,
		o.ProfilePicture,
		keys,
		o.CreatedAt,
		o.UpdatedAt,
	}
}

func scanOwner(row pgx.Row) (*entity.BusinessOwner, error) {
	var o entity.BusinessOwner

	err := row.Scan(
		&o.ID,
		&o.Username,
		&o.Email,
		&o.PhoneNumber,
		&o.PasswordHash,
		&o.BusinessName,
		&o.BusinessType,
		&o.Description,
		&o.Address,
		&o.City,
		&o.State,
		&o.ZipCode,
		&o.Country,
		&o.OpeningTime,
		&o.ClosingTime,
		&o.BookingDuration,
		&o.MaxBookings,
		&o.CancellationPolicy,
		&o.Website,
		&o.SocialMediaLinks,
		&o.GSTNNumber,
		&o.Bio,
		&o.ProfilePicture,
		&o.ObjectKeys,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *OwnerRepo) Create(ctx context.Context, owner *entity.BusinessOwner) error {
	sql, args, err := r.Builder.
		Insert(ownersTable).
		Columns(ownerColumns...).
		Values(ownerValues(owner)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("OwnerRepo - Create - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("OwnerRepo - Create: %w", errs.ErrDuplicate)
		}
		return fmt.Errorf("OwnerRepo - Create - executor.Exec: %w", err)
	}

	return nil
}

func (r *OwnerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.BusinessOwner, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{ownerIDColumn: id})
}

// GetByIdentifier matches identifier against username, email and phone number.
func (r *OwnerRepo) GetByIdentifier(ctx context.Context, identifier string) (*entity.BusinessOwner, error) {
	return r.getOne(ctx, "GetByIdentifier", squirrel.Or{
		squirrel.Eq{ownerUsernameColumn: identifier},
		squirrel.Eq{ownerEmailColumn: identifier},
		squirrel.Eq{ownerPhoneColumn: identifier},
	})
}

func (r *OwnerRepo) getOne(ctx context.Context, method string, where squirrel.Sqlizer) (*entity.BusinessOwner, error) {
	sql, args, err := r.Builder.
		Select(ownerColumns...).
		From(ownersTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("OwnerRepo - %s - r.Builder.ToSql: %w", method, err)
	}

	executor := r.GetExecutor(ctx)

	owner, err := scanOwner(executor.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("OwnerRepo - %s: %w", method, errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("OwnerRepo - %s - executor.QueryRow.Scan: %w", method, err)
	}

	return owner, nil
}

func (r *OwnerRepo) List(ctx context.Context) ([]*entity.BusinessOwner, error) {
	sql, args, err := r.Builder.
		Select(ownerColumns...).
		From(ownersTable).
		OrderBy(ownerCreatedAtColumn + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("OwnerRepo - List - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("OwnerRepo - List - executor.Query: %w", err)
	}
	defer rows.Close()

	owners := make([]*entity.BusinessOwner, 0)
	for rows.Next() {
		owner, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("OwnerRepo - List - rows.Scan: %w", err)
		}
		owners = append(owners, owner)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("OwnerRepo - List - rows.Err: %w", err)
	}

	return owners, nil
}

// Update rewrites every mutable column from owner. Id, password, picture and timestamps of creation are left alone.
func (r *OwnerRepo) Update(ctx context.Context, owner *entity.BusinessOwner) error {
	sql, args, err := r.Builder.
		Update(ownersTable).
		SetMap(map[string]any{
			ownerUsernameColumn:           owner.Username,
			ownerEmailColumn:              owner.Email,
			ownerPhoneColumn:              owner.PhoneNumber,
			ownerBusinessNameColumn:       owner.BusinessName,
			ownerBusinessTypeColumn:       owner.BusinessType,
			ownerDescriptionColumn:        owner.Description,
			ownerAddressColumn:            owner.Address,
			ownerCityColumn:               owner.City,
			ownerStateColumn:              owner.State,
			ownerZipCodeColumn:            owner.ZipCode,
			ownerCountryColumn:            owner.Country,
			ownerOpeningTimeColumn:        owner.OpeningTime,
			ownerClosingTimeColumn:        owner.ClosingTime,
			ownerBookingDurationColumn:    owner.BookingDuration,
			ownerMaxBookingsColumn:        owner.MaxBookings,
			ownerCancellationPolicyColumn: owner.CancellationPolicy,
			ownerWebsiteColumn:            owner.Website,
			ownerSocialMediaLinksColumn:   owner.SocialMediaLinks,
			ownerGSTNNumberColumn:         owner.GSTNNumber,
			ownerBioColumn:                owner.Bio,
			ownerUpdatedAtColumn:          owner.UpdatedAt,
		}).
		Where(squirrel.Eq{ownerIDColumn: owner.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("OwnerRepo - Update - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("OwnerRepo - Update: %w", errs.ErrDuplicate)
		}
		return fmt.Errorf("OwnerRepo - Update - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("OwnerRepo - Update: %w", errs.ErrRecordNotFound)
	}

	return nil
}

// ReplaceProfilePicture points the profile at url and swaps oldKey for newKey in the tracked keys.
func (r *OwnerRepo) ReplaceProfilePicture(ctx context.Context, id uuid.UUID, url, newKey, oldKey string) error {
	sql, args, err := r.Builder.
		Update(ownersTable).
		Set(ownerProfilePictureColumn, url).
		Set(ownerObjectKeysColumn, squirrel.Expr("array_append(array_remove("+ownerObjectKeysColumn+", ?::text), ?::text)", oldKey, newKey)).
		Set(ownerUpdatedAtColumn, time.Now()).
		Where(squirrel.Eq{ownerIDColumn: id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("OwnerRepo - ReplaceProfilePicture - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("OwnerRepo - ReplaceProfilePicture - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("OwnerRepo - ReplaceProfilePicture: %w", errs.ErrRecordNotFound)
	}

	return nil
}
