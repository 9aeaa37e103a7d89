package request

import (
	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
)

type Profile struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=64"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,min=5,max=20"`

	BusinessName       *string              `json:"businessName" validate:"omitempty,max=200"`
	BusinessType       *entity.BusinessType `json:"businessType"`
	Description        *string              `json:"description" validate:"omitempty,max=2000"`
	Address            *string              `json:"address" validate:"omitempty,max=500"`
	City               *entity.Place        `json:"city"`
	State              *entity.Place        `json:"state"`
	ZipCode            *string              `json:"zipCode" validate:"omitempty,max=20"`
	Country            *entity.Place        `json:"country"`
	OpeningTime        *string              `json:"openingTime" validate:"omitempty,max=16"`
	ClosingTime        *string              `json:"closingTime" validate:"omitempty,max=16"`
	BookingDuration    *int                 `json:"bookingDuration" validate:"omitempty,gt=0"`
	MaxBookings        *int                 `json:"maxBookings" validate:"omitempty,gt=0"`
	CancellationPolicy *string              `json:"cancellationPolicy" validate:"omitempty,max=2000"`
	Website            *string              `json:"website" validate:"omitempty,url"`
	SocialMediaLinks   []string             `json:"socialMediaLinks" validate:"omitempty,max=20,dive,url"`
	GSTNNumber         *string              `json:"gstnNumber" validate:"omitempty,max=32"`
	Bio                *string              `json:"bio" validate:"omitempty,max=2000"`
}

func (p Profile) Input() dto.ProfileInput {
	return dto.ProfileInput{
		Username:           p.Username,
		Email:              p.Email,
		PhoneNumber:        p.PhoneNumber,
		BusinessName:       p.BusinessName,
		BusinessType:       p.BusinessType,
		Description:        p.Description,
		Address:            p.Address,
		City:               p.City,
		State:              p.State,
		ZipCode:            p.ZipCode,
		Country:            p.Country,
		OpeningTime:        p.OpeningTime,
		ClosingTime:        p.ClosingTime,
		BookingDuration:    p.BookingDuration,
		MaxBookings:        p.MaxBookings,
		CancellationPolicy: p.CancellationPolicy,
		Website:            p.Website,
		SocialMediaLinks:   p.SocialMediaLinks,
		GSTNNumber:         p.GSTNNumber,
		Bio:                p.Bio,
	}
}

// Register takes profile fields either at the top level or wrapped in "user".
type Register struct {
	Profile
	User     *Profile `json:"user"`
	Password *string  `json:"password" validate:"omitempty,min=6,max=72"`
}

func (r Register) Input() dto.RegisterInput {
	p := r.Profile
	if r.User != nil {
		p = *r.User
	}

	return dto.RegisterInput{Profile: p.Input(), Password: r.Password}
}

type Login struct {
	Identifier string `json:"usernameOrEmailOrPhone" validate:"required,max=254"`
	Password   string `json:"password" validate:"required,max=72"`
}
