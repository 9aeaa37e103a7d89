package dto

import "github.com/andreyxaxa/LocalStoreConnect/internal/entity"

// ProfileInput is a sparse set of profile fields. Nil means "not supplied".
type ProfileInput struct {
	Username    *string
	Email       *string
	PhoneNumber *string

	BusinessName       *string
	BusinessType       *entity.BusinessType
	Description        *string
	Address            *string
	City               *entity.Place
	State              *entity.Place
	ZipCode            *string
	Country            *entity.Place
	OpeningTime        *string
	ClosingTime        *string
	BookingDuration    *int
	MaxBookings        *int
	CancellationPolicy *string
	Website            *string
	SocialMediaLinks   []string
	GSTNNumber         *string
	Bio                *string
}

type RegisterInput struct {
	Profile  ProfileInput
	Password *string
}

type Session struct {
	Owner *entity.BusinessOwner
	Token string
}

type Claims struct {
	Subject     string
	Email       string
	PhoneNumber string
}
