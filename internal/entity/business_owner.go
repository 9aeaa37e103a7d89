package entity

import (
	"time"

	"github.com/google/uuid"
)

type Place struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type BusinessType struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code,omitempty"`
}

// BusinessOwner is a registered account together with its business profile.
// Optional fields are pointers so that absent values stay absent on the wire.
type BusinessOwner struct {
	ID uuid.UUID `json:"_id"`

	Username     *string `json:"username,omitempty"`
	Email        *string `json:"email,omitempty"`
	PhoneNumber  *string `json:"phoneNumber,omitempty"`
	PasswordHash *string `json:"-"`

	BusinessName       string        `json:"businessName"`
	BusinessType       *BusinessType `json:"businessType,omitempty"`
	Description        *string       `json:"description,omitempty"`
	Address            *string       `json:"address,omitempty"`
	City               *Place        `json:"city,omitempty"`
	State              *Place        `json:"state,omitempty"`
	ZipCode            *string       `json:"zipCode,omitempty"`
	Country            *Place        `json:"country,omitempty"`
	OpeningTime        string        `json:"openingTime"`
	ClosingTime        string        `json:"closingTime"`
	BookingDuration    int           `json:"bookingDuration"`
	MaxBookings        int           `json:"maxBookings"`
	CancellationPolicy *string       `json:"cancellationPolicy,omitempty"`
	Website            *string       `json:"website,omitempty"`
	SocialMediaLinks   []string      `json:"socialMediaLinks,omitempty"`
	GSTNNumber         *string       `json:"gstnNumber,omitempty"`
	Bio                *string       `json:"bio,omitempty"`
	ProfilePicture     *string       `json:"profilePicture,omitempty"`

	ObjectKeys []string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginIdentifiers lists every value the owner can log in with.
func (o *BusinessOwner) LoginIdentifiers() []string {
	ids := make([]string, 0, 3)

	for _, v := range []*string{o.Username, o.Email, o.PhoneNumber} {
		if v != nil && *v != "" {
			ids = append(ids, *v)
		}
	}

	return ids
}

func (o *BusinessOwner) HasPassword() bool {
	return o.PasswordHash != nil && *o.PasswordHash != ""
}
