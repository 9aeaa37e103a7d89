package response

import "github.com/andreyxaxa/LocalStoreConnect/internal/entity"

type Error struct {
	Error string `json:"error" example:"message"`
}

// User is an account as returned at registration, token included.
type User struct {
	*entity.BusinessOwner
	Token string `json:"token,omitempty"`
}

type Register struct {
	User    User   `json:"user"`
	Message string `json:"message"`
}

type Login struct {
	User  *entity.BusinessOwner `json:"user"`
	Token string                `json:"token"`
}

type Upload struct {
	Message string `json:"message"`
	FileURL string `json:"fileUrl"`
}

type Data struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

type DeletePost struct {
	DeletedCount int64    `json:"deletedCount"`
	FailedKeys   []string `json:"failedKeys,omitempty"`
}
