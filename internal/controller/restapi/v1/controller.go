package v1

import (
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/logger"
	"github.com/go-playground/validator/v10"
)

type V1 struct {
	cred usecase.Credential
	prof usecase.Profile
	post usecase.Post
	cat  usecase.Category

	logger logger.Interface
	v      *validator.Validate

	maxFileSize int64
}

type UseCases struct {
	Credential usecase.Credential
	Profile    usecase.Profile
	Post       usecase.Post
	Category   usecase.Category
}
