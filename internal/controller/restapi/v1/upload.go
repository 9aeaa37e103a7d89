package v1

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// fileRule lists what a multipart upload route accepts.
type fileRule struct {
	contentTypes map[string]bool
	extensions   map[string]bool
	allowed      string
}

var (
	// Profile pictures are stored as sent.
	pictureRule = fileRule{
		contentTypes: map[string]bool{
			"image/jpeg": true,
			"image/jpg":  true,
			"image/png":  true,
			"image/gif":  true,
			"image/webp": true,
		},
		extensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".gif":  true,
			".webp": true,
		},
		allowed: "jpeg, png, gif, webp",
	}

	// Icons are re-encoded by the thumbnailer, which has no webp encoder.
	iconRule = fileRule{
		contentTypes: map[string]bool{
			"image/jpeg": true,
			"image/jpg":  true,
			"image/png":  true,
			"image/gif":  true,
		},
		extensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".gif":  true,
		},
		allowed: "jpeg, png, gif",
	}
)

// formFile reads the image in the multipart field and checks it against rule. The returned
// *fiber.Error carries the status to answer with.
func (r *V1) formFile(ctx *fiber.Ctx, field string, rule fileRule) (dto.FileUpload, *fiber.Error) {
	file, err := ctx.FormFile(field)
	if err != nil {
		return dto.FileUpload{}, fiber.NewError(http.StatusBadRequest, field+" is required")
	}

	if file.Size == 0 {
		return dto.FileUpload{}, fiber.NewError(http.StatusBadRequest, "file is empty")
	}

	if file.Size > r.maxFileSize {
		return dto.FileUpload{}, fiber.NewError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file size cant be more than %d bytes", r.maxFileSize))
	}

	contentType := strings.ToLower(file.Header.Get(fiber.HeaderContentType))
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !rule.contentTypes[contentType] || !rule.extensions[ext] {
		return dto.FileUpload{}, fiber.NewError(http.StatusUnsupportedMediaType, "unsupported file type. Allowed: "+rule.allowed)
	}

	f, err := file.Open()
	if err != nil {
		r.logger.Error(err, "restapi - v1 - formFile - file.Open")

		return dto.FileUpload{}, fiber.NewError(http.StatusInternalServerError, "problems with opening the file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - formFile - io.ReadAll")

		return dto.FileUpload{}, fiber.NewError(http.StatusInternalServerError, "problems with reading the file")
	}

	return dto.FileUpload{Name: file.Filename, ContentType: contentType, Data: data}, nil
}
