package objectgateway

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	suffixLen  = 10
	defaultExt = "bin"
)

var extByContentType = map[string]string{
	"image/jpeg":      "jpg",
	"image/jpg":       "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"application/pdf": "pdf",
}

func extension(fileName, contentType string) string {
	if ext, ok := extByContentType[strings.ToLower(contentType)]; ok {
		return ext
	}

	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), "."); ext != "" {
		return ext
	}

	return defaultExt
}

func buildKey(hint dto.KeyHint, contentType string, now time.Time) (string, error) {
	suffix, err := gonanoid.New(suffixLen)
	if err != nil {
		return "", fmt.Errorf("gonanoid.New: %w", err)
	}

	return fmt.Sprintf("%s/%s-%d-%s.%s",
		strings.Trim(hint.Prefix, "/"),
		hint.Scope,
		now.UnixMilli(),
		suffix,
		extension(hint.FileName, contentType),
	), nil
}
