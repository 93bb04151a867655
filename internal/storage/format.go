package storage

import (
	"mime"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUndeterminedType = errors.New("file type could not be determined")
	ErrUnsupportedType  = errors.New("invalid file type")
)

// extensions maps accepted image MIME types onto stored file extensions.
// Supporting another format is a matter of adding a row.
var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

// ExtensionFor returns the extension for a declared content type.
// Parameters and letter case are ignored: "image/PNG; q=1" is "png".
func ExtensionFor(contentType string) (string, error) {
	if strings.TrimSpace(contentType) == "" {
		return "", ErrUndeterminedType
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.Wrapf(ErrUnsupportedType, "%q: %v", contentType, err)
	}
	ext, ok := extensions[mediaType]
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedType, "%q", mediaType)
	}
	return ext, nil
}
