package model

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// Photo is an image attachment uploaded together with a project proposal.
type Photo struct {
	ID       string
	MIMEType string
	Data     []byte
}

// photoTypes は保存を許可する画像形式です。SVGはスクリプトを含められるため除外します。
var photoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// IsPhotoType reports whether mimeType may be served as a stored photo.
func IsPhotoType(mimeType string) bool {
	return photoTypes[mimeType]
}

// DecodePhoto decodes a base64 payload as sent by browsers. A data URL prefix
// ("data:image/png;base64,") is accepted. The stored media type is detected
// from the decoded bytes; the declared type is ignored.
func DecodePhoto(id, payload, mimeType string) (*Photo, error) {
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		_, body, found := strings.Cut(rest, ",")
		if !found {
			return nil, NewValidationError("malformed data URL")
		}
		payload = body
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, NewValidationError("photo data is not valid base64")
	}
	if len(data) == 0 {
		return nil, NewValidationError("photo data is empty")
	}

	detected, _, _ := strings.Cut(http.DetectContentType(data), ";")
	if !IsPhotoType(detected) {
		return nil, NewValidationError(fmt.Sprintf("unsupported photo type %q (declared %q)", detected, mimeType))
	}
	return &Photo{ID: id, MIMEType: detected, Data: data}, nil
}
