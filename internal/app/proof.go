// ABOUTME: Encodes and decodes proof images carried as data URLs
// ABOUTME: Enforces the image-only and size limits before upload

package app

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// EncodeProof validates an image and returns it as a data URL.
// The error message is user-facing.
func EncodeProof(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New(MsgProofRequired)
	}
	if len(data) > MaxProofSize {
		return "", errors.New(MsgProofTooLarge)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", errors.New(MsgProofNotImage)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeProof splits a data URL into its content type and bytes
func DecodeProof(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, errors.New(MsgProofNotFound)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New(MsgProofNotFound)
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		text, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, errors.New(MsgProofNotFound)
		}
		return contentType, []byte(text), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.New(MsgProofNotFound)
	}
	return contentType, data, nil
}

// ProofFileName names the saved proof of piece id after its content type
func ProofFileName(id int, contentType string) string {
	ext := "img"
	switch contentType {
	case "image/png":
		ext = "png"
	case "image/jpeg":
		ext = "jpg"
	case "image/gif":
		ext = "gif"
	case "image/webp":
		ext = "webp"
	case "image/bmp":
		ext = "bmp"
	}
	return "comprovacao_" + strconv.Itoa(id) + "." + ext
}
