package filestorage

import (
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

func header(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestValidateAllowsPermittedTypes(t *testing.T) {
	if err := Validate(header("a.png", "image/png", 1024), KindAvatar); err != nil {
		t.Fatalf("png avatar rejected: %v", err)
	}
	if err := Validate(header("r.pdf", "application/pdf", 1024), KindResume); err != nil {
		t.Fatalf("pdf resume rejected: %v", err)
	}
}

func TestValidateRejectsDisallowedMIME(t *testing.T) {
	err := Validate(header("x.exe", "application/octet-stream", 100), KindAvatar)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// A resume must not accept images.
	if err := Validate(header("r.png", "image/png", 100), KindResume); err == nil {
		t.Fatal("image accepted as resume")
	}
}

func TestValidateRejectsOversizedFile(t *testing.T) {
	err := Validate(header("big.png", "image/png", 3<<20), KindAvatar)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error for oversized avatar, got %v", err)
	}
}

func TestValidateStripsMIMEParameters(t *testing.T) {
	if err := Validate(header("a.png", "image/png; charset=binary", 100), KindAvatar); err != nil {
		t.Fatalf("parameterized content type rejected: %v", err)
	}
}

func TestValidateNilHeader(t *testing.T) {
	if err := Validate(nil, KindAvatar); err == nil {
		t.Fatal("nil header accepted")
	}
}
