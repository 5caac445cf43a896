// Package validators checks client-supplied upload input before any
// external collaborator is invoked
package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
	ErrNoFile              = errors.New("no file provided")
	ErrNoTitle             = errors.New("title can't be empty")
)

// TitleValidator rejects titles that are empty once surrounding whitespace
// is stripped. Returns the trimmed title.
func TitleValidator(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", ErrNoTitle
	}

	return t, nil
}

// FileValidator checks a multipart upload against the configured size limit
// and the expected mime class ("video" or "image"). The declared header is
// checked first which is easy to spoof, but faster for legit clients, then
// the actual content is sniffed.
func FileValidator(fh *multipart.FileHeader, mimeClass string) (int, multipart.File, error) {
	if fh == nil || fh.Size == 0 {
		return http.StatusBadRequest, nil, ErrNoFile
	}

	ct := fh.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, mimeClass+"/") {
		return http.StatusBadRequest, nil, ErrFileTypeUnsupported
	}

	if fh.Size > viper.GetInt64("upload.max_size") {
		return http.StatusRequestEntityTooLarge, nil, ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	if !strings.HasPrefix(mime.String(), mimeClass+"/") {
		f.Close()
		return http.StatusBadRequest, nil, ErrFileTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	return 0, f, nil
}
