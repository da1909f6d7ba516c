package handler

import (
	"io"
	"net/http"
	"strings"

	"atelier/internal/httputil"
	"atelier/internal/service/llm"
)

// isMultipart reports whether the request carries a multipart form (the
// transport shape used when a file is attached).
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formAttachment reads the optional "file" field of an already-parsed
// multipart form into an attachment.
func formAttachment(r *http.Request) (*llm.Attachment, error) {
	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, httputil.MaxBodyBytes))
	if err != nil {
		return nil, err
	}

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = http.DetectContentType(data)
	}

	return &llm.Attachment{
		Filename:  header.Filename,
		MediaType: mediaType,
		Data:      data,
	}, nil
}
