// Package upload sends review photos to the hosted image service using its
// unsigned-preset flow. The file travels as multipart form data together with
// the preset name; the response carries the delivery URL the review stores.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"
	"sync/atomic"

	"github.com/yuvi-2309/Foodie-Finder/pkg/httpclient"

	apperrors "github.com/yuvi-2309/Foodie-Finder/pkg/errors"
)

// MaxFileSize is the upload ceiling. Files at or under this pass.
const MaxFileSize = 5 * 1024 * 1024

// allowedTypes is the image MIME allow-list. Anything else is rejected
// before any bytes leave the machine.
var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

type poster interface {
	Post(ctx context.Context, url string, contentType string, body io.Reader) (*http.Response, error)
}

// Config carries the image service endpoint and the unsigned preset name.
type Config struct {
	URL    string
	Preset string
}

// Uploader validates and ships image files.
type Uploader struct {
	cfg    Config
	client poster
	logger *slog.Logger

	mu        sync.RWMutex
	uploading bool
	progress  atomic.Int64
	total     atomic.Int64
}

// New creates an uploader posting through client, normally a circuit-breaker
// wrapped httpclient.
func New(cfg Config, client poster, log *slog.Logger) *Uploader {
	return &Uploader{cfg: cfg, client: client, logger: log}
}

// ValidateFile checks the MIME type and size ceiling without touching the
// network. The returned errors carry user-facing messages.
func ValidateFile(contentType string, size int64) error {
	if _, ok := allowedTypes[contentType]; !ok {
		return apperrors.InvalidInput("Please select an image file (JPEG, PNG, GIF, or WebP)")
	}
	if size > MaxFileSize {
		return apperrors.InvalidInput("Image must be smaller than 5MB")
	}
	return nil
}

// uploadResponse is the subset of the image service payload the client uses.
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// countingReader tracks bytes consumed so Progress can report them.
type countingReader struct {
	r io.Reader
	n *atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

// Upload validates the file and posts it, returning the delivery URL.
// Exactly one upload runs at a time; a second call while one is in flight
// is rejected rather than queued.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, size int64, file io.Reader) (string, error) {
	if err := ValidateFile(contentType, size); err != nil {
		return "", err
	}

	u.mu.Lock()
	if u.uploading {
		u.mu.Unlock()
		return "", apperrors.Conflict("An upload is already in progress")
	}
	u.uploading = true
	u.progress.Store(0)
	u.total.Store(size)
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		u.uploading = false
		u.mu.Unlock()
	}()

	body, contentTypeHeader, err := u.buildForm(filename, contentType, file)
	if err != nil {
		return "", err
	}

	resp, err := u.client.Post(ctx, u.cfg.URL, contentTypeHeader, body)
	if err != nil {
		u.logger.ErrorContext(ctx, "image upload failed", slog.String("error", err.Error()))
		return "", apperrors.Wrap(err, "Failed to upload image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", httpclient.ParseResponseError(resp, "Failed to upload image")
	}

	var payload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", apperrors.Wrap(err, "Failed to upload image")
	}
	if payload.SecureURL == "" {
		return "", apperrors.InvalidInput("Image service returned no delivery URL")
	}

	u.logger.InfoContext(ctx, "image uploaded",
		slog.String("filename", filename),
		slog.Int64("bytes", size),
	)
	return payload.SecureURL, nil
}

// buildForm assembles the multipart body in memory. The size ceiling keeps
// the buffer small, and a seekable buffer lets the transport retry the post.
func (u *Uploader) buildForm(filename, contentType string, file io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", apperrors.Wrap(err, "Failed to upload image")
	}

	counted := &countingReader{r: file, n: &u.progress}
	if _, err := io.Copy(part, counted); err != nil {
		return nil, "", apperrors.Wrap(err, "Failed to upload image")
	}
	if err := writer.WriteField("upload_preset", u.cfg.Preset); err != nil {
		return nil, "", apperrors.Wrap(err, "Failed to upload image")
	}
	if err := writer.Close(); err != nil {
		return nil, "", apperrors.Wrap(err, "Failed to upload image")
	}

	return bytes.NewReader(buf.Bytes()), writer.FormDataContentType(), nil
}

// Uploading reports whether an upload is in flight.
func (u *Uploader) Uploading() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.uploading
}

// Progress returns bytes sent and the expected total.
func (u *Uploader) Progress() (sent, total int64) {
	return u.progress.Load(), u.total.Load()
}

// String implements fmt.Stringer for log lines.
func (c Config) String() string {
	return fmt.Sprintf("upload{url=%s preset=%s}", c.URL, c.Preset)
}
