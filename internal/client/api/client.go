// Package api is the HTTP client for the Infokelas portal backend. All
// requests flow through AuthTransport, which owns credential attachment and
// the uniform reaction to authorization failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/infokelas/kelascli/internal/client/models"
	"github.com/infokelas/kelascli/internal/client/session"
	"github.com/infokelas/kelascli/internal/logging"
)

// Client is the full surface the rest of the application calls. The
// concrete implementation is HTTPClient; tests substitute stubs.
type Client interface {
	// Auth endpoints. Login, RequestOTP and ResetPassword are public;
	// everything else is bearer-authenticated by the transport.
	Login(ctx context.Context, identifier, password string) (*Credentials, error)
	Logout(ctx context.Context) error
	RequestOTP(ctx context.Context, identifier string) error
	ResetPassword(ctx context.Context, identifier, otp, newPassword string) error

	// Profile endpoints.
	Profile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (models.User, error)
	UpdatePassword(ctx context.Context, currentPassword, newPassword string) error

	// Portal reads and actions.
	Schedules(ctx context.Context, todayOnly bool) ([]models.Schedule, error)
	Announcements(ctx context.Context, limit int) ([]models.Announcement, error)
	MyClassrooms(ctx context.Context) ([]models.Classroom, error)
	Classroom(ctx context.Context, id int64) (models.Classroom, error)
	Subjects(ctx context.Context, classroomID int64) ([]models.Subject, error)
	JoinClass(ctx context.Context, code string) (models.Classroom, error)
	Assignments(ctx context.Context, classroomID int64) ([]models.Assignment, error)
	Assignment(ctx context.Context, id int64) (models.Assignment, error)
	SubmitAssignment(ctx context.Context, id int64, filename string, file io.Reader) (models.Submission, error)
	MaterialsBySubject(ctx context.Context, subjectID int64) ([]models.Material, error)
	Material(ctx context.Context, id int64) (models.Material, error)
}

// Credentials is the payload of a successful login: the opaque bearer token
// and the initial user snapshot, issued together by the backend.
type Credentials struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// ProfileUpdate carries the multipart profile form. Avatar is optional;
// when nil only the text fields are sent.
type ProfileUpdate struct {
	Name           string
	Email          string
	Phone          string
	Avatar         io.Reader
	AvatarFilename string
}

// HTTPClient talks JSON to a single base URL through an AuthTransport.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient wires the transport decorator around the default transport.
// onAuthFailure runs after a 401/403 evicted the session; nil is allowed.
func NewHTTPClient(baseURL string, store session.Store, timeout time.Duration, onAuthFailure func(), log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &AuthTransport{
				Sessions:      store,
				OnAuthFailure: onAuthFailure,
				Log:           log,
			},
		},
		log: log,
	}
}

// do issues one request and decodes the JSON response into out (when out is
// non-nil). Non-2xx statuses become *StatusError with the backend message;
// transport failures map to ErrUnavailable.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, http.MethodPost, path, nil, body, "application/json", out)
}

// postMultipart writes fields and optional files into a multipart form and
// posts it. files maps field name to (filename, content).
func (c *HTTPClient) postMultipart(ctx context.Context, path string, fields map[string]string, files map[string]filePart, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("encode form: %w", err)
		}
	}
	for name, part := range files {
		fw, err := w.CreateFormFile(name, part.filename)
		if err != nil {
			return fmt.Errorf("encode form: %w", err)
		}
		if _, err := io.Copy(fw, part.content); err != nil {
			return fmt.Errorf("encode form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, &buf, w.FormDataContentType(), out)
}

type filePart struct {
	filename string
	content  io.Reader
}

// readMessage pulls the "message" field out of an error body. Anything
// unparseable yields "" and the caller falls back to a generic message.
func readMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 1<<16))
	if err != nil {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Message
}
