package record

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/brightacademy/core"
)

// RemoteBackend talks to the REST API. Authenticated calls carry the bearer token.
type RemoteBackend struct {
	baseURL string
	token   string
	client  *rest.Client
}

var _ Backend = (*RemoteBackend)(nil)

// NewRemoteBackend returns an anonymous backend for the API rooted at baseURL (e.g. "http://localhost:8000/v1").
func NewRemoteBackend(baseURL string, timeout time.Duration) *RemoteBackend {
	return &RemoteBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

// WithToken returns a copy of the backend authenticated with token.
func (b *RemoteBackend) WithToken(token string) *RemoteBackend {
	c := *b
	c.token = token
	return &c
}

// Login exchanges credentials for an API token.
func (b *RemoteBackend) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", errors.Wrap(err, "encoding credentials")
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err = b.send(ctx, "login", rest.Post, "/users/login", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// RequestPasswordReset asks the API to mail a reset link to email and returns its reply.
func (b *RemoteBackend) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return "", errors.Wrap(err, "encoding email")
	}
	var resp struct {
		Success string `json:"success"`
	}
	if err = b.send(ctx, "request password reset", rest.Post, "/users/password-reset", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.Success, nil
}

func (b *RemoteBackend) ConfirmPasswordReset(ctx context.Context, uid, token, password, confirm string) error {
	body, err := json.Marshal(map[string]string{
		"uid": uid, "token": token, "password": password, "password_confirm": confirm,
	})
	if err != nil {
		return errors.Wrap(err, "encoding password reset")
	}
	return b.send(ctx, "confirm password reset", rest.Post, "/users/password-reset-confirm", nil, body, nil)
}

func (b *RemoteBackend) List(ctx context.Context, kind string, params Params) ([]Entity, error) {
	query := make(map[string]string, len(params.Filters)+2)
	if params.Search != "" {
		query["search"] = params.Search
	}
	for k, v := range params.Filters {
		if v != "" {
			query[k] = v
		}
	}
	if params.Limit > 0 {
		query["limit"] = strconv.Itoa(params.Limit)
	}

	items := make([]Entity, 0)
	if err := b.send(ctx, "list "+kind, rest.Get, "/"+kind, query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (b *RemoteBackend) Create(ctx context.Context, kind string, data Entity) (Entity, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s", kind)
	}
	created := make(Entity)
	if err = b.send(ctx, "create "+kind, rest.Post, "/"+kind, nil, body, &created); err != nil {
		return nil, err
	}
	return created, nil
}

func (b *RemoteBackend) Update(ctx context.Context, kind, id string, data Entity) (Entity, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s", kind)
	}
	updated := make(Entity)
	if err = b.send(ctx, "update "+kind, rest.Put, "/"+kind+"/"+id, nil, body, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (b *RemoteBackend) Delete(ctx context.Context, kind, id string) error {
	return b.send(ctx, "delete "+kind, rest.Delete, "/"+kind+"/"+id, nil, nil, nil)
}

// Report downloads the name ("students" or "grades") spreadsheet of the API.
func (b *RemoteBackend) Report(ctx context.Context, name string) ([]byte, error) {
	resp, err := b.do(ctx, "report "+name, rest.Get, "/reports/"+name+".xlsx", nil, nil)
	if err != nil {
		return nil, err
	}
	return []byte(resp.Body), nil
}

// send performs the request and decodes a successful JSON response into out (if not nil).
func (b *RemoteBackend) send(
	ctx context.Context,
	op string,
	method rest.Method,
	path string,
	query map[string]string,
	body []byte,
	out interface{},
) error {
	resp, err := b.do(ctx, op, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err = json.Unmarshal([]byte(resp.Body), out); err != nil {
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: errors.Wrap(err, "decoding response")}
	}
	return nil
}

// do performs the request, turning error statuses into errors.
func (b *RemoteBackend) do(
	ctx context.Context,
	op string,
	method rest.Method,
	path string,
	query map[string]string,
	body []byte,
) (*rest.Response, error) {
	req := rest.Request{
		Method:      method,
		BaseURL:     b.baseURL + path,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: query,
		Body:        body,
	}
	if body != nil {
		req.Headers["Content-Type"] = "application/json"
	}
	if b.token != "" {
		req.Headers["Authorization"] = "Bearer " + b.token
	}

	resp, err := b.client.SendWithContext(ctx, req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	switch code := resp.StatusCode; {
	case code == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case code == http.StatusNotFound:
		return nil, ErrNotFound
	case code == http.StatusBadRequest:
		return nil, decodeValidationError(resp.Body)
	case code >= 300:
		return nil, &NetworkError{Op: op, Status: code, Err: errors.New(errorMessage(resp.Body, code))}
	}
	return resp, nil
}

// decodeValidationError converts the API's 400 body, either {"error": msg} or {field: msg...}.
func decodeValidationError(body string) error {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(body), &payload); err != nil || len(payload) == 0 {
		return core.NewValidationError(errors.New(http.StatusText(http.StatusBadRequest)))
	}
	if msg, ok := payload["error"].(string); ok && len(payload) == 1 {
		return core.NewValidationError(errors.New(msg))
	}

	fields := make([]core.FieldError, 0, len(payload))
	for fld := range payload {
		fields = append(fields, core.FieldError{Field: fld, Error: Entity(payload).String(fld)})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return core.NewValidationError(nil, fields...)
}

func errorMessage(body string, code int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return http.StatusText(code)
}
