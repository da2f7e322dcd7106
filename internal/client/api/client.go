// Package api cliente HTTP de la API del almacén para el cliente de terminal.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/magazyn/magazyn/internal/application/dto"
)

// Errores que el cliente distingue para decidir a dónde "redirigir".
var (
	ErrUnauthorized = errors.New("api: not authenticated")
	ErrForbidden    = errors.New("api: insufficient access level")
)

// Error respuesta de error de la API.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  dto.FieldErrors
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Unwrap expone ErrUnauthorized / ErrForbidden para errors.Is.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	default:
		return nil
	}
}

// errorBody cubre los dos sobres de error del servidor (dto.ErrorResponse y dto.ItemEnvelope).
type errorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  dto.FieldErrors `json:"errors"`
}

// Upload archivo adjunto al alta de un artículo.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// Client cliente de la API. Cada llamada usa su propio timeout sobre el ctx recibido.
type Client struct {
	http    *resty.Client
	timeout time.Duration
	token   string
}

// New crea el cliente contra baseURL (http://host:port).
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("User-Agent", "magazyn-cli/1.0").
			SetHeader("Accept", "application/json"),
		timeout: timeout,
	}
}

// WithToken devuelve una copia que envía el Bearer Token indicado.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) request(ctx context.Context) (*resty.Request, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	r := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if c.token != "" {
		r.SetAuthToken(c.token)
	}
	return r, cancel
}

func toError(resp *resty.Response) error {
	e := &Error{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		e.Code = body.Code
		e.Message = body.Message
		if e.Message == "" {
			e.Message = body.Error
		}
		e.Fields = body.Errors
	}
	return e
}

// Login POST /api/auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	r, cancel := c.request(ctx)
	defer cancel()

	var out dto.LoginResponse
	resp, err := r.SetBody(dto.LoginRequest{Email: email, Password: password}).
		SetResult(&out).
		Post("/api/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.IsError() {
		return nil, toError(resp)
	}
	return &out, nil
}

// Me GET /api/auth/me.
func (c *Client) Me(ctx context.Context) (*dto.SessionUser, error) {
	r, cancel := c.request(ctx)
	defer cancel()

	var out dto.MeResponse
	resp, err := r.SetResult(&out).Get("/api/auth/me")
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	if resp.IsError() {
		return nil, toError(resp)
	}
	return &out.User, nil
}

// ListItems GET /api/warehouse/items.
func (c *Client) ListItems(ctx context.Context) ([]dto.ItemResponse, error) {
	r, cancel := c.request(ctx)
	defer cancel()

	var out dto.ItemListResponse
	resp, err := r.SetResult(&out).Get("/api/warehouse/items")
	if err != nil {
		return nil, fmt.Errorf("listar artículos: %w", err)
	}
	if resp.IsError() {
		return nil, toError(resp)
	}
	return out.Items, nil
}

// CreateItem POST /api/warehouse/items (multipart). fields ya recortados y sin opcionales vacíos.
func (c *Client) CreateItem(ctx context.Context, fields map[string]string, img *Upload) (*dto.ItemResponse, error) {
	r, cancel := c.request(ctx)
	defer cancel()

	var out dto.ItemEnvelope
	r.SetMultipartFormData(fields).SetResult(&out)
	if img != nil {
		r.SetFileReader("image", img.Filename, img.Reader)
	}
	resp, err := r.Post("/api/warehouse/items")
	if err != nil {
		return nil, fmt.Errorf("crear artículo: %w", err)
	}
	if resp.IsError() {
		return nil, toError(resp)
	}
	if !out.Success || out.Item == nil {
		return nil, &Error{Status: resp.StatusCode(), Message: out.Error, Fields: out.Errors}
	}
	return out.Item, nil
}

// Dashboard GET /api/warehouse/dashboard.
func (c *Client) Dashboard(ctx context.Context, search, category string) (*dto.DashboardResponse, error) {
	r, cancel := c.request(ctx)
	defer cancel()

	var out dto.DashboardResponse
	if search != "" {
		r.SetQueryParam("search", search)
	}
	if category != "" {
		r.SetQueryParam("category", category)
	}
	resp, err := r.SetResult(&out).Get("/api/warehouse/dashboard")
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	if resp.IsError() {
		return nil, toError(resp)
	}
	return &out, nil
}

// Report GET /api/warehouse/report.pdf. Devuelve el PDF completo.
func (c *Client) Report(ctx context.Context) ([]byte, error) {
	r, cancel := c.request(ctx)
	defer cancel()

	resp, err := r.SetHeader("Accept", "application/pdf").Get("/api/warehouse/report.pdf")
	if err != nil {
		return nil, fmt.Errorf("reporte: %w", err)
	}
	if resp.IsError() {
		return nil, toError(resp)
	}
	return resp.Body(), nil
}
