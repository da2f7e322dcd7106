package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magazyn/magazyn/internal/application/auth"
	"github.com/magazyn/magazyn/internal/application/dto"
	appinv "github.com/magazyn/magazyn/internal/application/inventory"
	"github.com/magazyn/magazyn/internal/infrastructure/memory"
	"github.com/magazyn/magazyn/internal/infrastructure/pdf"
	apphttp "github.com/magazyn/magazyn/internal/interfaces/http"
)

const testImageMax = 64 << 10

// buildAPI app completa con stores en memoria y el directorio de semilla.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	dir, err := memory.NewUserDirectory(auth.DefaultSeed(), bcrypt.MinCost)
	require.NoError(t, err)

	app := apphttp.NewApp(apphttp.AppConfig{Name: "magazyn-test", ImageMaxBytes: testImageMax})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(dir, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, nil),
		ItemUC:    appinv.NewItemUseCase(memory.NewItemRepository(), memory.NewImageStore(), pdf.NewReportGenerator("magazyn"), testImageMax, nil),
		JWTSecret: testJWTSecret,
	})
	return app
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp := postJSON(t, app, "/api/auth/login", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return "Bearer " + out.Token
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

type filePart struct {
	name string
	data []byte
}

func postMultipart(t *testing.T, app *fiber.App, token string, fields map[string]string, file *filePart) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		fw, err := w.CreateFormFile("image", file.name)
		require.NoError(t, err)
		_, err = fw.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/warehouse/items", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, token, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Admin(t *testing.T) {
	app := buildAPI(t)
	resp := postJSON(t, app, "/api/auth/login", `{"email":"szymon@example.com","password":"admin123"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.NotContains(t, string(raw), "password")

	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, out.Success)
	assert.Equal(t, 3, out.User.AccessLevel)
	assert.NotEmpty(t, out.Token)
}

func TestLogin_CredencialesInvalidas_401(t *testing.T) {
	app := buildAPI(t)
	for _, body := range []string{
		`{"email":"szymon@example.com","password":"nope"}`,
		`{"email":"ghost@example.com","password":"admin123"}`,
		`{}`,
	} {
		resp := postJSON(t, app, "/api/auth/login", body)
		out := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, body)
		assert.False(t, out.Success)
		assert.Equal(t, "invalid credentials", out.Message)
	}
}

func TestLogin_CuerpoMalformado_500(t *testing.T) {
	app := buildAPI(t)
	resp := postJSON(t, app, "/api/auth/login", `{"email":`)
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, out.Success)
	assert.Equal(t, "server error", out.Message)
}

func TestLogin_CuerpoSiempreJSON(t *testing.T) {
	app := buildAPI(t)
	const creds = `{"email":"szymon@example.com","password":"admin123"}`
	cases := []struct {
		name        string
		contentType string
		body        string
		want        int
	}{
		{"json sin content-type", "", creds, http.StatusOK},
		{"json como text/plain", "text/plain", creds, http.StatusOK},
		{"json como form-urlencoded", fiber.MIMEApplicationForm, creds, http.StatusOK},
		{"formulario no es json", fiber.MIMEApplicationForm, "email=szymon%40example.com&password=admin123", http.StatusInternalServerError},
		{"cuerpo vacío", fiber.MIMEApplicationJSON, "", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tc.body))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestMe(t *testing.T) {
	app := buildAPI(t)
	token := login(t, app, "waldek@example.com", "user123")

	resp := get(t, app, token, "/api/auth/me")
	out := decode[dto.MeResponse](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "waldek@example.com", out.User.Email)
	assert.Equal(t, 2, out.User.AccessLevel)
}

// ──────────────────────────────────────────────────────────────────────────────
// Items
// ──────────────────────────────────────────────────────────────────────────────

func TestItems_SinToken_401(t *testing.T) {
	app := buildAPI(t)
	resp := get(t, app, "", "/api/warehouse/items")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateItem_ApareceEnListado(t *testing.T) {
	app := buildAPI(t)
	token := login(t, app, "waldek@example.com", "user123")

	resp := postMultipart(t, app, token, map[string]string{
		"name": "  Wiertarka ", "code": "WR-1", "category": "narzędzia", "quantity": "4", "unit": "szt", "salePrice": "199.90",
	}, &filePart{name: "wiertarka.png", data: smallPNG(t)})
	created := decode[dto.ItemEnvelope](t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, created.Item)
	assert.Equal(t, "Wiertarka", created.Item.Name)
	assert.Equal(t, "low", string(created.Item.Status))
	assert.Equal(t, appinv.ImagePath(created.Item.ID), created.Item.ImageURL)

	list := decode[dto.ItemListResponse](t, get(t, app, token, "/api/warehouse/items"))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "WR-1", list.Items[0].Code)

	img := get(t, app, token, created.Item.ImageURL)
	defer img.Body.Close()
	assert.Equal(t, http.StatusOK, img.StatusCode)
	assert.Equal(t, "image/png", img.Header.Get("Content-Type"))
}

func TestCreateItem_Validacion_400(t *testing.T) {
	app := buildAPI(t)
	token := login(t, app, "waldek@example.com", "user123")

	resp := postMultipart(t, app, token, map[string]string{
		"name": " ", "code": "X", "quantity": "-1", "purchasePrice": "abc",
	}, nil)
	out := decode[dto.ItemEnvelope](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, out.Success)
	assert.Equal(t, "name is required", out.Errors["name"])
	assert.Equal(t, "quantity cannot be negative", out.Errors["quantity"])
	assert.Equal(t, "invalid purchase price", out.Errors["purchasePrice"])
}

func TestCreateItem_Duplicado_409(t *testing.T) {
	app := buildAPI(t)
	token := login(t, app, "waldek@example.com", "user123")
	fields := map[string]string{"name": "a", "code": "DUP"}

	first := postMultipart(t, app, token, fields, nil)
	first.Body.Close()
	require.Equal(t, http.StatusCreated, first.StatusCode)

	resp := postMultipart(t, app, token, fields, nil)
	out := decode[dto.ItemEnvelope](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, out.Errors, "code")
}

func TestCreateItem_ImagenGrande_413(t *testing.T) {
	app := buildAPI(t)
	token := login(t, app, "waldek@example.com", "user123")

	big := append(smallPNG(t), make([]byte, testImageMax)...)
	resp := postMultipart(t, app, token, map[string]string{"name": "a", "code": "BIG"}, &filePart{name: "big.png", data: big})
	out := decode[dto.ItemEnvelope](t, resp)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "file is too large (max 0MB)", out.Errors["image"])

	list := decode[dto.ItemListResponse](t, get(t, app, token, "/api/warehouse/items"))
	assert.Empty(t, list.Items)
}

func TestCreateItem_NoEsImagen_400(t *testing.T) {
	app := buildAPI(t)
	token := login(t, app, "waldek@example.com", "user123")

	resp := postMultipart(t, app, token, map[string]string{"name": "a", "code": "TXT"}, &filePart{name: "a.png", data: []byte("not an image at all")})
	out := decode[dto.ItemEnvelope](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "only image files can be uploaded", out.Errors["image"])
}

func TestCreateItem_Viewer_403(t *testing.T) {
	app := buildAPI(t)
	resp := postMultipart(t, app, tokenForLevel(t, 1), map[string]string{"name": "a", "code": "A"}, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdateDelete(t *testing.T) {
	app := buildAPI(t)
	token := login(t, app, "waldek@example.com", "user123")

	created := decode[dto.ItemEnvelope](t, postMultipart(t, app, token, map[string]string{"name": "a", "code": "U1", "quantity": "1"}, nil))
	path := fmt.Sprintf("/api/warehouse/items/%d", created.Item.ID)

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(`{"quantity":-5}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	bad := decode[dto.ItemEnvelope](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, bad.Errors, "quantity")

	req = httptest.NewRequest(http.MethodPatch, path, strings.NewReader(`{"quantity":50,"salePrice":"12.5"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	ok := decode[dto.ItemEnvelope](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 50, ok.Item.Quantity)
	assert.Equal(t, "ok", string(ok.Item.Status))

	req = httptest.NewRequest(http.MethodDelete, path, nil)
	req.Header.Set("Authorization", token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, app, token, path)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard y reporte
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard(t *testing.T) {
	app := buildAPI(t)
	token := login(t, app, "waldek@example.com", "user123")

	for _, f := range []map[string]string{
		{"name": "ABCdef", "code": "E1", "quantity": "0", "category": "elektronika"},
		{"name": "kabel", "code": "E2", "quantity": "3", "category": "elektronika"},
		{"name": "młotek", "code": "N1", "quantity": "7", "category": "narzędzia"},
	} {
		resp := postMultipart(t, app, token, f, nil)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	out := decode[dto.DashboardResponse](t, get(t, app, token, "/api/warehouse/dashboard?search=abc"))
	require.Len(t, out.Items, 1)
	assert.Equal(t, "ABCdef", out.Items[0].Name)
	assert.Equal(t, 3, out.Stats.Total)
	assert.Equal(t, 1, out.Stats.Available)
	assert.Equal(t, 1, out.Stats.LowStock)
	assert.Equal(t, 1, out.Stats.OutOfStock)
	assert.True(t, out.Actions.Edit)
	assert.False(t, out.Actions.Admin)

	out = decode[dto.DashboardResponse](t, get(t, app, token, "/api/warehouse/dashboard?category=elektronika"))
	assert.Len(t, out.Items, 2)

	out = decode[dto.DashboardResponse](t, get(t, app, token, "/api/warehouse/dashboard?category=inne"))
	assert.Empty(t, out.Items)
	assert.Equal(t, "no items match the current filters", out.EmptyMessage)

	resp := get(t, app, token, "/api/warehouse/dashboard?category=food")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReport_SoloAdmin(t *testing.T) {
	app := buildAPI(t)

	resp := get(t, app, login(t, app, "waldek@example.com", "user123"), "/api/warehouse/report.pdf")
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = get(t, app, login(t, app, "szymon@example.com", "admin123"), "/api/warehouse/report.pdf")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestHealth(t *testing.T) {
	app := buildAPI(t)
	resp := get(t, app, "", "/health")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
