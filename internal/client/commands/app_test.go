package commands_test

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/magazyn/magazyn/internal/application/auth"
	appinv "github.com/magazyn/magazyn/internal/application/inventory"
	"github.com/magazyn/magazyn/internal/client/commands"
	"github.com/magazyn/magazyn/internal/infrastructure/memory"
	"github.com/magazyn/magazyn/internal/infrastructure/pdf"
	apphttp "github.com/magazyn/magazyn/internal/interfaces/http"
	"github.com/magazyn/magazyn/pkg/config"
)

const testSecret = "commands-test-secret"

type harness struct {
	t   *testing.T
	cfg *config.ClientConfig
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	users, err := memory.NewUserDirectory(auth.DefaultSeed(), bcrypt.MinCost)
	require.NoError(t, err)

	app := apphttp.NewApp(apphttp.AppConfig{Name: "magazyn-test", ImageMaxBytes: config.DefaultImageMaxBytes})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testSecret, ExpMinutes: 30, Issuer: "magazyn-test"}, nil),
		ItemUC:    appinv.NewItemUseCase(memory.NewItemRepository(), memory.NewImageStore(), pdf.NewReportGenerator("magazyn"), config.DefaultImageMaxBytes, nil),
		JWTSecret: testSecret,
	})
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	return &harness{
		t:   t,
		dir: dir,
		cfg: &config.ClientConfig{
			ServerURL:   srv.URL,
			SessionFile: filepath.Join(dir, "session.json"),
			Timeout:     5 * time.Second,
		},
	}
}

// run ejecuta el CLI y devuelve la salida estándar.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	app := commands.NewApp(commands.Deps{Config: h.cfg}, &out)
	app.ErrWriter = &out
	err := app.Run(append([]string{"magazyn"}, args...))
	return out.String(), err
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

func TestCLI_FlujoEditor(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("items")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err), "sin sesión vuelve al login")

	_, err = h.run("login", "waldek@example.com", "nope")
	assert.EqualError(t, err, "invalid credentials")

	out, err := h.run("login", "waldek@example.com", "user123")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as Waldek")

	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Waldek · User (LVL 2)")

	out, err = h.run("items")
	require.NoError(t, err)
	assert.Contains(t, out, "the warehouse is empty, add the first item")

	out, err = h.run("add", "--name", "Kabel", "--code", "K-1", "--quantity", "3", "--sale-price", "4,5")
	require.NoError(t, err)
	assert.Contains(t, out, "item-added")

	out, err = h.run("add", "--code", "K-2", "--quantity=-1")
	assert.EqualError(t, err, "the form has errors")
	assert.Contains(t, out, "name: name is required")
	assert.Contains(t, out, "quantity: quantity cannot be negative")

	_, err = h.run("add", "--name", "Otro", "--code", "K-1")
	assert.EqualError(t, err, "an item with this code already exists")

	out, err = h.run("items", "--search", "kab")
	require.NoError(t, err)
	assert.Contains(t, out, "K-1")
	assert.Contains(t, out, "low")
	assert.Contains(t, out, "4.50")
	assert.Contains(t, out, "actions: add")

	out, err = h.run("items", "--category", "inne")
	require.NoError(t, err)
	assert.Contains(t, out, "no items match the current filters")

	_, err = h.run("items", "--category", "food")
	assert.Error(t, err)

	_, err = h.run("report")
	assert.Equal(t, 3, exitCode(err))

	_, err = h.run("logout")
	require.NoError(t, err)
	_, err = h.run("whoami")
	assert.Equal(t, 2, exitCode(err))
}

func TestCLI_ReporteAdmin(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("login", "szymon@example.com", "admin123")
	require.NoError(t, err)

	path := filepath.Join(h.dir, "report.pdf")
	out, err := h.run("report", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "report saved to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
