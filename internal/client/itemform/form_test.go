package itemform

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magazyn/magazyn/internal/application/dto"
	"github.com/magazyn/magazyn/internal/client/api"
)

const testMaxImage = 64 << 10

type fakeCreator struct {
	calls   int
	fields  map[string]string
	image   []byte
	err     error
	block   chan struct{}
	started chan struct{}
}

func (f *fakeCreator) CreateItem(ctx context.Context, fields map[string]string, img *api.Upload) (*dto.ItemResponse, error) {
	f.calls++
	f.fields = fields
	if img != nil {
		f.image, _ = io.ReadAll(img.Reader)
	}
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ItemResponse{ID: 1, Name: fields["name"], Code: fields["code"]}, nil
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func pngFile(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return writeFile(t, "foto.png", buf.Bytes())
}

func validForm() *Form {
	f := New(testMaxImage, time.Second)
	f.Fields.Name = "  " + gofakeit.Word() + "  "
	f.Fields.Code = "C-" + gofakeit.DigitN(5)
	f.Fields.Quantity = "12"
	f.Fields.PurchasePrice = "10,5"
	return f
}

func TestNew_Defaults(t *testing.T) {
	f := New(testMaxImage, time.Second)
	assert.Equal(t, "elektronika", f.Fields.Category)
	assert.Equal(t, "szt", f.Fields.Unit)
	assert.Equal(t, "0", f.Fields.Quantity)
}

func TestSubmit_InvalidoSinRed(t *testing.T) {
	c := &fakeCreator{}
	f := New(testMaxImage, time.Second)
	f.Fields.Quantity = "-3"
	f.Fields.SalePrice = "x"

	_, err := f.Submit(context.Background(), c)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, 0, c.calls)
	assert.Contains(t, f.Errors(), "name")
	assert.Contains(t, f.Errors(), "code")
	assert.Contains(t, f.Errors(), "quantity")
	assert.Contains(t, f.Errors(), "salePrice")
}

func TestSubmit_Exito(t *testing.T) {
	c := &fakeCreator{}
	f := validForm()
	name := f.Fields.Name
	require.NoError(t, f.AttachImage(pngFile(t)))

	res, err := f.Submit(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, RedirectItemAdded, res.Redirect)

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, strings.TrimSpace(name), c.fields["name"])
	assert.Equal(t, "12", c.fields["quantity"])
	assert.Equal(t, "10.5", c.fields["purchasePrice"])
	assert.NotContains(t, c.fields, "salePrice")
	assert.NotContains(t, c.fields, "description")
	assert.True(t, bytes.HasPrefix(c.image, []byte("\x89PNG")))

	// el formulario vuelve a los valores por defecto
	assert.Empty(t, f.Fields.Name)
	img, _ := f.Image()
	assert.Empty(t, img)
}

func TestSubmit_ErrorServidorConservaCampos(t *testing.T) {
	c := &fakeCreator{err: &api.Error{Status: http.StatusConflict, Message: "an item with this code already exists"}}
	f := validForm()
	code := f.Fields.Code

	_, err := f.Submit(context.Background(), c)
	assert.ErrorIs(t, err, ErrSubmit)
	assert.Equal(t, "an item with this code already exists", f.Errors()["submit"])
	assert.Equal(t, code, f.Fields.Code)
}

func TestSubmit_Timeout(t *testing.T) {
	c := &fakeCreator{block: make(chan struct{})}
	f := validForm()
	f.timeout = 20 * time.Millisecond

	_, err := f.Submit(context.Background(), c)
	assert.ErrorIs(t, err, ErrSubmit)
	assert.Equal(t, defaultSubmitError, f.Errors()["submit"])
	assert.False(t, f.Submitting())
}

func TestSubmit_UnoALaVez(t *testing.T) {
	c := &fakeCreator{block: make(chan struct{}), started: make(chan struct{})}
	f := validForm()

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background(), c)
		done <- err
	}()
	<-c.started

	_, err := f.Submit(context.Background(), &fakeCreator{})
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(c.block)
	assert.NoError(t, <-done)
}

func TestAttachImage_Rechazos(t *testing.T) {
	f := New(testMaxImage, time.Second)
	require.NoError(t, f.AttachImage(pngFile(t)))

	err := f.AttachImage(writeFile(t, "notes.txt", []byte("just some text")))
	assert.Error(t, err)
	assert.Equal(t, "only image files can be uploaded", f.Errors()["image"])
	name, mime := f.Image()
	assert.Equal(t, "foto.png", name, "la imagen anterior se conserva")
	assert.Equal(t, "image/png", mime)

	big := writeFile(t, "big.png", make([]byte, testMaxImage+1))
	err = f.AttachImage(big)
	assert.Error(t, err)
	assert.Contains(t, f.Errors()["image"], "file is too large")

	f.Reset()
	name, _ = f.Image()
	assert.Empty(t, name)
	assert.Empty(t, f.Errors())
}

func TestSubmit_ImagenGrandeNuncaSeEnvia(t *testing.T) {
	c := &fakeCreator{}
	f := New(5<<20, time.Second)
	f.Fields.Name = "Szlifierka"
	f.Fields.Code = "SZ-" + gofakeit.DigitN(4)

	// 6 MB con cabecera PNG: lo rechaza el tamaño, no el tipo.
	data := make([]byte, 6<<20)
	copy(data, []byte("\x89PNG\r\n\x1a\n"))
	err := f.AttachImage(writeFile(t, "duza.png", data))
	require.Error(t, err)
	assert.Equal(t, "file is too large (max 5MB)", f.Errors()["image"])

	res, err := f.Submit(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, RedirectItemAdded, res.Redirect)
	assert.Equal(t, 1, c.calls)
	assert.Nil(t, c.image)
}
