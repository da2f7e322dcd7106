// Package itemform formulario de alta de artículos del cliente de terminal.
package itemform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/magazyn/magazyn/internal/application/dto"
	appinv "github.com/magazyn/magazyn/internal/application/inventory"
	"github.com/magazyn/magazyn/internal/client/api"
)

// RedirectItemAdded indicador de éxito que el dashboard muestra tras el alta.
const RedirectItemAdded = "item-added"

// sniffLen bytes leídos para detectar el MIME (los que usa mimetype por defecto).
const sniffLen = 3072

// defaultSubmitError mensaje cuando el servidor no explica el fallo o no respondió.
const defaultSubmitError = "an error occurred while adding the item"

var (
	// ErrSubmitInProgress ya hay un envío en curso.
	ErrSubmitInProgress = errors.New("submit already in progress")
	// ErrInvalid el formulario tiene errores por campo; ver Errors().
	ErrInvalid = errors.New("form has errors")
	// ErrSubmit el envío falló; el mensaje está en Errors()["submit"].
	ErrSubmit = errors.New("submit failed")
)

// Creator lo que el formulario necesita de la API.
type Creator interface {
	CreateItem(ctx context.Context, fields map[string]string, img *api.Upload) (*dto.ItemResponse, error)
}

// Result resultado de un alta exitosa.
type Result struct {
	Item     *dto.ItemResponse
	Redirect string
}

// Form estado del formulario. Fields es editable directamente entre envíos.
type Form struct {
	Fields appinv.ItemForm

	maxImageBytes int64
	timeout       time.Duration

	image     *os.File
	imageName string
	imageMime string

	errors     dto.FieldErrors
	submitting atomic.Bool
}

// New formulario con valores por defecto.
func New(maxImageBytes int64, timeout time.Duration) *Form {
	f := &Form{maxImageBytes: maxImageBytes, timeout: timeout}
	f.Reset()
	return f
}

// Errors mensajes por campo del último intento ("submit" para fallos del envío).
func (f *Form) Errors() dto.FieldErrors { return f.errors }

// Submitting informa si hay un envío en curso.
func (f *Form) Submitting() bool { return f.submitting.Load() }

// Image nombre y MIME del archivo adjunto ("" si no hay).
func (f *Form) Image() (name, mime string) { return f.imageName, f.imageMime }

// AttachImage abre y valida el archivo. Un archivo rechazado no entra en el formulario
// y la imagen anterior, si la había, se conserva.
func (f *Form) AttachImage(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		file.Close()
		return err
	}
	mime, err := appinv.CheckImage(info.Size(), head[:n], f.maxImageBytes)
	if err != nil {
		file.Close()
		f.setError("image", appinv.ImageErrorMessage(err, f.maxImageBytes))
		return err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return err
	}

	f.closeImage()
	f.image = file
	f.imageName = filepath.Base(path)
	f.imageMime = mime
	delete(f.errors, "image")
	return nil
}

// Submit valida y envía. Con errores de validación no hay llamada de red.
func (f *Form) Submit(ctx context.Context, c Creator) (*Result, error) {
	if !f.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInProgress
	}
	defer f.submitting.Store(false)

	in, err := f.Fields.Parse()
	if err != nil {
		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			f.errors = verr.Fields
			return nil, ErrInvalid
		}
		return nil, err
	}
	f.errors = nil

	var upload *api.Upload
	if f.image != nil {
		if _, err := f.image.Seek(0, io.SeekStart); err != nil {
			return nil, f.fail(defaultSubmitError, err)
		}
		upload = &api.Upload{Filename: f.imageName, Reader: f.image}
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	item, err := c.CreateItem(ctx, in.Fields(), upload)
	if err != nil {
		msg := defaultSubmitError
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return nil, f.fail(msg, err)
	}

	f.Reset()
	return &Result{Item: item, Redirect: RedirectItemAdded}, nil
}

// Reset vuelve a los valores por defecto y cierra el archivo adjunto.
func (f *Form) Reset() {
	f.Fields = appinv.NewItemForm()
	f.errors = nil
	f.closeImage()
}

// Close libera el archivo adjunto.
func (f *Form) Close() error {
	f.closeImage()
	return nil
}

func (f *Form) fail(msg string, cause error) error {
	f.setError("submit", msg)
	return fmt.Errorf("%w: %w", ErrSubmit, cause)
}

func (f *Form) setError(field, msg string) {
	if f.errors == nil {
		f.errors = dto.FieldErrors{}
	}
	f.errors[field] = msg
}

func (f *Form) closeImage() {
	if f.image != nil {
		_ = f.image.Close()
	}
	f.image = nil
	f.imageName = ""
	f.imageMime = ""
}
