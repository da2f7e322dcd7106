// Package commands comandos del cliente de terminal magazyn.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/magazyn/magazyn/internal/application/dto"
	"github.com/magazyn/magazyn/internal/client/api"
	"github.com/magazyn/magazyn/internal/client/dashboard"
	"github.com/magazyn/magazyn/internal/client/itemform"
	"github.com/magazyn/magazyn/internal/client/session"
	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/pkg/config"
	"github.com/magazyn/magazyn/pkg/logger"
)

// Deps lo que comparten todos los comandos.
type Deps struct {
	Config        *config.ClientConfig
	Log           *logger.Logger
	MaxImageBytes int64
}

type runner struct {
	deps  Deps
	store *session.Store
}

// NewApp construye la aplicación CLI. out recibe la salida normal.
func NewApp(deps Deps, out io.Writer) *cli.App {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.MaxImageBytes <= 0 {
		deps.MaxImageBytes = config.DefaultImageMaxBytes
	}
	r := &runner{deps: deps, store: session.NewStore(deps.Config.SessionFile)}

	return &cli.App{
		Name:      "magazyn",
		Usage:     "warehouse inventory client",
		Writer:    out,
		ErrWriter: os.Stderr,
		// El código de salida lo decide main; la app nunca llama a os.Exit.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:      "login",
				Usage:     "log in and store the session",
				ArgsUsage: "<email> <password>",
				Action:    r.login,
			},
			{
				Name:   "logout",
				Usage:  "remove the stored session",
				Action: r.logout,
			},
			{
				Name:   "whoami",
				Usage:  "show the logged in user",
				Action: r.whoami,
			},
			{
				Name:  "items",
				Usage: "show the inventory dashboard",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "name or code fragment"},
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Value: entity.CategoryAll, Usage: "category or all"},
				},
				Action: r.items,
			},
			{
				Name:  "add",
				Usage: "add an item",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "item name"},
					&cli.StringFlag{Name: "code", Usage: "unique item code"},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "category", Value: string(entity.CategoryElectronics)},
					&cli.StringFlag{Name: "quantity", Value: "0"},
					&cli.StringFlag{Name: "unit", Value: string(entity.UnitPiece)},
					&cli.StringFlag{Name: "purchase-price"},
					&cli.StringFlag{Name: "sale-price"},
					&cli.StringFlag{Name: "image", Usage: "path to an image file"},
				},
				Action: r.add,
			},
			{
				Name:  "report",
				Usage: "download the inventory PDF (admin)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "magazyn-report.pdf"},
				},
				Action: r.report,
			},
		},
	}
}

func (r *runner) client() *api.Client {
	return api.New(r.deps.Config.ServerURL, r.deps.Config.Timeout)
}

// require sesión con nivel mínimo; traduce los errores a lo que vería el usuario.
func (r *runner) require(minLevel int) (*session.Session, error) {
	sess, err := r.store.Require(minLevel)
	switch {
	case errors.Is(err, session.ErrNotLoggedIn):
		return nil, cli.Exit("not logged in, run: magazyn login <email> <password>", 2)
	case errors.Is(err, session.ErrInsufficientAccess):
		return nil, cli.Exit("insufficient access level for this action", 3)
	case err != nil:
		return nil, err
	}
	return sess, nil
}

// apiError traduce errores de la API; un 401 invalida la sesión guardada.
func (r *runner) apiError(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		_ = r.store.Logout()
		return cli.Exit("session expired, log in again", 2)
	}
	if errors.Is(err, api.ErrForbidden) {
		return cli.Exit("insufficient access level for this action", 3)
	}
	return err
}

func (r *runner) login(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: magazyn login <email> <password>", 2)
	}
	out, err := r.client().Login(c.Context, c.Args().Get(0), c.Args().Get(1))
	if errors.Is(err, api.ErrUnauthorized) {
		return cli.Exit("invalid credentials", 1)
	}
	if err != nil {
		r.deps.Log.Error().Err(err).Msg("login")
		return cli.Exit("server error", 1)
	}
	if err := r.store.Save(session.Session{User: out.User, Token: out.Token, ExpiresAt: out.ExpiresAt}); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "logged in as %s\n", out.User.Name)
	return nil
}

func (r *runner) logout(c *cli.Context) error {
	if err := r.store.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "logged out")
	return nil
}

func (r *runner) whoami(c *cli.Context) error {
	sess, err := r.require(entity.AccessLevelViewer)
	if err != nil {
		return err
	}
	v := dashboard.NewView(nil, sess.User)
	fmt.Fprintf(c.App.Writer, "%s <%s>\n", v.Header(), sess.User.Email)
	return nil
}

func (r *runner) items(c *cli.Context) error {
	sess, err := r.require(entity.AccessLevelViewer)
	if err != nil {
		return err
	}
	v := dashboard.NewView(r.client().WithToken(sess.Token), sess.User)
	if err := v.SetCategory(c.String("category")); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	v.SetSearch(c.String("search"))
	if err := v.Load(c.Context); err != nil {
		return r.apiError(err)
	}
	renderDashboard(c.App.Writer, v)
	return nil
}

func renderDashboard(w io.Writer, v *dashboard.View) {
	s := v.Stats()
	fmt.Fprintln(w, v.Header())
	fmt.Fprintf(w, "total: %d  available: %d  low stock: %d  out of stock: %d\n\n",
		s.Total, s.Available, s.LowStock, s.OutOfStock)

	if msg := v.EmptyMessage(); msg != "" {
		fmt.Fprintln(w, msg)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tCATEGORY\tQTY\tSTATUS\tPRICE")
	for _, it := range v.Filtered() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d %s\t%s\t%s\n",
			it.ID, it.Code, it.Name, it.Category, it.Quantity, it.Unit, it.Status, price(it))
	}
	_ = tw.Flush()

	a := v.Actions()
	var actions []string
	if a.Add {
		actions = append(actions, "add")
	}
	if a.Admin {
		actions = append(actions, "report")
	}
	if len(actions) > 0 {
		fmt.Fprintf(w, "\nactions: %s\n", strings.Join(actions, ", "))
	}
}

func price(it dto.ItemResponse) string {
	if it.SalePrice == nil {
		return "-"
	}
	return it.SalePrice.StringFixed(2)
}

func (r *runner) add(c *cli.Context) error {
	sess, err := r.require(entity.AccessLevelEditor)
	if err != nil {
		return err
	}

	f := itemform.New(r.deps.MaxImageBytes, r.deps.Config.Timeout)
	defer f.Close()
	f.Fields.Name = c.String("name")
	f.Fields.Code = c.String("code")
	f.Fields.Description = c.String("description")
	f.Fields.Category = c.String("category")
	f.Fields.Quantity = c.String("quantity")
	f.Fields.Unit = c.String("unit")
	f.Fields.PurchasePrice = c.String("purchase-price")
	f.Fields.SalePrice = c.String("sale-price")

	if path := c.String("image"); path != "" {
		if err := f.AttachImage(path); err != nil {
			if msg, ok := f.Errors()["image"]; ok {
				return cli.Exit(msg, 1)
			}
			return err
		}
	}

	res, err := f.Submit(c.Context, r.client().WithToken(sess.Token))
	switch {
	case errors.Is(err, itemform.ErrInvalid):
		printErrors(c.App.ErrWriter, f.Errors())
		return cli.Exit("the form has errors", 1)
	case errors.Is(err, itemform.ErrSubmit):
		if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrForbidden) {
			return r.apiError(err)
		}
		r.deps.Log.Warn().Err(err).Msg("alta de artículo")
		return cli.Exit(f.Errors()["submit"], 1)
	case err != nil:
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: %s (%s), id %d\n", res.Redirect, res.Item.Name, res.Item.Code, res.Item.ID)
	return nil
}

func printErrors(w io.Writer, errs dto.FieldErrors) {
	for _, field := range []string{"name", "code", "category", "quantity", "unit", "purchasePrice", "salePrice", "image"} {
		if msg, ok := errs[field]; ok {
			fmt.Fprintf(w, "  %s: %s\n", field, msg)
		}
	}
}

func (r *runner) report(c *cli.Context) error {
	sess, err := r.require(entity.AccessLevelAdmin)
	if err != nil {
		return err
	}
	data, err := r.client().WithToken(sess.Token).Report(c.Context)
	if err != nil {
		return r.apiError(err)
	}
	path := c.String("out")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "report saved to %s (%d bytes)\n", path, len(data))
	return nil
}
