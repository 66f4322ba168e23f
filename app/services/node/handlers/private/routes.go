package private

import (
	"net/http"

	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/web"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Routes binds all the private routes.
func Routes(app *web.App, cfg Config) {
	prv := Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, "", "/chain", prv.Chain)
	app.Handle(http.MethodPost, "", "/nodes/register", prv.RegisterNodes)
	app.Handle(http.MethodGet, "", "/nodes/resolve", prv.Resolve)
	app.Handle(http.MethodGet, "", "/nodes/list", prv.Peers)
}
