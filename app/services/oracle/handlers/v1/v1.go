// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/oraclenet/spot/app/services/oracle/handlers/v1/private"
	"github.com/oraclenet/spot/app/services/oracle/handlers/v1/public"
	"github.com/oraclenet/spot/foundation/events"
	"github.com/oraclenet/spot/foundation/oracle/bondvault"
	"github.com/oraclenet/spot/foundation/oracle/capability"
	"github.com/oraclenet/spot/foundation/oracle/feed/memory"
	"github.com/oraclenet/spot/foundation/oracle/machine"
	"github.com/oraclenet/spot/foundation/oracle/ratereg"
	"github.com/oraclenet/spot/foundation/oracle/registry"
	"github.com/oraclenet/spot/foundation/oracle/token"
	"github.com/oraclenet/spot/foundation/web"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log     *zap.SugaredLogger
	Machine *machine.Machine
	Vault   *bondvault.Vault
	Rates   *ratereg.Registry
	Spot    *registry.Spot
	Token   *token.Ledger
	Caps    *capability.Store
	Feeds   *memory.Bank
	Adapter private.FeedAdmin
	Evts    *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:      cfg.Log,
		Machine:  cfg.Machine,
		Vault:    cfg.Vault,
		Registry: cfg.Rates,
		Spot:     cfg.Spot,
		Evts:     cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/rates/list", pbl.Rates)
	app.Handle(http.MethodGet, version, "/proposal/:rateid", pbl.Proposal)
	app.Handle(http.MethodGet, version, "/value/:rateid", pbl.Value)
	app.Handle(http.MethodGet, version, "/spot/:asset", pbl.SpotValue)
	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodPost, version, "/bond", pbl.Bond)
	app.Handle(http.MethodPost, version, "/unbond", pbl.Unbond)
	app.Handle(http.MethodPost, version, "/recover", pbl.Recover)
	app.Handle(http.MethodPost, version, "/shift", pbl.Shift)
	app.Handle(http.MethodPost, version, "/dispute", pbl.Dispute)
	app.Handle(http.MethodPost, version, "/push", pbl.Push)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:     cfg.Log,
		Machine: cfg.Machine,
		Rates:   cfg.Rates,
		Token:   cfg.Token,
		Caps:    cfg.Caps,
		Feeds:   cfg.Feeds,
		Adapter: cfg.Adapter,
	}

	app.Handle(http.MethodPost, version, "/rates/activate", prv.Activate)
	app.Handle(http.MethodPost, version, "/rates/deactivate", prv.Deactivate)
	app.Handle(http.MethodPost, version, "/rates/lock", prv.Lock)
	app.Handle(http.MethodPost, version, "/feeds/create", prv.CreateFeed)
	app.Handle(http.MethodPost, version, "/feeds/post", prv.PostRound)
	app.Handle(http.MethodPost, version, "/feeds/set", prv.SetFeed)
	app.Handle(http.MethodPost, version, "/feeds/unset", prv.UnsetFeed)
	app.Handle(http.MethodPost, version, "/caps/grant", prv.Grant)
	app.Handle(http.MethodPost, version, "/caps/revoke", prv.Revoke)
	app.Handle(http.MethodPost, version, "/token/mint", prv.Mint)
	app.Handle(http.MethodPost, version, "/token/approve", prv.Approve)
}
