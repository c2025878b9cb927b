// Package handlers manages the different versions of the API.
package handlers

import (
	"context"
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"

	"go.uber.org/zap"

	"github.com/oraclenet/spot/app/services/oracle/handlers/debug/checkgrp"
	v1 "github.com/oraclenet/spot/app/services/oracle/handlers/v1"
	"github.com/oraclenet/spot/app/services/oracle/handlers/v1/private"
	"github.com/oraclenet/spot/business/web/mid"
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

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	Shutdown chan os.Signal
	Log      *zap.SugaredLogger
	Machine  *machine.Machine
	Vault    *bondvault.Vault
	Rates    *ratereg.Registry
	Spot     *registry.Spot
	Token    *token.Ledger
	Caps     *capability.Store
	Feeds    *memory.Bank
	Adapter  private.FeedAdmin
	Evts     *events.Events
}

// PublicMux constructs a http.Handler with all application routes defined.
func PublicMux(cfg MuxConfig) http.Handler {

	// Construct the web.App which holds all routes as well as common Middleware.
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(),
		mid.Cors("*"),
		mid.Panics(),
	)

	// Accept CORS 'OPTIONS' preflight requests if config has been provided.
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return nil
	}
	app.Handle(http.MethodOptions, "", "/*", h, mid.Cors("*"))

	// Load the v1 routes.
	v1.PublicRoutes(app, v1.Config{
		Log:     cfg.Log,
		Machine: cfg.Machine,
		Vault:   cfg.Vault,
		Rates:   cfg.Rates,
		Spot:    cfg.Spot,
		Evts:    cfg.Evts,
	})

	return app
}

// PrivateMux constructs a http.Handler with all application routes defined.
func PrivateMux(cfg MuxConfig) http.Handler {

	// Construct the web.App which holds all routes as well as common Middleware.
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(),
		mid.Panics(),
	)

	// Load the v1 routes.
	v1.PrivateRoutes(app, v1.Config{
		Log:     cfg.Log,
		Machine: cfg.Machine,
		Rates:   cfg.Rates,
		Token:   cfg.Token,
		Caps:    cfg.Caps,
		Feeds:   cfg.Feeds,
		Adapter: cfg.Adapter,
	})

	return app
}

// DebugStandardLibraryMux registers all the debug routes from the standard
// library into a new mux bypassing the use of the DefaultServerMux. Using the
// DefaultServerMux would be a security risk since a dependency could inject a
// handler into our service without us knowing it.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Register all the standard library debug endpoints.
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// DebugMux registers all the debug standard library routes and then custom
// debug application routes for the service.
func DebugMux(build string, log *zap.SugaredLogger) http.Handler {
	mux := DebugStandardLibraryMux()

	// Register debug check endpoints.
	cgh := checkgrp.Handlers{
		Build: build,
		Log:   log,
	}
	mux.HandleFunc("/debug/readiness", cgh.Readiness)
	mux.HandleFunc("/debug/liveness", cgh.Liveness)

	return mux
}
