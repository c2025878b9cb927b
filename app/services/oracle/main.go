package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/oraclenet/spot/app/services/oracle/handlers"
	"github.com/oraclenet/spot/app/services/oracle/handlers/v1/private"
	"github.com/oraclenet/spot/foundation/events"
	"github.com/oraclenet/spot/foundation/logger"
	"github.com/oraclenet/spot/foundation/oracle/adapter"
	"github.com/oraclenet/spot/foundation/oracle/bondvault"
	"github.com/oraclenet/spot/foundation/oracle/capability"
	"github.com/oraclenet/spot/foundation/oracle/commit"
	feedbank "github.com/oraclenet/spot/foundation/oracle/feed/memory"
	"github.com/oraclenet/spot/foundation/oracle/machine"
	"github.com/oraclenet/spot/foundation/oracle/machine/disk"
	ledgermem "github.com/oraclenet/spot/foundation/oracle/machine/memory"
	"github.com/oraclenet/spot/foundation/oracle/nonce"
	"github.com/oraclenet/spot/foundation/oracle/ratereg"
	"github.com/oraclenet/spot/foundation/oracle/registry"
	"github.com/oraclenet/spot/foundation/oracle/token"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ORACLE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			PrivateHost     string        `conf:"default:0.0.0.0:9080"`
		}
		Oracle struct {
			Account       string        `conf:"default:0x39F36a5bbB0F669f08E11ed7309bd3824e833ec5"`
			Admin         string        `conf:"default:0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"`
			BondSize      string        `conf:"default:1000000000000000000"`
			DisputeWindow time.Duration `conf:"default:10m"`
			Family        string        `conf:"default:single"`
			DBPath        string        `conf:"default:zledger/proposals.db"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "ORACLE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Oracle Support

	account, err := commit.ToAccountID(cfg.Oracle.Account)
	if err != nil {
		return fmt.Errorf("parsing oracle account: %w", err)
	}

	admin, err := commit.ToAccountID(cfg.Oracle.Admin)
	if err != nil {
		return fmt.Errorf("parsing admin account: %w", err)
	}

	bondSize, err := uint256.FromDecimal(cfg.Oracle.BondSize)
	if err != nil {
		return fmt.Errorf("parsing bond size: %w", err)
	}

	// The admin holds the wildcard capability and hands out finer grants
	// through the private API.
	caps := capability.New()
	caps.Grant(capability.Wildcard, admin)

	tok := token.New()
	spot := registry.New()
	rates := ratereg.New(caps)
	codec := nonce.NewCodec(cfg.Oracle.DisputeWindow, nil)
	feeds := feedbank.NewBank()

	// Pick the adapter family for this node.
	var valueAdapter machine.ValueAdapter
	var feedAdmin private.FeedAdmin
	switch cfg.Oracle.Family {
	case "single":
		a := adapter.NewSingle(codec, spot, caps)
		valueAdapter, feedAdmin = a, a
	case "minof":
		a := adapter.NewMinOf(codec, spot, caps)
		valueAdapter, feedAdmin = a, a
	default:
		return fmt.Errorf("unknown adapter family %q", cfg.Oracle.Family)
	}

	vault := bondvault.New(bondvault.Config{
		Account:  account,
		BondSize: bondSize,
		Token:    tok.Bind(account),
		Rates:    rates,
		Codec:    codec,
		Auth:     caps,
	})

	// The oracle events are sent to any websocket client connected into the
	// system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// Persist the proposal ledger to disk unless configured otherwise.
	var storer machine.Storer
	if cfg.Oracle.DBPath != "" {
		diskStorer, err := disk.New(cfg.Oracle.DBPath)
		if err != nil {
			return fmt.Errorf("opening proposal ledger: %w", err)
		}
		defer diskStorer.Close()
		storer = diskStorer
	} else {
		storer = ledgermem.New()
	}

	mach, err := machine.New(machine.Config{
		Account:   account,
		Rates:     rates,
		Bonds:     vault,
		Adapter:   valueAdapter,
		Codec:     codec,
		Storer:    storer,
		EvHandler: ev,
	})
	if err != nil {
		return fmt.Errorf("constructing state machine: %w", err)
	}

	// The vault proves unbonding callers know the live proposal state.
	vault.SetProposals(mach)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	debugMux := handlers.DebugMux(build, log)

	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	muxConfig := handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		Machine:  mach,
		Vault:    vault,
		Rates:    rates,
		Spot:     spot,
		Token:    tok,
		Caps:     caps,
		Feeds:    feeds,
		Adapter:  feedAdmin,
		Evts:     evts,
	}

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      handlers.PublicMux(muxConfig),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Private Service

	log.Infow("startup", "status", "initializing V1 private API support")

	privateSrv := http.Server{
		Addr:         cfg.Web.PrivateHost,
		Handler:      handlers.PrivateMux(muxConfig),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "private api router started", "host", privateSrv.Addr)
		serverErrors <- privateSrv.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancelPri := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPri()

		log.Infow("shutdown", "status", "shutdown private API started")
		if err := privateSrv.Shutdown(ctx); err != nil {
			privateSrv.Close()
			return fmt.Errorf("could not stop private service gracefully: %w", err)
		}

		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
