package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bahi-dev/bahi/internal/audit"
	"github.com/bahi-dev/bahi/internal/config"
	"github.com/bahi-dev/bahi/internal/engine"
	"github.com/bahi-dev/bahi/internal/model"
	"github.com/bahi-dev/bahi/internal/money"
	"github.com/bahi-dev/bahi/internal/replay"
	"github.com/bahi-dev/bahi/internal/store"
)

// app wires a command invocation to the ledger: config, store, engine and
// logger, resolved from the working directory (or --dir).
type app struct {
	dir    string
	cfg    *config.Config
	store  *store.SQLiteStore
	engine *engine.Engine
	log    *zap.Logger
}

// openApp loads bahi.yaml from dir and assembles the engine on top of the
// configured SQLite ledger. Callers must call close when done.
func openApp(dir string, verbose bool) (*app, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, "bahi.yaml"))
	if err != nil {
		return nil, fmt.Errorf("not a bahi directory (missing bahi.yaml): %w", err)
	}

	log := zap.NewNop()
	if verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
	}

	if cfg.SettlementEpsilon != "" {
		eps, err := money.Parse(cfg.SettlementEpsilon)
		if err != nil {
			return nil, fmt.Errorf("settlement_epsilon: %w", err)
		}
		money.Epsilon = eps
	}

	dbPath := cfg.Database.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(absDir, dbPath)
	}
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	signs := replay.FirmSigns()
	for kind, sign := range cfg.FirmKinds {
		if err := signs.Register(model.FirmTxnKind(kind), sign); err != nil {
			st.Close()
			return nil, fmt.Errorf("firm_kinds %q: %w", kind, err)
		}
	}

	opts := []engine.Option{engine.WithSigns(signs)}
	if cfg.Audit.Enabled {
		auditDir := cfg.Audit.Dir
		if !filepath.IsAbs(auditDir) {
			auditDir = filepath.Join(absDir, auditDir)
		}
		opts = append(opts, engine.WithAuditor(audit.NewLog(auditDir)))
	}

	return &app{
		dir:    absDir,
		cfg:    cfg,
		store:  st,
		engine: engine.New(st, log, opts...),
		log:    log,
	}, nil
}

func (a *app) close() {
	_ = a.log.Sync()
	_ = a.store.Close()
}

// resolveInstrument accepts either an instrument ID or a label.
func (a *app) resolveInstrument(ref string) (*model.Instrument, error) {
	if instID, err := uuid.Parse(ref); err == nil {
		return a.store.GetInstrument(instID)
	}
	instruments, err := a.store.ListInstruments(false)
	if err != nil {
		return nil, err
	}
	var match *model.Instrument
	for _, inst := range instruments {
		if strings.EqualFold(inst.Label, ref) {
			if match != nil {
				return nil, fmt.Errorf("label %q matches more than one instrument, use the ID", ref)
			}
			match = inst
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %q", model.ErrInstrumentNotFound, ref)
	}
	return match, nil
}

// resolveCounterparty accepts either a counterparty ID or a name.
func (a *app) resolveCounterparty(ref string) (*model.Counterparty, error) {
	if cpID, err := uuid.Parse(ref); err == nil {
		return a.store.GetCounterparty(cpID)
	}
	return a.store.GetCounterpartyByName(ref)
}

// resolveFirmAccount accepts either an account ID or a name.
func (a *app) resolveFirmAccount(ref string) (*model.FirmAccount, error) {
	if acctID, err := uuid.Parse(ref); err == nil {
		return a.store.GetFirmAccount(acctID)
	}
	return a.store.GetFirmAccountByName(ref)
}

// actor returns the acting user for confirmation and audit records.
func actor(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if u := os.Getenv("BAHI_ACTOR"); u != "" {
		return u
	}
	return os.Getenv("USER")
}
