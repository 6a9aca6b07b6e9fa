package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cofre-dev/cofre/internal/accounts"
	"github.com/cofre-dev/cofre/internal/auditlog"
	"github.com/cofre-dev/cofre/internal/cards"
	"github.com/cofre-dev/cofre/internal/config"
	"github.com/cofre-dev/cofre/internal/importer"
	"github.com/cofre-dev/cofre/internal/storage"
	"github.com/cofre-dev/cofre/internal/storage/jsonfile"
	"github.com/cofre-dev/cofre/internal/storage/sqlite"
	"github.com/cofre-dev/cofre/internal/transactions"
)

// app bundles the configuration, the open store, and the services every
// subcommand needs. Built once per invocation and closed when the command
// returns.
type app struct {
	cfg          *config.Config
	store        storage.Store
	accounts     *accounts.Service
	cards        *cards.Service
	transactions *transactions.Service
	importer     *importer.Service
}

// openApp loads the configuration and wires the services.
func openApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s (run 'cofre init' first?): %w", configPath, err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	accountSvc := accounts.NewService(store)
	cardSvc := cards.NewService(store)
	txnSvc := transactions.NewService(store, accountSvc, cardSvc)

	return &app{
		cfg:          cfg,
		store:        store,
		accounts:     accountSvc,
		cards:        cardSvc,
		transactions: txnSvc,
		importer:     importer.NewService(store, importer.DefaultRegistry(), txnSvc),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("closing store", "error", err)
	}
}

// openStore selects the backend from configuration. When SQLite cannot be
// opened the JSON file backend takes over, so the ledger stays usable.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case storage.BackendSQLite:
		store, err := sqlite.Open(cfg.DatabasePath())
		if err != nil {
			slog.Warn("sqlite unavailable, falling back to json file",
				"path", cfg.DatabasePath(), "error", err)
			return jsonfile.Open(cfg.JSONFilePath())
		}
		return store, nil
	case storage.BackendJSONFile:
		return jsonfile.Open(cfg.JSONFilePath())
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// audit records a mutation in the audit trail. Failures are logged, never
// propagated: the mutation itself already succeeded.
func (a *app) audit(operation, entity, entityID, details string) {
	err := auditlog.Append(a.cfg.Storage.DataDir, []auditlog.Entry{{
		Timestamp: time.Now().UTC(),
		Operation: operation,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
	}})
	if err != nil {
		slog.Warn("writing audit log", "error", err)
	}
}

// defaultConfigPath is where subcommands look for cofre.yaml unless --config
// overrides it.
func defaultConfigPath() string {
	return filepath.Join(".", config.FileName)
}
