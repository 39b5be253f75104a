package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mvalle/caderneta/internal/models"
	"github.com/mvalle/caderneta/internal/storage"
)

// AsyncStorage keys written by the old build. The completion flag keeps its
// original name so a device that already migrated is not migrated again.
const (
	clientsKey = "@clientes"
	salesKey   = "@vendas"
	doneKey    = "migracao_sqlite_v1_concluida"
	doneValue  = "true"
)

// Importer copies the legacy key-value records into the relational store,
// exactly once per device.
type Importer struct {
	kv    KV
	store storage.Store
}

// NewImporter creates an importer reading from kv and writing to store.
func NewImporter(kv KV, store storage.Store) *Importer {
	return &Importer{kv: kv, store: store}
}

// Run performs the one-time import. When the completion flag is set it is a
// no-op. Otherwise every legacy client and sale is written in one store
// transaction; the flag is recorded only after that transaction commits, so a
// failed run is retried in full on the next start. Legacy reads are
// non-destructive, which makes the retry safe.
func (i *Importer) Run(ctx context.Context) error {
	done, err := i.kv.Get(ctx, doneKey)
	if err != nil {
		return fmt.Errorf("failed to read import flag: %w", err)
	}
	if string(done) == doneValue {
		return nil
	}

	clients, sales, err := i.load(ctx)
	if err != nil {
		return err
	}

	slog.Info("Importing legacy data", "clients", len(clients), "sales", len(sales))
	if err := i.store.ImportSnapshot(ctx, clients, sales); err != nil {
		return fmt.Errorf("legacy import failed: %w", err)
	}

	if err := i.kv.Set(ctx, doneKey, []byte(doneValue)); err != nil {
		return fmt.Errorf("failed to record import flag: %w", err)
	}
	slog.Info("Legacy import complete")
	return nil
}

func (i *Importer) load(ctx context.Context) ([]models.Client, []models.Sale, error) {
	var clients []models.Client
	if raw, err := i.kv.Get(ctx, clientsKey); err != nil {
		return nil, nil, err
	} else if len(raw) > 0 {
		var legacyClients []legacyClient
		if err := json.Unmarshal(raw, &legacyClients); err != nil {
			return nil, nil, fmt.Errorf("failed to decode legacy clients: %w", err)
		}
		for _, c := range legacyClients {
			clients = append(clients, c.toModel())
		}
	}

	var sales []models.Sale
	if raw, err := i.kv.Get(ctx, salesKey); err != nil {
		return nil, nil, err
	} else if len(raw) > 0 {
		var legacySales []legacySale
		if err := json.Unmarshal(raw, &legacySales); err != nil {
			return nil, nil, fmt.Errorf("failed to decode legacy sales: %w", err)
		}
		for _, s := range legacySales {
			sales = append(sales, s.toModel())
		}
	}

	return clients, sales, nil
}
