package planner

import (
	"context"
	"fmt"
	"os"

	"github.com/calvinalkan/gsmeac/internal/config"
	"github.com/calvinalkan/gsmeac/internal/fs"
	"github.com/calvinalkan/gsmeac/internal/kv"
)

// OpenStorage opens the slot store the configuration selects, capped by the
// configured quota.
func OpenStorage(ctx context.Context, cfg config.Config) (kv.Store, error) {
	var (
		slots kv.Store
		err   error
	)

	switch cfg.Backend {
	case config.BackendSQLite:
		err = os.MkdirAll(cfg.PlanDirAbs, 0o755)
		if err != nil {
			return nil, fmt.Errorf("create plan dir: %w", err)
		}

		slots, err = kv.OpenSQLite(ctx, cfg.SQLitePath(), kv.SQLiteOptions{})
	default:
		slots, err = kv.OpenFileStore(fs.NewReal(), cfg.PlanDirAbs)
	}

	if err != nil {
		return nil, err
	}

	return kv.WithQuota(slots, cfg.QuotaBytes), nil
}
