package commands

import (
	"fmt"

	"github.com/vocalapp/vocal/cmd/vocal/internal/config"
	"github.com/vocalapp/vocal/pkg/identity"
	"github.com/vocalapp/vocal/pkg/kv"
)

// openStore opens the on-disk profile store under the config directory.
// Callers must Close the returned kv.Store.
func openStore(cfg *config.Config) (*identity.Store, kv.Store, error) {
	dir, err := cfg.ProfilesDir()
	if err != nil {
		return nil, nil, err
	}
	db, err := kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		return nil, nil, fmt.Errorf("open profile store: %w", err)
	}
	return identity.NewStore(db), db, nil
}
