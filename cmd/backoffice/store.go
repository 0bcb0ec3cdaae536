package main

import (
	"fmt"
	"path/filepath"

	"github.com/jrsteele09/go-backoffice-session/internal/config"
	"github.com/jrsteele09/go-backoffice-session/token"
	"github.com/jrsteele09/go-backoffice-session/token/filestore"
	"github.com/jrsteele09/go-backoffice-session/token/sqlitestore"
)

// openTokenStore picks the durable token store named by TOKEN_STORE. The
// returned func releases it.
func openTokenStore(cfg config.Config) (token.Repo, func() error, error) {
	folder := cfg.GetDataFolder()

	switch cfg.GetTokenStore() {
	case config.TokenStoreFile:
		s, err := filestore.New(filepath.Join(folder, filestore.FileName), cfg.GetTokenKey())
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	case config.TokenStoreSQLite:
		s, err := sqlitestore.Open(filepath.Join(folder, sqlitestore.FileName), cfg.GetTokenKey())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown token store %q (want %s or %s)", cfg.GetTokenStore(), config.TokenStoreFile, config.TokenStoreSQLite)
}
