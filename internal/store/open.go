package store

import (
	"badgr/internal/config"
	"badgr/internal/database"
	"badgr/internal/logger"
)

// Open picks the backend from configuration: Supabase when its URL and key
// are set, memory for "memory://", otherwise a direct database connection.
// The returned close function releases the underlying connection.
func Open(cfg *config.Config, log *logger.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	if cfg.UseSupabase() {
		s, err := NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using Supabase configuration store at %s", cfg.SupabaseURL)
		return s, noop, nil
	}

	if cfg.DatabaseURL == "memory://" {
		log.Warn("Using in-memory configuration store; data is lost on restart")
		return NewMemoryStore(), noop, nil
	}

	db, err := database.New(cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Using %s configuration store", db.Dialect)
	return NewGormStore(db), db.Close, nil
}
