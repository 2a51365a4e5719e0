package auth

import (
	"context"
	"database/sql"
	"encoding/json"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Storage keys for the persisted session triple. The role is kept as
// its own entry so host tooling can inspect it without parsing the
// user snapshot.
const (
	storeKeyToken = "token"
	storeKeyUser  = "user"
	storeKeyRole  = "role"
)

// SessionEntry is one persisted key/value pair.
type SessionEntry struct {
	bun.BaseModel `bun:"table:session_state,alias:ss"`
	Key           string `bun:"key,pk" json:"key"`
	Value         string `bun:"value,notnull" json:"value"`
}

var _ SessionStore = (*BunSessionStore)(nil)

// BunSessionStore persists session state in a SQLite-backed key/value
// table. A partial write is tolerated on the read side: Load treats
// any missing key as a logged-out session.
type BunSessionStore struct {
	db     *bun.DB
	logger Logger
}

// OpenSessionDB opens the backing database for a session store.
func OpenSessionDB(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to open session database")
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewSessionStore creates a store with sane defaults.
func NewSessionStore(db *bun.DB) *BunSessionStore {
	return &BunSessionStore{
		db:     db,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the store.
func (s *BunSessionStore) WithLogger(logger Logger) *BunSessionStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Init creates the session table if it does not exist yet.
func (s *BunSessionStore) Init(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*SessionEntry)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to create session table")
	}
	return nil
}

// Load reads the persisted triple. Any subset of keys may be absent;
// an unreadable user snapshot is logged and treated as absent.
func (s *BunSessionStore) Load(ctx context.Context) (SessionState, error) {
	var entries []SessionEntry
	if err := s.db.NewSelect().Model(&entries).Scan(ctx); err != nil {
		return SessionState{}, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to load session state")
	}

	values := make(map[string]string, len(entries))
	for _, entry := range entries {
		values[entry.Key] = entry.Value
	}

	state := SessionState{Token: values[storeKeyToken]}

	if raw := values[storeKeyUser]; raw != "" {
		user := &User{}
		if err := json.Unmarshal([]byte(raw), user); err != nil {
			s.logger.Warn("discarding unreadable user snapshot: %v", err)
		} else {
			state.User = user
		}
	}

	state.IsAuthenticated = state.Token != "" && state.User != nil
	return state, nil
}

// Save writes token, then user, then role. A nil user persists the
// token alone; the external-login bridge relies on that to hand an
// undecoded token to the next bootstrap.
func (s *BunSessionStore) Save(ctx context.Context, token string, user *User) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.put(ctx, tx, storeKeyToken, token); err != nil {
			return err
		}

		if user == nil {
			return nil
		}

		raw, err := json.Marshal(user)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to serialize user snapshot")
		}
		if err := s.put(ctx, tx, storeKeyUser, string(raw)); err != nil {
			return err
		}

		if user.Role == "" {
			return nil
		}
		return s.put(ctx, tx, storeKeyRole, string(user.Role))
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to save session state")
	}
	return nil
}

// Clear removes the full triple. Calling it on an already-empty store
// is a no-op.
func (s *BunSessionStore) Clear(ctx context.Context) error {
	if _, err := s.db.NewDelete().
		Model((*SessionEntry)(nil)).
		Where("key IN (?)", bun.In([]string{storeKeyToken, storeKeyUser, storeKeyRole})).
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to clear session state")
	}
	return nil
}

func (s *BunSessionStore) put(ctx context.Context, tx bun.Tx, key, value string) error {
	entry := &SessionEntry{Key: key, Value: value}
	if _, err := tx.NewInsert().
		Model(entry).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to write session entry").
			WithMetadata(map[string]any{"key": key})
	}
	return nil
}
