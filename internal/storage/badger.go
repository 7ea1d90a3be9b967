package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"recipebook/internal/domain"
)

// Compile-time interface check.
var _ Store = (*BadgerStore)(nil)

// BadgerStore implements Store on an embedded BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// Open opens (or creates) the database directory at dbPath.
func Open(dbPath string, logger logrus.FieldLogger) (*BadgerStore, error) {
	return open(badger.DefaultOptions(dbPath), logger)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory(logger logrus.FieldLogger) (*BadgerStore, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), logger)
}

func open(opts badger.Options, logger logrus.FieldLogger) (*BadgerStore, error) {
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %q: %w", opts.Dir, err)
	}
	logger.WithFields(logrus.Fields{
		"path":      opts.Dir,
		"in_memory": opts.InMemory,
	}).Info("BadgerDB opened")

	return &BadgerStore{
		db:  db,
		log: logger.WithField("component", "store"),
	}, nil
}

// Close closes the BadgerDB database.
func (s *BadgerStore) Close() error {
	s.log.Info("Closing BadgerDB...")
	if err := s.db.Close(); err != nil {
		s.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	s.log.Info("BadgerDB closed.")
	return nil
}

// Get returns a copy of the value stored under key.
func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return val, true, nil
}

// Put stores value under key, overwriting any previous value.
func (s *BadgerStore) Put(ctx context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value))
	})
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Failed to write key")
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// LoadRecipes reads the collection stored under RecipesKey.
func (s *BadgerStore) LoadRecipes(ctx context.Context) []domain.Recipe {
	log := s.log.WithField("key", RecipesKey)

	raw, ok, err := s.Get(ctx, RecipesKey)
	if err != nil {
		log.WithError(err).Error("Failed to load recipes")
		return []domain.Recipe{}
	}
	if !ok {
		log.Debug("No stored recipes")
		return []domain.Recipe{}
	}

	var recipes []domain.Recipe
	if err := json.Unmarshal(raw, &recipes); err != nil {
		log.WithError(err).Error("Failed to load recipes")
		return []domain.Recipe{}
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	log.WithField("recipe_count", len(recipes)).Debug("Recipes loaded")
	return recipes
}

// SaveRecipes serializes the whole collection and replaces the stored value.
func (s *BadgerStore) SaveRecipes(ctx context.Context, recipes []domain.Recipe) error {
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	data, err := json.Marshal(recipes)
	if err != nil {
		s.log.WithError(err).Error("Failed to marshal recipes to JSON")
		return fmt.Errorf("failed to marshal recipes: %w", err)
	}
	if err := s.Put(ctx, RecipesKey, data); err != nil {
		return err
	}
	s.log.WithField("recipe_count", len(recipes)).Debug("Recipes saved")
	return nil
}

// LoadFlag reports whether key holds "1".
func (s *BadgerStore) LoadFlag(ctx context.Context, key string) bool {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Failed to load flag, using default")
		return false
	}
	return ok && string(raw) == "1"
}

// SaveFlag stores value under key as "1" or "0".
func (s *BadgerStore) SaveFlag(ctx context.Context, key string, value bool) error {
	v := "0"
	if value {
		v = "1"
	}
	return s.Put(ctx, key, []byte(v))
}

// --- BadgerDB Internal Logger ---

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Infof(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
