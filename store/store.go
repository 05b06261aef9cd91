package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"roleswap/rules"
)

//Store owns the in-memory rule aggregate and its single-file JSON persisted
//form. All methods are safe for concurrent use; discordgo runs event handlers
//on separate goroutines, so command handling and event reconciliation may
//touch the store at the same time.
type Store struct {
	mu   sync.Mutex
	path string
	agg  rules.Aggregate
}

//Open constructs a store backed by the file at path and loads any existing
//state. A missing file means a fresh install and yields an empty aggregate; a
//malformed file is reported and also yields an empty aggregate, so the bot
//starts in a degraded-but-running state rather than crashing.
func Open(path string) *Store {
	res := Store{
		path: path,
		agg:  rules.EmptyAggregate(),
	}
	res.load()
	return &res
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		logrus.Infof("No rule file found at %v, starting with an empty rule set", s.path)
		return
	} else if err != nil {
		logrus.Warnf("Failed to read rule file %v due to error %v; starting with an empty rule set", s.path, err)
		return
	}
	var agg rules.Aggregate
	if err := json.Unmarshal(raw, &agg); err != nil {
		logrus.Warnf("Rule file %v is malformed (%v); starting with an empty rule set", s.path, err)
		return
	}
	agg.Normalize()
	s.agg = agg
	logrus.Infof("Loaded %v swap rules, %v welcome roles and %v reaction bindings from %v",
		len(agg.SwapRules), len(agg.WelcomeRoleByScope), len(agg.ReactionBindings), s.path)
}

//Save serializes the whole aggregate and replaces the backing file. The write
//goes to a temp file in the same directory followed by a rename, so a reader
//never observes a half-written file. A failed save leaves the in-memory state
//untouched; memory remains the source of truth for the rest of the process
//lifetime.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	raw, err := json.MarshalIndent(&s.agg, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", rules.ErrStorageUnavailable, err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".roleswap-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", rules.ErrStorageUnavailable, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", rules.ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", rules.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", rules.ErrStorageUnavailable, err)
	}
	logrus.Debugf("Saved rule file %v", s.path)
	return nil
}

//Stats summarises the stored rule counts for the status page.
type Stats struct {
	SwapRules        int `json:"swapRules"`
	WelcomeRoles     int `json:"welcomeRoles"`
	ReactionBindings int `json:"reactionBindings"`
}

//Snapshot returns current rule counts.
func (s *Store) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		SwapRules:        len(s.agg.SwapRules),
		WelcomeRoles:     len(s.agg.WelcomeRoleByScope),
		ReactionBindings: len(s.agg.ReactionBindings),
	}
}
