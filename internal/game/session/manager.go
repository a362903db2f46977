// Package session tracks the open Yahtzee tables served by this process.
package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/yahtzee/internal/game/yahtzee"
	"github.com/cory-johannsen/yahtzee/internal/observability"
)

// Table is one hot-seat game owned by a single client connection.
// All access to the game goes through Do, which serializes callers.
type Table struct {
	// ID is the unique table identifier.
	ID string
	// Remote is the client address that opened the table (for logging).
	Remote string
	// OpenedAt is when the table was opened.
	OpenedAt time.Time
	// Logger is scoped to this table; the game logs through it too.
	Logger *zap.Logger

	mu   sync.Mutex
	game *yahtzee.Game
}

// Do runs fn with exclusive access to the table's game.
//
// Precondition: fn must not call Do on the same table.
func (t *Table) Do(fn func(g *yahtzee.Game) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.game)
}

// Manager tracks all open tables.
// All methods are safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	tables map[string]*Table
	logger *zap.Logger
}

// NewManager creates an empty table Manager. Table loggers derive from logger.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{tables: make(map[string]*Table), logger: logger}
}

// Open creates a game for players and registers it under a fresh ID. The game
// logs through the table's logger unless opts supply another.
//
// Postcondition: Returns the registered Table, or the error from yahtzee.NewGame.
func (m *Manager) Open(remote string, players []yahtzee.Player, opts ...yahtzee.Option) (*Table, error) {
	id := uuid.New().String()
	logger := observability.TableLogger(m.logger, id, len(players))
	g, err := yahtzee.NewGame(players, append([]yahtzee.Option{yahtzee.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	t := &Table{
		ID:       id,
		Remote:   remote,
		OpenedAt: time.Now(),
		Logger:   logger,
		game:     g,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t.ID] = t
	return t, nil
}

// Close removes the table with the given ID.
//
// Postcondition: Returns an error if no such table is open.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[id]; !ok {
		return fmt.Errorf("table %q not found", id)
	}
	delete(m.tables, id)
	return nil
}

// Get returns the open table with the given ID.
func (m *Manager) Get(id string) (*Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	return t, ok
}

// IDs returns the IDs of all open tables, oldest first.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	tables := make([]*Table, 0, len(m.tables))
	for _, t := range m.tables {
		tables = append(tables, t)
	}
	m.mu.RUnlock()

	sort.Slice(tables, func(i, j int) bool {
		return tables[i].OpenedAt.Before(tables[j].OpenedAt)
	})
	ids := make([]string, len(tables))
	for i, t := range tables {
		ids[i] = t.ID
	}
	return ids
}

// LogOpen writes msg to every open table's logger, oldest table first.
func (m *Manager) LogOpen(msg string) {
	for _, id := range m.IDs() {
		t, ok := m.Get(id)
		if !ok {
			continue
		}
		t.Logger.Info(msg,
			zap.String("remote_addr", t.Remote),
			zap.Duration("open_for", time.Since(t.OpenedAt)),
		)
	}
}

// Count returns the number of open tables.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables)
}
