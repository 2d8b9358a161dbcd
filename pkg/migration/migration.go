// Package migration runs versioned changes against the document store
// (indexes, backfills) and records which ones have been applied.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20240101000000_user_email_unique", &UserEmailUnique{})
//	}
//
// Run from the CLI:
//
//	jantrick migrate
//	jantrick migrate:rollback
package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jantrick/jantrick/pkg/logger"
)

// Collection tracks applied migrations.
const Collection = "migrations"

// Migration is implemented by every migration.
type Migration interface {
	Up(ctx context.Context, db *mongo.Database) error
	Down(ctx context.Context, db *mongo.Database) error
}

type record struct {
	Name  string    `bson:"name"`
	Batch int       `bson:"batch"`
	RunAt time.Time `bson:"runAt"`
}

type entry struct {
	name string
	m    Migration
}

// Registry is an ordered set of migrations.
type Registry struct {
	mu      sync.Mutex
	entries []entry
}

// Default is the registry filled by Register.
var Default = &Registry{}

// Register adds a migration to Default. name should be timestamp-prefixed;
// migrations run in name order.
func Register(name string, m Migration) {
	Default.Add(name, m)
}

func (r *Registry) Add(name string, m Migration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{name: name, m: m})
}

func (r *Registry) sorted() []entry {
	r.mu.Lock()
	out := append([]entry(nil), r.entries...)
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Status reports whether one migration has been applied.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner applies a Registry to a database.
type Runner struct {
	db  *mongo.Database
	reg *Registry
}

// New creates a Runner. A nil registry means Default.
func New(db *mongo.Database, reg *Registry) *Runner {
	if reg == nil {
		reg = Default
	}
	return &Runner{db: db, reg: reg}
}

func (r *Runner) coll() *mongo.Collection {
	return r.db.Collection(Collection)
}

func (r *Runner) applied(ctx context.Context) (map[string]record, error) {
	cur, err := r.coll().Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var ran []record
	if err := cur.All(ctx, &ran); err != nil {
		return nil, err
	}

	out := make(map[string]record, len(ran))
	for _, rec := range ran {
		out[rec.Name] = rec
	}
	return out, nil
}

func (r *Runner) pending(ctx context.Context) ([]entry, error) {
	ran, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	var pending []entry
	for _, e := range r.reg.sorted() {
		if _, ok := ran[e.name]; !ok {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var last record
	opts := options.FindOne().SetSort(bson.D{{Key: "batch", Value: -1}})
	err := r.coll().FindOne(ctx, bson.D{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Batch, nil
}

// Run applies every pending migration as one batch and returns how many ran.
func (r *Runner) Run(ctx context.Context) (int, error) {
	pending, err := r.pending(ctx)
	if err != nil {
		return 0, fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		return 0, nil
	}

	last, err := r.lastBatch(ctx)
	if err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	batch := last + 1

	for i, e := range pending {
		logger.Info("migration: running", "name", e.name)
		if err := e.m.Up(ctx, r.db); err != nil {
			return i, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		rec := record{Name: e.name, Batch: batch, RunAt: time.Now().UTC()}
		if _, err := r.coll().InsertOne(ctx, rec); err != nil {
			return i, fmt.Errorf("migration: record %s: %w", e.name, err)
		}
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return len(pending), nil
}

// Rollback reverses the most recent batch and returns how many were undone.
func (r *Runner) Rollback(ctx context.Context) (int, error) {
	last, err := r.lastBatch(ctx)
	if err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	if last == 0 {
		return 0, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: -1}})
	cur, err := r.coll().Find(ctx, bson.D{{Key: "batch", Value: last}}, opts)
	if err != nil {
		return 0, err
	}
	var records []record
	if err := cur.All(ctx, &records); err != nil {
		return 0, err
	}

	known := make(map[string]Migration)
	for _, e := range r.reg.sorted() {
		known[e.name] = e.m
	}

	for i, rec := range records {
		m, ok := known[rec.Name]
		if !ok {
			return i, fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}
		logger.Info("migration: rolling back", "name", rec.Name)
		if err := m.Down(ctx, r.db); err != nil {
			return i, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if _, err := r.coll().DeleteOne(ctx, bson.D{{Key: "name", Value: rec.Name}}); err != nil {
			return i, err
		}
	}
	return len(records), nil
}

// Status lists every registered migration in run order.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	ran, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	var out []Status
	for _, e := range r.reg.sorted() {
		rec, ok := ran[e.name]
		out = append(out, Status{Name: e.name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

// Index is a Migration that creates one index and drops it on rollback.
type Index struct {
	Collection string
	Model      mongo.IndexModel
}

func (ix Index) name() string {
	if ix.Model.Options != nil && ix.Model.Options.Name != nil {
		return *ix.Model.Options.Name
	}
	return ""
}

func (ix Index) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(ix.Collection).Indexes().CreateOne(ctx, ix.Model)
	return err
}

func (ix Index) Down(ctx context.Context, db *mongo.Database) error {
	name := ix.name()
	if name == "" {
		return errors.New("migration: index has no name to drop")
	}
	_, err := db.Collection(ix.Collection).Indexes().DropOne(ctx, name)
	return err
}
