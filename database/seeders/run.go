// Package seeders fills a fresh store with demo data.
//
// Define a seeder in any file in this package:
//
//	func init() {
//	    seeders.Register("reviews", SeedReviews)
//	}
//
// Then run it with: jantrick seed
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jantrick/jantrick/app/repositories"
)

// Target is what a seeder writes into.
type Target struct {
	Stores repositories.Stores
	// AdminEmail is promoted to admin when non-empty.
	AdminEmail string
}

// Func is the signature for a seed function. Seeders must be safe to run
// more than once.
type Func func(ctx context.Context, t Target) error

type entry struct {
	name string
	fn   Func
}

// Registry is an ordered list of seeders.
type Registry struct {
	mu      sync.Mutex
	entries []entry
}

// Default holds the seeders added by Register.
var Default = &Registry{}

// Register adds a seeder to Default. Call it from init().
func Register(name string, fn Func) {
	Default.Add(name, fn)
}

func (r *Registry) Add(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{name: name, fn: fn})
}

// RunAll executes every seeder in registration order and stops on the
// first error.
func (r *Registry) RunAll(ctx context.Context, t Target, w io.Writer) error {
	r.mu.Lock()
	current := make([]entry, len(r.entries))
	copy(current, r.entries)
	r.mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(w, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(w, "  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, t); err != nil {
			fmt.Fprintln(w, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(w, "done")
	}
	return nil
}
