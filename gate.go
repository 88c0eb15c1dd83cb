package wcdb

import (
	"context"
	"sync"
)

// gate counts the attached handles of a database and holds new ones back
// while the database is blockaded.
type gate struct {
	mu      sync.Mutex
	cond    *sync.Cond
	blocked bool
	active  int
}

func newGate() *gate {
	g := &gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// enter waits until the gate is open and counts one more handle.
func (g *gate) enter(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.blocked {
		stop := context.AfterFunc(ctx, func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			g.cond.Broadcast()
		})
		defer stop()
		for g.blocked {
			if err := ctx.Err(); err != nil {
				return newEngineError(err, stageOpen, "")
			}
			g.cond.Wait()
		}
	}
	g.active++
	return nil
}

func (g *gate) leave() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active--
	g.cond.Broadcast()
}

func (g *gate) block() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.blocked = true
}

func (g *gate) unblock() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.blocked = false
	g.cond.Broadcast()
}

func (g *gate) isBlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.blocked
}

// drain waits until every handle has left.
func (g *gate) drain() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.active > 0 {
		g.cond.Wait()
	}
}
