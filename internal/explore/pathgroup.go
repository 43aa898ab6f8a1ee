// Package explore drives path exploration: a worklist of pending symbolic
// states, a visited set for deduplication, and classifiers that decide
// whether a popped state is the target, a dead end, or worth expanding.
package explore

import (
	"container/heap"
	"log"

	"bfsym/internal/program"
	"bfsym/internal/smt"
	"bfsym/internal/sym"
)

// Verdict is what a classifier says about a popped state.
type Verdict int

const (
	// VerdictDone means the state is the target; exploration stops.
	VerdictDone Verdict = iota

	// VerdictInvalid means the state is a dead end; it is discarded and no
	// successors are computed.
	VerdictInvalid

	// VerdictValid means the state is reachable but not the target;
	// successors are enqueued.
	VerdictValid
)

// Stats are the counters of one exploration run.
type Stats struct {
	Pops     int // states popped from the worklist
	Pruned   int // states discarded by the path pre-check
	Expanded int // states moved to the visited set
	Enqueued int // successors pushed onto the worklist
}

// workItem orders the worklist: shorter symbolic input first, ties popped
// LIFO. Preferring short inputs converges much faster on the output-match
// problem than plain depth-first order.
type workItem struct {
	state    *sym.State
	priority int
	seq      int
}

type workHeap []workItem

func (h workHeap) Len() int { return len(h) }
func (h workHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq > h[j].seq
}
func (h workHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *workHeap) Push(x any) { *h = append(*h, x.(workItem)) }
func (h *workHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// PathGroup is the bookkeeping structure for a single symbolic execution
// run: worklist, visited set and the constraint cache the run solves
// through. Single-threaded; a run may be paused between pops.
type PathGroup struct {
	ctx     *smt.Context
	cache   *smt.Cache
	next    workHeap
	visited map[string]bool
	stats   Stats
	seq     int

	// Debug enables per-pop logging of worklist and visited-set sizes.
	Debug bool

	// MaxVisits caps the number of pops before the run gives up; zero
	// means unbounded. This is the only termination lever besides finding
	// the target or exhausting the worklist.
	MaxVisits int

	// Progress, when set, is invoked with the current stats every
	// progressInterval pops.
	Progress func(Stats)
}

const progressInterval = 256

// MakeEntry seeds a path group with the entry state of prog and a fresh
// constraint cache.
func MakeEntry(ctx *smt.Context, prog *program.Program, memSize int) *PathGroup {
	return MakeEntryWithCache(ctx, prog, memSize, smt.NewCache(ctx))
}

// MakeEntryWithCache is MakeEntry with a caller-supplied cache, so runs
// sharing a context can share cached solves.
func MakeEntryWithCache(ctx *smt.Context, prog *program.Program, memSize int, cache *smt.Cache) *PathGroup {
	g := &PathGroup{
		ctx:     ctx,
		cache:   cache,
		visited: make(map[string]bool),
	}
	g.push(sym.MakeEntry(ctx, prog, memSize))
	return g
}

// Cache returns the constraint cache the run solves through.
func (g *PathGroup) Cache() *smt.Cache { return g.cache }

// Stats returns the counters so far.
func (g *PathGroup) Stats() Stats { return g.stats }

func (g *PathGroup) push(state *sym.State) {
	g.seq++
	heap.Push(&g.next, workItem{
		state:    state,
		priority: len(state.Input),
		seq:      g.seq,
	})
	g.stats.Enqueued++
}

// addContinuations enqueues every successor of state that has not been
// visited. Checking here, in addition to the pop-side insertion into the
// visited set, keeps already-expanded states off the worklist.
func (g *PathGroup) addContinuations(state *sym.State) {
	for _, succ := range state.Step() {
		if !g.visited[succ.Key()] {
			g.push(succ)
		}
	}
}

// ExploreUntil pops states and classifies them until the classifier
// reports done, the worklist drains, or the visit cap is hit. Infeasible
// states (path provably unsatisfiable) are pruned before the classifier
// runs. The boolean result is false when the search was exhausted without
// a match.
func ExploreUntil[T any](g *PathGroup, classify func(*sym.State) (Verdict, T)) (T, bool) {
	var zero T
	for g.next.Len() > 0 {
		if g.MaxVisits > 0 && g.stats.Pops >= g.MaxVisits {
			return zero, false
		}
		item := heap.Pop(&g.next).(workItem)
		state := item.state
		g.stats.Pops++

		if g.Debug {
			log.Printf("explore: pops=%d next=%d visited=%d input=%d output=%d",
				g.stats.Pops, g.next.Len(), len(g.visited), len(state.Input), len(state.Output))
		}
		if g.Progress != nil && g.stats.Pops%progressInterval == 0 {
			g.Progress(g.stats)
		}

		// Cheap feasibility pre-check on the path alone. Unknown is kept
		// alive: only a definite Unsat prunes.
		if res := g.cache.Solve(state.Path); res.Outcome == smt.Unsat {
			g.stats.Pruned++
			continue
		}

		verdict, value := classify(state)
		switch verdict {
		case VerdictDone:
			return value, true
		case VerdictInvalid:
			continue
		case VerdictValid:
			g.visited[state.Key()] = true
			g.stats.Expanded++
			g.addContinuations(state)
		}
	}
	return zero, false
}
