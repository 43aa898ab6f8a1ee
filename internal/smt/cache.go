package smt

// Result is a cached solve outcome. Model is non-nil only for Sat and is a
// shared handle, never a copy.
type Result struct {
	Outcome Outcome
	Model   *Model
}

// Cache memoizes solve outcomes keyed on interned boolean terms. Every
// outcome is cached, Unknown included: solving the same expression twice
// always returns the first result, and a caller that wants a retry must
// build a different expression. The cache is not thread-safe; concurrent
// runs need separate caches.
type Cache struct {
	ctx     *Context
	entries map[*Term]Result
	hits    int
	misses  int
}

func NewCache(ctx *Context) *Cache {
	return &Cache{
		ctx:     ctx,
		entries: make(map[*Term]Result),
	}
}

// Solve checks satisfiability of expr, consulting the cache first. A miss
// runs a fresh solver and stores the outcome for the life of the cache.
func (c *Cache) Solve(expr *Term) Result {
	if res, ok := c.entries[expr]; ok {
		c.hits++
		return res
	}
	c.misses++

	solver := NewSolver(c.ctx)
	solver.Assert(expr)
	res := Result{Outcome: solver.Check(), Model: solver.Model()}
	c.entries[expr] = res
	return res
}

// Hits returns the number of cache hits so far.
func (c *Cache) Hits() int { return c.hits }

// Misses returns the number of solver invocations so far.
func (c *Cache) Misses() int { return c.misses }
