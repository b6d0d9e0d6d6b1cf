// Package ai is the scripted AI controller for AI-controlled teams
// (spec.md Section 4.6): a stratified option-selection tree over
// Role/Behavior catalogs, with generation-tagged caches so expensive
// lookups (closest resource, closest enemy) are computed at most once
// per tick. Controller state lives entirely outside gridworld.World so
// multiple worlds never share mutable controller state (spec.md Section
// 9 design notes).
//
// Grounded on the teacher's internal/gardener (observe/decide/act/triage
// file split) fused with internal/agents.Tier0Decide's needs-priority
// dispatch tree (internal/agents/behavior.go) — reimplemented in-process
// against gridworld.World instead of an HTTP API, since spec.md Section
// 4.6 requires the controller to be scripted, not LLM-driven.
package ai

// cachePhase is the lifecycle stage of a CacheWrapper entry, per spec.md
// Section 4.6.
type cachePhase uint8

const (
	phaseUnallocated cachePhase = iota
	phaseAllocated
	phaseActive
	phaseCleaned
)

// CacheWrapper memoizes a single scalar for the current generation,
// matching spec.md Section 4.6's "get(compute) returns cached if
// validGen==generation else runs compute and stores."
type CacheWrapper[T any] struct {
	phase   cachePhase
	validGen uint64
	value   T
}

// Get returns the cached value if it is fresh for generation, otherwise
// calls compute, stores the result, and marks the entry fresh.
func (c *CacheWrapper[T]) Get(generation uint64, compute func() T) T {
	if c.phase == phaseActive && c.validGen == generation {
		return c.value
	}
	c.value = compute()
	c.validGen = generation
	c.phase = phaseActive
	return c.value
}

// Invalidate forces the next Get to recompute regardless of generation.
func (c *CacheWrapper[T]) Invalidate() {
	c.phase = phaseCleaned
}

// PerAgentCacheWrapper memoizes one value per agent slot, reset in O(1)
// by bumping a shared generation counter rather than zeroing the backing
// array every tick (spec.md Section 4.6).
type PerAgentCacheWrapper[T any] struct {
	entryGen []uint64
	values   []T
}

// NewPerAgentCacheWrapper allocates a wrapper sized for n agents.
func NewPerAgentCacheWrapper[T any](n int) *PerAgentCacheWrapper[T] {
	return &PerAgentCacheWrapper[T]{
		entryGen: make([]uint64, n),
		values:   make([]T, n),
	}
}

// Get returns agent i's cached value if fresh for generation, else
// computes, stores, and stamps it.
func (p *PerAgentCacheWrapper[T]) Get(i int, generation uint64, compute func() T) T {
	if p.entryGen[i] == generation {
		return p.values[i]
	}
	v := compute()
	p.values[i] = v
	p.entryGen[i] = generation
	return v
}

// PerTeamCacheWrapper is PerAgentCacheWrapper's counterpart keyed by team
// index instead of agent index.
type PerTeamCacheWrapper[T any] struct {
	entryGen []uint64
	values   []T
}

// NewPerTeamCacheWrapper allocates a wrapper sized for n teams.
func NewPerTeamCacheWrapper[T any](n int) *PerTeamCacheWrapper[T] {
	return &PerTeamCacheWrapper[T]{
		entryGen: make([]uint64, n),
		values:   make([]T, n),
	}
}

// Get returns team t's cached value if fresh for generation, else
// computes, stores, and stamps it.
func (p *PerTeamCacheWrapper[T]) Get(t int, generation uint64, compute func() T) T {
	if p.entryGen[t] == generation {
		return p.values[t]
	}
	v := compute()
	p.values[t] = v
	p.entryGen[t] = generation
	return v
}

// AgentStateLifecycle tracks which agents are active and flags stale ones
// for cleanup, per spec.md Section 4.6.
type AgentStateLifecycle struct {
	active        []bool
	lastActiveStep []int
	needsCleanup  []bool
}

// NewAgentStateLifecycle allocates a lifecycle tracker sized for n agents.
func NewAgentStateLifecycle(n int) *AgentStateLifecycle {
	return &AgentStateLifecycle{
		active:         make([]bool, n),
		lastActiveStep: make([]int, n),
		needsCleanup:   make([]bool, n),
	}
}

// MarkActive records that agent i acted this step.
func (l *AgentStateLifecycle) MarkActive(i, step int) {
	l.active[i] = true
	l.lastActiveStep[i] = step
}

// MarkInactive flags agent i for cleanup only if it was previously
// active — repeatedly marking an already-inactive agent is a no-op, per
// spec.md Section 4.6.
func (l *AgentStateLifecycle) MarkInactive(i int) {
	if l.active[i] {
		l.needsCleanup[i] = true
	}
	l.active[i] = false
}

// DetectStaleAgents returns the agents whose last-active step is
// strictly older than threshold steps before step.
func (l *AgentStateLifecycle) DetectStaleAgents(step, threshold int) []int {
	var stale []int
	for i, active := range l.active {
		if !active {
			continue
		}
		if step-l.lastActiveStep[i] > threshold {
			stale = append(stale, i)
		}
	}
	return stale
}

// ProcessAgentCleanup returns the ids flagged for cleanup and clears
// their flags.
func (l *AgentStateLifecycle) ProcessAgentCleanup() []int {
	var ids []int
	for i, flagged := range l.needsCleanup {
		if !flagged {
			continue
		}
		ids = append(ids, i)
		l.needsCleanup[i] = false
	}
	return ids
}
