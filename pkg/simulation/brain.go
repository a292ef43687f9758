package simulation

import (
	"sort"

	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
)

// Grouping tells a rule how to instantiate behaviors over the entities it matches.
type Grouping uint8

const (
	// Single instantiates one behavior per matching entity.
	Single Grouping = iota
	// Grouped instantiates one behavior targeting every matching entity.
	Grouped
)

func (g Grouping) String() string {
	if g == Grouped {
		return "grouped"
	}
	return "single"
}

// Factory builds a behavior for owner over targets.
type Factory func(owner *Agent, targets []behavior.Target) behavior.Behavior

// Rule maps an entity kind to a behavior factory.
type Rule struct {
	Kind     EntityKind
	Grouping Grouping
	New      Factory
}

// RuleTable is the data a brain decides with. Rules are evaluated in declaration
// order and the first rule matching a seen entity takes it.
type RuleTable struct {
	rules    []Rule
	noTarget Factory
}

// NewRuleTable creates an empty rule table.
func NewRuleTable() *RuleTable {
	return &RuleTable{}
}

// On declares the rule for kind. Declaring a kind twice replaces the rule in place.
func (t *RuleTable) On(kind EntityKind, grouping Grouping, factory Factory) *RuleTable {
	rule := Rule{Kind: kind, Grouping: grouping, New: factory}
	for i := range t.rules {
		if t.rules[i].Kind == kind {
			t.rules[i] = rule
			return t
		}
	}
	t.rules = append(t.rules, rule)
	return t
}

// OnNoTarget declares the behavior used when nothing is seen.
func (t *RuleTable) OnNoTarget(factory Factory) *RuleTable {
	t.noTarget = factory
	return t
}

// Rules returns the rules in declaration order.
func (t *RuleTable) Rules() []Rule {
	return t.rules
}

// match returns the index of the first rule matching kind, or -1.
func (t *RuleTable) match(kind EntityKind) int {
	for i, r := range t.rules {
		if r.Kind.Matches(kind) {
			return i
		}
	}
	return -1
}

const noTargetRule = -1

type instanceKey struct {
	rule   int
	handle behavior.Handle
}

// Brain perceives through the owner eyes, classifies what it sees with its rule
// table and sums the resulting behaviors with the permanent ones.
// Instances are cached per (rule, target) so stateful behaviors survive across ticks.
type Brain struct {
	Rules     *RuleTable
	Permanent []behavior.Behavior

	cache  map[instanceKey]behavior.Behavior
	used   map[instanceKey]bool
	active []behavior.Behavior
	seen   []*Agent
}

// NewBrain creates a brain deciding with rules.
func NewBrain(rules *RuleTable, permanent ...behavior.Behavior) *Brain {
	if rules == nil {
		rules = NewRuleTable()
	}
	return &Brain{
		Rules:     rules,
		Permanent: permanent,
		cache:     make(map[instanceKey]behavior.Behavior),
		used:      make(map[instanceKey]bool),
	}
}

// Seen returns what the owner perceived during the last Process.
func (b *Brain) Seen() []*Agent {
	return b.seen
}

// Active returns the behaviors summed during the last Process.
func (b *Brain) Active() []behavior.Behavior {
	return b.active
}

// Process runs perceive, classify and behave for owner, and returns the
// steering force clamped to the owner max steering force.
func (b *Brain) Process(owner *Agent, env Environment) geometry.Vector2D {
	b.perceive(owner, env)
	b.classify(owner, env)

	var force geometry.Vector2D
	for _, bh := range b.active {
		force.AddAssign(bh.Behave(owner, env))
	}
	if owner.Movable != nil {
		force.LimitLength(owner.Movable.maxSteeringForce)
	}
	return force
}

func (b *Brain) perceive(owner *Agent, env Environment) {
	b.seen = b.seen[:0]
	if len(owner.Eyes) == 1 {
		b.seen = append(b.seen, owner.Eyes[0].Look(env)...)
		return
	}
	known := make(map[int]bool)
	for _, eye := range owner.Eyes {
		for _, a := range eye.Look(env) {
			if !known[a.handle.Index] {
				known[a.handle.Index] = true
				b.seen = append(b.seen, a)
			}
		}
	}
	sort.Slice(b.seen, func(i, j int) bool { return b.seen[i].handle.Index < b.seen[j].handle.Index })
}

func (b *Brain) classify(owner *Agent, env Environment) {
	b.active = append(b.active[:0], b.Permanent...)
	clear(b.used)

	if len(b.seen) == 0 {
		if b.Rules.noTarget != nil {
			key := instanceKey{rule: noTargetRule}
			b.active = append(b.active, b.instance(owner, env, key, b.Rules.noTarget, nil))
		}
		b.prune()
		return
	}

	rules := b.Rules.rules
	matched := make([][]*Agent, len(rules))
	for _, a := range b.seen {
		if i := b.Rules.match(a.Kind); i >= 0 {
			matched[i] = append(matched[i], a)
		}
	}

	for i, rule := range rules {
		group := matched[i]
		if len(group) == 0 || rule.New == nil {
			continue
		}
		if rule.Grouping == Grouped {
			targets := make([]behavior.Target, len(group))
			for j, a := range group {
				targets[j] = behavior.EntityTarget(a.handle)
			}
			b.active = append(b.active, b.instance(owner, env, instanceKey{rule: i}, rule.New, targets))
			continue
		}
		for _, a := range group {
			key := instanceKey{rule: i, handle: a.handle}
			targets := []behavior.Target{behavior.EntityTarget(a.handle)}
			b.active = append(b.active, b.instance(owner, env, key, rule.New, targets))
		}
	}
	b.prune()
}

// instance returns the cached behavior for key, rebound to targets, or builds it.
func (b *Brain) instance(owner *Agent, env Environment, key instanceKey, factory Factory, targets []behavior.Target) behavior.Behavior {
	b.used[key] = true
	if bh, ok := b.cache[key]; ok {
		if rt, ok := bh.(behavior.Retargeter); ok {
			rt.SetTargets(targets)
		}
		return bh
	}
	bh := factory(owner, targets)
	if err := behavior.Check(bh); err != nil {
		env.Logger().Debugf("%s: %v", owner.Name, err)
	}
	b.cache[key] = bh
	return bh
}

func (b *Brain) prune() {
	for key := range b.cache {
		if !b.used[key] {
			delete(b.cache, key)
		}
	}
}
