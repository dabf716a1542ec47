package reinforcement

import (
	"fmt"
	"sync"

	"treasurehunt/atomic_float"
	"treasurehunt/board"
	"treasurehunt/environment"

	"golang.org/x/exp/rand"
)

// MAX_JUMP_FEATURE clamps the jump count of a state key; more tokens than this behave alike.
const MAX_JUMP_FEATURE = 3

// StateKey is the tabular state: the agent and treasure positions, the clamped token count,
// and the walls around the agent.
type StateKey struct {
	Agent    board.Coord
	Target   board.Coord
	Jumps    int
	WallMask uint8
}

func (key StateKey) String() string {
	return fmt.Sprintf("%v->%v j=%d w=%04b", key.Agent, key.Target, key.Jumps, key.WallMask)
}

// KeyOf reduces an observation to its state key.
func KeyOf(obs *environment.Observation) StateKey {
	jumps := obs.JumpsRemaining
	if jumps > MAX_JUMP_FEATURE {
		jumps = MAX_JUMP_FEATURE
	}
	return StateKey{
		Agent:    obs.Agent,
		Target:   obs.Target,
		Jumps:    jumps,
		WallMask: obs.WallMask(obs.Agent),
	}
}

// ActionValues are the Q values of one state, indexed by action.
type ActionValues [board.NumDirections]atomic_float.AtomicFloat64

// QTable maps state keys to action values. Rows are created under the lock; the values
// themselves are atomic, so workers can read them while the estimator writes.
type QTable struct {
	mu   sync.RWMutex
	rows map[StateKey]*ActionValues
}

func NewQTable() *QTable {
	return &QTable{
		rows: map[StateKey]*ActionValues{},
	}
}

// lookup returns the row for key, or nil if the state was never updated.
func (qt *QTable) lookup(key StateKey) *ActionValues {
	qt.mu.RLock()
	defer qt.mu.RUnlock()
	return qt.rows[key]
}

// row returns the row for key, creating it if needed.
func (qt *QTable) row(key StateKey) *ActionValues {
	if row := qt.lookup(key); row != nil {
		return row
	}
	qt.mu.Lock()
	defer qt.mu.Unlock()
	if row, ok := qt.rows[key]; ok {
		return row
	}
	row := &ActionValues{}
	qt.rows[key] = row
	return row
}

// Value is Q(key, action); unvisited states are zero.
func (qt *QTable) Value(key StateKey, action environment.Action) float64 {
	row := qt.lookup(key)
	if row == nil || !action.Valid() {
		return 0
	}
	return row[action].AtomicRead()
}

// Greedy returns the highest valued action and its value. Ties go to the lowest action.
func (qt *QTable) Greedy(key StateKey) (best environment.Action, value float64) {
	row := qt.lookup(key)
	if row == nil {
		return environment.Right, 0
	}
	value = row[0].AtomicRead()
	for a := 1; a < board.NumDirections; a++ {
		if val := row[a].AtomicRead(); val > value {
			best, value = environment.Action(a), val
		}
	}
	return
}

// Update applies one Q-learning step for the transition and returns the temporal difference.
// Terminal successors bootstrap from zero.
func (qt *QTable) Update(tr Transition, alpha, gamma float64) (tdError float64) {
	target := tr.Reward
	if !tr.Terminal {
		_, next := qt.Greedy(tr.Next)
		target += gamma * next
	}
	cell := &qt.row(tr.State)[tr.Action]
	tdError = target - cell.AtomicRead()
	cell.Add(alpha * tdError)
	return
}

// Len is the number of visited states.
func (qt *QTable) Len() int {
	qt.mu.RLock()
	defer qt.mu.RUnlock()
	return len(qt.rows)
}

// Policy is an ε-greedy policy over a shared table. Epsilon is shared too, so the
// estimator can decay it while workers act.
type Policy struct {
	Table   *QTable
	Epsilon *atomic_float.AtomicFloat64
	rng     *rand.Rand
}

// NewPolicy returns a policy drawing its explorations from rng, which must not be shared.
func NewPolicy(table *QTable, epsilon *atomic_float.AtomicFloat64, rng *rand.Rand) *Policy {
	return &Policy{
		Table:   table,
		Epsilon: epsilon,
		rng:     rng,
	}
}

// Act picks a uniformly random action with probability ε, otherwise the greedy one.
func (p *Policy) Act(key StateKey) environment.Action {
	if p.rng.Float64() < p.Epsilon.AtomicRead() {
		return environment.Action(p.rng.Intn(board.NumDirections))
	}
	action, _ := p.Table.Greedy(key)
	return action
}
