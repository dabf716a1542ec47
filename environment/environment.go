/*
Package environment exposes the treasure hunt maze as an episodic reinforcement learning
environment: Reset starts an episode on a freshly generated board, and Step applies one of
four discrete actions, returning the observation, reward and whether the episode ended.

Moves wrap around the torus. A wall blocks a move unless the player holds a jump token,
which is spent to pass through. Every step costs -1; reaching the treasure pays +100 and
terminates; collecting a pickup pays +5; running out of steps costs -10 and truncates.

A MazeWorld is single-threaded and step-synchronous. It, and the Board and Player it
exposes for rendering, must not be used from more than one goroutine without external
synchronization.
*/
package environment

import (
	"errors"
	"fmt"
	"time"

	"treasurehunt/board"
	"treasurehunt/player"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// Action is a discrete move; its values index the action space.
type Action = board.Direction

const (
	Right = board.Right
	Up    = board.Up
	Left  = board.Left
	Down  = board.Down
)

// Rewards
const (
	STEP_REWARD        = -1.0
	TREASURE_REWARD    = 100.0
	PICKUP_REWARD      = 5.0
	TRUNCATION_PENALTY = -10.0
)

// State is the episode lifecycle.
type State int

const (
	AwaitingReset State = iota
	InProgress
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingReset:
		return "awaiting reset"
	case InProgress:
		return "in progress"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrResetRequired is returned by Step before the first Reset or after an episode ended.
var ErrResetRequired = errors.New("episode is not in progress: reset required")

// MazeWorld owns one board and one player per episode.
type MazeWorld struct {
	cfg       Config
	generator Generator
	rng       *rand.Rand

	board     *board.Board
	player    *player.Player
	steps     int
	state     State
	episodeID uuid.UUID
}

// Option customizes a MazeWorld.
type Option func(*MazeWorld)

// WithGenerator replaces the default RandomGenerator.
func WithGenerator(g Generator) Option {
	return func(env *MazeWorld) { env.generator = g }
}

// WithSeed seeds the environment's random source; otherwise it is seeded from the clock.
func WithSeed(seed uint64) Option {
	return func(env *MazeWorld) { env.rng.Seed(seed) }
}

// New validates cfg and returns an environment awaiting its first reset.
func New(cfg Config, opts ...Option) (*MazeWorld, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	env := &MazeWorld{
		cfg:       cfg,
		generator: RandomGenerator{Config: cfg},
		rng:       rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		state:     AwaitingReset,
	}
	for _, opt := range opts {
		opt(env)
	}
	return env, nil
}

// Reset starts a new episode. A non-nil seed reseeds the environment's random source
// first, so the episode is reproducible.
func (env *MazeWorld) Reset(seed *uint64) (Observation, Info, error) {
	if seed != nil {
		env.rng.Seed(*seed)
	}

	b, err := env.generator.Generate(env.rng)
	if err != nil {
		env.state = AwaitingReset
		return Observation{}, Info{}, fmt.Errorf("reset: %w", err)
	}

	env.board = b
	env.player = player.New()
	env.steps = 0
	env.state = InProgress
	env.episodeID = uuid.New()
	return env.observe(), Info{EpisodeID: env.episodeID}, nil
}

// Step applies one action. Out-of-range actions are absorbed as a blocked move.
func (env *MazeWorld) Step(action Action) (result StepResult, err error) {
	if env.state != InProgress {
		return result, ErrResetRequired
	}

	env.steps++
	reward := STEP_REWARD
	info := Info{
		EpisodeID: env.episodeID,
		StepCount: env.steps,
		Outcome:   Blocked,
	}

	if action.Valid() {
		from := env.player.Position()
		to := from.Step(action, env.board.Size())
		switch {
		case !env.board.Blocked(from, to):
			env.player.MoveTo(to)
			info.Outcome = Moved
		case env.player.UseToken():
			env.player.MoveTo(to)
			info.Outcome = Jumped
		}
	}

	pos := env.player.Position()
	switch env.board.Tile(pos) {
	case board.Treasure:
		reward += TREASURE_REWARD
		result.Terminated = true
	case board.JumpPickup:
		env.player.AddToken()
		env.board.Consume(pos)
		reward += PICKUP_REWARD
		info.CollectedToken = true
	}

	// The budget penalty applies even when the last step finds the treasure; Truncated
	// stays reserved for episodes that did not.
	if env.steps >= env.cfg.MaxSteps {
		reward += TRUNCATION_PENALTY
		result.Truncated = !result.Terminated
	}
	if result.Done() {
		env.state = Terminated
	}

	result.Observation = env.observe()
	result.Reward = reward
	result.Info = info
	return
}

func (env *MazeWorld) observe() Observation {
	return Observation{
		Agent:          env.player.Position(),
		Target:         env.board.Treasure(),
		BoardSize:      env.board.Size(),
		JumpsRemaining: env.player.Tokens(),
		Walls:          WallBitmap(env.board),
	}
}

// Board is the current episode's board, for read-only rendering between steps.
func (env *MazeWorld) Board() *board.Board {
	return env.board
}

// Player is the current episode's player, for read-only rendering between steps.
func (env *MazeWorld) Player() *player.Player {
	return env.player
}

func (env *MazeWorld) State() State {
	return env.state
}

func (env *MazeWorld) Steps() int {
	return env.steps
}

func (env *MazeWorld) Config() Config {
	return env.cfg
}

// Snapshot is a copy of the episode, safe to hand to another goroutine.
type Snapshot struct {
	Board     *board.Board
	Player    board.Coord
	Tokens    int
	Steps     int
	MaxSteps  int
	State     State
	EpisodeID uuid.UUID
}

// Snapshot copies the current episode. Before the first reset its Board is nil.
func (env *MazeWorld) Snapshot() Snapshot {
	snap := Snapshot{
		Steps:     env.steps,
		MaxSteps:  env.cfg.MaxSteps,
		State:     env.state,
		EpisodeID: env.episodeID,
	}
	if env.board != nil {
		snap.Board = env.board.Clone()
		snap.Player = env.player.Position()
		snap.Tokens = env.player.Tokens()
	}
	return snap
}
