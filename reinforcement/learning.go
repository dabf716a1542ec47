package reinforcement

/*
Training runs a fixed number of agent workers, each generating episodes against its own
MazeWorld with an ε-greedy policy over the shared Q-table. Episodes are fanned in to a single
estimator which applies the Q-learning updates, so every write to the table is serialized
while workers keep reading it. This makes the workers' policies slightly stale, which is
harmless for an off-policy method.
*/

import (
	"context"
	"errors"
	"fmt"
	"math"

	"treasurehunt/atomic_float"
	"treasurehunt/environment"

	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Transition is one step of an episode, reduced to state keys.
type Transition struct {
	State    StateKey
	Action   environment.Action
	Reward   float64
	Next     StateKey
	Terminal bool
}

// Episode is the transitions of one complete episode.
type Episode struct {
	Worker      int
	Transitions []Transition
	Return      float64
	Terminated  bool
	Truncated   bool
}

func (ep *Episode) Len() int {
	return len(ep.Transitions)
}

// ProgressFunc is a callback by which the training method can lend progress details.
// It is called synchronously by the estimator after every processed episode and should
// complete quickly; stats must not be retained.
type ProgressFunc func(ctx context.Context, episodeCount int, stats *Stats)

type learningParams struct {
	alpha        float64
	gamma        float64
	epsilon      float64
	epsilonDecay float64
	epsilonMin   float64
}

func (cfg *TrainingConfig) learningParams() (hp learningParams) {
	// Alpha: the learning rate
	hp.alpha = cfg.GetHyperParamOrDefault("alpha", 0.1)
	// Gamma: how much to value future rewards.
	hp.gamma = cfg.GetHyperParamOrDefault("gamma", 0.95)
	// Epsilon starts at this value and decays linearly per episode down to finalEpsilon.
	hp.epsilon = cfg.GetHyperParamOrDefault("epsilon", 1.0)
	hp.epsilonMin = cfg.GetHyperParamOrDefault("finalEpsilon", 0.1)
	defaultDecay := 0.0
	if cfg.Episodes > 0 {
		defaultDecay = hp.epsilon / (float64(cfg.Episodes) / 2)
	}
	hp.epsilonDecay = cfg.GetHyperParamOrDefault("epsilonDecay", defaultDecay)
	return
}

// Train blocks until cfg.Episodes episodes were processed or ctx is done, and returns the
// summary of the run. Reaching a context deadline is a normal stop; other cancellation is
// returned along with the summary so far.
func Train(
	ctx context.Context,
	cfg *TrainingConfig,
	nworkers int,
	progressFn ProgressFunc,
) (*Summary, error) {
	if nworkers < 1 {
		return nil, fmt.Errorf("nworkers must be positive: %d", nworkers)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	envs := make([]*environment.MazeWorld, nworkers)
	for i := range envs {
		env, err := environment.New(cfg.Environment, environment.WithSeed(cfg.Seed+uint64(i)))
		if err != nil {
			return nil, err
		}
		envs[i] = env
	}
	return train(ctx, cfg, envs, progressFn)
}

func train(
	ctx context.Context,
	cfg *TrainingConfig,
	envs []*environment.MazeWorld,
	progressFn ProgressFunc,
) (*Summary, error) {
	hp := cfg.learningParams()
	table := NewQTable()
	epsilon := atomic_float.NewAtomicFloat64(hp.epsilon)

	trainCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(trainCtx)

	workers := []<-chan *Episode{}
	for i, env := range envs {
		id, env := i, env
		ch := make(chan *Episode)
		policy := NewPolicy(table, epsilon, rand.New(rand.NewSource(policySeed(cfg.Seed+uint64(id)))))
		group.Go(func() error {
			return agentWorker(groupCtx, id, env, policy, ch)
		})
		workers = append(workers, ch)
	}
	// Fan in the workers to a single channel, so only the estimator writes to the table.
	episodes := channerics.Merge(groupCtx.Done(), workers...)

	stats := &Stats{Epsilon: hp.epsilon}
	estimate := func(ep *Episode) {
		sumTD := 0.0
		for _, tr := range ep.Transitions {
			sumTD += math.Abs(table.Update(tr, hp.alpha, hp.gamma))
		}
		meanTD := 0.0
		if ep.Len() > 0 {
			meanTD = sumTD / float64(ep.Len())
		}
		eps := math.Max(hp.epsilonMin, epsilon.AtomicRead()-hp.epsilonDecay)
		epsilon.AtomicSet(eps)
		stats.record(ep, meanTD, eps)
	}

estimator:
	for cfg.Episodes == 0 || stats.Episodes < cfg.Episodes {
		select {
		case <-groupCtx.Done():
			break estimator
		case ep, ok := <-episodes:
			if !ok {
				break estimator
			}
			estimate(ep)
			if progressFn != nil {
				progressFn(ctx, stats.Episodes, stats)
			}
		}
	}

	cancel()
	if err := group.Wait(); err != nil {
		return nil, err
	}

	window := cfg.Window
	if window < 1 {
		window = DEFAULT_WINDOW
	}
	summary := stats.summarize(window, table)
	if err := ctx.Err(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return summary, err
	}
	return summary, nil
}

// policySeed derives a policy's seed from its environment's, so exploration does not
// replay the board generation stream.
func policySeed(envSeed uint64) uint64 {
	return envSeed ^ 0x9e3779b97f4a7c15
}

// agentWorker generates and sends episodes until cancellation.
func agentWorker(
	ctx context.Context,
	id int,
	env *environment.MazeWorld,
	policy *Policy,
	episodes chan<- *Episode,
) error {
	defer close(episodes)
	for {
		// done-guard
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		episode, err := runEpisode(env, policy)
		if err != nil {
			return fmt.Errorf("worker %d: %w", id, err)
		}
		episode.Worker = id

		select {
		case episodes <- episode:
		case <-ctx.Done():
			return nil
		}
	}
}

func runEpisode(env *environment.MazeWorld, policy *Policy) (*Episode, error) {
	obs, _, err := env.Reset(nil)
	if err != nil {
		return nil, err
	}

	episode := &Episode{}
	state := KeyOf(&obs)
	for {
		action := policy.Act(state)
		result, err := env.Step(action)
		if err != nil {
			return nil, err
		}
		next := KeyOf(&result.Observation)
		episode.Transitions = append(episode.Transitions, Transition{
			State:    state,
			Action:   action,
			Reward:   result.Reward,
			Next:     next,
			Terminal: result.Terminated,
		})
		episode.Return += result.Reward
		state = next

		if result.Done() {
			episode.Terminated = result.Terminated
			episode.Truncated = result.Truncated
			return episode, nil
		}
	}
}

// EvalResult is the outcome of greedy play with a learned table.
type EvalResult struct {
	Games      int
	Wins       int
	MeanReturn float64
	MeanLength float64
}

func (r EvalResult) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games)
}

// Evaluate plays games greedily with table on fresh boards from envCfg, without learning.
func Evaluate(
	ctx context.Context,
	table *QTable,
	envCfg environment.Config,
	seed uint64,
	games int,
) (result EvalResult, err error) {
	env, err := environment.New(envCfg, environment.WithSeed(seed))
	if err != nil {
		return
	}
	policy := NewPolicy(table, atomic_float.NewAtomicFloat64(0), rand.New(rand.NewSource(policySeed(seed))))

	totalReturn, totalLength := 0.0, 0
	for result.Games < games {
		if err = ctx.Err(); err != nil {
			return
		}
		var ep *Episode
		if ep, err = runEpisode(env, policy); err != nil {
			return
		}
		result.Games++
		if ep.Terminated {
			result.Wins++
		}
		totalReturn += ep.Return
		totalLength += ep.Len()
	}
	if result.Games > 0 {
		result.MeanReturn = totalReturn / float64(result.Games)
		result.MeanLength = float64(totalLength) / float64(result.Games)
	}
	return
}
