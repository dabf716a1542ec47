package reinforcement

import (
	"context"
	"fmt"
	"testing"
	"time"

	"treasurehunt/board"
	"treasurehunt/environment"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/exp/rand"
)

func smallConfig(episodes int) *TrainingConfig {
	cfg := DefaultTrainingConfig()
	cfg.Episodes = episodes
	cfg.Window = 10
	cfg.Environment.Size = 5
	cfg.Environment.MaxSteps = 40
	cfg.Environment.MaxJumps = 1
	return cfg
}

func TestTrain(t *testing.T) {
	Convey("Given a small training run", t, func() {
		cfg := smallConfig(60)
		calls := 0
		lastCount := 0
		progress := func(_ context.Context, count int, stats *Stats) {
			calls++
			lastCount = count
		}

		summary, err := Train(context.Background(), cfg, 3, progress)
		So(err, ShouldBeNil)

		Convey("Exactly the configured number of episodes is processed", func() {
			So(summary.Episodes, ShouldEqual, 60)
			So(calls, ShouldEqual, 60)
			So(lastCount, ShouldEqual, 60)
			So(summary.Successes+summary.Truncations, ShouldEqual, 60)
		})

		Convey("The summary is consistent", func() {
			So(summary.MeanLength, ShouldBeGreaterThan, 0)
			So(summary.MeanLength, ShouldBeLessThanOrEqualTo, 40)
			So(summary.MeanReturn, ShouldBeLessThanOrEqualTo, environment.TREASURE_REWARD)
			So(len(summary.MovingReturns), ShouldEqual, 60-10+1)
			So(summary.Table.Len(), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a run bounded only by a deadline", t, func() {
		cfg := smallConfig(0)
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		summary, err := Train(ctx, cfg, 2, nil)

		Convey("It stops at the deadline without error", func() {
			So(err, ShouldBeNil)
			So(summary, ShouldNotBeNil)
			So(summary.Episodes, ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Train(ctx, smallConfig(0), 2, nil)
		So(err, ShouldEqual, context.Canceled)
	})

	Convey("Given invalid arguments", t, func() {
		_, err := Train(context.Background(), smallConfig(10), 0, nil)
		So(err, ShouldNotBeNil)

		cfg := smallConfig(10)
		cfg.Environment.Size = 2
		_, err = Train(context.Background(), cfg, 1, nil)
		So(err, ShouldNotBeNil)
	})
}

func TestLearnsShortPath(t *testing.T) {
	Convey("Given a fixed open board with the treasure one step right of the start", t, func() {
		layout, err := board.NewEmpty(5)
		So(err, ShouldBeNil)
		layout.WithTreasure(board.Coord{X: 1, Y: 0})

		envCfg := environment.FixedConfig(5, 0, 0)
		envCfg.MaxSteps = 30
		env, err := environment.New(envCfg,
			environment.WithSeed(5),
			environment.WithGenerator(environment.FixedGenerator{Layout: layout}))
		So(err, ShouldBeNil)

		cfg := smallConfig(400)
		cfg.Environment = envCfg
		cfg.HyperParams = []HyperParameter{{Key: "alpha", Val: 0.5}, {Key: "gamma", Val: 0.9}}

		summary, err := train(context.Background(), cfg, []*environment.MazeWorld{env}, nil)
		So(err, ShouldBeNil)
		So(summary.Episodes, ShouldEqual, 400)

		Convey("The greedy action at the start is RIGHT", func() {
			obs, _, err := env.Reset(nil)
			So(err, ShouldBeNil)
			action, value := summary.Table.Greedy(KeyOf(&obs))
			So(action, ShouldEqual, environment.Right)
			So(value, ShouldBeGreaterThan, 50)
		})

		Convey("Late episodes are shorter than early ones", func() {
			moving := summary.MovingLengths
			So(moving[len(moving)-1], ShouldBeLessThan, moving[0])
		})
	})
}

func TestPolicySeed(t *testing.T) {
	Convey("Given a worker's environment seed", t, func() {
		for _, seed := range []uint64{0, 1, 42} {
			Convey(fmt.Sprintf("The policy stream differs from the environment stream for seed %d", seed), func() {
				envRng := rand.New(rand.NewSource(seed))
				policyRng := rand.New(rand.NewSource(policySeed(seed)))
				So(policySeed(seed), ShouldNotEqual, seed)

				same := 0
				for i := 0; i < 16; i++ {
					if envRng.Uint64() == policyRng.Uint64() {
						same++
					}
				}
				So(same, ShouldEqual, 0)
			})
		}
	})
}

func TestMovingAverages(t *testing.T) {
	Convey("Given a series", t, func() {
		xs := []float64{1, 2, 3, 4, 5}

		Convey("Every full window is averaged", func() {
			So(MovingAverages(xs, 2), ShouldResemble, []float64{1.5, 2.5, 3.5, 4.5})
			So(MovingAverages(xs, 5), ShouldResemble, []float64{3})
		})

		Convey("An oversized window shrinks to the series", func() {
			So(MovingAverages(xs, 50), ShouldResemble, []float64{3})
		})

		Convey("Empty input yields nothing", func() {
			So(MovingAverages(nil, 3), ShouldBeNil)
		})
	})
}

func TestEvaluate(t *testing.T) {
	Convey("Given an untrained table", t, func() {
		cfg := environment.DefaultConfig()
		cfg.MaxSteps = 20
		result, err := Evaluate(context.Background(), NewQTable(), cfg, 3, 5)
		So(err, ShouldBeNil)
		So(result.Games, ShouldEqual, 5)
		So(result.WinRate(), ShouldBeBetweenOrEqual, 0.0, 1.0)
		So(result.MeanLength, ShouldBeLessThanOrEqualTo, 20)
	})
}
