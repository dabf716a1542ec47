package environment

import (
	"testing"

	"treasurehunt/board"

	. "github.com/smartystreets/goconvey/convey"
)

// fixedWorld builds an 8x8 world over a copy of layout.
func fixedWorld(layout *board.Board) *MazeWorld {
	env, err := New(FixedConfig(8, 0, 0), WithGenerator(FixedGenerator{Layout: layout}))
	So(err, ShouldBeNil)
	_, _, err = env.Reset(nil)
	So(err, ShouldBeNil)
	return env
}

func emptyLayout() *board.Board {
	b, err := board.NewEmpty(8)
	So(err, ShouldBeNil)
	return b
}

func seedPtr(seed uint64) *uint64 {
	return &seed
}

func TestEpisodeRewards(t *testing.T) {
	Convey("Given an open 8x8 board with the treasure at (3,3)", t, func() {
		env := fixedWorld(emptyLayout().WithTreasure(board.Coord{X: 3, Y: 3}))

		Convey("RIGHT x3 then UP x3 reaches the treasure for a total of 94", func() {
			total := 0.0
			var last StepResult
			for _, a := range []Action{Right, Right, Right, Up, Up, Up} {
				res, err := env.Step(a)
				So(err, ShouldBeNil)
				total += res.Reward
				last = res
			}
			So(last.Observation.Agent, ShouldResemble, board.Coord{X: 3, Y: 3})
			So(last.Terminated, ShouldBeTrue)
			So(last.Truncated, ShouldBeFalse)
			So(last.Reward, ShouldEqual, TREASURE_REWARD+STEP_REWARD)
			So(total, ShouldEqual, 94)
			So(env.State(), ShouldEqual, Terminated)

			Convey("Further steps require a reset", func() {
				_, err := env.Step(Right)
				So(err, ShouldEqual, ErrResetRequired)
			})
		})

		Convey("Moving LEFT from the origin wraps to the far column", func() {
			res, err := env.Step(Left)
			So(err, ShouldBeNil)
			So(res.Observation.Agent, ShouldResemble, board.Coord{X: 7, Y: 0})
			So(res.Info.Outcome, ShouldEqual, Moved)
			So(res.Info.StepCount, ShouldEqual, 1)
		})

		Convey("An out-of-range action is a blocked no-op", func() {
			res, err := env.Step(Action(9))
			So(err, ShouldBeNil)
			So(res.Observation.Agent, ShouldResemble, board.Start)
			So(res.Reward, ShouldEqual, STEP_REWARD)
			So(res.Info.Outcome, ShouldEqual, Blocked)
			So(res.Done(), ShouldBeFalse)
		})
	})

	Convey("Given a wall to the right of the origin and no tokens", t, func() {
		layout := emptyLayout().
			WithTreasure(board.Coord{X: 5, Y: 5}).
			WithWall(board.Wall{Orientation: board.Vertical, Row: 0, Col: 1})
		env := fixedWorld(layout)

		Convey("A RIGHT step is blocked, costs -1 and does not terminate", func() {
			res, err := env.Step(Right)
			So(err, ShouldBeNil)
			So(res.Observation.Agent, ShouldResemble, board.Start)
			So(res.Reward, ShouldEqual, -1)
			So(res.Terminated, ShouldBeFalse)
			So(res.Info.Outcome, ShouldEqual, Blocked)
		})
	})

	Convey("Given a pickup at (1,0) and a wall behind it", t, func() {
		layout := emptyLayout().
			WithTreasure(board.Coord{X: 5, Y: 5}).
			WithPickup(board.Coord{X: 1, Y: 0}).
			WithWall(board.Wall{Orientation: board.Vertical, Row: 0, Col: 2})
		env := fixedWorld(layout)

		Convey("Stepping onto it nets +4, grants a token and clears the tiles", func() {
			res, err := env.Step(Right)
			So(err, ShouldBeNil)
			So(res.Reward, ShouldEqual, STEP_REWARD+PICKUP_REWARD)
			So(res.Info.CollectedToken, ShouldBeTrue)
			So(res.Observation.JumpsRemaining, ShouldEqual, 1)
			So(env.Board().Count(board.JumpPickup), ShouldEqual, 0)
			So(env.Board().Count(board.JumpAura), ShouldEqual, 0)

			Convey("The token is spent jumping the wall", func() {
				res, err := env.Step(Right)
				So(err, ShouldBeNil)
				So(res.Info.Outcome, ShouldEqual, Jumped)
				So(res.Observation.Agent, ShouldResemble, board.Coord{X: 2, Y: 0})
				So(res.Observation.JumpsRemaining, ShouldEqual, 0)
				So(res.Reward, ShouldEqual, STEP_REWARD)
			})
		})

		Convey("The layout the generator holds is not mutated by play", func() {
			_, err := env.Step(Right)
			So(err, ShouldBeNil)
			So(layout.Count(board.JumpPickup), ShouldEqual, 1)
		})
	})
}

func TestTruncation(t *testing.T) {
	Convey("Given a player shuffling between two cells away from the treasure", t, func() {
		env := fixedWorld(emptyLayout().WithTreasure(board.Coord{X: 4, Y: 4}))

		Convey("Step 200 truncates with the -10 penalty and never earlier", func() {
			var res StepResult
			var err error
			for i := 1; i <= DEFAULT_MAX_STEPS; i++ {
				a := Right
				if i%2 == 0 {
					a = Left
				}
				res, err = env.Step(a)
				So(err, ShouldBeNil)
				if i < DEFAULT_MAX_STEPS {
					So(res.Done(), ShouldBeFalse)
				}
			}
			So(res.Truncated, ShouldBeTrue)
			So(res.Terminated, ShouldBeFalse)
			So(res.Reward, ShouldEqual, STEP_REWARD+TRUNCATION_PENALTY)
			So(res.Info.StepCount, ShouldEqual, DEFAULT_MAX_STEPS)

			_, err = env.Step(Right)
			So(err, ShouldEqual, ErrResetRequired)
		})
	})

	Convey("Given a treasure reached on the final step", t, func() {
		cfg := FixedConfig(8, 0, 0)
		cfg.MaxSteps = 1
		env, err := New(cfg, WithGenerator(FixedGenerator{
			Layout: emptyLayout().WithTreasure(board.Coord{X: 1, Y: 0}),
		}))
		So(err, ShouldBeNil)
		_, _, err = env.Reset(nil)
		So(err, ShouldBeNil)

		Convey("The episode terminates and still pays the budget penalty", func() {
			res, err := env.Step(Right)
			So(err, ShouldBeNil)
			So(res.Terminated, ShouldBeTrue)
			So(res.Truncated, ShouldBeFalse)
			So(res.Reward, ShouldEqual, TREASURE_REWARD+STEP_REWARD+TRUNCATION_PENALTY)
			So(res.Reward, ShouldEqual, 89)
		})
	})

	Convey("Given a full budget ending on the treasure", t, func() {
		env := fixedWorld(emptyLayout().WithTreasure(board.Coord{X: 1, Y: 1}))

		Convey("Step 200 onto the treasure earns 89 and is not truncated", func() {
			for i := 1; i <= DEFAULT_MAX_STEPS-2; i++ {
				a := Up
				if i%2 == 0 {
					a = Down
				}
				res, err := env.Step(a)
				So(err, ShouldBeNil)
				So(res.Done(), ShouldBeFalse)
			}
			res, err := env.Step(Up)
			So(err, ShouldBeNil)
			So(res.Observation.Agent, ShouldResemble, board.Coord{X: 0, Y: 1})

			res, err = env.Step(Right)
			So(err, ShouldBeNil)
			So(res.Info.StepCount, ShouldEqual, DEFAULT_MAX_STEPS)
			So(res.Terminated, ShouldBeTrue)
			So(res.Truncated, ShouldBeFalse)
			So(res.Reward, ShouldEqual, 89)
		})
	})
}

func TestLifecycle(t *testing.T) {
	Convey("Given a new random world", t, func() {
		env, err := New(DefaultConfig(), WithSeed(7))
		So(err, ShouldBeNil)

		Convey("Step before the first reset fails", func() {
			_, err := env.Step(Up)
			So(err, ShouldEqual, ErrResetRequired)
			So(env.State(), ShouldEqual, AwaitingReset)
			So(env.Snapshot().Board, ShouldBeNil)
		})

		Convey("Reset places the player at the origin with no tokens", func() {
			obs, info, err := env.Reset(nil)
			So(err, ShouldBeNil)
			So(obs.Agent, ShouldResemble, board.Start)
			So(obs.JumpsRemaining, ShouldEqual, 0)
			So(obs.BoardSize, ShouldEqual, DEFAULT_SIZE)
			So(env.Board().Tile(obs.Target), ShouldEqual, board.Treasure)
			So(info.StepCount, ShouldEqual, 0)
			So(env.State(), ShouldEqual, InProgress)

			Convey("Each reset starts a new episode id", func() {
				_, again, err := env.Reset(nil)
				So(err, ShouldBeNil)
				So(again.EpisodeID, ShouldNotEqual, info.EpisodeID)
			})
		})

		Convey("Resets with the same seed reproduce the board", func() {
			first, _, err := env.Reset(seedPtr(42))
			So(err, ShouldBeNil)
			firstWalls := env.Board().Walls()

			other, err := New(DefaultConfig())
			So(err, ShouldBeNil)
			second, _, err := other.Reset(seedPtr(42))
			So(err, ShouldBeNil)

			So(second.Target, ShouldResemble, first.Target)
			So(other.Board().Walls(), ShouldResemble, firstWalls)
			So(other.Board().Stats(), ShouldResemble, env.Board().Stats())
		})

		Convey("A snapshot is unaffected by later play", func() {
			_, _, err := env.Reset(seedPtr(3))
			So(err, ShouldBeNil)
			snap := env.Snapshot()
			So(snap.State, ShouldEqual, InProgress)
			So(snap.Board, ShouldNotPointTo, env.Board())
			So(snap.MaxSteps, ShouldEqual, DEFAULT_MAX_STEPS)

			_, err = env.Step(Up)
			So(err, ShouldBeNil)
			So(snap.Steps, ShouldEqual, 0)
			So(env.Snapshot().Steps, ShouldEqual, 1)
		})
	})

	Convey("Given invalid configs", t, func() {
		for _, cfg := range []Config{
			FixedConfig(4, 0, 0.5),
			FixedConfig(8, -1, 0.5),
			FixedConfig(8, 0, 1.0),
			FixedConfig(8, 0, -0.1),
		} {
			_, err := New(cfg)
			So(err, ShouldNotBeNil)
			var cfgErr *board.ConfigurationError
			So(err, ShouldHaveSameTypeAs, cfgErr)
		}
	})
}

func TestObservationWalls(t *testing.T) {
	Convey("Given randomly generated worlds", t, func() {
		for seed := uint64(0); seed < 20; seed++ {
			env, err := New(DefaultConfig())
			So(err, ShouldBeNil)
			obs, _, err := env.Reset(seedPtr(seed))
			So(err, ShouldBeNil)

			b := env.Board()
			n := b.Size()
			agree := true
			for x := 0; x < n; x++ {
				for y := 0; y < n; y++ {
					c := board.Coord{X: x, Y: y}
					for d := board.Direction(0); d < board.NumDirections; d++ {
						if obs.Walls[x][y][d] != b.BlockedDir(c, d) {
							agree = false
						}
					}
				}
			}
			So(agree, ShouldBeTrue)
		}
	})

	Convey("Given a single horizontal wall", t, func() {
		env := fixedWorld(emptyLayout().
			WithTreasure(board.Coord{X: 5, Y: 5}).
			WithWall(board.Wall{Orientation: board.Horizontal, Row: 1, Col: 0}))

		Convey("Moving UP from the origin is masked and blocked", func() {
			obs, _, err := env.Reset(nil)
			So(err, ShouldBeNil)
			So(obs.WallMask(board.Start), ShouldEqual, uint8(1)<<uint(Up))
			So(obs.WallMask(board.Coord{X: 0, Y: 1}), ShouldEqual, uint8(1)<<uint(Down))

			res, err := env.Step(Up)
			So(err, ShouldBeNil)
			So(res.Info.Outcome, ShouldEqual, Blocked)
		})
	})
}

func TestKeys(t *testing.T) {
	Convey("Given key names", t, func() {
		for key, want := range map[string]Action{
			"w": Up, "A": Left, "s": Down, "D": Right,
			"ArrowUp": Up, "ArrowLeft": Left, "down": Down, "Right": Right,
		} {
			action, ok := ActionForKey(key)
			So(ok, ShouldBeTrue)
			So(action, ShouldEqual, want)
		}
		_, ok := ActionForKey("q")
		So(ok, ShouldBeFalse)
	})

	Convey("Given step results", t, func() {
		So(Message(StepResult{Terminated: true}), ShouldContainSubstring, "treasure")
		So(Message(StepResult{Info: Info{Outcome: Jumped}}), ShouldEqual, "Jumped over wall!")
		So(Message(StepResult{Info: Info{Outcome: Blocked}}), ShouldEqual, "Blocked by a wall!")
		So(Message(StepResult{Info: Info{Outcome: Moved, CollectedToken: true}}), ShouldEqual, "Acquired a jump token!")
		So(Message(StepResult{Info: Info{Outcome: Moved}}), ShouldEqual, "")
	})
}
