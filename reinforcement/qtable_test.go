package reinforcement

import (
	"testing"

	"treasurehunt/atomic_float"
	"treasurehunt/board"
	"treasurehunt/environment"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/exp/rand"
)

func TestQTable(t *testing.T) {
	Convey("Given an empty table", t, func() {
		qt := NewQTable()
		s := StateKey{Agent: board.Coord{X: 0, Y: 0}, Target: board.Coord{X: 2, Y: 2}}
		next := StateKey{Agent: board.Coord{X: 1, Y: 0}, Target: board.Coord{X: 2, Y: 2}}

		Convey("Unvisited states are zero and greedy picks the lowest action", func() {
			So(qt.Value(s, environment.Up), ShouldEqual, 0)
			action, value := qt.Greedy(s)
			So(action, ShouldEqual, environment.Right)
			So(value, ShouldEqual, 0)
			So(qt.Len(), ShouldEqual, 0)
		})

		Convey("A terminal update moves toward the reward alone", func() {
			td := qt.Update(Transition{State: s, Action: environment.Up, Reward: 99, Next: next, Terminal: true}, 0.5, 0.9)
			So(td, ShouldEqual, 99)
			So(qt.Value(s, environment.Up), ShouldEqual, 49.5)
			action, _ := qt.Greedy(s)
			So(action, ShouldEqual, environment.Up)
		})

		Convey("A non-terminal update bootstraps from the best next value", func() {
			qt.Update(Transition{State: next, Action: environment.Left, Reward: 10, Terminal: true}, 1, 0.9)
			So(qt.Value(next, environment.Left), ShouldEqual, 10)

			td := qt.Update(Transition{State: s, Action: environment.Right, Reward: -1, Next: next}, 0.5, 0.9)
			So(td, ShouldAlmostEqual, -1+0.9*10)
			So(qt.Value(s, environment.Right), ShouldAlmostEqual, 0.5*(-1+0.9*10))
			So(qt.Len(), ShouldEqual, 2)
		})
	})
}

func TestKeyOf(t *testing.T) {
	Convey("Given an observation with many tokens and walls around the agent", t, func() {
		b, err := board.NewEmpty(6)
		So(err, ShouldBeNil)
		b.WithTreasure(board.Coord{X: 3, Y: 3}).
			WithWall(board.Wall{Orientation: board.Vertical, Row: 2, Col: 3}).
			WithWall(board.Wall{Orientation: board.Horizontal, Row: 2, Col: 2})

		obs := environment.Observation{
			Agent:          board.Coord{X: 2, Y: 2},
			Target:         b.Treasure(),
			BoardSize:      6,
			JumpsRemaining: 7,
			Walls:          environment.WallBitmap(b),
		}
		key := KeyOf(&obs)

		Convey("The jump count is clamped and the wall mask covers right and down", func() {
			So(key.Jumps, ShouldEqual, MAX_JUMP_FEATURE)
			So(key.WallMask, ShouldEqual, uint8(1<<uint(board.Right)|1<<uint(board.Down)))
			So(key.Target, ShouldResemble, board.Coord{X: 3, Y: 3})
		})
	})
}

func TestPolicy(t *testing.T) {
	Convey("Given a table preferring DOWN", t, func() {
		qt := NewQTable()
		s := StateKey{Target: board.Coord{X: 1, Y: 1}}
		qt.Update(Transition{State: s, Action: environment.Down, Reward: 5, Terminal: true}, 1, 0)

		Convey("A zero-epsilon policy is greedy", func() {
			p := NewPolicy(qt, atomic_float.NewAtomicFloat64(0), rand.New(rand.NewSource(1)))
			for i := 0; i < 20; i++ {
				So(p.Act(s), ShouldEqual, environment.Down)
			}
		})

		Convey("A full-epsilon policy explores every action", func() {
			p := NewPolicy(qt, atomic_float.NewAtomicFloat64(1), rand.New(rand.NewSource(1)))
			seen := map[environment.Action]bool{}
			for i := 0; i < 200; i++ {
				a := p.Act(s)
				So(a.Valid(), ShouldBeTrue)
				seen[a] = true
			}
			So(len(seen), ShouldEqual, board.NumDirections)
		})
	})
}
