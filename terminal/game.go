// Package terminal is the line-based console front end and the live training printer.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"treasurehunt/board"
	"treasurehunt/environment"
)

const helpText = `Commands:
  w  move up       a  move left
  s  move down     d  move right
  r  new board     h  show this help
  q  quit
Collect J tiles for jump tokens; a token carries you over one wall. Find the T!
`

// Game runs the console loop over one environment.
type Game struct {
	env     *environment.MazeWorld
	out     io.Writer
	episode float64
}

func NewGame(env *environment.MazeWorld, out io.Writer) *Game {
	return &Game{
		env: env,
		out: out,
	}
}

// Run resets the environment and reads one command per line from in until "q", EOF or
// cancellation. Only the text before the first space of a line is considered.
func (g *Game) Run(ctx context.Context, in io.Reader) error {
	if err := g.newBoard(); err != nil {
		return err
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		g.prompt()
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			line = l
		}

		quit, err := g.handle(line)
		if err != nil || quit {
			return err
		}
	}
}

func (g *Game) handle(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	cmd := strings.ToLower(fields[0])
	switch cmd {
	case "q", "quit":
		fmt.Fprintln(g.out, "Bye.")
		return true, nil
	case "h", "help":
		fmt.Fprint(g.out, helpText)
		return
	case "r":
		err = g.newBoard()
		return
	}

	action, ok := environment.ActionForKey(cmd)
	if !ok {
		fmt.Fprintf(g.out, "Unknown command %q, h for help.\n", cmd)
		return
	}
	if g.env.State() != environment.InProgress {
		fmt.Fprintln(g.out, "The episode is over: r for a new board, q to quit.")
		return
	}

	result, err := g.env.Step(action)
	if err != nil {
		return
	}
	g.episode += result.Reward
	if msg := environment.Message(result); msg != "" {
		fmt.Fprintln(g.out, msg)
	}
	if err = g.show(); err != nil {
		return
	}
	if result.Done() {
		fmt.Fprintf(g.out, "Episode over after %d steps with return %.0f. r for a new board, q to quit.\n",
			result.Info.StepCount, g.episode)
	}
	return
}

func (g *Game) newBoard() error {
	if _, _, err := g.env.Reset(nil); err != nil {
		return err
	}
	g.episode = 0
	if err := board.ShowStats(g.out, g.env.Board()); err != nil {
		return err
	}
	fmt.Fprint(g.out, "\n", helpText)
	return g.show()
}

func (g *Game) show() error {
	snap := g.env.Snapshot()
	if err := board.Render(g.out, snap.Board, board.PlayerAt(snap.Player)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(g.out, "Jumps: %d | Position: %v | Steps: %d/%d | Return: %.0f\n",
		snap.Tokens, snap.Player, snap.Steps, snap.MaxSteps, g.episode)
	return err
}

func (g *Game) prompt() {
	fmt.Fprint(g.out, "> ")
}
