// Package session runs one browser play session: a goroutine that exclusively owns an
// environment, applies key presses to it, and emits a Frame after every change.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"treasurehunt/environment"

	"github.com/google/uuid"
)

// Frame is the state published to the views after a key press.
type Frame struct {
	SessionID uuid.UUID
	Snapshot  environment.Snapshot
	Return    float64
	Message   string
}

const (
	welcomeMessage  = "Find the treasure! WASD or arrow keys move, r deals a new board."
	newBoardMessage = "New board."
	gameOverMessage = "The episode is over, press r for a new board."
)

type Session struct {
	ID      uuid.UUID
	Created time.Time

	env     *environment.MazeWorld
	keys    chan string
	frames  chan Frame
	current Frame
	ret     float64
}

// New builds the environment and deals the first board.
func New(cfg environment.Config, opts ...environment.Option) (*Session, error) {
	env, err := environment.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:      uuid.New(),
		Created: time.Now(),
		env:     env,
		keys:    make(chan string),
		frames:  make(chan Frame),
	}
	if _, _, err = env.Reset(nil); err != nil {
		return nil, err
	}
	sess.current = sess.frame(welcomeMessage)
	return sess, nil
}

// Current is the latest frame. It may only be read before Run starts.
func (sess *Session) Current() Frame {
	return sess.current
}

// Frames emits a frame per handled key. It is closed when Run returns.
func (sess *Session) Frames() <-chan Frame {
	return sess.frames
}

// Press hands a key to the running session.
func (sess *Session) Press(ctx context.Context, key string) error {
	select {
	case sess.keys <- key:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run applies key presses until ctx is done.
func (sess *Session) Run(ctx context.Context) error {
	defer close(sess.frames)
	for {
		select {
		case <-ctx.Done():
			return nil
		case key := <-sess.keys:
			frame, changed, err := sess.handle(key)
			if err != nil {
				return fmt.Errorf("session %s: %w", sess.ID, err)
			}
			if !changed {
				continue
			}
			sess.current = frame
			select {
			case sess.frames <- frame:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (sess *Session) handle(key string) (frame Frame, changed bool, err error) {
	if strings.EqualFold(key, "r") {
		if _, _, err = sess.env.Reset(nil); err != nil {
			return
		}
		sess.ret = 0
		return sess.frame(newBoardMessage), true, nil
	}

	action, ok := environment.ActionForKey(key)
	if !ok {
		return
	}
	if sess.env.State() != environment.InProgress {
		return sess.frame(gameOverMessage), true, nil
	}

	result, err := sess.env.Step(action)
	if err != nil {
		return
	}
	sess.ret += result.Reward
	msg := environment.Message(result)
	if result.Done() {
		msg += " Press r for a new board."
	}
	return sess.frame(msg), true, nil
}

func (sess *Session) frame(msg string) Frame {
	return Frame{
		SessionID: sess.ID,
		Snapshot:  sess.env.Snapshot(),
		Return:    sess.ret,
		Message:   msg,
	}
}
