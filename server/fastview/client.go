package fastview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 1 * time.Second
	// Maximum message size allowed from peer.
	maxMessageSize = 512

	pingResolution = time.Millisecond * 500
	// The number of pings to tolerate losing before concluding the peer is gone.
	pongWait = pingResolution * 4
)

var upgrader = websocket.Upgrader{}

// Client publishes updates to a web page over a websocket and reads the key presses
// the page sends back. Items in the updates chan should be idempotent, such that the
// latest update is sufficient to specify the new client state.
type Client[T any] struct {
	updates  <-chan T
	messages chan KeyMessage
	ws       *websock
}

// NewClient upgrades the request to a websocket.
func NewClient[T any](
	updates <-chan T,
	w http.ResponseWriter,
	r *http.Request,
) (*Client[T], error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied to the client.
		return nil, err
	}
	ws.SetReadLimit(maxMessageSize)

	return &Client[T]{
		updates:  updates,
		messages: make(chan KeyMessage),
		ws:       NewWebSocket(ws),
	}, nil
}

// Messages emits the key presses received from the page. It is closed when Sync returns.
func (cli *Client[T]) Messages() <-chan KeyMessage {
	return cli.messages
}

// Sync runs the read, ping-pong and publish routines until the client disconnects, ctx
// is done or one of them fails. It returns nil upon disconnect or cancellation.
func (cli *Client[T]) Sync(ctx context.Context) error {
	defer close(cli.messages)
	ctx, disconnect := context.WithCancel(ctx)
	defer disconnect()
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		// The reader only returns once the peer is gone or the group is done.
		defer disconnect()
		return cli.readMessages(groupCtx)
	})
	group.Go(func() error {
		return cli.pingPong(groupCtx)
	})
	group.Go(func() error {
		return cli.publish(groupCtx)
	})
	group.Go(func() error {
		// Unblock a pending read once any routine has finished.
		<-groupCtx.Done()
		return cli.ws.Conn().SetReadDeadline(time.Now())
	})

	return group.Wait()
}

// Close performs the closing handshake and closes the connection.
func (cli *Client[T]) Close() {
	cli.ws.Close()
}

var ErrPongDeadlineExceeded error = errors.New("client disconnect, pong deadline exceeded")

// Runs the ping-pong for the client liveness check.
// NOTE: This function requires that readMessages is running to ensure the pong handler is called.
func (cli *Client[T]) pingPong(ctx context.Context) error {
	pong := make(chan struct{}, 1)
	cli.ws.Conn().SetPongHandler(func(_ string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}

			if err := cli.ping(ctx); err != nil {
				return err
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (cli *Client[T]) ping(ctx context.Context) error {
	return cli.ws.Write(
		ctx,
		func(ws *websocket.Conn) (err error) {
			if err = ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				err = fmt.Errorf("ping failed: %w", err)
			}
			return
		})
}

// readMessages forwards key messages from the client.
// Errors returned by websocket Read methods are permanent, hence any error
// must trigger full teardown. Malformed messages are dropped.
func (cli *Client[T]) readMessages(ctx context.Context) error {
	for {
		var data []byte
		err := cli.ws.Read(
			ctx,
			func(ws *websocket.Conn) (readErr error) {
				_, data, readErr = ws.ReadMessage()
				return
			})
		switch {
		case ctx.Err() != nil:
			return nil
		case isClosure(err):
			return nil
		case err != nil:
			return fmt.Errorf("read failed: %w", err)
		case data == nil:
			continue
		}

		msg := KeyMessage{}
		if err = json.Unmarshal(data, &msg); err != nil || msg.Key == "" {
			log.WithField("message", string(data)).Debug("dropping malformed client message")
			continue
		}

		select {
		case cli.messages <- msg:
		case <-ctx.Done():
			return nil
		}
	}
}

// publish writes every update to the client. Throttling belongs upstream.
func (cli *Client[T]) publish(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case updates, ok := <-cli.updates:
			// Graceful input channel closure
			if !ok {
				return nil
			}

			err := cli.ws.Write(
				ctx,
				func(ws *websocket.Conn) (writeErr error) {
					if writeErr = ws.SetWriteDeadline(time.Now().Add(writeWait)); writeErr != nil {
						return fmt.Errorf("failed to set deadline: %w", writeErr)
					}
					if writeErr = ws.WriteJSON(updates); writeErr != nil {
						writeErr = fmt.Errorf("publish failed: %w", writeErr)
					}
					return
				})
			if err != nil {
				return err
			}
		}
	}
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived)
}
