package root_view

import (
	"context"
	"html/template"
	"time"

	"treasurehunt/server/fastview"
	"treasurehunt/server/maze_views"
	"treasurehunt/server/session"

	channerics "github.com/niceyeti/channerics/channels"
)

// BATCH_RATE bounds how often batched ele-updates are released to the client.
const BATCH_RATE = time.Millisecond * 20

// RootView is the main page, which is the container for all the view components,
// the wiring for their channels, etc.
type RootView struct {
	views   []fastview.ViewComponent
	updates <-chan []fastview.EleUpdate
}

// NewRootView creates the main page of one play session and the views it contains.
// The views run until ctx is cancelled.
func NewRootView(
	ctx context.Context,
	frames <-chan session.Frame,
) (*RootView, error) {
	views, err := fastview.NewViewBuilder[session.Frame, maze_views.Board]().
		WithContext(ctx).
		WithModel(frames, maze_views.Convert).
		WithView(func(
			done <-chan struct{},
			boards <-chan maze_views.Board) fastview.ViewComponent {
			return maze_views.NewStatusView(done, boards)
		}).
		WithView(func(
			done <-chan struct{},
			boards <-chan maze_views.Board) fastview.ViewComponent {
			return maze_views.NewGridView(done, boards)
		}).
		Build()
	if err != nil {
		return nil, err
	}

	return &RootView{
		views:   views,
		updates: fanIn(ctx.Done(), views),
	}, nil
}

// Updates returns the main ele-update channel for all the views.
func (rv *RootView) Updates() <-chan []fastview.EleUpdate {
	return rv.updates
}

// Parse builds the main page's template, with websocket bootstrap code, and returns its name.
// It also sets up the func-map that child components may depend on.
func (rv *RootView) Parse(
	parent *template.Template,
) (name string, err error) {
	rt := parent.Funcs(
		template.FuncMap{
			"add":  func(i, j int) int { return i + j },
			"sub":  func(i, j int) int { return i - j },
			"mult": func(i, j int) int { return i * j },
			"div":  func(i, j int) int { return i / j },
		})

	var bodySpec string
	for _, vc := range rv.views {
		var tname string
		if tname, err = vc.Parse(rt); err != nil {
			return
		}
		bodySpec += `{{ template "` + tname + `" . }}`
	}

	// The main template bootstraps the rest: sets up the client websocket, forwards key
	// presses and applies the pushed ele-updates.
	name = "mainpage"
	indexTemplate := `
	{{ define "` + name + `" }}
	<!DOCTYPE html>
	<html>
		<head>
			<title>Treasure Hunt</title>
			<link rel="icon" href="data:,">
			<script>
				const ws = new WebSocket("ws://" + location.host + "/ws/{{ .SessionID }}");
				ws.onopen = function (event) {
					console.log("Web socket opened")
				};

				ws.onerror = function (event) {
					console.log('WebSocket error: ', event);
				};

				ws.onmessage = function (event) {
					const items = JSON.parse(event.data)
					for (const update of items) {
						const ele = document.getElementById(update.EleId)
						if (!ele) {
							continue
						}
						for (const op of update.Ops) {
							if (op.Key === "textContent") {
								ele.textContent = op.Value;
							} else {
								ele.setAttribute(op.Key, op.Value)
							}
						}
					}
				}

				const keys = ["ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight", "w", "a", "s", "d", "W", "A", "S", "D", "r", "R"];
				document.addEventListener("keydown", function (event) {
					if (keys.includes(event.key) && ws.readyState === WebSocket.OPEN) {
						event.preventDefault();
						ws.send(JSON.stringify({ key: event.key }));
					}
				});
			</script>
		</head>
		<body style="background:#ECF0F1;">
		` + bodySpec + `
		</body></html>
	{{ end }}
	`

	_, err = rt.Parse(indexTemplate)
	return
}

// fanIn aggregates the views' ele-update channels into a single, batched channel.
func fanIn(
	done <-chan struct{},
	views []fastview.ViewComponent,
) <-chan []fastview.EleUpdate {
	inputs := make([]<-chan []fastview.EleUpdate, len(views))
	for i, view := range views {
		inputs[i] = view.Updates()
	}
	return batchify(
		done,
		channerics.Merge(done, inputs...),
		BATCH_RATE)
}

// batchify collects updates for up to rate after the first one of a batch, over-writing
// previously received values for the same ele-id, then sends the batch. Redundant updates
// for the same ele-id are not sent, and the latest values are always sent eventually.
func batchify(
	done <-chan struct{},
	source <-chan []fastview.EleUpdate,
	rate time.Duration,
) <-chan []fastview.EleUpdate {
	output := make(chan []fastview.EleUpdate)

	go func() {
		defer close(output)

		data := map[string]fastview.EleUpdate{}
		var flush <-chan time.Time
		for {
			select {
			case <-done:
				return
			case updates, ok := <-source:
				if !ok {
					if len(data) > 0 {
						select {
						case output <- slicedVals(data):
						case <-done:
						}
					}
					return
				}
				for _, update := range updates {
					data[update.EleId] = update
				}
				if flush == nil && len(data) > 0 {
					flush = time.After(rate)
				}
			case <-flush:
				flush = nil
				select {
				case output <- slicedVals(data):
					data = map[string]fastview.EleUpdate{}
				case <-done:
					return
				}
			}
		}
	}()

	return output
}

// returns the values of a map as a slice
func slicedVals[T1 comparable, T2 any](mp map[T1]T2) (sliced []T2) {
	for _, v := range mp {
		sliced = append(sliced, v)
	}
	return
}
