package maze_views

import (
	"html/template"

	"treasurehunt/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// StatusView shows the stats line and the latest message.
type StatusView struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

func NewStatusView(
	done <-chan struct{},
	boards <-chan Board,
) (sv *StatusView) {
	sv = &StatusView{id: "status"}
	sv.updates = channerics.Convert(done, boards, sv.onUpdate)
	return
}

func (sv *StatusView) Updates() <-chan []fastview.EleUpdate {
	return sv.updates
}

func (sv *StatusView) onUpdate(vm Board) []fastview.EleUpdate {
	return []fastview.EleUpdate{
		{
			EleId: sv.id + "-stats",
			Ops:   []fastview.Op{{Key: "textContent", Value: vm.Status}},
		},
		{
			EleId: sv.id + "-message",
			Ops:   []fastview.Op{{Key: "textContent", Value: vm.Message}},
		},
	}
}

func (sv *StatusView) Parse(t *template.Template) (name string, err error) {
	name = sv.id
	_, err = t.Parse(`{{ define "` + name + `" }}
		<div style="background:#34495E; color:white; padding:10px; font-family:Arial;">
			<div id="` + sv.id + `-stats" style="font-weight:bold;">{{ .Status }}</div>
			<div id="` + sv.id + `-message" style="color:#BDC3C7;">{{ .Message }}</div>
		</div>
		{{ end }}`)
	return
}
