package maze_views

import (
	"fmt"
	"html/template"

	"treasurehunt/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// GridView draws the board as an svg: one rect per cell, one line per wall slot and
// a circle for the player.
type GridView struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

func NewGridView(
	done <-chan struct{},
	boards <-chan Board,
) (gv *GridView) {
	gv = &GridView{id: "grid"}
	gv.updates = channerics.Convert(done, boards, gv.onUpdate)
	return
}

func (gv *GridView) Updates() <-chan []fastview.EleUpdate {
	return gv.updates
}

// Returns the set of view updates needed for the view to reflect the board.
func (gv *GridView) onUpdate(vm Board) (ops []fastview.EleUpdate) {
	for _, row := range vm.Cells {
		for _, cell := range row {
			ops = append(ops, fastview.EleUpdate{
				EleId: cell.Id(),
				Ops:   []fastview.Op{{Key: "fill", Value: cell.Fill}},
			})
		}
	}

	for _, wall := range vm.Walls {
		ops = append(ops, fastview.EleUpdate{
			EleId: wall.Id,
			Ops:   []fastview.Op{{Key: "visibility", Value: wall.Visibility()}},
		})
	}

	ops = append(ops, fastview.EleUpdate{
		EleId: gv.id + "-player",
		Ops: []fastview.Op{
			{Key: "cx", Value: fmt.Sprintf("%d", vm.PlayerX)},
			{Key: "cy", Value: fmt.Sprintf("%d", vm.PlayerY)},
		},
	})
	return
}

// Parse adds the grid template to t and returns its name.
func (gv *GridView) Parse(t *template.Template) (name string, err error) {
	name = gv.id
	_, err = t.Parse(`{{ define "` + name + `" }}
		<div style="padding:20px;">
			<svg id="` + gv.id + `" xmlns='http://www.w3.org/2000/svg'
				width="{{ .Width }}px" height="{{ .Width }}px"
				style="shape-rendering: crispEdges;">
				{{ range $row := .Cells }}
					{{ range $cell := $row }}
						<rect id="{{ $cell.Id }}" x="{{ $cell.Px }}" y="{{ $cell.Py }}"
							width="` + fmt.Sprint(CELL_DIM) + `" height="` + fmt.Sprint(CELL_DIM) + `"
							fill="{{ $cell.Fill }}" stroke="#2C3E50" stroke-width="1" />
					{{ end }}
				{{ end }}
				{{ range $wall := .Walls }}
					<line id="{{ $wall.Id }}" x1="{{ $wall.X1 }}" y1="{{ $wall.Y1 }}" x2="{{ $wall.X2 }}" y2="{{ $wall.Y2 }}"
						stroke="#C0392B" stroke-width="5" stroke-linecap="round" visibility="{{ $wall.Visibility }}" />
				{{ end }}
				<circle id="` + gv.id + `-player" cx="{{ .PlayerX }}" cy="{{ .PlayerY }}"
					r="` + fmt.Sprint(CELL_DIM/3) + `" fill="#8E44AD" stroke="#6C3483" stroke-width="3" />
			</svg>
		</div>
		{{ end }}`)
	return
}
