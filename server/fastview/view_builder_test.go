package fastview

import (
	"context"
	"fmt"
	"html/template"
	"testing"

	channerics "github.com/niceyeti/channerics/channels"
	. "github.com/smartystreets/goconvey/convey"
)

type testView struct {
	id      string
	updates <-chan []EleUpdate
}

func newTestView(id string) ViewBuilderFunc[string] {
	return func(done <-chan struct{}, vms <-chan string) ViewComponent {
		tv := &testView{id: id}
		tv.updates = channerics.Convert(done, vms, func(vm string) []EleUpdate {
			return []EleUpdate{{EleId: tv.id, Ops: []Op{{Key: "textContent", Value: vm}}}}
		})
		return tv
	}
}

func (tv *testView) Updates() <-chan []EleUpdate {
	return tv.updates
}

func (tv *testView) Parse(t *template.Template) (string, error) {
	_, err := t.Parse(`{{ define "` + tv.id + `" }}<p id="` + tv.id + `">{{ . }}</p>{{ end }}`)
	return tv.id, err
}

func TestViewBuilder(t *testing.T) {
	Convey("Given a view builder", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		input := make(chan int)

		Convey("Build fails without views", func() {
			_, err := NewViewBuilder[int, string]().
				WithModel(input, func(x int) string { return fmt.Sprint(x) }).
				Build()
			So(err, ShouldEqual, ErrNoViews)
		})

		Convey("Build fails without a model", func() {
			_, err := NewViewBuilder[int, string]().
				WithView(newTestView("a")).
				Build()
			So(err, ShouldEqual, ErrNoModel)
		})

		Convey("Every view receives each converted model, in the order added", func() {
			views, err := NewViewBuilder[int, string]().
				WithContext(ctx).
				WithModel(input, func(x int) string { return fmt.Sprint(x * 2) }).
				WithView(newTestView("a")).
				WithView(newTestView("b")).
				Build()
			So(err, ShouldBeNil)
			So(len(views), ShouldEqual, 2)

			go func() { input <- 21 }()
			for i, id := range []string{"a", "b"} {
				updates := <-views[i].Updates()
				So(updates[0].EleId, ShouldEqual, id)
				So(updates[0].Ops[0].Value, ShouldEqual, "42")
			}
		})
	})
}
