package fastview

import (
	"context"
	"errors"

	channerics "github.com/niceyeti/channerics/channels"
)

// ViewBuilder wires one stream of data models, e.g. play-session frames, to a set of views
// sharing a single view-model. Each model is converted once and broadcast to every view.
type ViewBuilder[DataModel any, ViewModel any] struct {
	source    <-chan DataModel
	convertFn func(DataModel) ViewModel
	viewFns   []ViewBuilderFunc[ViewModel]
	// done may be nil, in which case the pipeline only stops when source closes.
	done <-chan struct{}
}

func NewViewBuilder[DataModel any, ViewModel any]() *ViewBuilder[DataModel, ViewModel] {
	return &ViewBuilder[DataModel, ViewModel]{}
}

// WithModel sets the data-model stream and how each item becomes a view-model.
func (vb *ViewBuilder[DataModel, ViewModel]) WithModel(
	input <-chan DataModel,
	convert func(DataModel) ViewModel,
) *ViewBuilder[DataModel, ViewModel] {
	vb.source = input
	vb.convertFn = convert
	return vb
}

// ViewBuilderFunc creates a view reading view-models until done is closed.
type ViewBuilderFunc[ViewModel any] func(done <-chan struct{}, models <-chan ViewModel) ViewComponent

// WithView queues a view. Build returns views in the order they were queued, which is
// also the order they appear on the page.
func (vb *ViewBuilder[DataModel, ViewModel]) WithView(
	viewFn ViewBuilderFunc[ViewModel],
) *ViewBuilder[DataModel, ViewModel] {
	vb.viewFns = append(vb.viewFns, viewFn)
	return vb
}

// WithContext stops the conversion and every view when ctx ends.
func (vb *ViewBuilder[DataModel, ViewModel]) WithContext(
	ctx context.Context,
) *ViewBuilder[DataModel, ViewModel] {
	vb.done = ctx.Done()
	return vb
}

var (
	ErrNoViews = errors.New("view builder: no views queued")
	ErrNoModel = errors.New("view builder: no model stream set")
)

// Build starts the conversion and broadcast goroutines and creates the queued views.
func (vb *ViewBuilder[DataModel, ViewModel]) Build() (views []ViewComponent, err error) {
	switch {
	case len(vb.viewFns) == 0:
		return nil, ErrNoViews
	case vb.convertFn == nil:
		return nil, ErrNoModel
	}

	models := channerics.Broadcast(
		vb.done,
		channerics.Convert(vb.done, vb.source, vb.convertFn),
		len(vb.viewFns))
	for i, viewFn := range vb.viewFns {
		views = append(views, viewFn(vb.done, models[i]))
	}
	return
}
