package terminal

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
	channerics "github.com/niceyeti/channerics/channels"
)

// ProgressPrinter redraws a status block in place at a fixed frequency. Set may be
// called from any goroutine.
type ProgressPrinter struct {
	mu        sync.Mutex
	printable string
	frequency time.Duration
	writer    *uilive.Writer
	stopped   chan struct{}
}

func NewProgressPrinter(out io.Writer, frequency time.Duration) *ProgressPrinter {
	writer := uilive.New()
	writer.Out = out
	return &ProgressPrinter{
		frequency: frequency,
		writer:    writer,
		stopped:   make(chan struct{}),
	}
}

// Set replaces the status block.
func (p *ProgressPrinter) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// TrySet replaces the status block unless a print is in progress.
func (p *ProgressPrinter) TrySet(s string) bool {
	if !p.mu.TryLock() {
		return false
	}
	defer p.mu.Unlock()
	p.printable = s
	return true
}

func (p *ProgressPrinter) get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}

// Start prints until ctx is done, then prints a final time. Wait blocks until then.
func (p *ProgressPrinter) Start(ctx context.Context) {
	go func() {
		defer close(p.stopped)
		for range channerics.NewTicker(ctx.Done(), p.frequency) {
			p.print()
		}
		p.print()
	}()
}

func (p *ProgressPrinter) Wait() {
	<-p.stopped
}

func (p *ProgressPrinter) print() {
	fmt.Fprintln(p.writer, p.get())
	p.writer.Flush()
}
