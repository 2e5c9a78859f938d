// Package generation turns a blocking, callback-driven Generator call into an
// ordered stream of text chunks that a consumer can pull from.
package generation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/xiaot623/gogo/guruchat/internal/adapter/llm"
	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

// DefaultBufferSize is the chunk queue capacity used when none is configured.
const DefaultBufferSize = 64

type itemKind int

const (
	itemData itemKind = iota
	itemEnd
)

type item struct {
	kind itemKind
	text string
}

type outcome struct {
	text string
	err  error
}

// Bridge runs one generation on a worker goroutine and exposes its chunks.
//
// Chunks are delivered in emission order, followed by exactly one end. A
// Bridge is consumed by a single goroutine; Close may be called from anywhere.
type Bridge struct {
	ctx    context.Context
	cancel context.CancelFunc

	items  chan item
	result chan outcome

	endOnce sync.Once
	ended   atomic.Bool

	// consumer state
	drained bool
	final   *outcome
}

// Start launches gen on a worker goroutine. The worker's context is derived
// from ctx and is also cancelled by Close.
func Start(ctx context.Context, gen llm.Generator, req *domain.GenerationRequest, bufferSize int) *Bridge {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	ctx, cancel := context.WithCancel(ctx)
	b := &Bridge{
		ctx:    ctx,
		cancel: cancel,
		items:  make(chan item, bufferSize),
		result: make(chan outcome, 1),
	}
	go b.run(gen, req)
	return b
}

func (b *Bridge) run(gen llm.Generator, req *domain.GenerationRequest) {
	var out outcome
	defer func() {
		if r := recover(); r != nil {
			out = outcome{err: fmt.Errorf("generator panic: %v", r)}
		}
		b.end()
		b.result <- out
	}()

	text, err := gen.Generate(b.ctx, req, b.emit, b.end)
	out = outcome{text: text, err: err}
}

// emit enqueues a chunk. Chunks emitted after end or after the bridge is
// cancelled are dropped.
func (b *Bridge) emit(text string) {
	if b.ended.Load() {
		return
	}
	select {
	case b.items <- item{kind: itemData, text: text}:
	case <-b.ctx.Done():
	}
}

func (b *Bridge) end() {
	b.endOnce.Do(func() {
		b.ended.Store(true)
		select {
		case b.items <- item{kind: itemEnd}:
		case <-b.ctx.Done():
		}
	})
}

// Next returns the next chunk. ok is false once the end has been reached.
// A non-nil error means ctx or the bridge was cancelled before the end.
func (b *Bridge) Next(ctx context.Context) (text string, ok bool, err error) {
	if b.drained {
		return "", false, nil
	}
	select {
	case it := <-b.items:
		if it.kind == itemEnd {
			b.drained = true
			return "", false, nil
		}
		return it.text, true, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	case <-b.ctx.Done():
		return "", false, b.ctx.Err()
	}
}

// Result waits for the generator to return and yields the final reply. A
// generator error or panic is folded into a "System Error: " reply; the
// returned error is only set when ctx is done first.
func (b *Bridge) Result(ctx context.Context) (string, error) {
	if b.final == nil {
		select {
		case out := <-b.result:
			b.final = &out
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if b.final.err != nil {
		return domain.SystemErrorPrefix + b.final.err.Error(), nil
	}
	return b.final.text, nil
}

// Failed reports whether the generation ended with an error. Only valid
// after Result has returned without error.
func (b *Bridge) Failed() bool {
	return b.final != nil && b.final.err != nil
}

// Err returns the underlying generation error, if any.
func (b *Bridge) Err() error {
	if b.final == nil {
		return nil
	}
	return b.final.err
}

// Close cancels the worker context. It is safe to call more than once.
func (b *Bridge) Close() {
	b.cancel()
}
