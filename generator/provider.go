package generator

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Provider generates the document once and hands the cached result to
// every caller. Callers arriving while a pass is running share it.
type Provider struct {
	gen    *Generator
	source Source

	group singleflight.Group

	mu     sync.RWMutex
	result *Result
	epoch  uint64
}

func NewProvider(gen *Generator, source Source) *Provider {
	return &Provider{gen: gen, source: source}
}

// Result returns the cached result, generating it first if needed. A
// failed pass is not cached. Cancelling ctx releases the caller but does
// not stop a pass other callers may be waiting on.
func (p *Provider) Result(ctx context.Context) (*Result, error) {
	p.mu.RLock()
	res := p.result
	p.mu.RUnlock()
	if res != nil {
		return res, nil
	}

	ch := p.group.DoChan("generate", func() (any, error) {
		return p.generate(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Result), nil
	}
}

func (p *Provider) generate(ctx context.Context) (*Result, error) {
	p.mu.RLock()
	res, epoch := p.result, p.epoch
	p.mu.RUnlock()
	if res != nil {
		return res, nil
	}

	endpoints, err := p.source.Endpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading endpoints: %w", err)
	}
	res, err = p.gen.Generate(ctx, endpoints)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.epoch == epoch {
		p.result = res
	}
	p.mu.Unlock()
	return res, nil
}

// Invalidate drops the cached result. A pass already running when
// Invalidate is called still answers its callers but is not cached.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.result = nil
	p.epoch++
	p.mu.Unlock()
	p.group.Forget("generate")
}
