package main

import (
	"context"

	rdreport "github.com/alnah/go-rdreport"
)

// ReportGenerator renders one report.
type ReportGenerator interface {
	Generate(ctx context.Context, in rdreport.Input) (*rdreport.Result, error)
}

// Compile-time interface implementation check.
var _ ReportGenerator = (*rdreport.Generator)(nil)

// Pool abstracts generator pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (ReportGenerator, error)
	Release(ReportGenerator)
	Size() int
	Close() error
}

// generatorPool adapts rdreport.GeneratorPool to Pool.
type generatorPool struct {
	pool *rdreport.GeneratorPool
}

func (p *generatorPool) Acquire(ctx context.Context) (ReportGenerator, error) {
	g, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (p *generatorPool) Release(g ReportGenerator) {
	if gen, ok := g.(*rdreport.Generator); ok {
		p.pool.Release(gen)
	}
}

func (p *generatorPool) Size() int { return p.pool.Size() }

func (p *generatorPool) Close() error { return p.pool.Close() }
