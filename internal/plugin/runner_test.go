package plugin

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type collectingSink struct {
	mu        sync.Mutex
	succeeded []*SolveResult
	failed    []SolveRequest
}

func (s *collectingSink) SolveSucceeded(res *SolveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.succeeded = append(s.succeeded, res)
}

func (s *collectingSink) SolveFailed(req SolveRequest, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, req)
}

func TestRunAllReportsEveryOutcome(t *testing.T) {
	sink := &collectingSink{}
	solver := SolverFunc(func(_ context.Context, req SolveRequest) (*SolveResult, error) {
		if req.Region == "bad" {
			return nil, errors.New("non-zero exit")
		}
		return &SolveResult{Region: req.Region, XsID: req.XsID}, nil
	})

	reqs := []SolveRequest{
		{Region: "a", XsID: "AA"},
		{Region: "bad", XsID: "AB"},
		{Region: "c", XsID: "AC"},
	}
	r := &Runner{Solver: solver, Sink: sink, MaxParallel: 2}
	err := r.RunAll(context.Background(), reqs)
	if err == nil || !strings.Contains(err.Error(), "1 of 3") {
		t.Fatalf("RunAll error = %v, want summary of 1 of 3 failures", err)
	}
	if len(sink.succeeded) != 2 {
		t.Errorf("succeeded = %d, want 2", len(sink.succeeded))
	}
	if len(sink.failed) != 1 || sink.failed[0].Region != "bad" {
		t.Errorf("failed = %+v, want the bad region", sink.failed)
	}
}

func TestRunAllBoundsParallelism(t *testing.T) {
	var active, peak atomic.Int64
	solver := SolverFunc(func(context.Context, SolveRequest) (*SolveResult, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		return &SolveResult{}, nil
	})

	r := &Runner{Solver: solver, MaxParallel: 2}
	reqs := make([]SolveRequest, 8)
	if err := r.RunAll(context.Background(), reqs); err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestRunAllNoRequests(t *testing.T) {
	r := &Runner{Solver: SolverFunc(func(context.Context, SolveRequest) (*SolveResult, error) {
		t.Error("solver should not be called")
		return nil, nil
	})}
	if err := r.RunAll(context.Background(), nil); err != nil {
		t.Errorf("RunAll(nil) = %v", err)
	}
}
