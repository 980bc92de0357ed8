// Package executetest provides a scripted execute.Runner for adapter and
// orchestration tests.
package executetest

import (
	"context"
	"strings"
	"sync"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/execute"
	cerr "github.com/cockroachdb/errors"
)

// Response is what the fake returns for one invocation.
type Response struct {
	Stdout string
	Err    error
}

// FakeRunner returns scripted responses keyed by the full command line
// ("iwctl station wlan0 show"). Repeated keys are consumed in order; the last
// response for a key is sticky.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string][]Response
	calls     []execute.Options
}

// NewFakeRunner returns an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string][]Response)}
}

// On queues responses for the given command line.
func (f *FakeRunner) On(line string, responses ...Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[line] = append(f.responses[line], responses...)
	return f
}

// Run implements execute.Runner.
func (f *FakeRunner) Run(_ context.Context, opts execute.Options) (execute.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, opts)
	line := Line(opts)

	queue, ok := f.responses[line]
	if !ok || len(queue) == 0 {
		return execute.Result{ExitCode: -1}, cerr.Newf("executetest: no response scripted for %q", execute.Redact(line, opts.Sensitive...))
	}

	resp := queue[0]
	if len(queue) > 1 {
		f.responses[line] = queue[1:]
	}

	res := execute.Result{Stdout: resp.Stdout}
	if resp.Err != nil {
		res.ExitCode = 1
	}
	return res, resp.Err
}

// Calls returns the invocations seen so far.
func (f *FakeRunner) Calls() []execute.Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]execute.Options(nil), f.calls...)
}

// Count returns how many times line was invoked.
func (f *FakeRunner) Count(line string) int {
	n := 0
	for _, c := range f.Calls() {
		if Line(c) == line {
			n++
		}
	}
	return n
}

// Line renders opts the way keys are written in On.
func Line(opts execute.Options) string {
	return strings.TrimSpace(opts.Command + " " + strings.Join(opts.Args, " "))
}
