// Package pipeline runs the summary build followed by an optional sync.
package pipeline

import (
	"sync"

	"github.com/fakeyudi/pulse/internal/reposync"
	"github.com/fakeyudi/pulse/internal/summary"
)

// Pipeline builds the summary and then, if Agent is set, syncs it. Runs are
// serialised: the output write and the git sequence form one critical section.
type Pipeline struct {
	Builder *summary.Builder
	Agent   *reposync.Agent // nil disables sync

	mu sync.Mutex
}

// Run builds from rawPath and syncs. Build errors are returned and skip the
// sync; sync failures are reported by the agent and surface only in Result.
func (p *Pipeline) Run(rawPath string) (string, *reposync.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out, err := p.Builder.Build(rawPath)
	if err != nil {
		return "", nil, err
	}
	if p.Agent == nil {
		return out, nil, nil
	}
	res := p.Agent.Run()
	return out, &res, nil
}
