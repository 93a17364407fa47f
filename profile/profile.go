// Package profile accumulates wall time per dot separated path, such as "collision.walls".
//
// A nil *Profiler is valid and records nothing, so callers can always pass one along.
package profile

import (
	"strings"
	"time"
)

// Profile is the nested view of the results: a value is either a time.Duration or a Profile
type Profile map[string]any

type Profiler struct {
	starts  map[string]time.Time
	results map[string]time.Duration
	order   []string

	now func() time.Time
}

func New() *Profiler {
	return &Profiler{
		starts:  make(map[string]time.Time),
		results: make(map[string]time.Duration),
		now:     time.Now,
	}
}

// Begin starts timing path
func (p *Profiler) Begin(path string) {
	if p == nil {
		return
	}
	p.starts[path] = p.now()
	if _, ok := p.results[path]; !ok {
		p.results[path] = 0
		p.order = append(p.order, path)
	}
}

// End adds the time spent since the matching Begin to path, and restarts its clock.
// An End without Begin is ignored.
func (p *Profiler) End(path string) {
	if p == nil {
		return
	}
	start, ok := p.starts[path]
	if !ok {
		return
	}
	now := p.now()
	p.results[path] += now.Sub(start)
	p.starts[path] = now
}

// Clear drops every measure
func (p *Profiler) Clear() {
	if p == nil {
		return
	}
	clear(p.starts)
	clear(p.results)
	p.order = p.order[:0]
}

// Total returns the time accumulated by path itself
func (p *Profiler) Total(path string) time.Duration {
	if p == nil {
		return 0
	}
	return p.results[path]
}

// Paths lists the recorded paths in the order they were first begun
func (p *Profiler) Paths() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.order...)
}

// Results nests the measures by path component.
// A path that is also the prefix of another one is replaced by the nested entries.
func (p *Profiler) Results() Profile {
	profile := Profile{}
	if p == nil {
		return profile
	}

	for _, path := range p.order {
		components := strings.Split(path, ".")
		last := components[len(components)-1]

		leaf := profile
		for _, component := range components[:len(components)-1] {
			child, ok := leaf[component].(Profile)
			if !ok {
				child = Profile{}
				leaf[component] = child
			}
			leaf = child
		}
		if _, nested := leaf[last].(Profile); nested {
			continue
		}
		leaf[last] = p.results[path]
	}

	return profile
}
