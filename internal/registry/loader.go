package registry

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"keybus/internal/common/fsutil"
)

// Registry is the set of key path roots a hub accepts. An empty registry
// accepts every root.
type Registry struct {
	roots map[string]struct{}
}

// New builds a registry from roots. Blank entries are ignored and
// surrounding whitespace is trimmed.
func New(roots []string) *Registry {
	r := &Registry{roots: make(map[string]struct{}, len(roots))}
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		r.roots[root] = struct{}{}
	}
	return r
}

// Allows reports whether root may be published or subscribed to.
func (r *Registry) Allows(root string) bool {
	if r == nil || len(r.roots) == 0 {
		return true
	}
	_, ok := r.roots[root]
	return ok
}

// Roots returns the sorted roots; nil when the registry is open.
func (r *Registry) Roots() []string {
	if r == nil || len(r.roots) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.roots))
	for root := range r.roots {
		out = append(out, root)
	}
	sort.Strings(out)
	return out
}

// LoadFile reads one root per line. Blank lines and lines starting with '#'
// are skipped. A leading '~' in path is expanded.
func LoadFile(path string) (*Registry, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open roots file: %w", err)
	}
	defer f.Close()
	var roots []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		roots = append(roots, line)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read roots file: %w", err)
	}
	return New(roots), nil
}
