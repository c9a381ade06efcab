// Package memory implements container.Container over an in-memory tree. It is
// used to build MED fixtures in tests and to hold containers assembled by
// callers without touching disk.
package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/notargets/medread/container"
	"github.com/notargets/medread/decode"
)

type node struct {
	children []string // insertion order
	members  map[string]*node
	data     *container.Array
	attrs    map[string]*container.Array
}

func newGroup() *node {
	return &node{members: make(map[string]*node), attrs: make(map[string]*container.Array)}
}

func (n *node) isGroup() bool { return n.data == nil }

// Container is an in-memory tree of groups and datasets.
// Safe for concurrent readers; builders must not run concurrently with reads.
type Container struct {
	root   *node
	closed bool
	mu     sync.RWMutex
}

var _ container.Container = (*Container)(nil)
var _ container.AttrReader = (*Container)(nil)

// New creates an empty container holding only the root group.
func New() *Container {
	return &Container{root: newGroup()}
}

// Opener returns a container.Opener that hands out c for any path.
func (c *Container) Opener() container.Opener {
	return func(string) (container.Container, error) {
		c.mu.Lock()
		c.closed = false
		c.mu.Unlock()
		return c, nil
	}
}

func (c *Container) lookup(p string) (*node, error) {
	if c.closed {
		return nil, fmt.Errorf("memory container is closed")
	}
	cur := c.root
	for _, part := range split(p) {
		if !cur.isGroup() {
			return nil, fmt.Errorf("%q: %w", p, container.ErrNotGroup)
		}
		next, ok := cur.members[part]
		if !ok {
			return nil, fmt.Errorf("%q: %w", p, container.ErrNotFound)
		}
		cur = next
	}
	return cur, nil
}

// mkdirAll creates every missing group on the way to p. It fails when a
// dataset lies on the way.
func (c *Container) mkdirAll(p string) (*node, error) {
	cur := c.root
	for _, part := range split(p) {
		if !cur.isGroup() {
			return nil, fmt.Errorf("%q: %w", p, container.ErrNotGroup)
		}
		next, ok := cur.members[part]
		if !ok {
			next = newGroup()
			cur.members[part] = next
			cur.children = append(cur.children, part)
		}
		cur = next
	}
	return cur, nil
}

// mustGroup is mkdirAll for the builders, which panic on a path through a
// dataset.
func (c *Container) mustGroup(p string) *node {
	n, err := c.mkdirAll(p)
	if err != nil {
		panic("memory: " + err.Error())
	}
	return n
}

func split(p string) []string {
	var parts []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// AddGroup creates the group at p and any missing parents. The builders
// panic when p passes through a dataset.
func (c *Container) AddGroup(p string) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := c.mustGroup(p); !n.isGroup() {
		panic(fmt.Sprintf("memory: %q: %v", p, container.ErrNotGroup))
	}
	return c
}

// AddArray stores a dataset at p, creating parent groups as needed.
func (c *Container) AddArray(p string, a *container.Array) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	dir, name := container.Split(p)
	parent := c.mustGroup(dir)
	if !parent.isGroup() {
		panic(fmt.Sprintf("memory: %q: %v", dir, container.ErrNotGroup))
	}
	if _, ok := parent.members[name]; !ok {
		parent.children = append(parent.children, name)
	}
	parent.members[name] = &node{data: a}
	return c
}

func (c *Container) AddInts(p string, v ...int64) *Container {
	return c.AddArray(p, container.Int64Array(v))
}

func (c *Container) AddFloats(p string, v ...float64) *Container {
	return c.AddArray(p, container.Float64Array(v))
}

func (c *Container) AddBytes(p string, v ...int8) *Container {
	return c.AddArray(p, container.Int8Array(v))
}

// AddNames stores names as a fixed-width signed byte table, the way MED
// stores entity and group names.
func (c *Container) AddNames(p string, width int, names ...string) *Container {
	raw := make([]int8, width*len(names))
	for i, n := range names {
		field := decode.EncodeASCII(n)
		if len(field) > width {
			field = field[:width]
		}
		copy(raw[i*width:], field)
		for j := i*width + len(field); j < (i+1)*width; j++ {
			raw[j] = ' '
		}
	}
	return c.AddArray(p, container.Int8Array(raw))
}

// SetAttr attaches an attribute to the object at p, creating a group if
// nothing exists there yet.
func (c *Container) SetAttr(p, name string, a *container.Array) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.mustGroup(p)
	if n.attrs == nil {
		n.attrs = make(map[string]*container.Array)
	}
	n.attrs[name] = a
	return c
}

// Remove deletes the object at p. Missing objects are ignored.
func (c *Container) Remove(p string) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	dir, name := container.Split(p)
	parent, err := c.lookup(dir)
	if err != nil || !parent.isGroup() {
		return c
	}
	if _, ok := parent.members[name]; !ok {
		return c
	}
	delete(parent.members, name)
	for i, n := range parent.children {
		if n == name {
			parent.children = append(parent.children[:i:i], parent.children[i+1:]...)
			break
		}
	}
	return c
}

// Children implements container.Container.
func (c *Container) Children(p string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, err := c.lookup(p)
	if err != nil {
		return nil, err
	}
	if !n.isGroup() {
		return nil, fmt.Errorf("%q: %w", p, container.ErrNotGroup)
	}
	out := make([]string, len(n.children))
	copy(out, n.children)
	return out, nil
}

// ReadArray implements container.Container.
func (c *Container) ReadArray(p string) (*container.Array, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, err := c.lookup(p)
	if err != nil {
		return nil, err
	}
	if n.isGroup() {
		return nil, fmt.Errorf("%q is a group, not a dataset", p)
	}
	// Copy on read so callers can't mutate the stored buffer
	a := *n.data
	a.Bytes = append([]int8(nil), a.Bytes...)
	a.Ints = append([]int64(nil), a.Ints...)
	a.Floats = append([]float64(nil), a.Floats...)
	a.Strings = append([]string(nil), a.Strings...)
	return &a, nil
}

// ReadAttr implements container.AttrReader.
func (c *Container) ReadAttr(p, name string) (*container.Array, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, err := c.lookup(p)
	if err != nil {
		return nil, err
	}
	a, ok := n.attrs[name]
	if !ok {
		return nil, fmt.Errorf("attribute %q of %q: %w", name, p, container.ErrNotFound)
	}
	return a, nil
}

// Close marks the container closed; later reads fail until it is reopened
// through Opener.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether Close has been called since the last open.
func (c *Container) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
