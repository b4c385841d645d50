// Package di wires campuspay's components together. Components are built
// lazily on first use and closed in reverse build order.
package di

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Builder constructs a component, resolving its own dependencies from c.
type Builder func(c *Container) (any, error)

type entry struct {
	value    any
	build    Builder
	ready    bool
	building bool
}

// Container holds named components and the builders that produce them.
type Container struct {
	mu      sync.Mutex
	entries map[string]*entry
	closers []closer
}

type closer struct {
	name string
	fn   func() error
}

func New() *Container {
	return &Container{entries: make(map[string]*entry)}
}

// Register stores a ready-made component.
func (c *Container) Register(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = &entry{value: value, ready: true}
}

// RegisterBuilder defers construction of name until it is first resolved.
func (c *Container) RegisterBuilder(name string, build Builder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = &entry{build: build}
}

// OnClose registers fn to run when the container is closed. Builders call it
// for resources they open.
func (c *Container) OnClose(name string, fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, closer{name: name, fn: fn})
}

// Get returns the component registered as name, building it on first use.
// Builders run without the lock held so they can resolve their dependencies.
func (c *Container) Get(name string) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[name]
	switch {
	case !ok:
		c.mu.Unlock()
		return nil, fmt.Errorf("di: no component named %q", name)
	case e.ready:
		c.mu.Unlock()
		return e.value, nil
	case e.building:
		c.mu.Unlock()
		return nil, fmt.Errorf("di: dependency cycle at %q", name)
	}
	e.building = true
	c.mu.Unlock()

	value, err := e.build(c)

	c.mu.Lock()
	defer c.mu.Unlock()
	e.building = false
	if err != nil {
		return nil, fmt.Errorf("di: build %s: %w", name, err)
	}
	e.value, e.ready = value, true
	return value, nil
}

// Resolve returns the component registered as name, typed as T.
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	v, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("di: %s is %T, not %T", name, v, zero)
	}
	return typed, nil
}

func (c *Container) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[name]
	return ok
}

// ServiceNames lists every registered name in order.
func (c *Container) ServiceNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for name := range c.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Close runs the registered closers newest first. Built components are
// dropped so a later Get builds them again. Every closer runs; their errors
// are joined.
func (c *Container) Close() error {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	for _, e := range c.entries {
		if e.build != nil {
			e.value, e.ready = nil, false
		}
	}
	c.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].fn(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", closers[i].name, err))
		}
	}
	return errors.Join(errs...)
}

// Component names.
const (
	ServiceConfig        = "config"
	ServiceLogger        = "logger"
	ServiceLedgerManager = "ledger.manager"
	ServiceLedgerClient  = "ledger.client"
	ServiceWallets       = "wallet.service"
	ServiceSubmitter     = "txn.submitter"
	ServiceDirectory     = "directory"
	ServiceReceipts      = "storage.receipts"
	ServiceApp           = "service"
	ServiceHTTPServer    = "api.server"
	ServiceGRPCServer    = "grpc.server"
)
