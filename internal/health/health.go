// Package health reports whether the service and its backends are usable,
// over HTTP and over the standard gRPC health protocol.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

const checkTimeout = 2 * time.Second

// Check probes one dependency.
type Check func(ctx context.Context) error

// Checker runs the registered checks. With no checks it is always healthy.
type Checker struct {
	mu     sync.RWMutex
	names  []string
	checks map[string]Check
}

func NewChecker() *Checker {
	return &Checker{checks: make(map[string]Check)}
}

// Add registers check under name, replacing any previous check of that name.
func (c *Checker) Add(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.checks[name]; !ok {
		c.names = append(c.names, name)
	}
	c.checks[name] = check
}

// Run executes every check and returns the failures keyed by name.
func (c *Checker) Run(ctx context.Context) map[string]error {
	c.mu.RLock()
	names := append([]string(nil), c.names...)
	checks := make(map[string]Check, len(c.checks))
	for k, v := range c.checks {
		checks[k] = v
	}
	c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	failed := make(map[string]error)
	for _, name := range names {
		if err := checks[name](ctx); err != nil {
			failed[name] = err
		}
	}
	return failed
}

type response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ServeHTTP answers 200 {"status":"ok"} or 503 with the failing checks.
func (c *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := response{Status: "ok"}
	code := http.StatusOK

	if failed := c.Run(r.Context()); len(failed) > 0 {
		resp.Status = "unavailable"
		resp.Checks = make(map[string]string, len(failed))
		for name, err := range failed {
			resp.Checks[name] = err.Error()
		}
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
