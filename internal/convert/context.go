package convert

import "time"

// Context is a per-call object carrying the deadline and node counter for
// the cooperative timeout model (§5). It is owned by exactly one Convert
// call and must never be shared across concurrent calls.
type Context struct {
	start     time.Time
	timeout   time.Duration
	nodeCount uint64
}

// NewContext builds a Context with the given timeout; zero disables timing.
func NewContext(timeout time.Duration) *Context {
	return &Context{start: time.Now(), timeout: timeout}
}

// enabled reports whether a deadline was configured.
func (c *Context) enabled() bool {
	return c.timeout > 0
}

func (c *Context) expired() bool {
	return c.enabled() && time.Since(c.start) >= c.timeout
}

// CheckPhase checks the deadline unconditionally; used at the four fixed
// phase boundaries (post-parse, post-metadata, post-traversal,
// post-normalize).
func (c *Context) CheckPhase() error {
	if c.expired() {
		return NewTimeoutError("conversion deadline exceeded")
	}
	return nil
}

// IncrementAndCheck increments the node counter and, every
// NodeCheckpointInterval nodes, checks the deadline. It is called once per
// visited node during traversal.
func (c *Context) IncrementAndCheck() error {
	c.nodeCount++
	if c.nodeCount%NodeCheckpointInterval == 0 {
		return c.CheckPhase()
	}
	return nil
}
