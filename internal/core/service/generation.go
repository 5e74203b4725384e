package service

// generation tags outstanding requests with the screen instance state they
// were issued against. Callers hold the owning screen's mutex.
type generation struct {
	n      uint64
	closed bool
}

// current returns the token for requests that must survive until Close.
func (g *generation) current() uint64 { return g.n }

// advance invalidates every outstanding token and returns a fresh one.
func (g *generation) advance() uint64 {
	g.n++
	return g.n
}

func (g *generation) valid(token uint64) bool { return !g.closed && g.n == token }

func (g *generation) close() {
	g.closed = true
	g.n++
}
