package timing

import (
	"log"

	"github.com/petermattis/goid"
)

// goroutineGuard binds to the first goroutine that checks it and logs once
// when a different goroutine shows up. The timing types assume a single
// update goroutine; this only reports violations, it does not prevent them.
type goroutineGuard struct {
	name   string
	owner  int64
	bound  bool
	warned bool
}

func (g *goroutineGuard) check() {
	gid := goid.Get()
	if !g.bound {
		g.owner = gid
		g.bound = true
		return
	}
	if gid != g.owner && !g.warned {
		g.warned = true
		log.Printf("%s: called from goroutine %d, owned by goroutine %d", g.name, gid, g.owner)
	}
}
