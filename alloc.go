package sixel

import "sync/atomic"

// refCounted is a reference count that runs a release function once, when
// the count drops to zero. It is the Go stand-in for libsixel's
// sixel_allocator_t refcounting: there is no separate allocator object
// because the Go runtime already owns allocation. The Driver holds one per
// in-progress encode and drops it on teardown; Palette, the dither residual
// buffers and the lookup tables do not carry a reference of their own.
type refCounted struct {
	refs    atomic.Int32
	release func()
}

func newRefCounted(release func()) *refCounted {
	rc := &refCounted{release: release}
	rc.refs.Store(1)
	return rc
}

// ref increments the reference count. Call before handing the owning
// structure to a second long-lived holder.
func (rc *refCounted) ref() {
	rc.refs.Add(1)
}

// unref decrements the reference count and runs release once it reaches
// zero. Safe to call more than once; only the transition to zero fires.
func (rc *refCounted) unref() {
	if rc.refs.Add(-1) == 0 && rc.release != nil {
		rc.release()
	}
}
