package main

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/jcorbin/goed/internal/wsize"
)

// criticalSection is the reentrancy guard described in §5: dispatchLine
// brackets each top-level command line with enter/leave, so that a signal
// arriving while that command mutates the line list, undo journal, yank
// buffer, active set, or regex cache is deferred rather than acting on
// half-updated state. leave delivers any pending hangup or interrupt once
// the guard count returns to zero.
type criticalSection struct {
	depth    int32
	pendHup  int32
	pendIntr int32
	onHangup func()
	onIntr   func()
}

func (cs *criticalSection) enter() { atomic.AddInt32(&cs.depth, 1) }

func (cs *criticalSection) leave() {
	if atomic.AddInt32(&cs.depth, -1) == 0 {
		cs.tryDeliver()
	}
}

// raiseHangup and raiseIntr mark a signal pending and deliver it right
// away if no critical section is active.
func (cs *criticalSection) raiseHangup() {
	atomic.StoreInt32(&cs.pendHup, 1)
	cs.tryDeliver()
}

func (cs *criticalSection) raiseIntr() {
	atomic.StoreInt32(&cs.pendIntr, 1)
	cs.tryDeliver()
}

func (cs *criticalSection) tryDeliver() {
	if atomic.LoadInt32(&cs.depth) != 0 {
		return
	}
	if atomic.CompareAndSwapInt32(&cs.pendHup, 1, 0) && cs.onHangup != nil {
		cs.onHangup()
	}
	if atomic.CompareAndSwapInt32(&cs.pendIntr, 1, 0) && cs.onIntr != nil {
		cs.onIntr()
	}
}

// watchSignals installs handlers for SIGHUP, SIGINT, and SIGWINCH on a
// background goroutine and returns a function to stop watching. SIGHUP
// dumps a recovery copy of the buffer and exits; SIGINT writes a newline to
// the output (deferred, via criticalSection, until the current command line
// finishes) and does not abort the running command or raise an
// interruptError; SIGWINCH refreshes the remembered window size.
func (ed *Editor) watchSignals() (stop func()) {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGWINCH)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig, ok := <-ch:
				if !ok {
					return
				}
				switch sig {
				case syscall.SIGHUP:
					ed.deliverHangup()
				case syscall.SIGINT:
					ed.deliverInterrupt()
				case syscall.SIGWINCH:
					if lines, cols, err := wsize.Get(); err == nil {
						ed.winLines, ed.winCols = lines, cols
					}
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

func (ed *Editor) deliverHangup() { ed.crit.raiseHangup() }

func (ed *Editor) deliverInterrupt() { ed.crit.raiseIntr() }
