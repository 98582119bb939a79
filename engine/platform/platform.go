// Package platform provides the surface the engine presents frames to.
// Only an off-screen surface is implemented; the window system binding
// belongs to the host application.
package platform

import (
	"errors"
	"sync"

	"github.com/spaghettifunk/esutil/engine/containers"
	"github.com/spaghettifunk/esutil/engine/core"
)

var ErrClosed = errors.New("surface is closed")

const messageQueueSize = 64

type message struct {
	code          core.SystemEventCode
	width, height uint32
}

// Headless is an off-screen surface. Resize and quit requests may be
// posted from any goroutine; they are delivered as events on the next
// PumpMessages call, from the render goroutine.
type Headless struct {
	mutex    sync.Mutex
	queue    *containers.RingQueue[message]
	width    uint32
	height   uint32
	frames   uint64
	closed   bool
	quitting bool
}

func NewHeadless(width, height uint32) *Headless {
	return &Headless{
		queue:  containers.NewRingQueue[message](messageQueueSize),
		width:  width,
		height: height,
	}
}

// Size returns the framebuffer size as of the last pumped resize.
func (p *Headless) Size() (uint32, uint32) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.width, p.height
}

func (p *Headless) PostResize(width, height uint32) error {
	return p.post(message{code: core.EVENT_CODE_RESIZED, width: width, height: height})
}

func (p *Headless) PostQuit() error {
	return p.post(message{code: core.EVENT_CODE_APPLICATION_QUIT})
}

func (p *Headless) post(m message) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		return ErrClosed
	}
	return p.queue.Enqueue(m)
}

// PumpMessages fires every queued message on events and reports whether
// the surface is still open.
func (p *Headless) PumpMessages(events *core.Events) bool {
	for {
		p.mutex.Lock()
		m, err := p.queue.Dequeue()
		if err == nil && m.code == core.EVENT_CODE_RESIZED {
			p.width, p.height = m.width, m.height
		}
		if err == nil && m.code == core.EVENT_CODE_APPLICATION_QUIT {
			p.quitting = true
		}
		p.mutex.Unlock()
		if err != nil {
			break
		}

		var ctx core.EventContext
		ctx.Data.U32[0] = m.width
		ctx.Data.U32[1] = m.height
		events.Fire(m.code, p, ctx)
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()
	return !p.closed && !p.quitting
}

// Present counts a finished frame.
func (p *Headless) Present() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.frames++
	return nil
}

// Frames returns the number of frames presented.
func (p *Headless) Frames() uint64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.frames
}

func (p *Headless) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	core.LogDebug("Headless surface closed after %d frames.", p.frames)
	return nil
}
