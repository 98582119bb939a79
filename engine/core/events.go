package core

import "sync"

type EventContext struct {
	Data struct {
		I32 [4]int32
		U32 [4]uint32
		F32 [4]float32

		C [4]string
	}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Resized/resolution changed by the surface.
	/* Context usage:
	 * u32 width = data.U32[0];
	 * u32 height = data.U32[1];
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	// A watched shader program was relinked.
	/* Context usage:
	 * string name = data.C[0];
	 */
	EVENT_CODE_PROGRAM_RELOADED SystemEventCode = 0x09

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listener interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// Events dispatches fired events to registered listeners. Each engine owns
// one, so several render contexts in a process do not share listeners.
type Events struct {
	mutex      sync.RWMutex
	registered map[SystemEventCode][]*registeredEvent
}

func NewEvents() *Events {
	return &Events{registered: make(map[SystemEventCode][]*registeredEvent)}
}

/**
 * Register to listen for when events are sent with the provided code. A
 * listener can only be registered once per code.
 * @param code The event code to listen for.
 * @param listener A listener instance. Can be nil.
 * @param onEvent The callback to be invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func (e *Events) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if onEvent == nil || code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()

	for _, ev := range e.registered[code] {
		if ev.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	e.registered[code] = append(e.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister the listener from the provided code.
 * @returns true if the event is successfully unregistered; otherwise false.
 */
func (e *Events) Unregister(code SystemEventCode, listener interface{}) bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	events := e.registered[code]
	for i, ev := range events {
		if ev.listener == listener {
			e.registered[code] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @param code The event code to fire.
 * @param sender The sender. Can be nil.
 * @param context The event data.
 * @returns true if handled, otherwise false.
 */
func (e *Events) Fire(code SystemEventCode, sender interface{}, context EventContext) bool {
	e.mutex.RLock()
	events := e.registered[code]
	e.mutex.RUnlock()

	// Callbacks may register or unregister; they see the list as it was.
	for _, ev := range events {
		if ev.callback(code, sender, ev.listener, context) {
			return true
		}
	}
	return false
}

// Shutdown drops every registration.
func (e *Events) Shutdown() {
	e.mutex.Lock()
	e.registered = make(map[SystemEventCode][]*registeredEvent)
	e.mutex.Unlock()
}
