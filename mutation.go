package ui

// Listener is a wrapper type around a callback run when an event is emitted.
type Listener struct {
	Fn   func()
	Once bool
}

// NewListener returns a Listener calling fn each time its event is emitted.
func NewListener(fn func()) *Listener {
	return &Listener{Fn: fn}
}

// RunOnce makes the listener remove itself after its first call.
func (l *Listener) RunOnce() *Listener {
	l.Once = true
	return l
}

// Listeners stores callbacks by event name. Entities use it for the
// callbacks waiting on the next commit, Scenes for the end of each pass.
type Listeners struct {
	list map[string]*listenerList
}

// NewListeners returns an empty store.
func NewListeners() *Listeners {
	return &Listeners{make(map[string]*listenerList)}
}

// Add registers h under event.
func (l *Listeners) Add(event string, h *Listener) *Listeners {
	ls, ok := l.list[event]
	if !ok {
		l.list[event] = newListenerList().Add(h)
		return l
	}
	ls.Add(h)
	return l
}

// Remove unregisters h.
func (l *Listeners) Remove(event string, h *Listener) *Listeners {
	ls, ok := l.list[event]
	if !ok {
		return l
	}
	ls.Remove(h)
	return l
}

// Emit calls every listener registered under event, in registration order.
// Listeners added during Emit are only called on the next Emit.
func (l *Listeners) Emit(event string) {
	ls, ok := l.list[event]
	if !ok {
		return
	}
	ls.Handle()
}

// Len returns the number of listeners registered under event.
func (l *Listeners) Len(event string) int {
	ls, ok := l.list[event]
	if !ok {
		return 0
	}
	return len(ls.list)
}

// Clear removes every listener.
func (l *Listeners) Clear() {
	l.list = make(map[string]*listenerList)
}

type listenerList struct {
	list []*Listener
}

func newListenerList() *listenerList {
	return &listenerList{make([]*Listener, 0)}
}

func (m *listenerList) Add(h *Listener) *listenerList {
	m.list = append(m.list, h)
	return m
}

func (m *listenerList) Remove(h *Listener) *listenerList {
	index := -1
	for k, v := range m.list {
		if v != h {
			continue
		}
		index = k
		break
	}
	if index >= 0 {
		m.list = append(m.list[:index], m.list[index+1:]...)
	}
	return m
}

func (m *listenerList) Handle() {
	current := m.list
	kept := make([]*Listener, 0, len(current))
	for _, h := range current {
		if !h.Once {
			kept = append(kept, h)
		}
	}
	// Listeners registered by a callback below land after the kept ones.
	m.list = kept
	for _, h := range current {
		h.Fn()
	}
}
