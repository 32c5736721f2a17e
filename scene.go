package ui

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrSceneRemoved is returned when a removed Scene is asked to reconcile.
var ErrSceneRemoved = errors.New("scene removed")

// Scene renders a component tree into a container and reconciles it once per
// frame, when something changed since the last frame.
//
// Setting props or state any number of times between two frames results in a
// single reconciliation pass. A Scene is not safe for concurrent use: with a
// TickerLoop, mutate it from the loop goroutine through Do.
type Scene struct {
	entity    *Entity
	renderer  *Renderer
	loop      FrameLoop
	listeners *Listeners

	logger  *zap.Logger
	metrics *Metrics

	dirty           bool
	reconciling     bool
	requeued        bool
	removeRequested bool
	removed         bool
	err             error
}

// Mount creates the root entity of type t, renders it into container right
// away and starts the frame loop.
func Mount(container NativeNode, host Host, t *ComponentType, props Props, opts ...Option) (*Scene, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	if o.loop == nil {
		o.loop = NewTickerLoop(o.config.FrameInterval)
	}
	e, err := NewEntity(t, props)
	if err != nil {
		return nil, err
	}
	s := &Scene{
		entity:    e,
		renderer:  newRenderer(container, host, o),
		loop:      o.loop,
		listeners: NewListeners(),
		logger:    o.logger,
		metrics:   o.metrics,
	}
	e.addToScene(s)
	if err := s.renderer.Render(e); err != nil {
		return nil, err
	}
	s.loop.Start(s.Tick)
	s.logger.Info("scene mounted", zap.Stringer("component", t), zap.Uint64("entity", e.ID))
	return s, nil
}

// Entity returns the root entity.
func (s *Scene) Entity() *Entity { return s.entity }

// Renderer returns the renderer patching the container.
func (s *Scene) Renderer() *Renderer { return s.renderer }

// Dirty reports whether an entity changed since the last reconciliation.
func (s *Scene) Dirty() bool { return s.dirty }

// Err returns the error that stopped the frame loop, if any.
func (s *Scene) Err() error { return s.err }

func (s *Scene) invalidate() {
	s.dirty = true
	if s.reconciling {
		s.requeued = true
	}
}

// SetProps sets new props on the root entity. done, if any, runs after the
// next reconciliation pass.
func (s *Scene) SetProps(props Props, done func()) {
	if done != nil {
		s.listeners.Add(updateEvent, NewListener(done).RunOnce())
	}
	s.entity.SetProps(props, nil)
}

// OnUpdate registers fn to run after every reconciliation pass.
func (s *Scene) OnUpdate(fn func()) *Listener {
	l := NewListener(fn)
	s.listeners.Add(updateEvent, l)
	return l
}

// Dispatch delivers evt to the handlers bound in the scene.
func (s *Scene) Dispatch(evt Event) bool {
	if s.removed {
		return false
	}
	return s.renderer.Dispatch(evt)
}

// Do runs fn on the goroutine of the frame loop when the loop has one, or
// right away otherwise. A paused TickerLoop drops fn.
func (s *Scene) Do(fn func()) {
	if l, ok := s.loop.(interface{ Do(func()) }); ok {
		l.Do(fn)
		return
	}
	fn()
}

// Tick is the frame callback: it reconciles the tree if the scene is dirty.
// A reconciliation error pauses the loop; it is available through Err.
func (s *Scene) Tick() {
	s.metrics.Ticks.Inc()
	if !s.dirty || s.removed {
		return
	}
	if err := s.Update(); err != nil {
		s.err = err
		s.logger.Error("reconciliation failed, pausing frame loop", zap.Error(err))
		s.loop.Pause()
	}
}

// Update runs one reconciliation pass over the whole entity tree.
//
// Invalidations happening during the pass, from hooks for instance, leave the
// scene dirty for the next frame. A Remove requested during the pass is
// carried out once the pass is over.
func (s *Scene) Update() error {
	if s.removed {
		return ErrSceneRemoved
	}
	start := time.Now()
	s.reconciling = true
	s.requeued = false
	err := s.renderer.Render(s.entity)
	s.reconciling = false
	s.dirty = s.requeued
	s.requeued = false
	s.metrics.Passes.Inc()
	s.metrics.PassDuration.Observe(time.Since(start).Seconds())

	if err == nil {
		s.listeners.Emit(updateEvent)
	}
	if s.removeRequested {
		if rerr := s.remove(); err == nil {
			err = rerr
		}
	}
	return err
}

// Remove pauses the frame loop, unmounts the root entity and releases the
// event delegation resources of the container.
func (s *Scene) Remove() error {
	if s.removed {
		return nil
	}
	if s.reconciling {
		s.removeRequested = true
		return nil
	}
	return s.remove()
}

func (s *Scene) remove() error {
	s.removeRequested = false
	s.removed = true
	s.loop.Pause()
	err := s.renderer.Clear()
	s.renderer.Interactions().Remove()
	s.listeners.Clear()
	s.logger.Info("scene removed", zap.Uint64("entity", s.entity.ID))
	return err
}
