package daemon

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emi-kkobayashi/gstd-1.x/internal/protocol"
)

// pipeline is one managed pipeline instance. All media processing is out of
// scope here: the reference daemon tracks control-plane state only.
type pipeline struct {
	id          string
	name        string
	description string
	elements    []*Element
	state       string
	position    time.Duration
	flushing    bool
	bus         *bus
	created     time.Time
}

// registry owns every live pipeline handle. Commands are serialized per
// registry through a single mutex; per-handle command ordering across
// connections is therefore the daemon's, not the client's, responsibility.
type registry struct {
	mu        sync.Mutex
	pipelines map[string]*pipeline
}

func newRegistry() *registry {
	return &registry{pipelines: make(map[string]*pipeline)}
}

func (r *registry) create(name, description string) protocol.Status {
	if name == "" {
		return protocol.StatusMissingName
	}
	elements, err := parseDescription(description)
	if err != nil {
		return protocol.StatusBadDescription
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pipelines[name]; ok {
		return protocol.StatusExistingName
	}
	r.pipelines[name] = &pipeline{
		id:          uuid.NewString(),
		name:        name,
		description: description,
		elements:    elements,
		state:       protocol.StateNull,
		bus:         newBus(),
		created:     time.Now(),
	}
	return protocol.StatusOK
}

// delete removes the handle and releases any reader blocked on its bus.
func (r *registry) delete(name string) protocol.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pipelines[name]
	if !ok {
		return protocol.StatusNoPipeline
	}
	delete(r.pipelines, name)
	p.bus.close()
	return protocol.StatusOK
}

// closeAll releases blocked bus readers on every pipeline. Used during
// daemon shutdown so connection handlers parked in bus_read can drain.
func (r *registry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pipelines {
		p.bus.close()
	}
}

// setState moves a pipeline to the requested state and posts a state-changed
// message. Re-entering the current state is allowed and does not post.
func (r *registry) setState(name, state string) protocol.Status {
	r.mu.Lock()
	p, ok := r.pipelines[name]
	r.mu.Unlock()
	if !ok {
		return protocol.StatusNoPipeline
	}

	r.mu.Lock()
	old := p.state
	p.state = state
	r.mu.Unlock()

	if old != state {
		p.bus.post("state-changed", name, old+" -> "+state)
	}
	return protocol.StatusOK
}

func (r *registry) getState(name string) (*protocol.PipelineInfo, protocol.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pipelines[name]
	if !ok {
		return nil, protocol.StatusNoPipeline
	}
	return &protocol.PipelineInfo{
		ID:          p.id,
		Name:        p.name,
		State:       p.state,
		Description: p.description,
	}, protocol.StatusOK
}

func (r *registry) list() []protocol.PipelineInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	infos := make([]protocol.PipelineInfo, 0, len(r.pipelines))
	for _, p := range r.pipelines {
		infos = append(infos, protocol.PipelineInfo{Name: p.name, State: p.state})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (r *registry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pipelines)
}

func (r *registry) elementGet(name, element, property string) (*protocol.PropertyValue, protocol.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pipelines[name]
	if !ok {
		return nil, protocol.StatusNoPipeline
	}
	el := findElement(p.elements, element)
	if el == nil {
		return nil, protocol.StatusNoResource
	}
	value, ok := el.Properties[property]
	if !ok {
		return nil, protocol.StatusNoResource
	}
	return &protocol.PropertyValue{
		Pipeline: name,
		Element:  element,
		Property: property,
		Value:    value,
	}, protocol.StatusOK
}

// elementSet stores a property value. The daemon carries no type registry,
// so previously unseen property names are accepted as strings.
func (r *registry) elementSet(name, element, property, value string) protocol.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pipelines[name]
	if !ok {
		return protocol.StatusNoPipeline
	}
	el := findElement(p.elements, element)
	if el == nil {
		return protocol.StatusNoResource
	}
	if property == "" {
		return protocol.StatusMissingArgument
	}
	el.Properties[property] = value
	return protocol.StatusOK
}

func (r *registry) eventEOS(name string) protocol.Status {
	r.mu.Lock()
	p, ok := r.pipelines[name]
	r.mu.Unlock()
	if !ok {
		return protocol.StatusNoPipeline
	}
	p.bus.post("eos", name, "end of stream")
	return protocol.StatusOK
}

func (r *registry) eventSeek(name string, position time.Duration) protocol.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pipelines[name]
	if !ok {
		return protocol.StatusNoPipeline
	}
	if position < 0 {
		return protocol.StatusBadValue
	}
	p.position = position
	return protocol.StatusOK
}

func (r *registry) eventFlushStart(name string) protocol.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pipelines[name]
	if !ok {
		return protocol.StatusNoPipeline
	}
	p.flushing = true
	return protocol.StatusOK
}

// eventFlushStop discards buffered bus data and resets the stream position.
// The play/pause state is left untouched; the event is accepted in any
// state, including freshly created pipelines that never played.
func (r *registry) eventFlushStop(name string, reset bool) protocol.Status {
	r.mu.Lock()
	p, ok := r.pipelines[name]
	if !ok {
		r.mu.Unlock()
		return protocol.StatusNoPipeline
	}
	p.flushing = false
	if reset {
		p.position = 0
	}
	r.mu.Unlock()

	p.bus.drain()
	return protocol.StatusOK
}

func (r *registry) busFor(name string) (*bus, protocol.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pipelines[name]
	if !ok {
		return nil, protocol.StatusNoPipeline
	}
	return p.bus, protocol.StatusOK
}
