package presenter

import (
	"context"
	"sync"
	"time"

	"github.com/Adda-Baaj/pokedex/internal/catalog"
	"github.com/Adda-Baaj/pokedex/internal/domain"
	"github.com/Adda-Baaj/pokedex/internal/logger"
)

// State is the load state of a ViewModel.
type State int

const (
	// StateEmpty is the initial state, before the fetch completes.
	StateEmpty State = iota
	// StateLoaded is terminal and is entered exactly once.
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Observer receives the current entity list each time it is published.
type Observer func(state State, entities []domain.Pokemon)

// ViewModel holds the list shown by a catalog screen. The list starts empty and
// is replaced once, when the single background fetch started by New returns.
//
// Observers are invoked sequentially on the notifying goroutine and must not
// call Subscribe themselves.
type ViewModel struct {
	notifyMu  sync.Mutex // serializes deliveries so each observer sees Empty before Loaded
	mu        sync.RWMutex
	entities  []domain.Pokemon
	state     State
	observers []subscription
	nextID    int
	done      chan struct{}
	log       logger.Logger
}

type subscription struct {
	id  int
	obs Observer
}

// New constructs a ViewModel and starts its one fetch from repo.
func New(ctx context.Context, repo catalog.Repository, log logger.Logger) *ViewModel {
	if ctx == nil {
		ctx = context.Background()
	}
	vm := &ViewModel{
		entities: []domain.Pokemon{},
		state:    StateEmpty,
		done:     make(chan struct{}),
		log:      logger.Ensure(log),
	}
	go vm.load(ctx, repo)
	return vm
}

func (vm *ViewModel) load(ctx context.Context, repo catalog.Repository) {
	start := time.Now()
	var entities []domain.Pokemon
	if repo != nil {
		entities = repo.ListEntities(ctx)
	}
	vm.publish(entities)
	vm.log.DebugObj("catalog view loaded", "view_state", map[string]any{
		"entities":   len(entities),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
}

// publish replaces the list wholesale, flips to Loaded, notifies observers, then closes done.
func (vm *ViewModel) publish(entities []domain.Pokemon) {
	next := make([]domain.Pokemon, len(entities))
	copy(next, entities)

	vm.notifyMu.Lock()
	defer vm.notifyMu.Unlock()

	vm.mu.Lock()
	vm.entities = next
	vm.state = StateLoaded
	subs := append([]subscription(nil), vm.observers...)
	vm.mu.Unlock()

	for _, sub := range subs {
		sub.obs(StateLoaded, cloneEntities(next))
	}
	close(vm.done)
}

// Entities returns a copy of the current list.
func (vm *ViewModel) Entities() []domain.Pokemon {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return cloneEntities(vm.entities)
}

// State reports whether the fetch has completed.
func (vm *ViewModel) State() State {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.state
}

// Done is closed once the ViewModel reaches StateLoaded and every observer
// registered at that point has received the loaded list.
func (vm *ViewModel) Done() <-chan struct{} {
	return vm.done
}

// Subscribe registers obs and immediately delivers the current snapshot to it.
// Observers registered before the fetch completes are called again with the
// loaded list. The returned func removes the observer.
func (vm *ViewModel) Subscribe(obs Observer) (unsubscribe func()) {
	if obs == nil {
		return func() {}
	}

	vm.notifyMu.Lock()
	vm.mu.Lock()
	id := vm.nextID
	vm.nextID++
	vm.observers = append(vm.observers, subscription{id: id, obs: obs})
	state, snapshot := vm.state, cloneEntities(vm.entities)
	vm.mu.Unlock()

	obs(state, snapshot)
	vm.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			vm.mu.Lock()
			defer vm.mu.Unlock()
			for i, sub := range vm.observers {
				if sub.id == id {
					vm.observers = append(vm.observers[:i], vm.observers[i+1:]...)
					return
				}
			}
		})
	}
}

func cloneEntities(in []domain.Pokemon) []domain.Pokemon {
	out := make([]domain.Pokemon, len(in))
	copy(out, in)
	return out
}
