package presenter

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/Adda-Baaj/pokedex/internal/catalog"
	"github.com/Adda-Baaj/pokedex/internal/domain"
	"github.com/Adda-Baaj/pokedex/pkg/httpclient"
)

type stubResponse struct{ body []byte }

func (s stubResponse) Body() []byte        { return s.body }
func (s stubResponse) StatusCode() int     { return http.StatusOK }
func (s stubResponse) Header() http.Header { return http.Header{} }

// fakeClient serves a fixed body or connectivity error.
type fakeClient struct {
	body string
	err  error
}

func (f fakeClient) Get(context.Context, string, map[string]string) (httpclient.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return stubResponse{body: []byte(f.body)}, nil
}

// gatedRepo blocks until release is closed, then returns entities.
type gatedRepo struct {
	release  chan struct{}
	entities []domain.Pokemon
	mu       sync.Mutex
	calls    int
}

func (g *gatedRepo) ListEntities(ctx context.Context) []domain.Pokemon {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	select {
	case <-g.release:
		return g.entities
	case <-ctx.Done():
		return []domain.Pokemon{}
	}
}

func (g *gatedRepo) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newCatalogRepo(t *testing.T, client httpclient.Client) catalog.Repository {
	t.Helper()
	repo, err := catalog.NewHTTPRepository(client, catalog.Options{URL: "https://catalog.test/api/v2/pokemon"}, nil)
	if err != nil {
		t.Fatalf("NewHTTPRepository: %v", err)
	}
	return repo
}

func waitLoaded(t *testing.T, vm *ViewModel) {
	t.Helper()
	select {
	case <-vm.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("view model did not reach loaded state")
	}
}

func TestViewModelLoadsCatalog(t *testing.T) {
	repo := newCatalogRepo(t, fakeClient{body: `{"results":[{"name":"bulbasaur"},{"name":"ivysaur"}]}`})

	vm := New(context.Background(), repo, nil)
	waitLoaded(t, vm)

	if vm.State() != StateLoaded {
		t.Fatalf("expected loaded state, got %s", vm.State())
	}
	got := domain.Names(vm.Entities())
	if !reflect.DeepEqual(got, []string{"bulbasaur", "ivysaur"}) {
		t.Fatalf("unexpected entities %v", got)
	}
}

func TestViewModelLoadsEmptyOnConnectivityFailure(t *testing.T) {
	repo := newCatalogRepo(t, fakeClient{err: errors.New("network is unreachable")})

	vm := New(context.Background(), repo, nil)
	waitLoaded(t, vm)

	if vm.State() != StateLoaded {
		t.Fatalf("expected loaded state after failure, got %s", vm.State())
	}
	if got := vm.Entities(); len(got) != 0 {
		t.Fatalf("expected no entities, got %v", got)
	}
}

func TestViewModelStartsEmptyUntilFetchCompletes(t *testing.T) {
	repo := &gatedRepo{release: make(chan struct{}), entities: []domain.Pokemon{{Name: "mew"}}}

	vm := New(context.Background(), repo, nil)
	if vm.State() != StateEmpty {
		t.Fatalf("expected empty state before fetch completes")
	}
	if got := vm.Entities(); got == nil || len(got) != 0 {
		t.Fatalf("expected initial empty list, got %#v", got)
	}

	close(repo.release)
	waitLoaded(t, vm)

	if got := domain.Names(vm.Entities()); !reflect.DeepEqual(got, []string{"mew"}) {
		t.Fatalf("unexpected entities %v", got)
	}
	if repo.callCount() != 1 {
		t.Fatalf("expected exactly one fetch, got %d", repo.callCount())
	}
}

func TestViewModelNotifiesObservers(t *testing.T) {
	repo := &gatedRepo{release: make(chan struct{}), entities: []domain.Pokemon{{Name: "onix"}, {Name: "geodude"}}}
	vm := New(context.Background(), repo, nil)

	var mu sync.Mutex
	var states []State
	var last []string
	vm.Subscribe(func(state State, entities []domain.Pokemon) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, state)
		last = domain.Names(entities)
	})

	close(repo.release)
	waitLoaded(t, vm)

	mu.Lock()
	defer mu.Unlock()
	if !reflect.DeepEqual(states, []State{StateEmpty, StateLoaded}) {
		t.Fatalf("unexpected state sequence %v", states)
	}
	if !reflect.DeepEqual(last, []string{"onix", "geodude"}) {
		t.Fatalf("unexpected delivered entities %v", last)
	}
}

func TestViewModelDoneClosesAfterObserversNotified(t *testing.T) {
	repo := &gatedRepo{release: make(chan struct{}), entities: []domain.Pokemon{{Name: "snorlax"}}}
	vm := New(context.Background(), repo, nil)

	var mu sync.Mutex
	delivered, doneEarly := false, false
	vm.Subscribe(func(state State, _ []domain.Pokemon) {
		if state != StateLoaded {
			return
		}
		select {
		case <-vm.Done():
			doneEarly = true
		default:
		}
		// Slow observer: Done must still wait for it.
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		delivered = true
		mu.Unlock()
	})

	close(repo.release)
	waitLoaded(t, vm)

	mu.Lock()
	defer mu.Unlock()
	if !delivered {
		t.Fatalf("Done closed before the loaded list reached the observer")
	}
	if doneEarly {
		t.Fatalf("observer saw Done closed during delivery")
	}
}

func TestViewModelLateSubscriberGetsSnapshot(t *testing.T) {
	repo := &gatedRepo{release: make(chan struct{}), entities: []domain.Pokemon{{Name: "psyduck"}}}
	close(repo.release)

	vm := New(context.Background(), repo, nil)
	waitLoaded(t, vm)

	calls := 0
	var got State
	unsubscribe := vm.Subscribe(func(state State, entities []domain.Pokemon) {
		calls++
		got = state
		if len(entities) != 1 || entities[0].Name != "psyduck" {
			t.Fatalf("unexpected snapshot %v", entities)
		}
	})
	unsubscribe()
	unsubscribe()

	if calls != 1 || got != StateLoaded {
		t.Fatalf("expected one loaded snapshot, got calls=%d state=%s", calls, got)
	}
}

func TestViewModelUnsubscribeStopsDelivery(t *testing.T) {
	repo := &gatedRepo{release: make(chan struct{})}
	vm := New(context.Background(), repo, nil)

	calls := 0
	unsubscribe := vm.Subscribe(func(State, []domain.Pokemon) { calls++ })
	unsubscribe()

	close(repo.release)
	waitLoaded(t, vm)

	if calls != 1 {
		t.Fatalf("expected only the initial snapshot, got %d deliveries", calls)
	}
}

func TestViewModelInstancesAreIndependent(t *testing.T) {
	repo := newCatalogRepo(t, fakeClient{body: `{"results":[{"name":"bulbasaur"},{"name":"ivysaur"}]}`})

	first := New(context.Background(), repo, nil)
	second := New(context.Background(), repo, nil)
	waitLoaded(t, first)
	waitLoaded(t, second)

	a, b := first.Entities(), second.Entities()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical content, got %v and %v", a, b)
	}

	a[0].Name = "mutated"
	if first.Entities()[0].Name != "bulbasaur" || second.Entities()[0].Name != "bulbasaur" {
		t.Fatalf("state leaked through returned slices")
	}
}

func TestViewModelCancelledContextStillLoads(t *testing.T) {
	repo := &gatedRepo{release: make(chan struct{}), entities: []domain.Pokemon{{Name: "ditto"}}}
	ctx, cancel := context.WithCancel(context.Background())

	vm := New(ctx, repo, nil)
	cancel()
	waitLoaded(t, vm)

	if vm.State() != StateLoaded || len(vm.Entities()) != 0 {
		t.Fatalf("expected loaded empty state after cancellation, got %s %v", vm.State(), vm.Entities())
	}
}

func TestStateString(t *testing.T) {
	if StateEmpty.String() != "empty" || StateLoaded.String() != "loaded" || State(9).String() != "unknown" {
		t.Fatalf("unexpected state names")
	}
}
