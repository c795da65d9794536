package console

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/rflorenc/resource-console/internal/models"
	"github.com/rflorenc/resource-console/internal/platform"
)

// fakeAPI is an in-memory remote API that records every call.
type fakeAPI struct {
	t   *testing.T
	srv *httptest.Server

	mu     sync.Mutex
	data   map[string][]models.Resource // collection path -> items
	calls  []string                     // "METHOD /path"
	bodies []models.Resource            // decoded write bodies, in order
	status map[string]int               // "METHOD /path" -> forced status
	raw    map[string]string            // "METHOD /path" -> forced body
	gates  map[string]chan struct{}     // "METHOD /path" -> blocks until closed
	nextID int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		t:      t,
		data:   map[string][]models.Resource{"/usuarios": {}, "/productos": {}},
		status: map[string]int{},
		raw:    map[string]string{},
		gates:  map[string]chan struct{}{},
		nextID: 100,
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) client() *platform.Client {
	return platform.NewClient(models.Target{BaseURL: f.srv.URL}, platform.WithHTTPClient(f.srv.Client()))
}

func (f *fakeAPI) seed(path string, items ...models.Resource) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[path] = items
}

func (f *fakeAPI) failWith(call string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[call] = status
}

func (f *fakeAPI) respondWith(call, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raw[call] = body
}

// gate blocks call until the returned function is invoked.
func (f *fakeAPI) gate(call string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[call] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) count(method string) int {
	n := 0
	for _, c := range f.callLog() {
		if strings.HasPrefix(c, method+" ") {
			n++
		}
	}
	return n
}

func (f *fakeAPI) lastBody() models.Resource {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.bodies) == 0 {
		return nil
	}
	return f.bodies[len(f.bodies)-1]
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	call := r.Method + " " + r.URL.Path

	var body models.Resource
	if r.Method == http.MethodPost || r.Method == http.MethodPut {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			f.t.Errorf("%s: decoding body: %v", call, err)
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	if body != nil {
		f.bodies = append(f.bodies, body.Clone())
	}
	gate := f.gates[call]
	status, forced := f.status[call]
	raw, hasRaw := f.raw[call]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if forced {
		w.WriteHeader(status)
		w.Write([]byte("boom"))
		return
	}
	if hasRaw {
		w.Write([]byte(raw))
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	collection, id := splitPath(r.URL.Path)
	items, ok := f.data[collection]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch {
	case r.Method == http.MethodGet && id == "":
		if items == nil {
			items = []models.Resource{}
		}
		json.NewEncoder(w).Encode(items)
	case r.Method == http.MethodPost && id == "":
		f.nextID++
		body["id"] = strconv.Itoa(f.nextID)
		f.data[collection] = append(items, body)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(body)
	case r.Method == http.MethodPut && id != "":
		for i, item := range items {
			if identity(item) == id {
				body["id"] = id
				items[i] = body
				json.NewEncoder(w).Encode(body)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodDelete && id != "":
		for i, item := range items {
			if identity(item) == id {
				f.data[collection] = append(items[:i:i], items[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func splitPath(p string) (collection, id string) {
	parts := strings.SplitN(strings.TrimPrefix(p, "/"), "/", 2)
	collection = "/" + parts[0]
	if len(parts) == 2 {
		id = parts[1]
	}
	return collection, id
}

func identity(r models.Resource) string {
	for _, k := range []string{"id", "_id"} {
		if v, ok := r[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// recorder collects notifications instead of scheduling them.
type recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recorder) Notify(message string, severity Severity) Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := Notification{Message: message, Severity: severity}
	r.notes = append(r.notes, n)
	return n
}

func (r *recorder) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

func (r *recorder) bySeverity(s Severity) []Notification {
	var out []Notification
	for _, n := range r.all() {
		if n.Severity == s {
			out = append(out, n)
		}
	}
	return out
}

func newTestController(api *fakeAPI) (*Controller, *recorder) {
	rec := &recorder{}
	return NewController(models.DefaultRegistry(), api.client(), rec, nil, nil), rec
}

func newTestConsole(api *fakeAPI) (*Console, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	return New(models.DefaultRegistry(), api.client(), WithClock(clock)), clock
}
