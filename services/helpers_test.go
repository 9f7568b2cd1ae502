package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"parent-portal/domain"
	"parent-portal/domain/event"
	"parent-portal/registry"
	"parent-portal/remote"
)

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (p *capturePublisher) Publish(evt event.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *capturePublisher) all() []event.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.DomainEvent(nil), p.events...)
}

// remoteFixture serves canned users and students over real HTTP so the
// services under test exercise the full resolve-and-fetch path.
type remoteFixture struct {
	client   *remote.Client
	users    map[int64]domain.User
	students map[int64]domain.Student
}

func newRemoteFixture(t *testing.T) *remoteFixture {
	t.Helper()
	f := &remoteFixture{
		users:    make(map[int64]domain.User),
		students: make(map[int64]domain.Student),
	}

	router := chi.NewRouter()
	router.Get("/api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		user, ok := f.users[id]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(user)
	})
	router.Get("/api/users", func(w http.ResponseWriter, r *http.Request) {
		users := make([]domain.User, 0, len(f.users))
		for _, user := range f.users {
			users = append(users, user)
		}
		_ = json.NewEncoder(w).Encode(users)
	})
	router.Get("/api/students/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		student, ok := f.students[id]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(student)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	addr := strings.TrimPrefix(srv.URL, "http://")
	reg := registry.NewRegistry()
	reg.Register(remote.ServiceUsers, registry.Instance{Addr: addr})
	reg.Register(remote.ServiceStudents, registry.Instance{Addr: addr})

	f.client = remote.NewClient(reg, slog.Default())
	return f
}

func (f *remoteFixture) addUser(id int64, username string, role domain.Role) {
	f.users[id] = domain.User{ID: id, Username: username, Role: role}
}

func (f *remoteFixture) addStudent(id int64, parentUserID int64) {
	f.students[id] = domain.Student{ID: id, FirstName: "s", LastName: "t", ParentUserID: parentUserID}
}

func openServiceTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
