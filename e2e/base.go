package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"parent-portal/auth"
	"parent-portal/bus"
	"parent-portal/domain"
	"parent-portal/gateway"
	"parent-portal/httpapi"
	"parent-portal/moderation"
	"parent-portal/registry"
	"parent-portal/remote"
	"parent-portal/repositories"
	"parent-portal/services"
)

// harness drives the portal through its public gateway only, the way an
// external client would.
type harness struct {
	t          *testing.T
	cfg        Config
	gatewayURL string
}

// newHarness boots the full portal in-process on ephemeral ports, unless
// E2E_GATEWAY_ADDR points at an external deployment.
func newHarness(t *testing.T) *harness {
	t.Helper()
	req := require.New(t)

	cfg, err := LoadConfig()
	req.NoError(err)

	h := &harness{t: t, cfg: cfg}
	if cfg.GatewayAddr != "" {
		h.gatewayURL = "http://" + cfg.GatewayAddr
		return h
	}

	log := slog.Default()
	reg := registry.NewRegistry()
	client := remote.NewClient(reg, log)
	eventBus := bus.New(log, 64)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	newsIndex, err := repositories.NewInMemoryNewsIndex()
	req.NoError(err)
	t.Cleanup(func() { _ = newsIndex.Close() })

	userRepo, err := repositories.NewUserRepository(db)
	req.NoError(err)
	t.Cleanup(func() { _ = userRepo.Close() })
	studentRepo, err := repositories.NewStudentRepository(db)
	req.NoError(err)
	t.Cleanup(func() { _ = studentRepo.Close() })
	paymentRepo, err := repositories.NewPaymentRepository(db)
	req.NoError(err)
	t.Cleanup(func() { _ = paymentRepo.Close() })

	moderator, err := moderation.NewModerator(nil, '*')
	req.NoError(err)

	tokens := auth.NewTokenIssuer("e2e-secret", time.Hour)
	userSvc := services.NewUserService(userRepo, tokens, log)
	studentSvc := services.NewStudentService(studentRepo, client, log)
	paymentSvc := services.NewPaymentService(paymentRepo, client, eventBus, log)
	chatSvc := services.NewChatService(repositories.NewChatRepository(db), client, moderator, eventBus, log)
	newsSvc := services.NewNewsService(repositories.NewNewsRepository(db), newsIndex, client, eventBus, log)
	notificationSvc := services.NewNotificationService(repositories.NewNotificationRepository(db), client, log)
	adminSvc := services.NewAdminService(client, log)

	services.NewPaymentEventsConsumer(notificationSvc, log).Register(eventBus)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = eventBus.Run(ctx) }()

	serve := func(name string, handler http.Handler) {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		reg.Register(name, registry.Instance{Addr: strings.TrimPrefix(srv.URL, "http://")})
	}
	serve(remote.ServiceUsers, httpapi.UsersRouter(userSvc, log))
	serve(remote.ServiceStudents, httpapi.StudentsRouter(studentSvc, log))
	serve(remote.ServicePayments, httpapi.PaymentsRouter(paymentSvc, log))
	serve(remote.ServiceCommunication, httpapi.CommunicationRouter(chatSvc, newsSvc, notificationSvc, log))
	serve(remote.ServiceAdmin, httpapi.AdminRouter(adminSvc, log))

	gatewaySrv := httptest.NewServer(gateway.New(reg, log))
	t.Cleanup(gatewaySrv.Close)
	h.gatewayURL = gatewaySrv.URL
	return h
}

func (h *harness) do(method, path string, body any) (int, []byte) {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, h.gatewayURL+path, reader)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)

	if h.cfg.DebugJSON {
		fmt.Printf("%s %s -> %d\n%s\n", method, path, resp.StatusCode, raw)
	}
	return resp.StatusCode, raw
}

func (h *harness) registerUser(username string, role domain.Role) domain.User {
	h.t.Helper()
	status, raw := h.do(http.MethodPost, "/api/users/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Str0ng&LongPassword!",
		"role":     string(role),
	})
	require.Equal(h.t, http.StatusCreated, status, string(raw))

	var created struct {
		User domain.User `json:"user"`
	}
	require.NoError(h.t, json.Unmarshal(raw, &created))
	return created.User
}

func (h *harness) createStudent(adminID, parentID int64) domain.Student {
	h.t.Helper()
	status, raw := h.do(http.MethodPost, fmt.Sprintf("/api/students/%d", adminID), map[string]any{
		"firstName":    "Mia",
		"lastName":     "Nguyen",
		"parentUserId": parentID,
	})
	require.Equal(h.t, http.StatusCreated, status, string(raw))

	var student domain.Student
	require.NoError(h.t, json.Unmarshal(raw, &student))
	return student
}
