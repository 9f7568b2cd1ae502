package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"parent-portal/domain"
	"parent-portal/errors"
	"parent-portal/registry"
)

func newClientFor(t *testing.T, service string, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	reg := registry.NewRegistry()
	reg.Register(service, registry.Instance{Addr: strings.TrimPrefix(srv.URL, "http://")})
	return NewClient(reg, slog.Default())
}

func Test_FetchUser_OK(t *testing.T) {
	req := require.New(t)
	client := newClientFor(t, ServiceUsers, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/api/users/5", r.URL.Path)
		_ = json.NewEncoder(w).Encode(domain.User{ID: 5, Username: "alice", Role: domain.RoleParent})
	}))

	user, err := client.FetchUser(context.Background(), 5)
	req.NoError(err)
	req.Equal("alice", user.Username)
	req.Equal(domain.RoleParent, user.Role)
}

func Test_FetchUser_NotFound_Is_Typed(t *testing.T) {
	req := require.New(t)
	client := newClientFor(t, ServiceUsers, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))

	_, err := client.FetchUser(context.Background(), 999)
	req.ErrorIs(err, errors.ErrNotFound)

	var refErr errors.ReferenceNotFoundError
	req.ErrorAs(err, &refErr)
	req.Equal(int64(999), refErr.ID)
	req.Equal(ServiceUsers, refErr.Service)
}

func Test_FetchUser_ServerError_Is_Not_NotFound(t *testing.T) {
	req := require.New(t)
	client := newClientFor(t, ServiceUsers, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.FetchUser(context.Background(), 5)
	req.ErrorIs(err, errors.ErrDependencyUnavailable)
	req.NotErrorIs(err, errors.ErrNotFound)
}

func Test_FetchUser_No_Instance(t *testing.T) {
	req := require.New(t)
	client := NewClient(registry.NewRegistry(), slog.Default())

	_, err := client.FetchUser(context.Background(), 5)
	req.ErrorIs(err, errors.ErrDependencyUnavailable)
}

func Test_RequireRole_Mismatch(t *testing.T) {
	req := require.New(t)
	client := newClientFor(t, ServiceUsers, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.User{ID: 7, Username: "bob", Role: domain.RoleParent})
	}))

	_, err := client.RequireRole(context.Background(), 7, domain.RoleAdmin)
	req.ErrorIs(err, errors.ErrUnauthorized)

	var roleErr errors.RoleError
	req.ErrorAs(err, &roleErr)
	req.Equal("ADMIN", roleErr.Want)
	req.Equal("PARENT", roleErr.Got)
}

func Test_RequireRole_Match(t *testing.T) {
	req := require.New(t)
	client := newClientFor(t, ServiceUsers, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.User{ID: 7, Username: "root", Role: domain.RoleAdmin})
	}))

	user, err := client.RequireRole(context.Background(), 7, domain.RoleAdmin)
	req.NoError(err)
	req.Equal("root", user.Username)
}

func Test_PostJSON_Forwards_And_Decodes(t *testing.T) {
	req := require.New(t)
	client := newClientFor(t, ServiceCommunication, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/api/communication/news", r.URL.Path)
		var in domain.News
		req.NoError(json.NewDecoder(r.Body).Decode(&in))
		in.ID = "n-1"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	}))

	var created domain.News
	err := client.PostJSON(context.Background(), ServiceCommunication, "/api/communication/news",
		domain.News{Title: "open day"}, &created)
	req.NoError(err)
	req.Equal("n-1", created.ID)
	req.Equal("open day", created.Title)
}

func Test_PostJSON_Downstream_4xx_Keeps_Status_Class(t *testing.T) {
	req := require.New(t)

	cases := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, errors.ErrValidation},
		{http.StatusForbidden, errors.ErrUnauthorized},
		{http.StatusNotFound, errors.ErrNotFound},
		{http.StatusConflict, errors.ErrAlreadyExists},
	}
	for _, tc := range cases {
		client := newClientFor(t, ServiceCommunication, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rejected", tc.status)
		}))

		err := client.PostJSON(context.Background(), ServiceCommunication, "/api/communication/news",
			domain.News{Title: "open day"}, nil)
		req.ErrorIs(err, tc.want)

		// a rejected forward is not a reference lookup miss
		var refErr errors.ReferenceNotFoundError
		req.NotErrorAs(err, &refErr)

		var fwdErr errors.ForwardError
		req.ErrorAs(err, &fwdErr)
		req.Equal(tc.status, fwdErr.Status)
		req.Equal(ServiceCommunication, fwdErr.Service)
	}
}

func Test_Username_Degrades_Never_Fails(t *testing.T) {
	req := require.New(t)
	client := newClientFor(t, ServiceUsers, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/users/1" {
			_ = json.NewEncoder(w).Encode(domain.User{ID: 1, Username: "alice"})
			return
		}
		http.Error(w, "nope", http.StatusNotFound)
	}))

	known := int64(1)
	missing := int64(42)
	req.Equal("alice", client.Username(context.Background(), &known))
	req.Equal(fmt.Sprintf(UserFallback, missing), client.Username(context.Background(), &missing))
	req.Equal(UnknownUser, client.Username(context.Background(), nil))
}
