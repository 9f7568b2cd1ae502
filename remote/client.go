//go:generate go run go.uber.org/mock/mockgen -source=client.go -destination=../mocks/mock_remote.go -package=mocks
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"parent-portal/domain"
	"parent-portal/errors"
	"parent-portal/registry"
)

// Logical service names as registered in the service registry. Nothing in
// this module addresses a service by host:port.
const (
	ServiceUsers         = "user-service"
	ServiceStudents      = "student-service"
	ServicePayments      = "payment-service"
	ServiceCommunication = "communication-service"
	ServiceAdmin         = "admin-service"
)

const defaultTimeout = 10 * time.Second

// UnknownUser is merged into read responses when a foreign id is nil.
// UserFallback embeds the raw id when the lookup does not resolve.
const (
	UnknownUser  = "Unknown User"
	UserFallback = "User %d"
)

// ReferenceValidator confirms that a foreign-owned id exists, and
// optionally that it carries a required role, before the caller commits a
// local write. One lookup per call, no retry, no batching.
type ReferenceValidator interface {
	FetchUser(ctx context.Context, id int64) (domain.User, error)
	FetchStudent(ctx context.Context, id int64) (domain.Student, error)
	RequireRole(ctx context.Context, id int64, role domain.Role) (domain.User, error)
	Username(ctx context.Context, id *int64) string
}

// Client issues HTTP calls to sibling services through the registry.
type Client struct {
	http     *http.Client
	resolver registry.Resolver
	log      *slog.Logger
}

func NewClient(resolver registry.Resolver, log *slog.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: defaultTimeout},
		resolver: resolver,
		log:      log,
	}
}

// FetchUser resolves a user id on the user service.
// 4xx answers become ReferenceNotFoundError; 5xx and transport failures
// become DependencyError, never a not-found.
func (c *Client) FetchUser(ctx context.Context, id int64) (domain.User, error) {
	var user domain.User
	err := c.GetJSON(ctx, ServiceUsers, fmt.Sprintf("/api/users/%d", id), id, &user)
	return user, err
}

// FetchStudent resolves a student id on the student performance service.
func (c *Client) FetchStudent(ctx context.Context, id int64) (domain.Student, error) {
	var student domain.Student
	err := c.GetJSON(ctx, ServiceStudents, fmt.Sprintf("/api/students/%d", id), id, &student)
	return student, err
}

// FetchAllUsers lists every user on the user service.
func (c *Client) FetchAllUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := c.GetJSON(ctx, ServiceUsers, "/api/users", 0, &users)
	return users, err
}

// RequireRole fetches a user and checks its role. A resolved user with
// the wrong role fails with RoleError regardless of anything else.
func (c *Client) RequireRole(ctx context.Context, id int64, role domain.Role) (domain.User, error) {
	user, err := c.FetchUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if user.Role != role {
		return domain.User{}, errors.RoleError{ID: id, Want: string(role), Got: string(user.Role)}
	}
	return user, nil
}

// Username is the degraded lookup used by read aggregation. It never
// fails: a nil id yields the unknown placeholder and any lookup failure
// yields a fallback embedding the raw id.
func (c *Client) Username(ctx context.Context, id *int64) string {
	if id == nil {
		return UnknownUser
	}
	user, err := c.FetchUser(ctx, *id)
	if err != nil {
		c.log.Debug("username lookup degraded", "id", *id, "error", err)
		return fmt.Sprintf(UserFallback, *id)
	}
	return user.Username
}

// GetJSON resolves the logical service, issues a GET and decodes a 2xx
// body into out. refID is only used to build the typed not-found error.
func (c *Client) GetJSON(ctx context.Context, service, path string, refID int64, out any) error {
	inst, err := c.resolver.Resolve(service)
	if err != nil {
		return errors.DependencyError{Service: service, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, inst.BaseURL()+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.DependencyError{Service: service, Cause: err}
	}
	defer resp.Body.Close()

	return c.decode(resp, service, refID, out)
}

// PostJSON resolves the logical service and posts a JSON body.
func (c *Client) PostJSON(ctx context.Context, service, path string, body, out any) error {
	inst, err := c.resolver.Resolve(service)
	if err != nil {
		return errors.DependencyError{Service: service, Cause: err}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, inst.BaseURL()+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.DependencyError{Service: service, Cause: err}
	}
	defer resp.Body.Close()

	return c.decodeForward(resp, service, out)
}

func (c *Client) decode(resp *http.Response, service string, refID int64, out any) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		_, _ = io.Copy(io.Discard, resp.Body)
		return errors.ReferenceNotFoundError{Service: service, ID: refID}
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return errors.DependencyError{
			Service: service,
			Cause:   fmt.Errorf("status %d", resp.StatusCode),
		}
	}
}

// decodeForward handles responses to forwarded writes. A 4xx here is
// the downstream service rejecting the request itself, not a missing
// reference, so it becomes a ForwardError carrying the original status.
func (c *Client) decodeForward(resp *http.Response, service string, out any) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		_, _ = io.Copy(io.Discard, resp.Body)
		return errors.ForwardError{Service: service, Status: resp.StatusCode}
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return errors.DependencyError{
			Service: service,
			Cause:   fmt.Errorf("status %d", resp.StatusCode),
		}
	}
}
