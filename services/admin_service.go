//go:generate go run go.uber.org/mock/mockgen -source=admin_service.go -destination=../mocks/mock_admin_service.go -package=mocks
package services

import (
	"context"
	"log/slog"

	"parent-portal/domain"
	"parent-portal/remote"
)

type IAdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (domain.User, error)
	PostNews(ctx context.Context, news domain.News) (domain.News, error)
}

// AdminService holds no state of its own. It fronts the other services
// for back-office screens, forwarding each call through the registry.
type AdminService struct {
	client *remote.Client
	log    *slog.Logger
}

func NewAdminService(client *remote.Client, log *slog.Logger) *AdminService {
	return &AdminService{client: client, log: log}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.client.FetchAllUsers(ctx)
}

func (s *AdminService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return s.client.FetchUser(ctx, id)
}

// PostNews forwards an announcement to the communication service, which
// owns news storage and fan-out.
func (s *AdminService) PostNews(ctx context.Context, news domain.News) (domain.News, error) {
	var created domain.News
	err := s.client.PostJSON(ctx, remote.ServiceCommunication, "/api/communication/news", news, &created)
	if err != nil {
		return domain.News{}, err
	}
	s.log.Info("news forwarded", "id", created.ID)
	return created, nil
}
