package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"

	"parent-portal/domain"
	"parent-portal/errors"
)

func Test_Create_And_Fetch_User(t *testing.T) {
	req := require.New(t)
	repo, err := NewUserRepository(openTestDB(t))
	req.NoError(err)
	defer repo.Close()

	created, err := repo.Create(domain.User{
		Username: "alice",
		Email:    "alice@example.com",
		Role:     domain.RoleParent,
	}, "hash")
	req.NoError(err)
	req.NotZero(created.ID)

	byID, err := repo.GetByID(created.ID)
	req.NoError(err)
	req.Equal("alice", byID.Username)

	byEmail, err := repo.GetByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(created.ID, byEmail.ID)
}

func Test_Create_User_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	repo, err := NewUserRepository(openTestDB(t))
	req.NoError(err)
	defer repo.Close()

	_, err = repo.Create(domain.User{Username: "alice", Email: "a@b.c", Role: domain.RoleParent}, "h")
	req.NoError(err)
	_, err = repo.Create(domain.User{Username: "clone", Email: "a@b.c", Role: domain.RoleParent}, "h")
	req.ErrorIs(err, errors.ErrAlreadyExists)
}

func Test_Credentials_Stay_Internal(t *testing.T) {
	req := require.New(t)
	repo, err := NewUserRepository(openTestDB(t))
	req.NoError(err)
	defer repo.Close()

	_, err = repo.Create(domain.User{Username: "alice", Email: "a@b.c", Role: domain.RoleParent}, "secret-hash")
	req.NoError(err)

	user, hash, err := repo.CredentialsByEmail("a@b.c")
	req.NoError(err)
	req.Equal("alice", user.Username)
	req.Equal("secret-hash", hash)
}

func Test_Update_User_Keeps_Hash_When_Empty(t *testing.T) {
	req := require.New(t)
	repo, err := NewUserRepository(openTestDB(t))
	req.NoError(err)
	defer repo.Close()

	created, err := repo.Create(domain.User{Username: "alice", Email: "a@b.c", Role: domain.RoleParent}, "old-hash")
	req.NoError(err)

	created.Username = "alice2"
	req.NoError(repo.Update(created, ""))

	_, hash, err := repo.CredentialsByEmail("a@b.c")
	req.NoError(err)
	req.Equal("old-hash", hash)

	updated, err := repo.GetByID(created.ID)
	req.NoError(err)
	req.Equal("alice2", updated.Username)
}

func Test_Delete_User_Frees_Email(t *testing.T) {
	req := require.New(t)
	repo, err := NewUserRepository(openTestDB(t))
	req.NoError(err)
	defer repo.Close()

	created, err := repo.Create(domain.User{Username: "alice", Email: "a@b.c", Role: domain.RoleParent}, "h")
	req.NoError(err)
	req.NoError(repo.Delete(created.ID))

	_, err = repo.GetByID(created.ID)
	req.ErrorIs(err, errors.ErrNotFound)

	_, err = repo.Create(domain.User{Username: "fresh", Email: "a@b.c", Role: domain.RoleAdmin}, "h")
	req.NoError(err)
}

func Test_GetAll_Users(t *testing.T) {
	req := require.New(t)
	repo, err := NewUserRepository(openTestDB(t))
	req.NoError(err)
	defer repo.Close()

	for _, name := range []string{"a", "b", "c"} {
		_, err = repo.Create(domain.User{Username: name, Email: name + "@x.y", Role: domain.RoleParent}, "h")
		req.NoError(err)
	}

	users, err := repo.GetAll()
	req.NoError(err)
	req.Len(users, 3)
}
