package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

func seededUserStore() *fakeStore {
	return &fakeStore{
		users: []models.User{
			{ID: "1", Username: "admin", FullName: "System Administrator", Email: "admin@spms.edu", Role: models.RoleAdmin},
			{ID: "3", Username: "student", FullName: "Alice Johnson", Email: "alice@spms.edu", Role: models.RoleStudent},
			{ID: "4", Username: "student2", FullName: "Bob Smith", Email: "bob@spms.edu", Role: models.RoleStudent},
		},
	}
}

func TestUserServiceAdd(t *testing.T) {
	st := seededUserStore()
	svc := NewUserService(st, validator.New(), zap.NewNop())

	user, err := svc.Add(context.Background(), CreateUserRequest{
		Username: "teacher2",
		FullName: "Jane Doe",
		Email:    "jane@spms.edu",
		Role:     models.RoleTeacher,
	}, "1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Len(t, st.ListUsers(context.Background()), 4)

	logs := st.AuditLogs(context.Background())
	require.NotEmpty(t, logs)
	assert.Equal(t, models.AuditActionUserAdd, logs[0].Action)
	assert.Equal(t, "Added user teacher2 (TEACHER)", logs[0].Details)
	assert.Equal(t, "1", logs[0].UserID)
}

func TestUserServiceAddDuplicate(t *testing.T) {
	st := seededUserStore()
	svc := NewUserService(st, validator.New(), zap.NewNop())

	_, err := svc.Add(context.Background(), CreateUserRequest{
		Username: "student",
		FullName: "Shadow",
		Email:    "shadow@spms.edu",
		Role:     models.RoleStudent,
	}, "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateUser)
	assert.Len(t, st.ListUsers(context.Background()), 3)
}

func TestUserServiceUpdateIsolation(t *testing.T) {
	st := seededUserStore()
	svc := NewUserService(st, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "3", UpdateUserRequest{
		Username: "student",
		FullName: "Alice J. Updated",
		Email:    "alice@spms.edu",
		Role:     models.RoleStudent,
	}, "1")
	require.NoError(t, err)

	users := st.ListUsers(context.Background())
	for _, u := range users {
		switch u.ID {
		case "3":
			assert.Equal(t, "Alice J. Updated", u.FullName)
		case "4":
			assert.Equal(t, "Bob Smith", u.FullName)
		case "1":
			assert.Equal(t, "System Administrator", u.FullName)
		}
	}
}

func TestUserServiceUpdateMissing(t *testing.T) {
	svc := NewUserService(seededUserStore(), validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "999", UpdateUserRequest{
		Username: "ghost",
		FullName: "Ghost",
		Email:    "ghost@spms.edu",
		Role:     models.RoleStudent,
	}, "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUserServiceDeleteIdempotent(t *testing.T) {
	st := seededUserStore()
	svc := NewUserService(st, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "4", "1"))
	assert.Len(t, st.ListUsers(context.Background()), 2)

	// Deleting the same id again still succeeds and changes nothing.
	require.NoError(t, svc.Delete(context.Background(), "4", "1"))
	assert.Len(t, st.ListUsers(context.Background()), 2)

	logs := st.AuditLogs(context.Background())
	require.Len(t, logs, 2)
	assert.Equal(t, models.AuditActionUserDelete, logs[0].Action)
	assert.Equal(t, "Deleted user 4", logs[0].Details)
}

func TestUserServiceSearch(t *testing.T) {
	svc := NewUserService(seededUserStore(), validator.New(), zap.NewNop())

	results := svc.Search(context.Background(), "alice", "")
	require.Len(t, results, 1)
	assert.Equal(t, "3", results[0].ID)

	results = svc.Search(context.Background(), "", string(models.RoleStudent))
	assert.Len(t, results, 2)

	// "ALL" disables the role filter.
	results = svc.Search(context.Background(), "", "ALL")
	assert.Len(t, results, 3)

	results = svc.Search(context.Background(), "SMITH", string(models.RoleStudent))
	require.Len(t, results, 1)
	assert.Equal(t, "4", results[0].ID)
}
