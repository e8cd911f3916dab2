package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"neurochat/internal/cache"
	"neurochat/internal/model"
)

func TestUserService_GetUser_ReadsThroughCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(5)).
		Return(&model.User{ID: 5, FirstName: "Grace", Email: "grace@example.com"}, nil).Once()

	svc := NewUserService(mockRepo, client)

	first, err := svc.GetUser(context.Background(), 5)
	require.NoError(t, err)
	second, err := svc.GetUser(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, "Grace", first.FirstName)
	assert.Equal(t, first.Email, second.Email)
	assert.True(t, mr.Exists("user:5"))
	mockRepo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestUserService_GetUser_WithoutCache(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(5)).
		Return(&model.User{ID: 5, FirstName: "Grace"}, nil)

	svc := NewUserService(mockRepo, nil)
	user, err := svc.GetUser(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Grace", user.FirstName)
}

func TestUserService_CountUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("Count", mock.Anything).Return(int64(12), nil)

	n, err := NewUserService(mockRepo, nil).CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}
