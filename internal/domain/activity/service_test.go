package activity_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ganot/chronicle/internal/domain/activity"
	"github.com/ganot/chronicle/internal/repository/mocks"
)

func TestLogCreate(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	repo.On("Log", mock.Anything, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Type == activity.TypeCreated &&
			e.Version == 1 &&
			e.ProjectPath == "/home/dev/widget" &&
			uuid.Validate(e.ID) == nil &&
			!e.CreatedAt.IsZero()
	})).Return(nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogCreate(context.Background(), "/home/dev/widget", "Widget"))
	repo.AssertExpectations(t)
}

func TestLogUpdate(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	repo.On("Log", mock.Anything, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Type == activity.TypeUpdated &&
			e.Version == 4 &&
			e.Summary == "wired the watcher"
	})).Return(nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogUpdate(context.Background(), "/home/dev/widget", 4, "wired the watcher"))
	repo.AssertExpectations(t)
}

func TestRecent_DefaultLimit(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	repo.On("List", mock.Anything, activity.ListOptions{Limit: 20}).Return([]activity.Entry{}, nil)

	svc := activity.NewService(repo, nil)
	_, err := svc.Recent(context.Background(), activity.ListOptions{})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecent_ExplicitOptions(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	opts := activity.ListOptions{ProjectPath: "/home/dev/widget", Limit: 5}
	repo.On("List", mock.Anything, opts).Return([]activity.Entry{
		{ProjectPath: "/home/dev/widget", Version: 3},
	}, nil)

	svc := activity.NewService(repo, nil)
	entries, err := svc.Recent(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
