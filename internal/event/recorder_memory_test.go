package event

import (
	"context"
	"testing"

	"github.com/blues/launchpad/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecorderRejectsIncompleteEvents(t *testing.T) {
	r := NewMemoryRecorder()
	err := r.Record(context.Background(), &model.EventModel{Namespace: "launchpad"})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestMemoryRecorderListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRecorder()
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Record(ctx, &model.EventModel{Namespace: "pool:x", EventType: model.EventInvested, ProjectId: 1}))
	}
	require.NoError(t, r.Record(ctx, &model.EventModel{Namespace: "launchpad", EventType: model.EventProjectLaunched, ProjectId: 2}))

	events, total, err := r.List(ctx, Filter{ProjectId: 1, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, events, 2)
	assert.Equal(t, int64(3), events[0].Id)
	assert.Equal(t, int64(2), events[1].Id)

	events, total, err = r.List(ctx, Filter{EventType: model.EventProjectLaunched})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, uint64(2), events[0].ProjectId)

	events, _, err = r.List(ctx, Filter{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, events)
}
