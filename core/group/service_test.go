package group_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/group"
	inmemdb "github.com/trezcool/classroom/storage/database/inmem"
)

func newStore(t *testing.T) (*group.Store, *int) {
	t.Helper()
	validate, _ := core.NewValidator()
	store := group.NewStore(inmemdb.NewGroupRepository(inmemdb.Open()), validate)
	notified := new(int)
	store.Subscribe(func() { *notified++ })
	return store, notified
}

func TestStore_Create(t *testing.T) {
	ctx := context.Background()
	store, notified := newStore(t)

	tests := []struct {
		name    string
		ng      group.NewGroup
		want    group.Group
		wantErr bool
	}{
		{name: "blank name", ng: group.NewGroup{Name: "  "}, wantErr: true},
		{name: "bad color", ng: group.NewGroup{Name: "Math", Color: "pink"}, wantErr: true},
		{
			name: "first",
			ng:   group.NewGroup{Name: " English 101 ", Description: " reading ", Color: "#F72585"},
			want: group.Group{ID: "1", Name: "English 101", Description: "reading", Color: "#f72585"},
		},
		{
			name: "default color",
			ng:   group.NewGroup{Name: "Math"},
			want: group.Group{ID: "2", Name: "Math", Color: group.DefaultColor},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Create(ctx, tt.ng)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, 2, *notified, "only successful creates notify")

	groups, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
}

func TestStore_sequentialIDs(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	for i := 0; i < 11; i++ {
		_, err := store.Create(ctx, group.NewGroup{Name: "G"})
		require.NoError(t, err)
	}
	require.NoError(t, store.Delete(ctx, "11"))
	require.NoError(t, store.Delete(ctx, "3"))

	grp, err := store.Create(ctx, group.NewGroup{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "11", grp.ID, "max remaining id + 1")

	groups, err := store.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"1", "2", "4", "5", "6", "7", "8", "9", "10", "11"}, ids)
}

func TestStore_UpdateAndAdjust(t *testing.T) {
	ctx := context.Background()
	store, notified := newStore(t)
	grp, err := store.Create(ctx, group.NewGroup{Name: "English 101"})
	require.NoError(t, err)

	grp, err = store.AdjustStudentCount(ctx, grp.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, grp.StudentCount)

	grp, err = store.Update(ctx, grp.ID, group.UpdateGroup{Name: "English 102", Color: "#000000"})
	require.NoError(t, err)
	assert.Equal(t, group.Group{ID: "1", Name: "English 102", Color: "#000000", StudentCount: 2}, grp)

	grp, err = store.AdjustStudentCount(ctx, grp.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, grp.StudentCount, "count floors at 0")

	before, err := store.List(ctx)
	require.NoError(t, err)
	notifiedBefore := *notified
	_, err = store.Update(ctx, "9", group.UpdateGroup{Name: "X", Color: "#ffffff"})
	assert.True(t, core.IsLookup(err))
	after, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "an unknown id leaves the store unchanged")
	assert.Equal(t, notifiedBefore, *notified, "no subscriber is notified")
	_, err = store.Update(ctx, grp.ID, group.UpdateGroup{Name: ""})
	assert.Error(t, err)
	_, err = store.AdjustStudentCount(ctx, "9", 1)
	assert.True(t, core.IsLookup(err))

	assert.Equal(t, 4, *notified)
}

func TestStore_Lookup(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	for _, name := range []string{"English 101", "Math"} {
		_, err := store.Create(ctx, group.NewGroup{Name: name})
		require.NoError(t, err)
	}

	groups, err := store.Lookup(ctx)
	assert.NoError(t, err)
	assert.Empty(t, groups)

	groups, err = store.Lookup(ctx, "2", "1")
	require.NoError(t, err)
	assert.Equal(t, "Math", groups[0].Name)
	assert.Equal(t, "English 101", groups[1].Name)

	_, err = store.Lookup(ctx, "1", "9")
	require.Error(t, err)
	assert.Equal(t, `group "9" not found`, err.Error())
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, notified := newStore(t)
	grp, err := store.Create(ctx, group.NewGroup{Name: "Math"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, grp.ID))
	assert.True(t, core.IsLookup(store.Delete(ctx, grp.ID)))
	_, err = store.Get(ctx, grp.ID)
	assert.True(t, core.IsLookup(err))
	assert.Equal(t, 2, *notified)
}
