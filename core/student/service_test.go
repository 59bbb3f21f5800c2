package student_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/student"
	"github.com/trezcool/classroom/tests"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	stack := testutil.NewStack(t)
	english := testutil.CreateGroup(t, stack.Groups, "English 101", "#4361ee")
	math := testutil.CreateGroup(t, stack.Groups, "Math", "#f72585")

	count := func(id string) int {
		t.Helper()
		grp, err := stack.Groups.Get(ctx, id)
		require.NoError(t, err)
		return grp.StudentCount
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := stack.Students.Create(ctx, student.NewStudent{Name: " ", Email: "nope"})
		assert.Equal(t, map[string]string{
			"name":  "this field is required",
			"email": "email must be a valid email address",
		}, core.TranslateErrors(err, stack.Translator))

		_, err = stack.Students.Create(ctx, student.NewStudent{Name: "Amani", GroupIDs: []string{"9"}})
		assert.True(t, core.IsLookup(err))
		assert.Equal(t, 0, count(english.ID))
	})

	amani, err := stack.Students.Create(ctx, student.NewStudent{Name: "Amani", Email: " AMANI@example.com ", GroupIDs: []string{english.ID}})
	require.NoError(t, err)
	assert.Equal(t, "amani@example.com", amani.Email)
	baraka := testutil.CreateStudent(t, stack.Students, "Baraka", english.ID, math.ID)
	zawadi := testutil.CreateStudent(t, stack.Students, "Zawadi")

	assert.Equal(t, 2, count(english.ID))
	assert.Equal(t, 1, count(math.ID))
	assert.Equal(t, []string{}, zawadi.GroupIDs)

	inEnglish, err := stack.Students.InGroup(ctx, english.ID)
	require.NoError(t, err)
	require.Len(t, inEnglish, 2)
	assert.Equal(t, amani.ID, inEnglish[0].ID)
	assert.Equal(t, baraka.ID, inEnglish[1].ID)

	updated, err := stack.Students.Update(ctx, baraka.ID, student.UpdateStudent{Name: "Baraka O.", Phone: " 0700 "})
	require.NoError(t, err)
	assert.Equal(t, "0700", updated.Phone)
	assert.Equal(t, baraka.GroupIDs, updated.GroupIDs)

	_, err = stack.Students.Update(ctx, "lol", student.UpdateStudent{Name: "X"})
	assert.True(t, core.IsLookup(err))

	require.NoError(t, stack.Groups.Delete(ctx, math.ID))
	require.NoError(t, stack.Students.Delete(ctx, baraka.ID), "deleted groups are skipped")
	assert.Equal(t, 1, count(english.ID))
	assert.True(t, core.IsLookup(stack.Students.Delete(ctx, baraka.ID)))

	all, err := stack.Students.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
