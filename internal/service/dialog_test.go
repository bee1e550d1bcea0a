package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/booruapp/tagsearch-server/internal/errors"
	"github.com/booruapp/tagsearch-server/internal/media/images"
)

func TestDialogService_OpenDecomposesTags(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	session, err := ts.dialogs.Open(ctx, "cat order:score -rating:safe status:active date:01/02/2024")
	require.NoError(t, err)

	assert.Regexp(t, `^dlg-`, session.ID)
	assert.Equal(t, "cat order:score -rating:safe status:active date:01/02/2024", session.Source)
	assert.Equal(t, 4, session.Form.OrderIndex)  // score
	assert.Equal(t, 4, session.Form.RatingIndex) // -rating:safe
	assert.Equal(t, 2, session.Form.StatusIndex) // active
	assert.Equal(t, "01/02/2024", session.Form.Date)

	got, err := ts.dialogs.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Form, got.Form)
}

func TestDialogService_GetUnknown(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	_, err := ts.dialogs.Get(ctx, "dlg-doesnotexist12345678")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = ts.dialogs.Get(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDialogService_Update(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	session, err := ts.dialogs.Open(ctx, "cat")
	require.NoError(t, err)

	updated, err := ts.dialogs.Update(ctx, session.ID, &FormUpdate{
		Tags:        ptr("dog"),
		OrderIndex:  ptr(1),
		StatusIndex: ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "dog", updated.Form.Tags)
	assert.Equal(t, 1, updated.Form.OrderIndex)
	assert.Equal(t, 0, updated.Form.RatingIndex)
	assert.Equal(t, 5, updated.Form.StatusIndex)
	assert.True(t, updated.ExpiresAt.After(session.ExpiresAt) || updated.ExpiresAt.Equal(session.ExpiresAt))

	_, err = ts.dialogs.Update(ctx, session.ID, &FormUpdate{RatingIndex: ptr(9)})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	got, err := ts.dialogs.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Form.RatingIndex, "rejected update must not be stored")
}

func TestDialogService_SelectDate(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	ts.dialogs.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }

	session, err := ts.dialogs.Open(ctx, "cat")
	require.NoError(t, err)

	tests := []struct {
		name string
		day  time.Time
		want string
	}{
		{"in range", time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC), "03/09/2023"},
		{"before range", time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC), "01/01/2000"},
		{"after range", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), "06/16/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := ts.dialogs.SelectDate(ctx, session.ID, tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, updated.Form.Date)
		})
	}
}

func TestDialogService_Calendar(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	ts.dialogs.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }

	session, err := ts.dialogs.Open(ctx, "date:02/29/2020")
	require.NoError(t, err)

	cal := ts.dialogs.Calendar(session)
	assert.Equal(t, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), cal.Selected)
	assert.Equal(t, time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), cal.Max)
}

func TestDialogService_AcceptIsOneShot(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	session, err := ts.dialogs.Open(ctx, "order:id cat status:deleted")
	require.NoError(t, err)

	result, err := ts.dialogs.Accept(ctx, session.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "cat status:deleted order:id", result.Query)
	assert.Nil(t, result.Image)

	_, err = ts.dialogs.Accept(ctx, session.ID, "")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = ts.dialogs.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDialogService_AcceptWithPrefix(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	session, err := ts.dialogs.Open(ctx, "")
	require.NoError(t, err)

	result, err := ts.dialogs.Accept(ctx, session.ID, "md5:abc")
	require.NoError(t, err)
	assert.Equal(t, "md5:abc", result.Query)
}

func TestDialogService_AcceptImage(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	data := testPNG(t)
	require.NoError(t, os.WriteFile(filepath.Join(ts.savePath, "query.png"), data, 0o644))

	t.Run("relative path resolved against save path", func(t *testing.T) {
		session, err := ts.dialogs.Open(ctx, "cat rating:safe")
		require.NoError(t, err)

		result, err := ts.dialogs.AcceptImage(ctx, session.ID, "query.png")
		require.NoError(t, err)

		hash := images.HashBytes(data)
		assert.Equal(t, "md5:"+hash+" cat rating:safe", result.Query)
		require.NotNil(t, result.Image)
		assert.Equal(t, hash, result.Image.MD5)
	})

	t.Run("missing file searches without hash", func(t *testing.T) {
		session, err := ts.dialogs.Open(ctx, "cat")
		require.NoError(t, err)

		result, err := ts.dialogs.AcceptImage(ctx, session.ID, "gone.jpg")
		require.NoError(t, err)
		assert.Equal(t, "cat", result.Query)
		assert.Nil(t, result.Image)
	})

	t.Run("nothing picked searches without hash", func(t *testing.T) {
		session, err := ts.dialogs.Open(ctx, "cat")
		require.NoError(t, err)

		result, err := ts.dialogs.AcceptImage(ctx, session.ID, "")
		require.NoError(t, err)
		assert.Equal(t, "cat", result.Query)
		assert.Nil(t, result.Image)

		_, err = ts.dialogs.Get(ctx, session.ID)
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})

	t.Run("missing file with any extension searches without hash", func(t *testing.T) {
		session, err := ts.dialogs.Open(ctx, "cat")
		require.NoError(t, err)

		result, err := ts.dialogs.AcceptImage(ctx, session.ID, "/no/such/file.bmp")
		require.NoError(t, err)
		assert.Equal(t, "cat", result.Query)
	})

	t.Run("disallowed extension keeps the session open", func(t *testing.T) {
		session, err := ts.dialogs.Open(ctx, "cat")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(ts.savePath, "notes.txt"), []byte("hi"), 0o644))

		_, err = ts.dialogs.AcceptImage(ctx, session.ID, "notes.txt")
		assert.ErrorIs(t, err, domainerrors.ErrValidation)

		_, err = ts.dialogs.Get(ctx, session.ID)
		assert.NoError(t, err)
	})
}

func TestDialogService_AcceptImageData(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	data := testPNG(t)

	session, err := ts.dialogs.Open(ctx, "cat")
	require.NoError(t, err)

	result, err := ts.dialogs.AcceptImageData(ctx, session.ID, data)
	require.NoError(t, err)
	assert.Equal(t, "md5:"+images.HashBytes(data)+" cat", result.Query)
	assert.NotEmpty(t, result.Image.BlurHash)
}

func TestDialogService_Cancel(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	session, err := ts.dialogs.Open(ctx, "cat")
	require.NoError(t, err)

	count, err := ts.dialogs.OpenCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, ts.dialogs.Cancel(ctx, session.ID))
	assert.ErrorIs(t, ts.dialogs.Cancel(ctx, session.ID), domainerrors.ErrNotFound)

	_, err = ts.dialogs.Accept(ctx, session.ID, "")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
