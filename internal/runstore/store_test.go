package runstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeybbq/prmconfig/domain/simlog"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestAppendCreatesThenAppends(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	header, err := store.Header(ctx)
	require.NoError(t, err)
	assert.Empty(t, header)

	created, err := store.Append(ctx, []simlog.Column{
		{Name: "c:Calculation", Value: "run1"},
		{Name: `p:Say "hi"`, Value: "1"},
		{Name: "p:dt", Value: "0.1"},
	})
	require.NoError(t, err)
	assert.True(t, created)

	// 列可以缺省，但不能新增
	created, err = store.Append(ctx, []simlog.Column{
		{Name: "c:Calculation", Value: "run2"},
		{Name: "p:dt", Value: "0.2"},
	})
	require.NoError(t, err)
	assert.False(t, created)

	header, err = store.Header(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c:Calculation", `p:Say "hi"`, "p:dt"}, header)

	rows, err := store.Rows(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"run1", "1", "0.1"}, {"run2", "", "0.2"}}, rows)
}

func TestAppendRejectsNewColumns(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	_, err := store.Append(ctx, []simlog.Column{{Name: "c:Calculation", Value: "run1"}})
	require.NoError(t, err)

	_, err = store.Append(ctx, []simlog.Column{
		{Name: "c:Calculation", Value: "run2"},
		{Name: "p:extra", Value: "x"},
	})
	require.Error(t, err)
	assert.True(t, prmerrors.Is(err, prmerrors.KindConflict))
	assert.Contains(t, err.Error(), "p:extra")

	rows, err := store.Rows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAppendEmptyRow(t *testing.T) {
	_, err := openStore(t).Append(context.Background(), nil)
	assert.Error(t, err)
}

func TestRowsWithoutTable(t *testing.T) {
	rows, err := openStore(t).Rows(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, prmerrors.Is(err, prmerrors.KindOutputUnwritable))
}

func TestAppendCaseCollision(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	_, err := store.Append(ctx, []simlog.Column{
		{Name: "c:Calculation", Value: "run1"},
		{Name: "p:Time", Value: "1"},
		{Name: "p:time", Value: "2"},
	})
	require.Error(t, err)
	assert.True(t, prmerrors.Is(err, prmerrors.KindConflict))
	assert.Contains(t, err.Error(), `"p:Time" and "p:time"`)

	header, err := store.Header(ctx)
	require.NoError(t, err)
	assert.Empty(t, header)
}

func TestAppendMatchesColumnsIgnoringCase(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	_, err := store.Append(ctx, []simlog.Column{{Name: "c:Calculation", Value: "run1"}, {Name: "p:Time", Value: "1"}})
	require.NoError(t, err)
	created, err := store.Append(ctx, []simlog.Column{{Name: "c:Calculation", Value: "run2"}, {Name: "p:TIME", Value: "2"}})
	require.NoError(t, err)
	assert.False(t, created)

	rows, err := store.Rows(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"run1", "1"}, {"run2", "2"}}, rows)
}
