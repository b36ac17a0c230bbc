package hints

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenAt(filepath.Join(t.TempDir(), "chatact.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTopics(t *testing.T) {
	tests := []struct {
		message string
		want    []string
	}{
		{"tolong buat tugas kuliah besok", []string{"tugas", "pendidikan"}},
		{"Rapat tim, meeting penting!", []string{"meeting"}},
		{"buat habit baru sebagai goal tahun ini", []string{"kebiasaan", "tujuan"}},
		{"halo apa kabar", nil},
		{"notebook baru", nil},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Topics(tt.message))
		})
	}
}

func TestHints_UnknownOwnerIsEmpty(t *testing.T) {
	s := newTestStore(t)

	h, err := s.Hints(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, h.RecentTopics)
	assert.Empty(t, h.PreferredStyle)
}

func TestRecordConversation_NewTopicsFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordConversation(ctx, "u1", "ada deadline tugas"))
	require.NoError(t, s.RecordConversation(ctx, "u1", "jadwal rapat besok"))
	require.NoError(t, s.RecordConversation(ctx, "u1", "satu tugas lagi"))

	h, err := s.Hints(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tugas", "jadwal", "meeting", "deadline"}, h.RecentTopics)
}

func TestMergeTopics(t *testing.T) {
	existing := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

	merged := mergeTopics([]string{"x", "c"}, existing)
	require.Len(t, merged, MaxRecentTopics)
	assert.Equal(t, []string{"x", "c", "a", "b", "d", "e", "f", "g", "h", "i"}, merged)
	assert.NotContains(t, merged, "j", "oldest topic should fall off")

	assert.Equal(t, []string{}, mergeTopics(nil, nil))
}

func TestRecordConversation_NoTopicsKeepsHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordConversation(ctx, "u1", "catatan belajar"))
	require.NoError(t, s.RecordConversation(ctx, "u1", "terima kasih"))

	h, err := s.Hints(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"catatan", "pendidikan"}, h.RecentTopics)
}

func TestSetPreferredStyle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetPreferredStyle(ctx, "u1", "concise"))
	require.NoError(t, s.RecordConversation(ctx, "u1", "buat tugas"))

	h, err := s.Hints(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "concise", h.PreferredStyle)
	assert.Equal(t, []string{"tugas"}, h.RecentTopics)

	require.NoError(t, s.SetPreferredStyle(ctx, "u1", "detailed"))
	h, err = s.Hints(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "detailed", h.PreferredStyle)
	assert.Equal(t, []string{"tugas"}, h.RecentTopics, "style update must not touch topics")
}

func TestOwnersAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := range 3 {
		require.NoError(t, s.RecordConversation(ctx, fmt.Sprintf("u%d", i), "jadwal"))
	}
	require.NoError(t, s.RecordConversation(ctx, "u0", "tugas"))

	h, err := s.Hints(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"jadwal"}, h.RecentTopics)
}
