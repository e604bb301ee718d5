package journal

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreAppendReadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	ts := time.Date(2026, 2, 16, 14, 57, 0, 0, time.Local)
	entry := FormatEntry(ts, FormatAuthor("山田太郎", 1001), 5, "バグ修正", "進捗メモ\n二行目")
	require.NoError(t, store.Append(42, entry))

	entries, err := store.Read(42, 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "2026-02-16 14:57", entries[0].Timestamp)
	require.Equal(t, "山田太郎（ID:1001）", entries[0].Author)
	require.Equal(t, uint64(5), entries[0].TaskID)
	require.Equal(t, "バグ修正", entries[0].TaskTitle)
	require.Equal(t, "進捗メモ\n二行目", entries[0].Body)
}

func TestStoreReadMissingFile(t *testing.T) {
	store := NewStore(t.TempDir())

	entries, err := store.Read(1, 20)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestStoreReadLimitAndOrder(t *testing.T) {
	store := NewStore(t.TempDir())
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

	for i := 1; i <= 5; i++ {
		entry := FormatEntry(ts.Add(time.Duration(i)*time.Minute), FormatAuthor("A", 1), 0, "", fmt.Sprintf("entry %d", i))
		require.NoError(t, store.Append(7, entry))
	}

	entries, err := store.Read(7, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Newest appended comes back first.
	require.Equal(t, "entry 5", entries[0].Body)
	require.Equal(t, "entry 4", entries[1].Body)
	require.Equal(t, "entry 3", entries[2].Body)

	all, err := store.Read(7, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
}

func TestStoreClear(t *testing.T) {
	store := NewStore(t.TempDir())
	ts := time.Now()

	require.NoError(t, store.Append(3, FormatEntry(ts, "A", 0, "", "note")))
	require.NoError(t, store.Clear(3))

	entries, err := store.Read(3, 20)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestStoreConcurrentAppendsKeepEntriesIntact(t *testing.T) {
	store := NewStore(t.TempDir())
	ts := time.Now()

	errs := make(chan error, 20)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			entry := FormatEntry(ts, FormatAuthor("W", uint64(n+1)), 0, "", fmt.Sprintf("note %d", n))
			errs <- store.Append(9, entry)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	entries, err := store.Read(9, 0)
	require.NoError(t, err)
	require.Len(t, entries, 20)
	for _, e := range entries {
		require.NotEmpty(t, e.Body)
	}
}

func TestFormatAuthorWithoutEmployeeID(t *testing.T) {
	require.Equal(t, "system", FormatAuthor("system", 0))
}
