package catalog_test

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	og "github.com/reoring/optgrammar"
	"github.com/reoring/optgrammar/catalog"
	"github.com/reoring/optgrammar/codec"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHolder_Reload(t *testing.T) {
	path := writeCatalog(t, "operations:\n  A:\n    X: [string]\n")
	h, err := catalog.NewHolder(path, nil, zerolog.Nop())
	require.NoError(t, err)
	defer h.Stop()
	require.Equal(t, []string{"A"}, h.Get().Operations())

	var calls int32
	h.OnChange(func(c *catalog.Catalog) { atomic.AddInt32(&calls, 1) })

	require.NoError(t, os.WriteFile(path, []byte("operations:\n  A: {}\n  B: {}\n"), 0o644))
	require.NoError(t, h.Reload())
	require.Equal(t, []string{"A", "B"}, h.Get().Operations())
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// a broken file keeps the previous catalog
	require.NoError(t, os.WriteFile(path, []byte("operations:\n  A:\n    X: [nope]\n"), 0o644))
	require.Error(t, h.Reload())
	require.Equal(t, []string{"A", "B"}, h.Get().Operations())
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHolder_BlobCodec(t *testing.T) {
	path := writeCatalog(t, "operations:\n  Put:\n    Body: [blob]\n")
	h, err := catalog.NewHolder(path, codec.Base64Lines(), zerolog.Nop())
	require.NoError(t, err)
	defer h.Stop()

	s, err := h.Get().Operation("Put")
	require.NoError(t, err)
	ps, err := s.RequestParams(og.NewMap("body", "hi"))
	require.NoError(t, err)
	require.Equal(t, og.Params{{Key: "Body", Value: "aGk=\n"}}, ps)
}

func TestHolder_InvalidInitialFile(t *testing.T) {
	_, err := catalog.NewHolder(filepath.Join(t.TempDir(), "missing.yaml"), nil, zerolog.Nop())
	require.Error(t, err)
}

func TestHolder_WatchFile(t *testing.T) {
	path := writeCatalog(t, "operations:\n  A: {}\n")
	h, err := catalog.NewHolder(path, nil, zerolog.Nop())
	require.NoError(t, err)
	defer h.Stop()

	require.NoError(t, h.WatchFile())
	require.NoError(t, os.WriteFile(path, []byte("operations:\n  A: {}\n  Watched: {}\n"), 0o644))

	require.Eventually(t, func() bool {
		return len(h.Get().Operations()) == 2
	}, 5*time.Second, 20*time.Millisecond)

	h.Stop()
	h.Stop()
}

func TestHolder_StopRacesWatchFile(t *testing.T) {
	path := writeCatalog(t, "operations:\n  A: {}\n")
	for i := 0; i < 20; i++ {
		h, err := catalog.NewHolder(path, nil, zerolog.Nop())
		require.NoError(t, err)

		var (
			wg       sync.WaitGroup
			watchErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			watchErr = h.WatchFile()
		}()
		go func() {
			defer wg.Done()
			h.Stop()
		}()
		wg.Wait()
		h.Stop()
		if watchErr != nil {
			require.ErrorIs(t, watchErr, catalog.ErrHolderStopped)
		}
	}

	h, err := catalog.NewHolder(path, nil, zerolog.Nop())
	require.NoError(t, err)
	h.Stop()
	require.ErrorIs(t, h.WatchFile(), catalog.ErrHolderStopped)
}
