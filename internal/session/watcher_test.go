package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0600)
}

func TestWatcher_PicksUpExternalLoginAndLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	s, err := NewWithStore(store)
	require.NoError(t, err)

	w, err := NewWatcher(s, store)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// Another process logs in.
	other := NewFileStore(path)
	require.NoError(t, other.Save(&State{Token: "from-elsewhere", User: &User{ID: 9, Username: "night-shift"}}))

	require.Eventually(t, func() bool {
		return s.Token() == "from-elsewhere"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "night-shift", s.User().Username)

	loggedOut := make(chan struct{}, 1)
	s.OnLogout(func() { loggedOut <- struct{}{} })

	// And then logs out.
	require.NoError(t, other.Clear())

	select {
	case <-loggedOut:
	case <-time.After(2 * time.Second):
		t.Fatal("session was not cleared after file removal")
	}
	assert.False(t, s.IsAuthenticated())
	assert.GreaterOrEqual(t, w.Reloads(), 2)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "session.json"))
	s := New()
	require.NoError(t, s.Login("keep", nil))

	w, err := NewWatcher(s, store)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, writeFile(filepath.Join(dir, "usage.json"), "{}"))
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, "keep", s.Token())
	assert.Equal(t, 0, w.Reloads())
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewWatcher(New(), NewFileStore(filepath.Join(t.TempDir(), "s.json")))
	require.NoError(t, err)
	w.Stop()
}

func TestWatcher_StopAfterFailedStart(t *testing.T) {
	// A regular file where the session directory should be makes Start fail.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
	store := NewFileStore(filepath.Join(blocker, "session.json"))

	w, err := NewWatcher(New(), store)
	require.NoError(t, err)
	require.Error(t, w.Start(context.Background()))

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
}
