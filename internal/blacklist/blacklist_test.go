package blacklist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ippo/internal/platform"
	"ippo/internal/platform/platformtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "blacklist.json"))
	require.NoError(t, s.Load())
	assert.Zero(t, s.Len())
	assert.False(t, s.Contains("1"))
}

func TestStore_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.json")
	writeFile(t, path, `["111", "222", ""]`)

	s := NewStore(path)
	require.NoError(t, s.Load())
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("111"))
	assert.False(t, s.Contains("333"))
}

func TestStore_MalformedKeepsLastGood(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.json")
	writeFile(t, path, `["111"]`)
	s := NewStore(path)
	require.NoError(t, s.Load())

	writeFile(t, path, `["111",`)
	assert.Error(t, s.Load())
	assert.True(t, s.Contains("111"))
}

func TestStore_MalformedWithoutSnapshotFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.json")
	writeFile(t, path, `{"users": ["111"]}`)

	s := NewStore(path)
	assert.Error(t, s.Load())
	assert.False(t, s.Contains("111"))
}

func TestStore_WatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blacklist.json")
	s := NewStore(path)
	require.NoError(t, s.Load())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, `["999"]`)
	assert.Eventually(t, func() bool { return s.Contains("999") }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(path))
	assert.Eventually(t, func() bool { return s.Len() == 0 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestStore_WatchKeepsPolicyOnBadRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.json")
	writeFile(t, path, `["111"]`)
	s := NewStore(path)
	require.NoError(t, s.Load())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, `["111",`)
	time.Sleep(100 * time.Millisecond)
	assert.True(t, s.Contains("111"))

	writeFile(t, path, `["222"]`)
	assert.Eventually(t, func() bool { return s.Contains("222") && !s.Contains("111") }, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestStore_WatchMissingDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope", "blacklist.json"))
	assert.Error(t, s.Watch(context.Background()))
}

type staticPolicy map[string]bool

func (p staticPolicy) Contains(id string) bool { return p[id] }

func TestEnforcer_KicksBlacklisted(t *testing.T) {
	present := &platformtest.Presenter{Fail: map[platform.DestinationKind]error{platform.DestDirect: platform.ErrDeliveryFailed}}
	guild := &platformtest.Guild{}
	e := &Enforcer{Policy: staticPolicy{"7": true}, Present: present, Guild: guild}

	kicked, err := e.HandleMemberJoin(context.Background(), platform.MemberJoinEvent{
		GuildID: "g1", GuildName: "Ippo Gym", User: platform.User{ID: "7", Username: "spammer"},
	})
	require.NoError(t, err)
	assert.True(t, kicked)

	calls := guild.Calls("kick")
	require.Len(t, calls, 1)
	assert.Equal(t, "User is blacklisted", calls[0].Reason)
}

func TestEnforcer_KicksBlacklistedBot(t *testing.T) {
	guild := &platformtest.Guild{}
	e := &Enforcer{Policy: staticPolicy{"9": true}, Present: &platformtest.Presenter{}, Guild: guild}

	kicked, err := e.HandleMemberJoin(context.Background(), platform.MemberJoinEvent{
		GuildID: "g1", User: platform.User{ID: "9", Username: "raidbot", Bot: true},
	})
	require.NoError(t, err)
	assert.True(t, kicked)
	assert.Len(t, guild.Calls("kick"), 1)
}

func TestEnforcer_SendsNotice(t *testing.T) {
	present := &platformtest.Presenter{}
	e := &Enforcer{Policy: staticPolicy{"7": true}, Present: present, Guild: &platformtest.Guild{}}

	_, err := e.HandleMemberJoin(context.Background(), platform.MemberJoinEvent{GuildID: "g1", GuildName: "Ippo Gym", User: platform.User{ID: "7"}})
	require.NoError(t, err)

	dms := present.Of(platform.DestDirect)
	require.Len(t, dms, 1)
	assert.Equal(t, "Access Denied", dms[0].Content.Title)
	assert.Equal(t, "You are blacklisted and have been removed from **Ippo Gym**.", dms[0].Content.Description)
	assert.Equal(t, platform.ColorDenied, dms[0].Content.Color)
}

func TestEnforcer_IgnoresOthers(t *testing.T) {
	guild := &platformtest.Guild{}
	e := &Enforcer{Policy: staticPolicy{"7": true}, Present: &platformtest.Presenter{}, Guild: guild}

	kicked, err := e.HandleMemberJoin(context.Background(), platform.MemberJoinEvent{GuildID: "g1", User: platform.User{ID: "8"}})
	require.NoError(t, err)
	assert.False(t, kicked)
	assert.Empty(t, guild.Calls(""))
}

func TestEnforcer_KickFailure(t *testing.T) {
	guild := &platformtest.Guild{Errors: map[string]error{"kick": errors.New("missing permissions")}}
	e := &Enforcer{Policy: staticPolicy{"7": true}, Present: &platformtest.Presenter{}, Guild: guild}

	kicked, err := e.HandleMemberJoin(context.Background(), platform.MemberJoinEvent{GuildID: "g1", User: platform.User{ID: "7"}})
	assert.Error(t, err)
	assert.False(t, kicked)
}
