package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-admin/internal/shared/auth"
	"bookstore-admin/internal/submission"
)

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(ttl, InProcessDeps(&stubAssets{}, &stubBooks{}, nil))
	store.Now = func() time.Time { return now }
	return store, &now
}

func TestStoreCreateAndGet(t *testing.T) {
	store, _ := newTestStore(time.Hour)

	sess, err := store.Create("admin-1", auth.RoleAdmin, submission.KindPaper, submission.AudienceAdmin)
	require.NoError(t, err)
	assert.Contains(t, sess.ID, "form-")
	assert.Equal(t, submission.PhaseIdle, sess.Orchestrator.State().Phase)

	got, err := store.Get(sess.ID, "admin-1")
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = store.Get(sess.ID, "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRoleGate(t *testing.T) {
	store, _ := newTestStore(time.Hour)

	_, err := store.Create("vendor-1", auth.RoleVendor, submission.KindElectronic, submission.AudienceAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = store.Create("vendor-1", auth.RoleVendor, submission.KindElectronic, submission.AudienceVendor)
	assert.NoError(t, err)

	_, err = store.Create("admin-1", auth.RoleAdmin, submission.KindPaper, submission.AudienceVendor)
	assert.NoError(t, err)

	_, err = store.Create("admin-1", auth.RoleAdmin, "audio", submission.AudienceAdmin)
	assert.ErrorIs(t, err, submission.ErrUnknownEdition)
}

func TestStoreDeleteRetires(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	sess, err := store.Create("admin-1", auth.RoleAdmin, submission.KindPaper, submission.AudienceAdmin)
	require.NoError(t, err)

	assert.ErrorIs(t, store.Delete(sess.ID, "intruder"), ErrNotFound)
	require.NoError(t, store.Delete(sess.ID, "admin-1"))
	assert.Equal(t, 0, store.Len())

	_, err = sess.Orchestrator.SubmitAsync(t.Context())
	assert.ErrorIs(t, err, submission.ErrRetired)
}

func TestStoreSweepExpiresIdleSessions(t *testing.T) {
	store, now := newTestStore(30 * time.Minute)

	stale, err := store.Create("admin-1", auth.RoleAdmin, submission.KindPaper, submission.AudienceAdmin)
	require.NoError(t, err)
	*now = now.Add(20 * time.Minute)
	fresh, err := store.Create("admin-1", auth.RoleAdmin, submission.KindPaper, submission.AudienceAdmin)
	require.NoError(t, err)

	*now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, store.Sweep())

	_, err = store.Get(stale.ID, "admin-1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(fresh.ID, "admin-1")
	assert.NoError(t, err)
	assert.ErrorIs(t, stale.Orchestrator.SetField(submission.FieldBookName, "x"), submission.ErrRetired)
}
