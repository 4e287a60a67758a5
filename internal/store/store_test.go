package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	// Zero latency scale: tests exercise semantics, not delays.
	return New(Config{LatencyScale: 0})
}

func seededProvider(t *testing.T, s *Store) User {
	t.Helper()
	u, err := s.Authenticate(context.Background(), "provider@test.com", "password")
	require.NoError(t, err)
	return *u
}

func seededClient(t *testing.T, s *Store) User {
	t.Helper()
	u, err := s.Authenticate(context.Background(), "client@test.com", "password")
	require.NoError(t, err)
	return *u
}

// ===== Auth =====

func TestAuthenticateStripsSecret(t *testing.T) {
	s := newTestStore(t)

	u, err := s.Authenticate(context.Background(), "client@test.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "client@test.com", u.Email)
	assert.Equal(t, "Jane Doe", u.Name)
	assert.Empty(t, u.Secret)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Authenticate(context.Background(), "client@test.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate(context.Background(), "ghost@test.com", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterNewUser(t *testing.T) {
	s := newTestStore(t)

	u, err := s.Register(context.Background(), "Carol White", "carol@test.com", "hunter2", RoleProvider)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "carolwhite", u.Handle)
	assert.Equal(t, []Role{RoleProvider}, u.Roles)
	assert.Equal(t, RoleProvider, u.ActiveRole)
	assert.GreaterOrEqual(t, u.Reputation, 50)
	assert.Less(t, u.Reputation, 80)
	assert.Empty(t, u.Secret)

	// The new account can log in with its clear-text secret.
	again, err := s.Authenticate(context.Background(), "carol@test.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
}

func TestRegisterDuplicateEmailDoesNotMutate(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Register(context.Background(), "Impostor", "client@test.com", "different", RoleClient)
	assert.ErrorIs(t, err, ErrConflict)

	// The original credentials still work and the new ones never took.
	_, err = s.Authenticate(context.Background(), "client@test.com", "password")
	assert.NoError(t, err)
	_, err = s.Authenticate(context.Background(), "client@test.com", "different")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Register(context.Background(), "X", "x@test.com", "pw", Role("admin"))
	assert.Error(t, err)
}

// ===== Service posts =====

func TestCreateServicePostThenList(t *testing.T) {
	s := newTestStore(t)
	provider := seededProvider(t, s)

	created, err := s.CreateServicePost(context.Background(), provider, ServicePostInput{
		ServiceName: "Test",
		Description: "desc",
		ImageURL:    "img",
		Category:    "Home Services",
	})
	require.NoError(t, err)

	posts, err := s.ListServicePosts(context.Background())
	require.NoError(t, err)

	var matches []ServicePost
	for _, p := range posts {
		if p.ServiceName == "Test" {
			matches = append(matches, p)
		}
	}
	require.Len(t, matches, 1)
	got := matches[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, provider.ID, got.Provider.ID)
	assert.Zero(t, got.AvgRating)
	assert.Empty(t, got.Reviews)
	assert.Empty(t, got.Comments)
}

func TestAppendReviewRecomputesAverage(t *testing.T) {
	s := newTestStore(t)
	provider := seededProvider(t, s)
	client := seededClient(t, s)

	p, err := s.CreateServicePost(context.Background(), provider, ServicePostInput{ServiceName: "Rated"})
	require.NoError(t, err)
	assert.Zero(t, p.AvgRating)

	steps := []struct {
		rating int
		want   float64
	}{
		{5, 5.0},
		{3, 4.0},
		{4, 4.0},
		{1, 3.25},
	}
	for _, step := range steps {
		p, err = s.AppendReview(context.Background(), p.ID, client, step.rating, "ok")
		require.NoError(t, err)
		assert.InDelta(t, step.want, p.AvgRating, 1e-9)
	}
	assert.Len(t, p.Reviews, len(steps))
}

func TestAppendReviewValidatesRating(t *testing.T) {
	s := newTestStore(t)
	client := seededClient(t, s)

	for _, rating := range []int{0, 6, -1} {
		_, err := s.AppendReview(context.Background(), "sp1", client, rating, "bad")
		assert.Error(t, err)
	}
}

func TestAppendCommentOrderAndTimestampLabel(t *testing.T) {
	s := newTestStore(t)
	client := seededClient(t, s)

	p, err := s.AppendComment(context.Background(), "sp1", client, "first")
	require.NoError(t, err)
	p, err = s.AppendComment(context.Background(), p.ID, client, "second")
	require.NoError(t, err)

	n := len(p.Comments)
	require.GreaterOrEqual(t, n, 2)
	assert.Equal(t, "first", p.Comments[n-2].Text)
	assert.Equal(t, "second", p.Comments[n-1].Text)
	assert.Equal(t, "Just now", p.Comments[n-1].Timestamp)
	assert.Empty(t, p.Comments[n-1].Author.Secret)
}

func TestUpdateServicePostPartial(t *testing.T) {
	s := newTestStore(t)

	name := "Renamed"
	p, err := s.UpdateServicePost(context.Background(), "sp1", ServicePostUpdate{ServiceName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.ServiceName)
	// Untouched fields survive the merge.
	assert.Equal(t, "Home Services", p.Category)
	assert.Len(t, p.Reviews, 1)
}

func TestUpdateServicePostNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateServicePost(context.Background(), "missing", ServicePostUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

// ===== Transactions =====

func TestCreateTransactionStampsReadyAtCreation(t *testing.T) {
	s := newTestStore(t)
	provider := seededProvider(t, s)
	client := seededClient(t, s)

	ready, err := s.CreateTransaction(context.Background(), provider, TransactionInput{
		ServiceName: "Rush Job", Client: client, Date: "2023-11-01", Status: StatusReadyForPickup,
	})
	require.NoError(t, err)
	require.NotNil(t, ready.ReadyTimestamp)
	assert.NotEmpty(t, ready.QRCodeID)
	assert.False(t, ready.DeliveryRequested)

	pending, err := s.CreateTransaction(context.Background(), provider, TransactionInput{
		ServiceName: "Slow Job", Client: client, Date: "2023-11-01", Status: StatusInProgress,
	})
	require.NoError(t, err)
	assert.Nil(t, pending.ReadyTimestamp)
	assert.NotEqual(t, ready.QRCodeID, pending.QRCodeID)
}

func TestUpdateTransactionStampsReadyOnce(t *testing.T) {
	s := newTestStore(t)

	// t2 is seeded In Progress with no ready timestamp.
	status := StatusReadyForPickup
	first, err := s.UpdateTransaction(context.Background(), "t2", TransactionUpdate{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, first.ReadyTimestamp)
	stamped := *first.ReadyTimestamp

	// A second update that keeps the status does not re-stamp.
	name := "Garden Maintenance Plus"
	second, err := s.UpdateTransaction(context.Background(), "t2", TransactionUpdate{ServiceName: &name, Status: &status})
	require.NoError(t, err)
	require.NotNil(t, second.ReadyTimestamp)
	assert.True(t, second.ReadyTimestamp.Equal(stamped))
}

func TestCompletingKeepsReadyTimestamp(t *testing.T) {
	s := newTestStore(t)

	// t1 is seeded Ready for Pickup with an existing timestamp.
	before, err := s.ListTransactions(context.Background())
	require.NoError(t, err)
	var prior *Transaction
	for i := range before {
		if before[i].ID == "t1" {
			prior = &before[i]
		}
	}
	require.NotNil(t, prior)
	require.NotNil(t, prior.ReadyTimestamp)

	status := StatusCompleted
	updated, err := s.UpdateTransaction(context.Background(), "t1", TransactionUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)
	require.NotNil(t, updated.ReadyTimestamp)
	assert.True(t, updated.ReadyTimestamp.Equal(*prior.ReadyTimestamp))
}

func TestBackwardStatusMoveIsAllowed(t *testing.T) {
	// The store keeps no ordering enforcement: a completed job may be
	// pushed back to In Progress. Documented permissiveness, not a bug.
	s := newTestStore(t)

	status := StatusInProgress
	updated, err := s.UpdateTransaction(context.Background(), "t3", TransactionUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, updated.Status)
}

func TestRequestDeliveryIgnoresStatus(t *testing.T) {
	// The store accepts delivery requests regardless of status; only the
	// UI contract restricts them to Ready for Pickup.
	s := newTestStore(t)

	updated, err := s.RequestDelivery(context.Background(), "t3", "9 Elm St", "555-0000")
	require.NoError(t, err)
	assert.True(t, updated.DeliveryRequested)
	assert.Equal(t, "9 Elm St", updated.DeliveryAddress)
	assert.Equal(t, "555-0000", updated.DeliveryPhoneNumber)
	assert.Regexp(t, `^\d-\d hours$`, updated.EstimatedDeliveryTime)
}

func TestRequestDeliveryOverwritesOnRepeat(t *testing.T) {
	// t4 is seeded with a delivery already requested.
	s := newTestStore(t)

	updated, err := s.RequestDelivery(context.Background(), "t4", "New Addr", "555-9999")
	require.NoError(t, err)
	assert.True(t, updated.DeliveryRequested)
	assert.Equal(t, "New Addr", updated.DeliveryAddress)
	assert.Equal(t, "555-9999", updated.DeliveryPhoneNumber)
}

func TestUpdateTransactionNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateTransaction(context.Background(), "missing", TransactionUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.RequestDelivery(context.Background(), "missing", "a", "p")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ===== Isolation =====

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := newTestStore(t)

	posts, err := s.ListServicePosts(context.Background())
	require.NoError(t, err)
	for i := range posts {
		posts[i].ServiceName = "scribbled"
		if len(posts[i].Reviews) > 0 {
			posts[i].Reviews[0].Rating = 1
		}
	}

	again, err := s.ListServicePosts(context.Background())
	require.NoError(t, err)
	for _, p := range again {
		assert.NotEqual(t, "scribbled", p.ServiceName)
		if p.ID == "sp1" {
			require.Len(t, p.Reviews, 1)
			assert.Equal(t, 5, p.Reviews[0].Rating)
		}
	}
}

func TestGetUserPublicView(t *testing.T) {
	s := newTestStore(t)

	u, err := s.GetUser(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", u.Name)
	assert.Empty(t, u.Secret)

	_, err = s.GetUser(context.Background(), "404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaticViews(t *testing.T) {
	s := newTestStore(t)

	cats, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 6)

	chats, err := s.ListChatThreads(context.Background())
	require.NoError(t, err)
	assert.Len(t, chats, 2)
	assert.Empty(t, chats[0].Participant.Secret)

	stats, err := s.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1254, stats.ProfileViews)
	assert.Len(t, stats.Activity, 7)
}
