// Package session holds the per-user application state: the authenticated
// user, cached copies of the store's collections, and the mutation flows
// that keep them coherent. The cache is never touched before a store call
// resolves; on success the affected entry is replaced wholesale by id, the
// server record being the new truth.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/getapp-hq/getapp/internal/store"
)

// ErrNotAuthenticated is returned by operations that require an active
// session when none exists.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session is the state container for one authenticated user (or an
// anonymous one before login). Safe for concurrent use.
type Session struct {
	store *store.Store
	ui    UIHooks

	mu           sync.RWMutex
	user         *store.User
	posts        []store.ServicePost
	transactions []store.Transaction
	loading      bool
	ready        chan struct{}
	lastToast    *Toast
}

// New builds an anonymous session over the given store. ui may be nil.
func New(st *store.Store, ui UIHooks) *Session {
	if ui == nil {
		ui = NopHooks{}
	}
	return &Session{store: st, ui: ui}
}

// ===== Auth lifecycle =====

// Login authenticates against the store. On success the session becomes
// authenticated and the initial feed/jobs fetch starts in the background;
// Loading reports true until both complete. On credential failure the
// session stays anonymous and an error toast is raised.
func (s *Session) Login(ctx context.Context, email, secret string) error {
	u, err := s.store.Authenticate(ctx, email, secret)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			s.notify(Toast{Message: "Invalid email or password.", Severity: SeverityError})
		}
		return err
	}
	s.beginSession(u)
	s.notify(Toast{Message: fmt.Sprintf("Welcome back, %s!", u.Name), Severity: SeveritySuccess})
	return nil
}

// Signup registers a new account and logs it in, with the same fetch
// behavior as Login. A duplicate email raises an error toast.
func (s *Session) Signup(ctx context.Context, name, email, secret string, role store.Role) error {
	u, err := s.store.Register(ctx, name, email, secret, role)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.notify(Toast{Message: "An account with this email already exists.", Severity: SeverityError})
		}
		return err
	}
	s.beginSession(u)
	s.notify(Toast{Message: "Account created successfully!", Severity: SeveritySuccess})
	return nil
}

// Logout clears the session and cached collections immediately. No store
// call is made.
func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.posts = nil
	s.transactions = nil
	s.loading = false
	s.ready = nil
	s.mu.Unlock()
	s.notify(Toast{Message: "You have been logged out.", Severity: SeverityInfo})
}

func (s *Session) beginSession(u *store.User) {
	s.mu.Lock()
	s.user = u
	s.loading = true
	ready := make(chan struct{})
	s.ready = ready
	s.mu.Unlock()
	go s.fetchInitial(ready)
}

// fetchInitial loads posts and transactions concurrently; loading stays set
// until both land. The session may have been logged out (or re-logged-in)
// meanwhile, in which case the results are discarded.
func (s *Session) fetchInitial(ready chan struct{}) {
	defer close(ready)

	ctx := context.Background()
	var (
		posts []store.ServicePost
		jobs  []store.Transaction
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.store.ListServicePosts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		jobs, err = s.store.ListTransactions(ctx)
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready != ready {
		return // session ended while fetching
	}
	if err == nil {
		s.posts = posts
		s.transactions = jobs
	}
	s.loading = false
}

// WaitReady blocks until the initial fetch after login/signup completes.
func (s *Session) WaitReady(ctx context.Context) error {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	if ready == nil {
		return ErrNotAuthenticated
	}
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ===== Service mutations =====

// AddService publishes a new post for the current user and prepends it to
// the cached feed.
func (s *Session) AddService(ctx context.Context, in store.ServicePostInput) (*store.ServicePost, error) {
	u, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	p, err := s.store.CreateServicePost(ctx, *u, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.posts = append([]store.ServicePost{*p}, s.posts...)
	s.mu.Unlock()
	s.ui.CloseModal()
	s.notify(Toast{Message: "Service added successfully!", Severity: SeveritySuccess})
	return p, nil
}

// UpdateService applies a partial update and replaces the cached entry.
func (s *Session) UpdateService(ctx context.Context, id string, upd store.ServicePostUpdate) (*store.ServicePost, error) {
	if _, err := s.requireUser(); err != nil {
		return nil, err
	}
	p, err := s.store.UpdateServicePost(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.replacePost(p)
	s.ui.CloseModal()
	s.notify(Toast{Message: "Service updated!", Severity: SeveritySuccess})
	return p, nil
}

// AddComment appends a comment authored by the current user and replaces
// the cached post. Comments are inline, so no modal closes and no toast is
// raised.
func (s *Session) AddComment(ctx context.Context, postID, text string) (*store.ServicePost, error) {
	u, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	p, err := s.store.AppendComment(ctx, postID, *u, text)
	if err != nil {
		return nil, err
	}
	s.replacePost(p)
	return p, nil
}

// AddReview appends a review authored by the current user, replaces the
// cached post (with its recomputed rating), closes the review modal and
// raises a toast.
func (s *Session) AddReview(ctx context.Context, postID string, rating int, comment string) (*store.ServicePost, error) {
	u, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	p, err := s.store.AppendReview(ctx, postID, *u, rating, comment)
	if err != nil {
		return nil, err
	}
	s.replacePost(p)
	s.ui.CloseModal()
	s.notify(Toast{Message: "Review submitted!", Severity: SeveritySuccess})
	return p, nil
}

// ===== Job mutations =====

// AddJob creates a transaction with the current user as provider and
// prepends it to the cached list.
func (s *Session) AddJob(ctx context.Context, in store.TransactionInput) (*store.Transaction, error) {
	u, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	t, err := s.store.CreateTransaction(ctx, *u, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.transactions = append([]store.Transaction{*t}, s.transactions...)
	s.mu.Unlock()
	s.ui.CloseModal()
	s.notify(Toast{Message: "Job created successfully!", Severity: SeveritySuccess})
	return t, nil
}

// UpdateJob applies a partial update, replaces the cached entry, and picks
// the toast from the job's new status: ready-for-pickup notifies the
// client, completed celebrates, anything else is a generic update.
func (s *Session) UpdateJob(ctx context.Context, id string, upd store.TransactionUpdate) (*store.Transaction, error) {
	if _, err := s.requireUser(); err != nil {
		return nil, err
	}
	t, err := s.store.UpdateTransaction(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.replaceTransaction(t)
	s.ui.CloseModal()
	switch t.Status {
	case store.StatusReadyForPickup:
		s.notify(Toast{Message: fmt.Sprintf("Client notified: %q is ready.", t.ServiceName), Severity: SeverityInfo})
	case store.StatusCompleted:
		s.notify(Toast{Message: fmt.Sprintf("Job %q marked as completed!", t.ServiceName), Severity: SeveritySuccess})
	default:
		s.notify(Toast{Message: "Job updated!", Severity: SeveritySuccess})
	}
	return t, nil
}

// RequestDelivery asks the store to schedule a delivery and replaces the
// cached entry.
func (s *Session) RequestDelivery(ctx context.Context, id, address, phone string) (*store.Transaction, error) {
	if _, err := s.requireUser(); err != nil {
		return nil, err
	}
	t, err := s.store.RequestDelivery(ctx, id, address, phone)
	if err != nil {
		return nil, err
	}
	s.replaceTransaction(t)
	return t, nil
}

// ===== Role switching =====

// ToggleActiveRole flips the active role between the two granted roles.
// Local-only: no store call. A no-op when the user holds a single role or
// no session exists. The active role can never leave the granted set.
func (s *Session) ToggleActiveRole() *store.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || len(s.user.Roles) < 2 {
		return s.snapshotUserLocked()
	}
	for _, r := range s.user.Roles {
		if r != s.user.ActiveRole {
			s.user.ActiveRole = r
			break
		}
	}
	return s.snapshotUserLocked()
}

// ===== Snapshots =====

// CurrentUser returns a copy of the authenticated user, or nil.
func (s *Session) CurrentUser() *store.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotUserLocked()
}

// Authenticated reports whether a user is logged in.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Loading reports whether the initial post-login fetch is still running.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// ServicePosts returns a snapshot of the cached feed.
func (s *Session) ServicePosts() []store.ServicePost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]store.ServicePost(nil), s.posts...)
}

// Transactions returns a snapshot of the cached jobs.
func (s *Session) Transactions() []store.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]store.Transaction(nil), s.transactions...)
}

// Toast returns the most recent notification, or nil.
func (s *Session) Toast() *Toast {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastToast == nil {
		return nil
	}
	t := *s.lastToast
	return &t
}

// ===== Internals =====

func (s *Session) requireUser() (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, ErrNotAuthenticated
	}
	u := *s.user
	u.Roles = append([]store.Role(nil), s.user.Roles...)
	return &u, nil
}

func (s *Session) snapshotUserLocked() *store.User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	u.Roles = append([]store.Role(nil), s.user.Roles...)
	return &u
}

func (s *Session) replacePost(p *store.ServicePost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == p.ID {
			s.posts[i] = *p
			return
		}
	}
}

func (s *Session) replaceTransaction(t *store.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == t.ID {
			s.transactions[i] = *t
			return
		}
	}
}

func (s *Session) notify(t Toast) {
	s.mu.Lock()
	s.lastToast = &t
	s.mu.Unlock()
	s.ui.Notify(t)
}
