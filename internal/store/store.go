// Package store is the canonical in-process data layer: it owns the mock
// collections of users, service posts and transactions, simulates network
// latency on every operation, and is the only place mutations are durable
// for the lifetime of the process.
package store

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Per-operation base latencies, mirroring the mock backend this replaces.
const (
	latencyAuth         = 500 * time.Millisecond
	latencyPosts        = 500 * time.Millisecond
	latencyTransactions = 600 * time.Millisecond
	latencyCategories   = 400 * time.Millisecond
	latencyChats        = 700 * time.Millisecond
	latencyStats        = 800 * time.Millisecond
	latencyMutation     = 400 * time.Millisecond
	latencyComment      = 200 * time.Millisecond
	latencyReview       = 300 * time.Millisecond
	latencyProfile      = 300 * time.Millisecond
)

// Config controls store construction.
type Config struct {
	// LatencyScale multiplies every simulated latency. 1 reproduces the
	// mock backend's delays; 0 disables them (tests).
	LatencyScale float64
}

// Store holds the canonical collections. All exported methods are safe for
// concurrent use; callers receive copies, never aliases into the store.
type Store struct {
	mu           sync.RWMutex
	latencyScale float64

	users        map[string]*User // keyed by id
	posts        []*ServicePost   // newest first
	transactions []*Transaction   // newest first
	categories   []ServiceCategory
	chats        []ChatThread
	stats        DashboardStats
}

// New builds a store pre-populated with the seed dataset. The store is an
// explicitly owned handle; compose it into the application, never a global.
func New(cfg Config) *Store {
	s := &Store{
		latencyScale: cfg.LatencyScale,
		users:        make(map[string]*User),
	}
	s.seed()
	return s
}

// wait simulates network latency, honoring context cancellation.
func (s *Store) wait(ctx context.Context, base time.Duration) error {
	d := time.Duration(float64(base) * s.latencyScale)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ===== Auth =====

// Authenticate looks up a user whose email and secret match exactly. The
// secret is mock data and is compared in clear text. The returned view has
// the secret stripped.
func (s *Store) Authenticate(ctx context.Context, email, secret string) (*User, error) {
	if err := s.wait(ctx, latencyAuth); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email && u.Secret == secret {
			return cloneUserView(u), nil
		}
	}
	return nil, ErrInvalidCredentials
}

// Register creates a new user with the single granted role. Fails with
// ErrConflict, leaving the store untouched, if the email is taken.
func (s *Store) Register(ctx context.Context, name, email, secret string, role Role) (*User, error) {
	if err := s.wait(ctx, latencyAuth); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("register: unknown role %q", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrConflict
		}
	}

	id := uuid.New().String()
	u := &User{
		ID:         id,
		Name:       name,
		Email:      email,
		Secret:     secret,
		Handle:     strings.ToLower(strings.ReplaceAll(name, " ", "")),
		AvatarURL:  fmt.Sprintf("https://picsum.photos/seed/%s/100/100", id),
		Roles:      []Role{role},
		ActiveRole: role,
		Reputation: rand.Intn(30) + 50,
	}
	s.users[id] = u
	return cloneUserView(u), nil
}

// GetUser returns a public view of the user (secret stripped).
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	if err := s.wait(ctx, latencyProfile); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUserView(u), nil
}

// ===== Reads =====

// ListServicePosts returns all posts in a deliberately randomized order so
// callers cannot grow a dependency on it.
func (s *Store) ListServicePosts(ctx context.Context) ([]ServicePost, error) {
	if err := s.wait(ctx, latencyPosts); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ServicePost, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *clonePost(p))
	}
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

// ListTransactions returns all transactions, newest created first by
// convention (not a contractual guarantee).
func (s *Store) ListTransactions(ctx context.Context) ([]Transaction, error) {
	if err := s.wait(ctx, latencyTransactions); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		out = append(out, *cloneTransaction(t))
	}
	return out, nil
}

// ListCategories returns the static discovery categories.
func (s *Store) ListCategories(ctx context.Context) ([]ServiceCategory, error) {
	if err := s.wait(ctx, latencyCategories); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ServiceCategory, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

// ListChatThreads returns the chat list view. Threads are read-only in this
// scope; there is no mutation path.
func (s *Store) ListChatThreads(ctx context.Context) ([]ChatThread, error) {
	if err := s.wait(ctx, latencyChats); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChatThread, 0, len(s.chats))
	for _, th := range s.chats {
		cp := th
		cp.Participant = *cloneUserView(&th.Participant)
		cp.Messages = append([]ChatMessage(nil), th.Messages...)
		out = append(out, cp)
	}
	return out, nil
}

// DashboardStats returns the static dashboard view.
func (s *Store) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	if err := s.wait(ctx, latencyStats); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := s.stats
	cp.Activity = append([]StatPoint(nil), s.stats.Activity...)
	cp.Performance = append([]StatPoint(nil), s.stats.Performance...)
	return &cp, nil
}

// ===== Service posts =====

// CreateServicePost allocates a new post for the provider and prepends it
// to the collection. Comments and reviews start empty, average rating zero.
func (s *Store) CreateServicePost(ctx context.Context, provider User, in ServicePostInput) (*ServicePost, error) {
	if err := s.wait(ctx, latencyMutation); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := &ServicePost{
		ID:          uuid.New().String(),
		Provider:    *cloneUserView(&provider),
		ServiceName: in.ServiceName,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Reviews:     []Review{},
		Comments:    []Comment{},
		AvgRating:   0,
	}
	s.posts = append([]*ServicePost{p}, s.posts...)
	return clonePost(p), nil
}

// UpdateServicePost merges the supplied fields into an existing post.
// Provider, children and the derived rating are untouchable here.
func (s *Store) UpdateServicePost(ctx context.Context, id string, upd ServicePostUpdate) (*ServicePost, error) {
	if err := s.wait(ctx, latencyMutation); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findPost(id)
	if p == nil {
		return nil, ErrNotFound
	}
	if upd.ServiceName != nil {
		p.ServiceName = *upd.ServiceName
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.ImageURL != nil {
		p.ImageURL = *upd.ImageURL
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	return clonePost(p), nil
}

// AppendComment adds an immutable comment to a post.
func (s *Store) AppendComment(ctx context.Context, postID string, author User, text string) (*ServicePost, error) {
	if err := s.wait(ctx, latencyComment); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findPost(postID)
	if p == nil {
		return nil, ErrNotFound
	}
	p.Comments = append(p.Comments, Comment{
		ID:        uuid.New().String(),
		Author:    *cloneUserView(&author),
		Text:      text,
		Timestamp: "Just now",
	})
	return clonePost(p), nil
}

// AppendReview adds an immutable review to a post and recomputes the
// average rating as the unweighted mean over all reviews so far.
func (s *Store) AppendReview(ctx context.Context, postID string, author User, rating int, comment string) (*ServicePost, error) {
	if err := s.wait(ctx, latencyReview); err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("append review: rating must be between 1 and 5, got %d", rating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findPost(postID)
	if p == nil {
		return nil, ErrNotFound
	}
	p.Reviews = append(p.Reviews, Review{
		ID:        uuid.New().String(),
		Author:    *cloneUserView(&author),
		Rating:    rating,
		Comment:   comment,
		Timestamp: "Just now",
	})
	total := 0
	for _, r := range p.Reviews {
		total += r.Rating
	}
	p.AvgRating = float64(total) / float64(len(p.Reviews))
	return clonePost(p), nil
}

// ===== Transactions =====

// CreateTransaction allocates a job with a fresh opaque QR token and
// prepends it. A job created directly in Ready for Pickup gets its ready
// timestamp stamped at creation time.
func (s *Store) CreateTransaction(ctx context.Context, provider User, in TransactionInput) (*Transaction, error) {
	if err := s.wait(ctx, latencyMutation); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Transaction{
		ID:                  uuid.New().String(),
		ServiceName:         in.ServiceName,
		Provider:            *cloneUserView(&provider),
		Client:              *cloneUserView(&in.Client),
		Date:                in.Date,
		Status:              in.Status,
		QRCodeID:            newQRToken(),
		PickupDeadlineHours: in.PickupDeadlineHours,
		DeliveryRequested:   false,
	}
	if t.Status == StatusReadyForPickup {
		now := time.Now()
		t.ReadyTimestamp = &now
	}
	s.transactions = append([]*Transaction{t}, s.transactions...)
	return cloneTransaction(t), nil
}

// UpdateTransaction merges partial fields into a job. A transition into
// Ready for Pickup from any other status stamps the ready timestamp with
// the current instant; it is never re-stamped. Status ordering is not
// enforced: a job may move backward, and that permissiveness is part of
// the contract.
func (s *Store) UpdateTransaction(ctx context.Context, id string, upd TransactionUpdate) (*Transaction, error) {
	if err := s.wait(ctx, latencyMutation); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTransaction(id)
	if t == nil {
		return nil, ErrNotFound
	}
	if upd.ServiceName != nil {
		t.ServiceName = *upd.ServiceName
	}
	if upd.Date != nil {
		t.Date = *upd.Date
	}
	if upd.PickupDeadlineHours != nil {
		t.PickupDeadlineHours = *upd.PickupDeadlineHours
	}
	if upd.Status != nil {
		prev := t.Status
		t.Status = *upd.Status
		if t.Status == StatusReadyForPickup && prev != StatusReadyForPickup {
			now := time.Now()
			t.ReadyTimestamp = &now
		}
	}
	return cloneTransaction(t), nil
}

// RequestDelivery marks a job for delivery and stores the drop-off details
// with a pseudo-random delivery estimate. The store does not check the job
// status, and a re-request overwrites the previous one.
func (s *Store) RequestDelivery(ctx context.Context, id, address, phone string) (*Transaction, error) {
	if err := s.wait(ctx, latencyMutation); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTransaction(id)
	if t == nil {
		return nil, ErrNotFound
	}
	t.DeliveryRequested = true
	t.DeliveryAddress = address
	t.DeliveryPhoneNumber = phone
	t.EstimatedDeliveryTime = fmt.Sprintf("%d-%d hours", rand.Intn(2)+2, rand.Intn(3)+4)
	return cloneTransaction(t), nil
}

// ===== Internals =====

// callers must hold mu
func (s *Store) findPost(id string) *ServicePost {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// callers must hold mu
func (s *Store) findTransaction(id string) *Transaction {
	for _, t := range s.transactions {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func newQRToken() string {
	return "QR-" + uuid.New().String()
}

// cloneUserView copies a user with the secret stripped.
func cloneUserView(u *User) *User {
	cp := *u
	cp.Secret = ""
	cp.Roles = append([]Role(nil), u.Roles...)
	return &cp
}

func clonePost(p *ServicePost) *ServicePost {
	cp := *p
	cp.Provider = *cloneUserView(&p.Provider)
	cp.Reviews = append([]Review(nil), p.Reviews...)
	cp.Comments = append([]Comment(nil), p.Comments...)
	return &cp
}

func cloneTransaction(t *Transaction) *Transaction {
	cp := *t
	cp.Provider = *cloneUserView(&t.Provider)
	cp.Client = *cloneUserView(&t.Client)
	if t.ReadyTimestamp != nil {
		ts := *t.ReadyTimestamp
		cp.ReadyTimestamp = &ts
	}
	return &cp
}
