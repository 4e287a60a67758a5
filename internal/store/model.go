package store

import "time"

// Role is a capability granted to a user. A user holds one or both roles and
// presents exactly one of them at a time as the active role.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleProvider
}

// Status is the lifecycle state of a Transaction. The intended order is
// In Progress -> Ready for Pickup -> Completed, but the store does not
// enforce it; any status may be set by an update.
type Status string

const (
	StatusInProgress     Status = "In Progress"
	StatusReadyForPickup Status = "Ready for Pickup"
	StatusCompleted      Status = "Completed"
)

// Valid reports whether st is one of the three known statuses.
func (st Status) Valid() bool {
	return st == StatusInProgress || st == StatusReadyForPickup || st == StatusCompleted
}

// User is an identity record. Secret is retained internally and stripped
// from every view the store hands out.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Handle     string `json:"handle"`
	AvatarURL  string `json:"avatar_url"`
	Email      string `json:"email"`
	Secret     string `json:"-"`
	Roles      []Role `json:"roles"`
	ActiveRole Role   `json:"active_role"`
	Reputation int    `json:"reputation"` // score out of 100
}

// HasRole reports whether the user has been granted the given role.
func (u User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// Comment is an append-only child of a ServicePost, immutable once created.
type Comment struct {
	ID        string `json:"id"`
	Author    User   `json:"author"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Review is an append-only child of a ServicePost. Each append recomputes
// the parent's average rating.
type Review struct {
	ID        string `json:"id"`
	Author    User   `json:"author"`
	Rating    int    `json:"rating"` // 1-5
	Comment   string `json:"comment"`
	Timestamp string `json:"timestamp"`
}

// ServicePost is a provider's offering on the feed.
type ServicePost struct {
	ID          string    `json:"id"`
	Provider    User      `json:"provider"`
	ServiceName string    `json:"service_name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	Reviews     []Review  `json:"reviews"`
	Comments    []Comment `json:"comments"`
	AvgRating   float64   `json:"avg_rating"`
}

// Transaction is a unit of work (a "job") between one provider and one
// client. ReadyTimestamp is set exactly once, the instant the status first
// transitions into Ready for Pickup. Delivery fields are only meaningful
// once DeliveryRequested is true.
type Transaction struct {
	ID                    string     `json:"id"`
	ServiceName           string     `json:"service_name"`
	Provider              User       `json:"provider"`
	Client                User       `json:"client"`
	Date                  string     `json:"date"`
	Status                Status     `json:"status"`
	QRCodeID              string     `json:"qr_code_id"`
	PickupDeadlineHours   int        `json:"pickup_deadline_hours,omitempty"`
	ReadyTimestamp        *time.Time `json:"ready_timestamp,omitempty"`
	DeliveryRequested     bool       `json:"delivery_requested"`
	DeliveryAddress       string     `json:"delivery_address,omitempty"`
	DeliveryPhoneNumber   string     `json:"delivery_phone_number,omitempty"`
	EstimatedDeliveryTime string     `json:"estimated_delivery_time,omitempty"`
}

// ServiceCategory is a static discovery label.
type ServiceCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// ChatMessage is a single message in a chat thread.
type ChatMessage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	SenderID  string `json:"sender_id"`
}

// ChatThread is a conversation summary for the chat list view.
type ChatThread struct {
	ID                   string        `json:"id"`
	Participant          User          `json:"participant"`
	LastMessageText      string        `json:"last_message_text"`
	LastMessageTimestamp string        `json:"last_message_timestamp"`
	Messages             []ChatMessage `json:"messages"`
}

// StatPoint is one named data point on a dashboard chart.
type StatPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DashboardStats is the read-only provider dashboard view.
type DashboardStats struct {
	ProfileViews   int         `json:"profile_views"`
	LikesReceived  int         `json:"likes_received"`
	EngagementRate float64     `json:"engagement_rate"`
	Followers      int         `json:"followers"`
	Activity       []StatPoint `json:"activity"`
	Performance    []StatPoint `json:"performance"`
}

// ServicePostInput carries the provider-editable fields of a post.
type ServicePostInput struct {
	ServiceName string `json:"service_name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
}

// ServicePostUpdate is a partial update; only non-nil fields change.
type ServicePostUpdate struct {
	ServiceName *string `json:"service_name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// TransactionInput carries the fields needed to create a job.
type TransactionInput struct {
	ServiceName         string `json:"service_name"`
	Client              User   `json:"client"`
	Date                string `json:"date"`
	Status              Status `json:"status"`
	PickupDeadlineHours int    `json:"pickup_deadline_hours,omitempty"`
}

// TransactionUpdate is a partial update; only non-nil fields change.
// Provider, client and the QR token are immutable and cannot appear here.
type TransactionUpdate struct {
	ServiceName         *string `json:"service_name,omitempty"`
	Date                *string `json:"date,omitempty"`
	Status              *Status `json:"status,omitempty"`
	PickupDeadlineHours *int    `json:"pickup_deadline_hours,omitempty"`
}
