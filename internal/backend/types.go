package backend

import "time"

// Service is a bookable service exposed on the public booking page.
type Service struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Location        string  `json:"location,omitempty"`
	Price           float64 `json:"price,omitempty"`
	Description     string  `json:"description,omitempty"`
}

// Contact is the person a booking or lead belongs to.
type Contact struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Status   string `json:"status,omitempty"`
	Source   string `json:"source,omitempty"`
}

// Booking statuses used by the backend. The gateway never computes
// transitions, it only requests them and re-reads the result.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
)

// Booking is a server-owned booking record.
type Booking struct {
	ID        int        `json:"id"`
	ServiceID int        `json:"service_id"`
	ContactID int        `json:"contact_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Service   *Service   `json:"service,omitempty"`
	Contact   *Contact   `json:"contact,omitempty"`
}

// BookingRequest is the create-booking payload.
type BookingRequest struct {
	ServiceID     int    `json:"service_id"`
	StartDateTime string `json:"start_datetime"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

// PublicBooking is the token-gated read used by the cancel/reschedule pages.
type PublicBooking struct {
	ID            int       `json:"id"`
	ServiceName   string    `json:"service_name"`
	ServiceID     int       `json:"service_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	WorkspaceName string    `json:"workspace_name"`
	WorkspaceSlug string    `json:"workspace_slug"`
	CustomerName  string    `json:"customer_name"`
}

// BookingEvent is one entry of a booking's audit history.
type BookingEvent struct {
	ID        int            `json:"id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// LoginResult is the backend login response.
type LoginResult struct {
	AccessToken   string `json:"access_token"`
	TokenType     string `json:"token_type"`
	Role          string `json:"role"`
	WorkspaceSlug string `json:"workspace_slug"`
	// Permissions is a JSON-encoded map of section flags for staff users.
	Permissions string `json:"permissions"`
}

// Lead is a captured prospect shown on the leads page.
type Lead struct {
	ID        int        `json:"id"`
	FullName  string     `json:"full_name,omitempty"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Status    string     `json:"status"`
	Source    string     `json:"source,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// InventoryItem is a stock line on the inventory page.
type InventoryItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	LowStockAt  int    `json:"low_stock_at,omitempty"`
	ServiceID   int    `json:"service_id,omitempty"`
	Description string `json:"description,omitempty"`
}

// InventoryItemRequest creates or updates an inventory item.
type InventoryItemRequest struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	LowStockAt  int    `json:"low_stock_at,omitempty"`
	ServiceID   int    `json:"service_id,omitempty"`
	Description string `json:"description,omitempty"`
}

// Conversation is an inbox thread.
type Conversation struct {
	ID          int        `json:"id"`
	ContactID   int        `json:"contact_id"`
	Subject     string     `json:"subject,omitempty"`
	Channel     string     `json:"channel,omitempty"`
	Unread      bool       `json:"unread,omitempty"`
	LastMessage string     `json:"last_message,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Contact     *Contact   `json:"contact,omitempty"`
	Messages    []Message  `json:"messages,omitempty"`
}

// Message is a single message inside a conversation.
type Message struct {
	ID        int       `json:"id"`
	Direction string    `json:"direction"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageRequest sends a reply on a conversation.
type MessageRequest struct {
	ConversationID int    `json:"conversation_id"`
	Body           string `json:"body"`
}

// Form is a configurable form (intake, lead capture, etc.).
type Form struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Kind     string      `json:"kind,omitempty"`
	Fields   []FormField `json:"fields,omitempty"`
	IsActive bool        `json:"is_active,omitempty"`
}

// FormField is one question on a form.
type FormField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// FormRequest creates or updates a form.
type FormRequest struct {
	Name   string      `json:"name"`
	Kind   string      `json:"kind,omitempty"`
	Fields []FormField `json:"fields,omitempty"`
}

// StaffMember is a workspace user.
type StaffMember struct {
	ID          int             `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	IsActive    bool            `json:"is_active"`
	Role        string          `json:"role"`
	Permissions map[string]bool `json:"permissions,omitempty"`
}

// StaffInvite invites a staff member with a section permission map.
type StaffInvite struct {
	Email       string          `json:"email"`
	Permissions map[string]bool `json:"permissions"`
}

// ServiceRequest creates or updates a service.
type ServiceRequest struct {
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Location        string  `json:"location,omitempty"`
	Price           float64 `json:"price,omitempty"`
	Description     string  `json:"description,omitempty"`
}

// DashboardSummary is the read-side aggregate for the dashboard page.
type DashboardSummary struct {
	BookingsToday     int `json:"bookings_today"`
	BookingsUpcoming  int `json:"bookings_upcoming"`
	LeadsNew          int `json:"leads_new"`
	ConversationsOpen int `json:"conversations_open"`
	InventoryLow      int `json:"inventory_low"`
}

// LeadForm is the public lead-capture submission.
type LeadForm struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message,omitempty"`
}
