package domain

import "time"

type Role string

const (
	RoleStudent   Role = "student"
	RoleConductor Role = "conductor"
)

// OpenBranch marks an event as open to every branch.
const OpenBranch = "Open"

type User struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        Role   `json:"role"`
	Branch      string `json:"branch"`
	Year        string `json:"year"`
	Institution string `json:"institution"`
	City        string `json:"city"`
	Contact     string `json:"contact"`
	Password    string `json:"password"`
}

type Event struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Branches    []string  `json:"branches"`
	TeamMin     int       `json:"teamMin"`
	TeamMax     int       `json:"teamMax"`
	Fee         float64   `json:"fee"`
	Prize       string    `json:"prize"`
	Reason      string    `json:"reason"`
	Contact     string    `json:"contact"`
	City        string    `json:"city"`
	Deadline    string    `json:"deadline"`
	OwnerEmail  string    `json:"ownerEmail"`
}

type Group struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Name         string    `json:"name"`
	OwnerEmail   string    `json:"ownerEmail"`
	MemberEmails []string  `json:"memberEmails"`
}

type Application struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	EventID   string    `json:"eventId"`
	GroupID   string    `json:"groupId"`
	Message   string    `json:"message"`
}

// Snapshot is the complete persisted state of one profile.
type Snapshot struct {
	Users            []User
	Events           []Event
	Groups           []Group
	Applications     []Application
	CurrentUserEmail *string
}

// EventDraft is the conductor-supplied part of an Event.
type EventDraft struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Branches    []string `json:"branches"`
	TeamMin     int      `json:"teamMin"`
	TeamMax     int      `json:"teamMax"`
	Fee         float64  `json:"fee" validate:"gte=0"`
	Prize       string   `json:"prize"`
	Reason      string   `json:"reason"`
	Contact     string   `json:"contact"`
	City        string   `json:"city"`
	Deadline    string   `json:"deadline"`
}

type GroupDraft struct {
	Name         string   `json:"name" validate:"required"`
	OwnerEmail   string   `json:"ownerEmail" validate:"required"`
	MemberEmails []string `json:"memberEmails"`
}

// Stamp carries the identity and creation time assigned to a new record.
type Stamp struct {
	ID string
	At time.Time
}
