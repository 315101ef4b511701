package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the numeric identity class of a user. The ids are stable and
// shared with seed data; policy code must compare against these
// constants, never raw integers.
type Role int

const (
	RoleAdmin  Role = 1
	RoleCoach  Role = 2
	RoleClient Role = 3
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCoach || r == RoleClient
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleCoach:
		return "coach"
	case RoleClient:
		return "client"
	default:
		return "unknown"
	}
}

// User represents any account in the system: admin, coach or client.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // unique index
	PasswordHash string             `bson:"passwordHash" json:"-"`
	RoleID       Role               `bson:"roleId" json:"roleId"`

	// CoachID links a client to their assigned coach. Nil for admins,
	// coaches and unassigned clients.
	CoachID *primitive.ObjectID `bson:"coachId,omitempty" json:"coachId,omitempty"`

	// Coach accounts require admin approval before they may log in.
	IsApproved          bool                `bson:"isApproved" json:"isApproved"`
	ApprovalRequestedAt *time.Time          `bson:"approvalRequestedAt,omitempty" json:"approvalRequestedAt,omitempty"`
	ApprovedAt          *time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	ApprovedBy          *primitive.ObjectID `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.RoleID == RoleAdmin
}

func (u *User) IsCoach() bool {
	return u.RoleID == RoleCoach
}

func (u *User) IsClient() bool {
	return u.RoleID == RoleClient
}

// CanAuthenticate reports whether the account is allowed past the
// login gate. Only unapproved coaches are blocked.
func (u *User) CanAuthenticate() bool {
	if u.RoleID == RoleCoach {
		return u.IsApproved
	}
	return true
}

// ClientProfile stores body measurements for a client account.
// All measurements are integers (cm / kg / %).
type ClientProfile struct {
	UserID            primitive.ObjectID `bson:"_id" json:"userId"`
	Height            int                `bson:"height,omitempty" json:"height,omitempty"`
	Weight            int                `bson:"weight,omitempty" json:"weight,omitempty"`
	Neck              int                `bson:"neck,omitempty" json:"neck,omitempty"`
	Waist             int                `bson:"waist,omitempty" json:"waist,omitempty"`
	Hip               int                `bson:"hip,omitempty" json:"hip,omitempty"`
	BodyfatPercentage int                `bson:"bodyfatPercentage,omitempty" json:"bodyfatPercentage,omitempty"`
	BMI               int                `bson:"bmi,omitempty" json:"bmi,omitempty"`
	Goals             string             `bson:"goals,omitempty" json:"goals,omitempty"`
	Injuries          string             `bson:"injuries,omitempty" json:"injuries,omitempty"`
	MedicalNotes      string             `bson:"medicalNotes,omitempty" json:"medicalNotes,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
