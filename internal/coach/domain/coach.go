package domain

import (
	"errors"
	"time"
)

var (
	ErrInviteNotFound = errors.New("invite not found")
	ErrInviteExpired  = errors.New("invite expired")
	ErrInviteUsed     = errors.New("invite already used")
	ErrSelfInvite     = errors.New("coaches cannot redeem their own invite")
	ErrCodeTaken      = errors.New("invite code already exists")
)

// Invite is a one-time code a coach hands to a student, stored at coachInvites/{code}
type Invite struct {
	Code      string    `json:"code" firestore:"code"`
	CoachID   string    `json:"coachId" firestore:"coachId"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
	UsedBy    string    `json:"usedBy,omitempty" firestore:"usedBy,omitempty"`
	UsedAt    time.Time `json:"usedAt,omitempty" firestore:"usedAt,omitempty"`
}

// CheckRedeemable reports why studentID may not redeem the invite at now, if anything
func (i *Invite) CheckRedeemable(studentID string, now time.Time) error {
	switch {
	case i.CoachID == studentID:
		return ErrSelfInvite
	case i.UsedBy != "":
		return ErrInviteUsed
	case !now.Before(i.ExpiresAt):
		return ErrInviteExpired
	}
	return nil
}

// Link connects a coach with a student, stored at coachLinks/{coachID}_{studentID}
type Link struct {
	CoachID   string    `json:"coachId" firestore:"coachId"`
	StudentID string    `json:"studentId" firestore:"studentId"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// LinkID returns the document id of the coach/student pair
func LinkID(coachID, studentID string) string {
	return coachID + "_" + studentID
}

// Member is one side of a link as shown to the other side
type Member struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	LinkedAt    time.Time `json:"linkedAt"`
}
