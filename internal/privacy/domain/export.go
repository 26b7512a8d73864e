package domain

import (
	"time"

	coachdomain "fitai-backend/internal/coach/domain"
	notifdomain "fitai-backend/internal/notification/domain"
	userdomain "fitai-backend/internal/user/domain"
)

// Export is everything stored about one user, returned as a JSON attachment
type Export struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	User        *userdomain.User        `json:"user"`
	PushTokens  []notifdomain.PushToken `json:"pushTokens"`
	CoachLinks  []coachdomain.Link      `json:"coachLinks"`
}

// DeletionReport counts what DeleteAccount removed
type DeletionReport struct {
	PushTokens   int  `json:"pushTokens"`
	CoachRecords int  `json:"coachRecords"`
	UserRecord   bool `json:"userRecord"`
	AuthUser     bool `json:"authUser"`
}
