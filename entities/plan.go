package entities

// PlanEntry is one tracked title in a user's watch plan.
// (user_id, title) is unique; a second add of the same pair is a no-op.
type PlanEntry struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  int64  `gorm:"not null;uniqueIndex:idx_plan_user_title" json:"user_id"`
	Title   string `gorm:"not null;uniqueIndex:idx_plan_user_title" json:"title"`
	Watched bool   `gorm:"not null;default:false" json:"watched"`
}

func (PlanEntry) TableName() string { return "plan" }

// PlanItem is the (title, watched) pair returned by a plan listing.
type PlanItem struct {
	Title   string `json:"title"`
	Watched bool   `json:"watched"`
}

// GuestUserID is used when the deep link carries no usable user id.
const GuestUserID int64 = 0
