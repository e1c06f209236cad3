package model

import "time"

type ClientStatus string

const (
	ClientStatusActive    ClientStatus = "active"
	ClientStatusInactive  ClientStatus = "inactive"
	ClientStatusSuspended ClientStatus = "suspended"
)

// Client is an end-customer tracked by one operator, with a recurring
// calendar due date. Only active clients with auto reminders enabled
// participate in scheduling.
type Client struct {
	ID                   int64        `json:"id"                     gorm:"primaryKey;autoIncrement;column:id"`
	OperatorID           int64        `json:"operator_id"            gorm:"column:operator_id;not null;index"`
	Operator             *Operator    `json:"-"                      gorm:"foreignKey:OperatorID;references:ID;constraint:OnDelete:CASCADE"`
	Name                 string       `json:"name"                   gorm:"column:name;not null"`
	Phone                string       `json:"phone"                  gorm:"column:phone;not null"`
	PlanName             string       `json:"plan_name"              gorm:"column:plan_name"`
	PlanPrice            float64      `json:"plan_price"             gorm:"column:plan_price"`
	DueDate              time.Time    `json:"due_date"               gorm:"column:due_date;not null;index"`
	Status               ClientStatus `json:"status"                 gorm:"column:status;not null;index"`
	AutoRemindersEnabled bool         `json:"auto_reminders_enabled" gorm:"column:auto_reminders_enabled;not null"`
	Server               string       `json:"server"                 gorm:"column:server"`
	Notes                string       `json:"notes"                  gorm:"column:notes"`
	CreatedAt            time.Time    `json:"created_at"             gorm:"column:created_at;autoCreateTime"`
}

func (Client) TableName() string { return "clients" }

// ClientFilter controls repository list queries. Dates are civil dates;
// time components are ignored by the queries.
type ClientFilter struct {
	OperatorID        *int64
	Status            *ClientStatus
	AutoRemindersOnly bool
	DueFrom           *time.Time // inclusive
	DueTo             *time.Time // inclusive
	DueBefore         *time.Time // strict, for overdue buckets
	Limit             int
	Offset            int
}
