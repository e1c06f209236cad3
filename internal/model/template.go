package model

import "time"

// MessageTemplate is a per-operator, per-category message body with
// {placeholder} variables. Resolution picks the first active template of
// a category; with none active the category is silently skipped.
type MessageTemplate struct {
	ID         int64     `json:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	OperatorID int64     `json:"operator_id" gorm:"column:operator_id;not null;index"`
	Category   Category  `json:"category"    gorm:"column:category;not null;index"`
	Content    string    `json:"content"     gorm:"column:content;not null"`
	IsActive   bool      `json:"is_active"   gorm:"column:is_active;not null"`
	CreatedAt  time.Time `json:"created_at"  gorm:"column:created_at;autoCreateTime"`
}

func (MessageTemplate) TableName() string { return "message_templates" }

// DefaultTemplateBodies are the stock bodies a fresh operator starts from.
// Authoring and activation belong to the CRUD layer; the engine only reads.
var DefaultTemplateBodies = map[Category]string{
	CategoryTwoDaysBefore: "Hello {name}, a reminder that your {plan} is due in 2 days ({due_date}). Amount: {amount}.",
	CategoryOneDayBefore:  "Hello {name}, your {plan} is due tomorrow ({due_date}). Amount: {amount}.",
	CategoryDueToday:      "Hello {name}, your {plan} is due today ({due_date}). Amount: {amount}.",
	CategoryOneDayOverdue: "Hello {name}, your {plan} payment is 1 day late (due {due_date}). Amount: {amount}.",
}
