package model

import (
	"time"
)

// EventModel 平台业务事件记录
type EventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Namespace string    `json:"namespace" gorm:"not null;index"`
	EventType EventType `json:"event_type" gorm:"not null;index"`
	ProjectId uint64    `json:"project_id" gorm:"index"`
	Actor     string    `json:"actor"`
	Amount    string    `json:"amount"`
	LedgerAt  uint64    `json:"ledger_at"`
	Data      string    `json:"data" gorm:"type:text"`
}

// EventType 事件类型
type EventType string

const (
	EventProjectLaunched EventType = "ProjectLaunched"
	EventStatusChanged   EventType = "StatusChanged"
	EventFundingRelayed  EventType = "FundingRelayed"
	EventInvested        EventType = "Invested"
	EventInvestRejected  EventType = "InvestRejected"
	EventWithdrawn       EventType = "Withdrawn"
	EventBadgeMinted     EventType = "BadgeMinted"
)

// TableName 自定义表名
func (EventModel) TableName() string {
	return "event"
}
