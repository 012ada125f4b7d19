package model

import (
	"time"

	"gorm.io/datatypes"
)

// Plan is a named, persisted snapshot of a planner session. The payload is
// the JSON StateSnapshot verbatim, so saved plans stay loadable across
// schema-free versions.
type Plan struct {
	PlanID    string         `gorm:"column:plan_id;type:text;primaryKey" json:"plan_id"`
	Name      string         `gorm:"column:name;type:text;not null" json:"name"`
	Payload   datatypes.JSON `gorm:"column:payload;not null" json:"payload"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table name explicit.
func (Plan) TableName() string {
	return "plans"
}
