package entity

import "time"

// ApprovalHistoryEntry is the append-only audit trail for a purchase
// order. Rows are created on every transition and line decision and are
// never updated or deleted; ordering by CreatedAt is the audit truth.
type ApprovalHistoryEntry struct {
	ID              string      `json:"id" gorm:"primaryKey;size:36"`
	POID            string      `json:"po_id" gorm:"size:36;not null;index"`
	Action          string      `json:"action" gorm:"size:32;not null"`
	ActorID         string      `json:"actor_id" gorm:"size:36;not null"`
	Comments        string      `json:"comments" gorm:"type:text"`
	AffectedLineIDs StringArray `json:"affected_line_ids" gorm:"type:jsonb"`
	OverrideApplied bool        `json:"override_applied" gorm:"not null;default:false"`
	StockWarnings   JSONB       `json:"stock_warnings" gorm:"type:jsonb"`
	CreatedAt       time.Time   `json:"created_at" gorm:"index"`
}

func (ApprovalHistoryEntry) TableName() string {
	return "approval_history_entries"
}
