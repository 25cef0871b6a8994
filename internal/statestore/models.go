package statestore

// SentRecord tracks the last alert time per candidate key ("network:poolId").
type SentRecord struct {
	Key        string `gorm:"primaryKey;size:191"`
	LastAlertT int64  `gorm:"column:last_alert_ts;not null"`
}

// TableName overrides the table name for SentRecord.
func (SentRecord) TableName() string {
	return "sent_alerts"
}

// SeenRecord tracks the most recent risk verdict per candidate key, used to
// annotate candidates whose risk level has improved since last seen.
type SeenRecord struct {
	Key       string `gorm:"primaryKey;size:191"`
	RiskLevel string `gorm:"size:8;not null"`
	SeenTS    int64  `gorm:"column:seen_ts;not null"`
}

// TableName overrides the table name for SeenRecord.
func (SeenRecord) TableName() string {
	return "seen_risk"
}

// QuotaRecord is a singleton row holding the daily alert counter.
type QuotaRecord struct {
	ID    uint   `gorm:"primaryKey"`
	Day   string `gorm:"size:10;not null"` // YYYY-MM-DD in the reporting timezone
	Count int    `gorm:"not null"`
}

// TableName overrides the table name for QuotaRecord.
func (QuotaRecord) TableName() string {
	return "daily_quota"
}
