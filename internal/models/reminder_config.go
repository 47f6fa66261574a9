package models

// ReminderConfig is the per-user review reminder setting.
type ReminderConfig struct {
	UserID    string `json:"userId" dynamodbav:"userId"`
	PushTime  string `json:"pushTime" dynamodbav:"pushTime"` // "HH:MM"
	Timezone  string `json:"timezone" dynamodbav:"timezone"` // IANA name, e.g. "Europe/Berlin"
	Enabled   bool   `json:"enabled" dynamodbav:"enabled"`
	UpdatedAt string `json:"updatedAt" dynamodbav:"updatedAt"` // ISO timestamp
}
