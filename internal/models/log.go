package models

import "time"

// Log — запись журнала действий, только для добавления.
// PayloadBefore/PayloadAfter — произвольные структурные снимки "до"/"после";
// для field_edited в PayloadAfter лежат {report_id, field, old_value, new_value}.
type Log struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	ActionType    string         `json:"action_type"`
	PayloadBefore map[string]any `json:"payload_before,omitempty"`
	PayloadAfter  map[string]any `json:"payload_after,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}
