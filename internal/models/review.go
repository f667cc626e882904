package models

import "time"

type Review struct {
	ID        int64     `json:"review_id"`
	UserID    int64     `json:"user_id"`
	RecordID  int64     `json:"record_id"`
	Comment   string    `json:"comment"`
	Score     int32     `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}
