package models

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Purchase is one buyer's attempt to acquire one record. It is created in
// pending state when the checkout session is opened and moved to a terminal
// state only by the webhook reconciler, keyed by the processor's session id.
type Purchase struct {
	ID        int64         `json:"purchase_id"`
	UserID    int64         `json:"user_id"`
	RecordID  int64         `json:"record_id"`
	SessionID string        `json:"session_id"`
	Status    PaymentStatus `json:"status"`
}
