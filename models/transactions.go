package models

import (
	// Go Internal Packages
	"time"
)

// Transaction statuses. Transitions are monotonic:
// pending -> completed | failed.
const (
	TxPending    = "pending"
	TxProcessing = "processing"
	TxCompleted  = "completed"
	TxFailed     = "failed"
)

// Withdrawal statuses.
const (
	WithdrawalPending   = "Pending"
	WithdrawalCompleted = "Completed"
	WithdrawalFailed    = "Failed"
)

// Commission entry payment statuses.
const (
	StatusPaid   = "Paid"
	StatusUnpaid = "Unpaid"
)

// Transaction is the durable record of one payment attempt, keyed by
// the client reference handed to the payment provider.
type Transaction struct {
	ClientReference    string            `json:"clientReference" bson:"_id"`
	SessionID          string            `json:"sessionId" bson:"session_id"`
	Mobile             string            `json:"mobile" bson:"mobile"`
	Status             string            `json:"status" bson:"status"`
	ServiceType        ServiceType       `json:"serviceType" bson:"service_type"`
	AmountPaid         float64           `json:"amountPaid" bson:"amount_paid"`
	AmountAfterCharges float64           `json:"amountAfterCharges" bson:"amount_after_charges"`
	PaymentMethod      string            `json:"paymentMethod" bson:"payment_method"`
	CallbackReceived   bool              `json:"callbackReceived" bson:"callback_received"`
	Extra              map[string]string `json:"extra,omitempty" bson:"extra,omitempty"`
	CreatedAt          time.Time         `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time         `json:"updatedAt" bson:"updated_at"`
}

// IsTerminal reports whether the transaction has reached a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TxCompleted || t.Status == TxFailed
}

// Withdrawal is one commission withdrawal attempt. A Failed withdrawal
// makes its amount available again.
type Withdrawal struct {
	ClientReference string    `json:"clientReference" bson:"_id"`
	Mobile          string    `json:"mobile" bson:"mobile"`
	Amount          float64   `json:"amount" bson:"amount"`
	Status          string    `json:"status" bson:"status"`
	IsFulfilled     bool      `json:"isFulfilled" bson:"is_fulfilled"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updated_at"`
}

// CommissionEntry is one earnings log line, appended for every payment
// outcome. Paid and delivered entries are the basis for user earnings.
type CommissionEntry struct {
	ClientReference string    `json:"clientReference" bson:"client_reference"`
	Mobile          string    `json:"mobile" bson:"mobile"`
	Amount          float64   `json:"amount" bson:"amount"`
	Charges         float64   `json:"charges" bson:"charges"`
	NetAmount       float64   `json:"netAmount" bson:"net_amount"`
	ResponseCode    string    `json:"responseCode" bson:"response_code"`
	Status          string    `json:"status" bson:"status"`
	IsDelivered     bool      `json:"isDelivered" bson:"is_delivered"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
}

// SessionLog tracks one conversation end to end for reporting.
const (
	SessionStarted   = "started"
	SessionCompleted = "completed"
	SessionFailed    = "failed"
)

type SessionLog struct {
	SessionID string        `json:"sessionId" bson:"_id"`
	Mobile    string        `json:"mobile" bson:"mobile"`
	Status    string        `json:"status" bson:"status"`
	Reason    string        `json:"reason,omitempty" bson:"reason,omitempty"`
	StartedAt time.Time     `json:"startedAt" bson:"started_at"`
	Duration  time.Duration `json:"duration" bson:"duration"`
}

// Earnings is the derived balance view for one mobile number.
// AvailableBalance = TotalEarnings - TotalWithdrawn - PendingWithdrawals.
type Earnings struct {
	Mobile             string  `json:"mobile"`
	TotalEarnings      float64 `json:"totalEarnings"`
	AvailableBalance   float64 `json:"availableBalance"`
	TotalWithdrawn     float64 `json:"totalWithdrawn"`
	PendingWithdrawals float64 `json:"pendingWithdrawals"`
}

// LedgerEvent is produced to the transaction-events topic on every
// ledger update.
type LedgerEvent struct {
	ClientReference string      `json:"client_reference"`
	SessionID       string      `json:"session_id"`
	ServiceType     ServiceType `json:"service_type"`
	Status          string      `json:"status"`
	Amount          float64     `json:"amount"`
	At              time.Time   `json:"at"`
}
