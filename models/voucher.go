package models

// Voucher is one pre-loaded result-checker card. Serial and pin are
// delivered to the buyer once the card is drawn from inventory.
type Voucher struct {
	Serial      string `json:"serial" bson:"_id"`
	Pin         string `json:"pin" bson:"pin"`
	VoucherType string `json:"voucherType" bson:"voucher_type"`
	Assigned    bool   `json:"assigned" bson:"assigned"`
	AssignedTo  string `json:"assignedTo,omitempty" bson:"assigned_to,omitempty"`
	Reference   string `json:"reference,omitempty" bson:"reference,omitempty"`
}
