package models

// Inbound turn types as delivered by the USSD gateway.
const (
	TurnTypeInitiation = "initiation"
	TurnTypeResponse   = "response"
	TurnTypeTimeout    = "timeout"
	TurnTypeRelease    = "release"
)

// Outbound response types understood by the gateway.
const (
	ResponseContinue  = "response"
	ResponseRelease   = "release"
	ResponseAddToCart = "addtocart"
)

const (
	DataTypeInput   = "input"
	DataTypeDisplay = "display"
)

const (
	FieldTypeText    = "text"
	FieldTypeNumber  = "number"
	FieldTypePhone   = "phone"
	FieldTypeDecimal = "decimal"
)

// ServiceType is the product line a session is transacting on, chosen
// at the main menu.
type ServiceType string

const (
	ServiceAirtime  ServiceType = "airtime_topup"
	ServiceBundle   ServiceType = "data_bundle"
	ServicePayBills ServiceType = "pay_bills"
	ServiceUtility  ServiceType = "utility_service"
	ServiceVoucher  ServiceType = "result_checker"
	ServiceEarnings ServiceType = "earnings"
	ServiceContact  ServiceType = "contact_us"
)

// Buyer flows. Self skips the recipient-number entry step.
const (
	FlowSelf  = "self"
	FlowOther = "other"
)

// TurnRequest is one inbound exchange from the USSD gateway. Sequence
// is the turn depth, starting at 2 for the first reply after initiation.
type TurnRequest struct {
	Type      string `json:"type" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
	Sequence  int    `json:"sequence"`
	Message   string `json:"message"`
	Mobile    string `json:"mobileNumber" validate:"required"`
}

// TurnResponse is the wire reply for one turn. Built fresh per turn,
// never stored.
type TurnResponse struct {
	SessionID string `json:"sessionId"`
	Type      string `json:"type"`
	Label     string `json:"label"`
	Message   string `json:"message"`
	DataType  string `json:"dataType"`
	FieldType string `json:"fieldType"`
}

// Session holds the conversation state for one in-flight USSD session.
// It lives in the session store only; losing it on restart is accepted.
type Session struct {
	ID          string      `json:"id"`
	Mobile      string      `json:"mobile"`
	ServiceType ServiceType `json:"serviceType"`

	Network         string `json:"network,omitempty"`
	TvProvider      string `json:"tvProvider,omitempty"`
	UtilityProvider string `json:"utilityProvider,omitempty"`
	VoucherType     string `json:"voucherType,omitempty"`

	Flow          string `json:"flow,omitempty"`
	Destination   string `json:"destination,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	AccountName   string `json:"accountName,omitempty"`
	MeterNumber   string `json:"meterNumber,omitempty"`
	SelectedMeter string `json:"selectedMeter,omitempty"`
	BuyerName     string `json:"buyerName,omitempty"`
	Quantity      int    `json:"quantity,omitempty"`

	Amount      float64 `json:"amount,omitempty"`
	TotalAmount float64 `json:"totalAmount,omitempty"`

	BundleGroup    int    `json:"bundleGroup,omitempty"`
	BundlePage     int    `json:"bundlePage,omitempty"`
	SelectedOption string `json:"selectedOption,omitempty"`

	ClientReference string `json:"clientReference,omitempty"`
}
