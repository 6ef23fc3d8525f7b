package models

// Callback variants are discriminated by route at the HTTP boundary and
// validated once there. Each variant is an explicit type rather than a
// loose map.

// PaymentDetails is the payment sub-record of a payment callback.
type PaymentDetails struct {
	PaymentType        string  `json:"paymentType"`
	AmountPaid         float64 `json:"amountPaid"`
	AmountAfterCharges float64 `json:"amountAfterCharges"`
	PaymentDate        string  `json:"paymentDate"`
	Description        string  `json:"description"`
	IsSuccessful       bool    `json:"isSuccessful"`
}

// OrderItem is one purchased line item inside a payment callback.
type OrderItem struct {
	ItemID    string  `json:"itemId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderInfo carries the order summary the payment provider echoes back.
type OrderInfo struct {
	CustomerMobileNumber string         `json:"customerMobileNumber"`
	CustomerEmail        string         `json:"customerEmail"`
	CustomerName         string         `json:"customerName"`
	Status               string         `json:"status"`
	OrderDate            string         `json:"orderDate"`
	Currency             string         `json:"currency"`
	Items                []OrderItem    `json:"items"`
	Payment              PaymentDetails `json:"payment"`
}

// PaymentCallback is the asynchronous payment result for a checkout.
type PaymentCallback struct {
	SessionID string            `json:"sessionId" validate:"required"`
	OrderID   string            `json:"orderId" validate:"required"`
	ExtraData map[string]string `json:"extraData"`
	OrderInfo OrderInfo         `json:"orderInfo"`
}

// SendMoneyCallback is the asynchronous result of a withdrawal payout.
type SendMoneyCallback struct {
	ClientReference string  `json:"clientReference" validate:"required"`
	Mobile          string  `json:"mobileNumber"`
	Amount          float64 `json:"amount"`
	ResponseCode    string  `json:"responseCode"`
	IsSuccessful    bool    `json:"isSuccessful"`
	Description     string  `json:"description"`
}

// ServiceCallback is the fulfillment provider's delivery confirmation.
type ServiceCallback struct {
	ClientReference string `json:"clientReference" validate:"required"`
	TransactionID   string `json:"transactionId"`
	ResponseCode    string `json:"responseCode"`
	IsDelivered     bool   `json:"isDelivered"`
	Description     string `json:"description"`
}

// Acknowledgment is POSTed back to the originating gateway once a
// payment result has been fully processed.
type Acknowledgment struct {
	SessionID     string            `json:"sessionId"`
	OrderID       string            `json:"orderId"`
	MetaData      map[string]string `json:"metaData,omitempty"`
	ServiceStatus string            `json:"serviceStatus"`
}

// CheckoutRequest instructs the payment provider to collect money from
// the subscriber before fulfillment.
type CheckoutRequest struct {
	ClientReference string  `json:"clientReference"`
	SessionID       string  `json:"sessionId"`
	Mobile          string  `json:"mobileNumber"`
	Amount          float64 `json:"amount"`
	Description     string  `json:"description"`
	CallbackURL     string  `json:"callbackUrl"`
}

// FulfillmentRequest asks the commission provider to deliver the
// purchased product. Built once, right after a successful payment.
type FulfillmentRequest struct {
	ClientReference string            `json:"clientReference"`
	Amount          float64           `json:"amount"`
	CallbackURL     string            `json:"callbackUrl"`
	ServiceType     string            `json:"serviceType"`
	Network         string            `json:"network,omitempty"`
	Destination     string            `json:"destination"`
	TvProvider      string            `json:"tvProvider,omitempty"`
	UtilityProvider string            `json:"utilityProvider,omitempty"`
	Extra           map[string]string `json:"extraData,omitempty"`
}

// StatusQuery looks up a transaction at the payment provider. At least
// one identifier must be set.
type StatusQuery struct {
	ClientReference       string `json:"clientReference,omitempty"`
	ProviderTransactionID string `json:"providerTransactionId,omitempty"`
	NetworkTransactionID  string `json:"networkTransactionId,omitempty"`
}

// StatusResult is the provider's answer to a status query.
type StatusResult struct {
	ResponseCode       string  `json:"responseCode"`
	Date               string  `json:"date"`
	Status             string  `json:"status"`
	TransactionID      string  `json:"transactionId"`
	PaymentMethod      string  `json:"paymentMethod"`
	Amount             float64 `json:"amount"`
	Charges            float64 `json:"charges"`
	AmountAfterCharges float64 `json:"amountAfterCharges"`
	IsFulfilled        bool    `json:"isFulfilled"`
}
