package clients

import (
	// Go Internal Packages
	"context"
	"fmt"
	"time"

	// Local Packages
	errors "e-wale/errors"
	models "e-wale/models"

	// External Packages
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type Config struct {
	CheckoutURL    string
	StatusURL      string
	FulfillmentURL string
	SendMoneyURL   string
	GatewayAckURL  string
	NotifyURL      string
	APIKey         string
	Timeout        time.Duration
}

// Client talks to the external payment, fulfillment and messaging
// providers. Every call is bounded by the configured timeout; a
// provider failure surfaces as a local Internal error, never a panic.
type Client struct {
	http   *resty.Client
	conf   Config
	logger *zap.Logger
}

func New(conf Config, logger *zap.Logger) *Client {
	if conf.Timeout <= 0 {
		conf.Timeout = 30 * time.Second
	}

	http := resty.New().
		SetTimeout(conf.Timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(conf.APIKey)

	return &Client{http: http, conf: conf, logger: logger}
}

// envelope is the shared response shape of the provider APIs.
type envelope struct {
	ResponseCode string              `json:"responseCode"`
	Message      string              `json:"message"`
	Data         models.StatusResult `json:"data"`
}

// InitiateCheckout asks the payment provider to collect the amount from
// the subscriber's mobile-money wallet.
func (c *Client) InitiateCheckout(ctx context.Context, req models.CheckoutRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(c.conf.CheckoutURL)
	if err != nil {
		return errors.CollaboratorErr("checkout", err)
	}
	if resp.IsError() {
		return errors.CollaboratorErr("checkout", fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}
	return nil
}

// CheckStatus queries the provider for the current state of a
// transaction. At least one identifier must be set on the query.
func (c *Client) CheckStatus(ctx context.Context, query models.StatusQuery) (*models.StatusResult, error) {
	if query.ClientReference == "" && query.ProviderTransactionID == "" && query.NetworkTransactionID == "" {
		return nil, errors.EmptyParamErr("clientReference")
	}

	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("clientReference", query.ClientReference).
		SetQueryParam("providerTransactionId", query.ProviderTransactionID).
		SetQueryParam("networkTransactionId", query.NetworkTransactionID).
		SetResult(&env).
		Get(c.conf.StatusURL)
	if err != nil {
		return nil, errors.CollaboratorErr("status query", err)
	}
	if resp.IsError() {
		return nil, errors.CollaboratorErr("status query", fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	result := env.Data
	result.ResponseCode = env.ResponseCode
	return &result, nil
}

// Fulfill hands a commission fulfillment request to the revenue-share
// provider.
func (c *Client) Fulfill(ctx context.Context, req models.FulfillmentRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(c.conf.FulfillmentURL)
	if err != nil {
		return errors.CollaboratorErr("fulfillment", err)
	}
	if resp.IsError() {
		return errors.CollaboratorErr("fulfillment", fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}
	return nil
}

// SendMoney initiates a payout for a commission withdrawal. Returns
// true when the provider accepted the transfer (terminal result arrives
// later via the send-money callback).
func (c *Client) SendMoney(ctx context.Context, mobile string, amount float64, reference string) (bool, error) {
	body := map[string]interface{}{
		"recipientMsisdn": mobile,
		"amount":          amount,
		"clientReference": reference,
	}

	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&env).
		Post(c.conf.SendMoneyURL)
	if err != nil {
		return false, errors.CollaboratorErr("send money", err)
	}
	if resp.IsError() {
		return false, errors.CollaboratorErr("send money", fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	accepted := env.ResponseCode == models.CodeSuccess || env.ResponseCode == models.CodePending
	return accepted, nil
}

// Acknowledge posts the final service status for an order back to the
// originating USSD gateway.
func (c *Client) Acknowledge(ctx context.Context, ack models.Acknowledgment) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(ack).
		Post(c.conf.GatewayAckURL)
	if err != nil {
		return errors.CollaboratorErr("gateway acknowledgment", err)
	}
	if resp.IsError() {
		return errors.CollaboratorErr("gateway acknowledgment", fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}
	return nil
}

// NotifyDelivery sends the drawn voucher details to the buyer.
func (c *Client) NotifyDelivery(ctx context.Context, mobile, message string) error {
	body := map[string]string{"to": mobile, "content": message}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.conf.NotifyURL)
	if err != nil {
		return errors.CollaboratorErr("delivery notification", err)
	}
	if resp.IsError() {
		return errors.CollaboratorErr("delivery notification", fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}
	return nil
}
