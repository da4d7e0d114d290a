// Package pay talks to the acquiring gateway that processes premium
// purchases. Requests are signed with a sha256 token over the sorted
// payload values plus the terminal password, as the gateway protocol
// requires.
package pay

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	TerminalKey string
	Password    string
	BaseURL     string
	HTTPClient  *http.Client
}

// PaymentRequest opens a payment session. Field names mirror the gateway
// wire format.
type PaymentRequest struct {
	TerminalKey     string `json:"TerminalKey"`
	Amount          int64  `json:"Amount"`
	OrderID         string `json:"OrderId"`
	Description     string `json:"Description,omitempty"`
	SuccessURL      string `json:"SuccessURL,omitempty"`
	FailURL         string `json:"FailURL,omitempty"`
	NotificationURL string `json:"NotificationURL,omitempty"`
	CustomerKey     string `json:"CustomerKey,omitempty"`
}

type PaymentResponse struct {
	Success    bool   `json:"Success"`
	Status     string `json:"Status"`
	PaymentID  string `json:"PaymentId"`
	PaymentURL string `json:"PaymentURL"`
	Message    string `json:"Message,omitempty"`
	Details    string `json:"Details,omitempty"`
}

type statusRequest struct {
	TerminalKey string `json:"TerminalKey"`
	PaymentID   string `json:"PaymentId"`
}

type StatusResponse struct {
	Success   bool   `json:"Success"`
	Status    string `json:"Status"`
	PaymentID string `json:"PaymentId"`
	OrderID   string `json:"OrderId"`
	Message   string `json:"Message,omitempty"`
	Details   string `json:"Details,omitempty"`
}

func NewClient(terminalKey, password string) *Client {
	return &Client{
		TerminalKey: terminalKey,
		Password:    password,
		BaseURL:     "https://securepay.tinkoff.ru/v2",
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// CreatePayment opens a payment for one premium ticket and returns the
// checkout URL the user is sent to.
func (c *Client) CreatePayment(req PaymentRequest) (PaymentResponse, error) {
	req.TerminalKey = c.TerminalKey
	payload, err := c.sign(req)
	if err != nil {
		return PaymentResponse{}, err
	}
	var resp PaymentResponse
	if err := c.postJSON("/Init", payload, &resp); err != nil {
		return PaymentResponse{}, err
	}
	if !resp.Success {
		return resp, fmt.Errorf("create payment failed: %s %s", resp.Message, resp.Details)
	}
	return resp, nil
}

// Status polls the gateway for the current state of a payment.
func (c *Client) Status(paymentID string) (StatusResponse, error) {
	payload, err := c.sign(statusRequest{TerminalKey: c.TerminalKey, PaymentID: paymentID})
	if err != nil {
		return StatusResponse{}, err
	}
	var resp StatusResponse
	if err := c.postJSON("/GetState", payload, &resp); err != nil {
		return StatusResponse{}, err
	}
	if !resp.Success {
		return resp, fmt.Errorf("payment status failed: %s %s", resp.Message, resp.Details)
	}
	return resp, nil
}

// VerifyToken checks the signature of a gateway notification payload.
func (c *Client) VerifyToken(data map[string]any, token string) bool {
	return strings.EqualFold(signToken(c.Password, data), token)
}

func (c *Client) postJSON(path string, payload map[string]any, out any) error {
	b, _ := json.Marshal(payload)
	req, err := http.NewRequest("POST", c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return json.NewDecoder(res.Body).Decode(out)
}

// sign flattens the request into the gateway's map form and attaches the
// signature token.
func (c *Client) sign(req any) (map[string]any, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	m["Token"] = signToken(c.Password, m)
	return m, nil
}

// signToken hashes the payload values in key order with the password
// spliced in under its own key. An existing Token entry never signs itself.
func signToken(password string, m map[string]any) string {
	values := map[string]string{"Password": password}
	for k, v := range m {
		if strings.EqualFold(k, "Token") {
			continue
		}
		values[k] = tokenValue(v)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(values[k])
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func tokenValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
