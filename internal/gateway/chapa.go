package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

const statusSuccess = "success"

type ChapaClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewChapaClient(baseURL, secretKey string, timeout time.Duration) *ChapaClient {
	return &ChapaClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
	}
}

type chapaCustomization struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type chapaInitializeRequest struct {
	Amount        string             `json:"amount"`
	Currency      string             `json:"currency"`
	Email         string             `json:"email"`
	FirstName     string             `json:"first_name"`
	LastName      string             `json:"last_name"`
	TxRef         string             `json:"tx_ref"`
	CallbackURL   string             `json:"callback_url"`
	ReturnURL     string             `json:"return_url"`
	Customization chapaCustomization `json:"customization"`
}

type chapaInitializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type chapaVerifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status string `json:"status"`
		TxRef  string `json:"tx_ref"`
	} `json:"data"`
}

func (c *ChapaClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	body, err := json.Marshal(chapaInitializeRequest{
		Amount:      domain.FormatCents(req.AmountCents),
		Currency:    req.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		TxRef:       req.TxRef,
		CallbackURL: req.CallbackURL,
		ReturnURL:   req.ReturnURL,
		Customization: chapaCustomization{
			Title:       "Travel booking",
			Description: "Payment for your booking",
		},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var out chapaInitializeResponse
	if err := c.do(httpReq, &out); err != nil {
		return nil, fmt.Errorf("chapa initialize: %w", err)
	}
	if out.Data.CheckoutURL == "" {
		return nil, errors.New("chapa initialize: empty checkout url")
	}
	return &CheckoutSession{CheckoutURL: out.Data.CheckoutURL}, nil
}

func (c *ChapaClient) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+url.PathEscape(txRef), nil)
	if err != nil {
		return nil, err
	}

	var out chapaVerifyResponse
	if err := c.do(httpReq, &out); err != nil {
		return nil, fmt.Errorf("chapa verify: %w", err)
	}

	settled := out.Status == statusSuccess && (out.Data.Status == "" || out.Data.Status == statusSuccess)
	status := out.Data.Status
	if status == "" {
		status = out.Status
	}
	return &VerifyResult{Settled: settled, Status: status}, nil
}

func (c *ChapaClient) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var _ Gateway = (*ChapaClient)(nil)
