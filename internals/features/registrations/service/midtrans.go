// file: internals/features/registrations/service/midtrans.go
package service

import (
	"strings"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

/* =========================================================
   Gateway boundary — diinject ke orchestrator/reconciler
   supaya bisa dipasangi test double.
========================================================= */

type SessionItem struct {
	ID       string
	Name     string
	PriceIDR int // boleh negatif untuk baris diskon
	Qty      int
}

type SessionInput struct {
	OrderID        string
	GrossAmountIDR int
	Items          []SessionItem

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	FinishURL     string
	ExpiryMinutes int

	RegistrationCode string
}

// Status mentah dari gateway, vocabulary Midtrans.
type GatewayStatus struct {
	OrderID           string
	TransactionStatus string
	FraudStatus       string
	TransactionID     string
	PaymentType       string
	StatusCode        string
	GrossAmount       string
}

type Gateway interface {
	CreateSession(in SessionInput) (paymentURL string, token string, err error)
	QueryStatus(orderID string) (*GatewayStatus, error)
	CancelSession(orderID string) error
}

/* =========================================================
   Midtrans implementation (Snap + Core API)
========================================================= */

type MidtransGateway struct {
	snapClient snap.Client
	coreClient coreapi.Client
}

func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	g := &MidtransGateway{}
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	g.snapClient.New(serverKey, env)
	g.coreClient.New(serverKey, env)
	return g
}

func (g *MidtransGateway) CreateSession(in SessionInput) (string, string, error) {
	items := make([]midtrans.ItemDetails, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, midtrans.ItemDetails{
			ID:    it.ID,
			Name:  truncate(it.Name, 50), // Midtrans membatasi panjang nama item
			Price: int64(it.PriceIDR),
			Qty:   int32(it.Qty),
		})
	}

	names := strings.Fields(in.CustomerName)
	first := in.CustomerName
	last := ""
	if len(names) > 1 {
		first = names[0]
		last = strings.Join(names[1:], " ")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  in.OrderID,
			GrossAmt: int64(in.GrossAmountIDR),
		},
		Items: &items,
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: in.CustomerEmail,
			Phone: in.CustomerPhone,
		},
		CustomField1: truncate(in.RegistrationCode, 40),
	}

	if in.FinishURL != "" {
		req.Callbacks = &snap.Callbacks{Finish: in.FinishURL}
	}
	if in.ExpiryMinutes > 0 {
		req.Expiry = &snap.ExpiryDetails{
			StartTime: time.Now().Format("2006-01-02 15:04:05 -0700"),
			Unit:      "minutes",
			Duration:  int64(in.ExpiryMinutes),
		}
	}

	resp, err := g.snapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.RedirectURL, resp.Token, nil
}

func (g *MidtransGateway) QueryStatus(orderID string) (*GatewayStatus, error) {
	resp, err := g.coreClient.CheckTransaction(orderID)
	if err != nil {
		return nil, err
	}
	return &GatewayStatus{
		OrderID:           resp.OrderID,
		TransactionStatus: resp.TransactionStatus,
		FraudStatus:       resp.FraudStatus,
		TransactionID:     resp.TransactionID,
		PaymentType:       resp.PaymentType,
		StatusCode:        resp.StatusCode,
		GrossAmount:       resp.GrossAmount,
	}, nil
}

func (g *MidtransGateway) CancelSession(orderID string) error {
	_, err := g.coreClient.CancelTransaction(orderID)
	if err != nil {
		return err
	}
	return nil
}

/* ===================== Utils ===================== */

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
