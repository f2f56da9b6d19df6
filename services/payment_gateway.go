package services

import (
	"strings"

	"servicehub-server/models"
)

// ChargeRequest carries what the gateway needs to decide on a charge.
// Raw card data only ever travels into the gateway call; it is never
// persisted or logged by the payment engine.
type ChargeRequest struct {
	Amount     float64
	Method     models.PaymentMethod
	UpiID      string
	CardNumber string
	BankName   string
}

// ChargeResult is the gateway's decision for a single synchronous charge
type ChargeResult struct {
	Approved bool
	Message  string
}

// PaymentGateway decides whether a charge goes through. The engine only
// persists and reports the decision; declines are results, not errors.
type PaymentGateway interface {
	Charge(req ChargeRequest) ChargeResult
}

// SimulatedGateway approves everything except the sandbox decline
// triggers: card numbers ending in 0000 and UPI handles ending in @fail.
type SimulatedGateway struct{}

// NewSimulatedGateway creates the stub gateway used outside production
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) Charge(req ChargeRequest) ChargeResult {
	switch req.Method {
	case models.PaymentMethodCard:
		if strings.HasSuffix(req.CardNumber, "0000") {
			return ChargeResult{Approved: false, Message: "card declined by issuer"}
		}
	case models.PaymentMethodUPI:
		if strings.HasSuffix(req.UpiID, "@fail") {
			return ChargeResult{Approved: false, Message: "UPI collect request rejected"}
		}
	}
	return ChargeResult{Approved: true, Message: "approved"}
}
