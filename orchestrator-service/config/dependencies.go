package config

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/orderflow/reservation-system/orchestrator-service/application"
	"github.com/orderflow/reservation-system/orchestrator-service/domain"
	"github.com/orderflow/reservation-system/orchestrator-service/handlers"
	"github.com/orderflow/reservation-system/orchestrator-service/infrastructure"
	sharedconfig "github.com/orderflow/reservation-system/shared/config"
	"golang.org/x/sync/errgroup"
)

// Dependencies wires the orchestrator end to end.
type Dependencies struct {
	Gateway domain.ParticipantGateway
	Ledger  domain.OrderLedger

	SubmitOrder *application.SubmitOrder
	GetOrder    *application.GetOrder

	OrderHandlers *handlers.OrderHandlers
}

// BuildDependencies constructs the gateway, ledger, use cases, and handlers,
// and probes the participants' health endpoints.
func BuildDependencies(ctx context.Context, cfg *sharedconfig.Config) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Gateway = infrastructure.NewHTTPParticipantGateway()
	deps.Ledger = infrastructure.NewMemoryOrderLedger()

	endpoints := domain.ParticipantEndpoints{
		PaymentURL:   cfg.Participants.PaymentURL,
		InventoryURL: cfg.Participants.InventoryURL,
		DeliveryURL:  cfg.Participants.DeliveryURL,
	}

	deps.SubmitOrder = application.NewSubmitOrder(deps.Gateway, deps.Ledger, endpoints)
	deps.GetOrder = application.NewGetOrder(deps.Ledger)

	deps.OrderHandlers = handlers.NewOrderHandlers(deps.SubmitOrder, deps.GetOrder)

	probeParticipants(ctx, endpoints)

	return deps, nil
}

// probeParticipants checks the three participants' health endpoints
// concurrently at startup. Failures are logged, not fatal: participants may
// come up after the orchestrator.
func probeParticipants(ctx context.Context, endpoints domain.ParticipantEndpoints) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	client := &http.Client{}
	group, ctx := errgroup.WithContext(ctx)

	for _, baseURL := range []string{endpoints.PaymentURL, endpoints.InventoryURL, endpoints.DeliveryURL} {
		baseURL := baseURL
		group.Go(func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
			if err != nil {
				return nil
			}
			resp, err := client.Do(req)
			if err != nil {
				log.Printf("participant %s not reachable yet: %v", baseURL, err)
				return nil
			}
			resp.Body.Close()
			return nil
		})
	}

	group.Wait()
}
