package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/orderflow/reservation-system/orchestrator-service/application"
	orchestratordomain "github.com/orderflow/reservation-system/orchestrator-service/domain"
	"github.com/orderflow/reservation-system/orchestrator-service/infrastructure"
	participantapp "github.com/orderflow/reservation-system/participant-service/application"
	participantdomain "github.com/orderflow/reservation-system/participant-service/domain"
	participanthandlers "github.com/orderflow/reservation-system/participant-service/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSystem wires real participant servers and a real gateway behind the
// orchestrator router, so the full saga runs over HTTP.
type testSystem struct {
	router    *chi.Mux
	ledger    orchestratordomain.OrderLedger
	payment   *participantdomain.Store
	inventory *participantdomain.Store
	delivery  *participantdomain.Store
}

func startParticipant(t *testing.T, role participantdomain.Role) (*httptest.Server, *participantdomain.Store) {
	t.Helper()

	store, err := participantdomain.NewStore(role)
	require.NoError(t, err)

	h := participanthandlers.NewParticipantHandlers(role,
		participantapp.NewReserve(store), participantapp.NewCancel(store))
	router := chi.NewRouter()
	h.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, store
}

func newTestSystem(t *testing.T) *testSystem {
	t.Helper()

	paymentServer, paymentStore := startParticipant(t, participantdomain.RolePayment)
	inventoryServer, inventoryStore := startParticipant(t, participantdomain.RoleInventory)
	deliveryServer, deliveryStore := startParticipant(t, participantdomain.RoleDelivery)

	gateway := infrastructure.NewHTTPParticipantGateway()
	ledger := infrastructure.NewMemoryOrderLedger()
	endpoints := orchestratordomain.ParticipantEndpoints{
		PaymentURL:   paymentServer.URL,
		InventoryURL: inventoryServer.URL,
		DeliveryURL:  deliveryServer.URL,
	}

	h := NewOrderHandlers(
		application.NewSubmitOrder(gateway, ledger, endpoints),
		application.NewGetOrder(ledger),
	)
	router := chi.NewRouter()
	h.RegisterRoutes(router)

	return &testSystem{
		router:    router,
		ledger:    ledger,
		payment:   paymentStore,
		inventory: inventoryStore,
		delivery:  deliveryStore,
	}
}

func (s *testSystem) submitOrder(t *testing.T, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func validOrder() map[string]interface{} {
	return map[string]interface{}{
		"order_id": "o1",
		"amount":   10.0,
		"sku":      "sku1",
		"quantity": 2,
		"slot":     "slot1",
	}
}

func TestCreateOrderConfirmed(t *testing.T) {
	system := newTestSystem(t)

	recorder := system.submitOrder(t, validOrder())

	require.Equal(t, http.StatusOK, recorder.Code)

	var outcome orchestratordomain.OrderOutcome
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &outcome))
	assert.Equal(t, "confirmed", outcome.Status)
	assert.Equal(t, []string{"payment reserved", "inventory reserved", "delivery reserved"}, outcome.Steps)

	// All three participants hold a record for the order.
	for _, store := range []*participantdomain.Store{system.payment, system.inventory, system.delivery} {
		_, ok := store.Get("o1")
		assert.True(t, ok)
	}
}

func TestCreateOrderInventoryFailureRollsBackPayment(t *testing.T) {
	system := newTestSystem(t)

	order := validOrder()
	order["force_inventory_failure"] = true
	recorder := system.submitOrder(t, order)

	require.Equal(t, http.StatusBadGateway, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Inventory reservation failed: Stock reservation failed", body["detail"])

	// Payment was compensated; nothing downstream was ever recorded.
	_, ok := system.payment.Get("o1")
	assert.False(t, ok)
	_, ok = system.inventory.Get("o1")
	assert.False(t, ok)
	_, ok = system.delivery.Get("o1")
	assert.False(t, ok)

	_, ok = system.ledger.Get("o1")
	assert.False(t, ok)
}

func TestCreateOrderDeliveryFailureRollsBackBoth(t *testing.T) {
	system := newTestSystem(t)

	order := validOrder()
	order["force_delivery_failure"] = true
	recorder := system.submitOrder(t, order)

	require.Equal(t, http.StatusBadGateway, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Delivery reservation failed: Delivery slot unavailable", body["detail"])

	_, ok := system.payment.Get("o1")
	assert.False(t, ok)
	_, ok = system.inventory.Get("o1")
	assert.False(t, ok)
}

func TestCreateOrderPaymentFailure(t *testing.T) {
	system := newTestSystem(t)

	order := validOrder()
	order["force_payment_failure"] = true
	recorder := system.submitOrder(t, order)

	require.Equal(t, http.StatusBadGateway, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Payment reservation failed: Payment gateway rejected transaction", body["detail"])
}

func TestCreateOrderValidationFailure(t *testing.T) {
	system := newTestSystem(t)

	order := validOrder()
	order["amount"] = 0.0
	recorder := system.submitOrder(t, order)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// No saga side effects.
	_, ok := system.payment.Get("o1")
	assert.False(t, ok)
}

func TestCreateOrderInvalidBody(t *testing.T) {
	system := newTestSystem(t)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{not json"))
	recorder := httptest.NewRecorder()
	system.router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetOrderEndpoint(t *testing.T) {
	system := newTestSystem(t)

	req := httptest.NewRequest(http.MethodGet, "/orders/o1", nil)
	recorder := httptest.NewRecorder()
	system.router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Order not found", body["detail"])

	submitted := system.submitOrder(t, validOrder())
	require.Equal(t, http.StatusOK, submitted.Code)

	recorder = httptest.NewRecorder()
	system.router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/orders/o1", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	// The lookup returns exactly the outcome the submission produced.
	assert.JSONEq(t, submitted.Body.String(), recorder.Body.String())
}
