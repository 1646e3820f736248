package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thriveverse/backend/internal/domain"
	"github.com/thriveverse/backend/pkg/payment"
)

const testSecret = "test-gateway-secret"

func newPaymentService(store *memStore, gw payment.Gateway) *PaymentService {
	return NewPaymentService(paymentStoreAdapter{store}, ledgerAdapter{store}, gw, testSecret, testLogger())
}

func createBasicOrder(t *testing.T, svc *PaymentService, userID string) string {
	t.Helper()
	resp, err := svc.CreateOrder(context.Background(), userID, &domain.CreateOrderRequest{Plan: "basic"})
	require.NoError(t, err)
	return resp.OrderID
}

func TestCreateOrderChargesPlanAmountInSubunits(t *testing.T) {
	store := newMemStore()
	store.addUser("u1", 0)
	gw := newFakeGateway()
	svc := newPaymentService(store, gw)

	resp, err := svc.CreateOrder(context.Background(), "u1", &domain.CreateOrderRequest{Plan: "basic"})
	require.NoError(t, err)

	assert.Equal(t, int64(30000), resp.Amount, "300 INR in paise")
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "basic", resp.Plan.ID)

	order, err := gw.FetchOrder(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "u1", order.Notes["userId"])
	assert.Equal(t, "basic", order.Notes["plan"])
}

func TestCreateOrderRejectsUnknownPlan(t *testing.T) {
	store := newMemStore()
	store.addUser("u1", 0)
	svc := newPaymentService(store, newFakeGateway())

	_, err := svc.CreateOrder(context.Background(), "u1", &domain.CreateOrderRequest{Plan: "gold"})
	require.Error(t, err)

	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
}

func TestVerifyTamperedSignatureMutatesNothing(t *testing.T) {
	store := newMemStore()
	store.addUser("u1", 0)
	gw := newFakeGateway()
	svc := newPaymentService(store, gw)

	orderID := createBasicOrder(t, svc, "u1")

	_, err := svc.Verify(context.Background(), &domain.VerifyPaymentRequest{
		OrderID:   orderID,
		PaymentID: "pay_1",
		Signature: "deadbeef",
	})
	require.Error(t, err)

	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	assert.Equal(t, int64(0), store.userCredits("u1"))
	record, err := store.FindByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Nil(t, record, "no payment record on rejection")
}

func TestVerifyCreditsAccountOnce(t *testing.T) {
	store := newMemStore()
	store.addUser("u1", 0)
	gw := newFakeGateway()
	svc := newPaymentService(store, gw)

	orderID := createBasicOrder(t, svc, "u1")
	req := &domain.VerifyPaymentRequest{
		OrderID:   orderID,
		PaymentID: "pay_1",
		Signature: payment.Signature(testSecret, orderID, "pay_1"),
	}

	resp, err := svc.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.AlreadyProcessed)
	assert.Equal(t, int64(100), resp.Credits)
	assert.Equal(t, domain.PaymentCompleted, resp.Payment.Status)
	assert.Equal(t, int64(300), resp.Payment.Amount, "stored in whole currency units")

	user, err := store.findUser("u1")
	require.NoError(t, err)
	require.NotNil(t, user.Subscription)
	assert.Equal(t, domain.SubscriptionActive, user.Subscription.Status)
	assert.Equal(t, "basic", user.Subscription.Plan)

	// Replayed confirmation: no double credit.
	again, err := svc.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, again.AlreadyProcessed)
	assert.Equal(t, int64(100), again.Credits)
	assert.Equal(t, int64(100), store.userCredits("u1"))
}

func TestVerifyGatewayDownIsRetryable(t *testing.T) {
	store := newMemStore()
	store.addUser("u1", 0)
	gw := newFakeGateway()
	svc := newPaymentService(store, gw)

	orderID := createBasicOrder(t, svc, "u1")
	gw.failFetch = true

	_, err := svc.Verify(context.Background(), &domain.VerifyPaymentRequest{
		OrderID:   orderID,
		PaymentID: "pay_1",
		Signature: payment.Signature(testSecret, orderID, "pay_1"),
	})
	require.Error(t, err)

	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Code)
	assert.Equal(t, int64(0), store.userCredits("u1"), "no partial credit")
}

func TestCancelSubscription(t *testing.T) {
	store := newMemStore()
	store.addUser("u1", 0)
	gw := newFakeGateway()
	svc := newPaymentService(store, gw)

	// Without a subscription there is nothing to cancel.
	_, err := svc.Cancel(context.Background(), "u1")
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	orderID := createBasicOrder(t, svc, "u1")
	_, err = svc.Verify(context.Background(), &domain.VerifyPaymentRequest{
		OrderID:   orderID,
		PaymentID: "pay_1",
		Signature: payment.Signature(testSecret, orderID, "pay_1"),
	})
	require.NoError(t, err)

	sub, err := svc.Cancel(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionCancelled, sub.Status)
	assert.Equal(t, int64(100), store.userCredits("u1"), "purchased credits are kept")
}

func TestPaymentHistoryNewestVisible(t *testing.T) {
	store := newMemStore()
	store.addUser("u1", 0)
	gw := newFakeGateway()
	svc := newPaymentService(store, gw)

	for _, payID := range []string{"pay_1", "pay_2"} {
		orderID := createBasicOrder(t, svc, "u1")
		_, err := svc.Verify(context.Background(), &domain.VerifyPaymentRequest{
			OrderID:   orderID,
			PaymentID: payID,
			Signature: payment.Signature(testSecret, orderID, payID),
		})
		require.NoError(t, err)
	}

	history, err := svc.History(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

// Exercises the full credit lifecycle across both services sharing
// one ledger: 2 free credits are consumed one by one, the third create
// is denied, and a verified basic payment refills the balance to 100.
func TestCreditLifecycleEndToEnd(t *testing.T) {
	store := newMemStore()
	store.addUser("u1", 2)
	gw := newFakeGateway()
	appSvc := newAppService(store, nil, nil)
	paySvc := newPaymentService(store, gw)

	resp, err := appSvc.Create(context.Background(), "u1", validCreateReq())
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.RemainingCredits)

	resp, err = appSvc.Create(context.Background(), "u1", validCreateReq())
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.RemainingCredits)

	_, err = appSvc.Create(context.Background(), "u1", validCreateReq())
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.Code)

	orderID := createBasicOrder(t, paySvc, "u1")
	verify, err := paySvc.Verify(context.Background(), &domain.VerifyPaymentRequest{
		OrderID:   orderID,
		PaymentID: "pay_1",
		Signature: payment.Signature(testSecret, orderID, "pay_1"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), verify.Credits)

	details, err := paySvc.Details(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), details.Credits)
	require.NotNil(t, details.Subscription)
	assert.Equal(t, domain.SubscriptionActive, details.Subscription.Status)
}
