package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicehub-server/models"
)

func newPaymentFixture(t *testing.T) (*bookingFixture, *PaymentService) {
	t.Helper()
	db := newTestDB(t)
	f := newBookingFixture(t, db)
	svc := NewPaymentService(db, NewSimulatedGateway())
	return f, svc
}

func TestInitiateReturnsOrderDescriptor(t *testing.T) {
	f, svc := newPaymentFixture(t)

	order, err := svc.Initiate(f.customer.ID, f.booking.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.OrderID, "ORD-"))
	assert.Equal(t, f.booking.ID, order.BookingID)
	assert.Equal(t, 500.0, order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, f.provider.User.FullName, order.ProviderName)
	assert.Equal(t, f.category.Name, order.CategoryName)

	// Initiation persists nothing and is freely repeatable.
	again, err := svc.Initiate(f.customer.ID, f.booking.ID)
	require.NoError(t, err)
	assert.NotEqual(t, order.OrderID, again.OrderID)

	var count int64
	require.NoError(t, f.db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestInitiateHidesForeignBooking(t *testing.T) {
	f, svc := newPaymentFixture(t)
	stranger := createTestUser(t, f.db, "stranger@example.com")

	_, err := svc.Initiate(stranger.ID, f.booking.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProcessCardSuccessRedactsCardData(t *testing.T) {
	f, svc := newPaymentFixture(t)

	resp, err := svc.Process(f.customer.ID, models.ProcessPaymentRequest{
		BookingID:   f.booking.ID,
		Method:      string(models.PaymentMethodCard),
		CardNumber:  "4111 1111 1111 1234",
		CardNetwork: "VISA",
		CardExpiry:  "12/27",
		CardCvv:     "123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, resp.Status)
	assert.True(t, strings.HasPrefix(resp.TransactionID, "TXN-"))
	assert.NotNil(t, resp.PaidAt)

	var stored models.Payment
	require.NoError(t, f.db.Where("booking_id = ?", f.booking.ID).First(&stored).Error)
	assert.Equal(t, "1234", stored.CardLast4)
	assert.Equal(t, "VISA", stored.CardNetwork)

	// The raw PAN and CVV must not appear anywhere in the row.
	var raw map[string]interface{}
	require.NoError(t, f.db.Table("payments").Where("id = ?", stored.ID).Take(&raw).Error)
	for column, value := range raw {
		s, ok := value.(string)
		if !ok {
			continue
		}
		assert.NotContainsf(t, s, "4111111111111234", "column %s holds the raw card number", column)
		assert.NotEqualf(t, "123", s, "column %s holds the CVV", column)
	}
}

func TestProcessDeclinePolicy(t *testing.T) {
	f, svc := newPaymentFixture(t)

	resp, err := svc.Process(f.customer.ID, models.ProcessPaymentRequest{
		BookingID:  f.booking.ID,
		Method:     string(models.PaymentMethodCard),
		CardNumber: "4111111111110000",
		CardCvv:    "123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, resp.Status)
	assert.Nil(t, resp.PaidAt)

	// UPI decline trigger on a fresh booking setup.
	f2, svc2 := newPaymentFixture(t)
	resp, err = svc2.Process(f2.customer.ID, models.ProcessPaymentRequest{
		BookingID: f2.booking.ID,
		Method:    string(models.PaymentMethodUPI),
		UpiID:     "someone@fail",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, resp.Status)
}

func TestProcessSuccessIsExclusive(t *testing.T) {
	f, svc := newPaymentFixture(t)

	req := models.ProcessPaymentRequest{
		BookingID: f.booking.ID,
		Method:    string(models.PaymentMethodUPI),
		UpiID:     "customer@okbank",
	}
	resp, err := svc.Process(f.customer.ID, req)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusSuccess, resp.Status)

	_, err = svc.Process(f.customer.ID, req)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestProcessFailedRetryReusesRow(t *testing.T) {
	f, svc := newPaymentFixture(t)

	failed, err := svc.Process(f.customer.ID, models.ProcessPaymentRequest{
		BookingID: f.booking.ID,
		Method:    string(models.PaymentMethodUPI),
		UpiID:     "customer@fail",
	})
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusFailed, failed.Status)

	var firstRow models.Payment
	require.NoError(t, f.db.Where("booking_id = ?", f.booking.ID).First(&firstRow).Error)

	retried, err := svc.Process(f.customer.ID, models.ProcessPaymentRequest{
		BookingID: f.booking.ID,
		Method:    string(models.PaymentMethodUPI),
		UpiID:     "customer@okbank",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, retried.Status)
	assert.NotEqual(t, failed.TransactionID, retried.TransactionID)

	var count int64
	require.NoError(t, f.db.Model(&models.Payment{}).Where("booking_id = ?", f.booking.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var secondRow models.Payment
	require.NoError(t, f.db.Where("booking_id = ?", f.booking.ID).First(&secondRow).Error)
	assert.Equal(t, firstRow.ID, secondRow.ID)
}

func TestPaymentRetryWriteIsCompareAndSet(t *testing.T) {
	f, svc := newPaymentFixture(t)

	failed, err := svc.Process(f.customer.ID, models.ProcessPaymentRequest{
		BookingID: f.booking.ID,
		Method:    string(models.PaymentMethodUPI),
		UpiID:     "customer@fail",
	})
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusFailed, failed.Status)

	var row models.Payment
	require.NoError(t, f.db.Where("booking_id = ?", f.booking.ID).First(&row).Error)

	// Another retry settles the booking first.
	paidAt := time.Now()
	require.NoError(t, f.db.Model(&models.Payment{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"status":         models.PaymentStatusSuccess,
			"transaction_id": "TXN-winner",
			"paid_at":        &paidAt,
		}).Error)

	// A retry still holding the FAILED snapshot matches no row instead of
	// overwriting the settled payment.
	res := f.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", row.ID, models.PaymentStatusFailed).
		Updates(map[string]interface{}{
			"status":         models.PaymentStatusSuccess,
			"transaction_id": "TXN-loser",
		})
	require.NoError(t, res.Error)
	assert.Zero(t, res.RowsAffected)

	// A fresh attempt now observes the SUCCESS row and fails Conflict.
	_, err = svc.Process(f.customer.ID, models.ProcessPaymentRequest{
		BookingID: f.booking.ID,
		Method:    string(models.PaymentMethodUPI),
		UpiID:     "customer@okbank",
	})
	assert.ErrorIs(t, err, ErrConflict)

	var stored models.Payment
	require.NoError(t, f.db.Where("booking_id = ?", f.booking.ID).First(&stored).Error)
	assert.Equal(t, models.PaymentStatusSuccess, stored.Status)
	assert.Equal(t, "TXN-winner", stored.TransactionID)
}

func TestProcessMethodValidation(t *testing.T) {
	f, svc := newPaymentFixture(t)

	cases := []struct {
		name string
		req  models.ProcessPaymentRequest
	}{
		{"upi without handle", models.ProcessPaymentRequest{BookingID: f.booking.ID, Method: "UPI", UpiID: "nohandle"}},
		{"card too short", models.ProcessPaymentRequest{BookingID: f.booking.ID, Method: "CARD", CardNumber: "4111", CardCvv: "123"}},
		{"card non numeric", models.ProcessPaymentRequest{BookingID: f.booking.ID, Method: "CARD", CardNumber: "4111abcd11112222", CardCvv: "123"}},
		{"card bad cvv", models.ProcessPaymentRequest{BookingID: f.booking.ID, Method: "CARD", CardNumber: "4111111111112222", CardCvv: "12"}},
		{"netbanking without bank", models.ProcessPaymentRequest{BookingID: f.booking.ID, Method: "NET_BANKING"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Process(f.customer.ID, tc.req)
			assert.ErrorIs(t, err, ErrInvalidOperation)
		})
	}
}

func TestGetStatusNotPaidSentinel(t *testing.T) {
	f, svc := newPaymentFixture(t)

	resp, err := svc.GetStatus(f.customer.ID, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusNotPaid, resp.Status)
	assert.Empty(t, resp.TransactionID)
}

func TestGetStatusDistinguishesOwnership(t *testing.T) {
	f, svc := newPaymentFixture(t)
	stranger := createTestUser(t, f.db, "stranger@example.com")

	_, err := svc.GetStatus(stranger.ID, f.booking.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.GetStatus(f.customer.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancellationFlagsRefundEligibility(t *testing.T) {
	f, svc := newPaymentFixture(t)
	f.svc.OnCancelled(svc.MarkRefundEligible)

	_, err := svc.Process(f.customer.ID, models.ProcessPaymentRequest{
		BookingID: f.booking.ID,
		Method:    string(models.PaymentMethodUPI),
		UpiID:     "customer@okbank",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(f.booking.ID, models.BookingStatusCancelled, f.customer.ID, false)
	require.NoError(t, err)

	resp, err := svc.GetStatus(f.customer.ID, f.booking.ID)
	require.NoError(t, err)
	assert.True(t, resp.RefundEligible)
	assert.Equal(t, models.PaymentStatusSuccess, resp.Status)
}

func TestCancellationIgnoresFailedPayment(t *testing.T) {
	f, svc := newPaymentFixture(t)
	f.svc.OnCancelled(svc.MarkRefundEligible)

	_, err := svc.Process(f.customer.ID, models.ProcessPaymentRequest{
		BookingID: f.booking.ID,
		Method:    string(models.PaymentMethodUPI),
		UpiID:     "customer@fail",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(f.booking.ID, models.BookingStatusCancelled, f.customer.ID, false)
	require.NoError(t, err)

	resp, err := svc.GetStatus(f.customer.ID, f.booking.ID)
	require.NoError(t, err)
	assert.False(t, resp.RefundEligible)
}
