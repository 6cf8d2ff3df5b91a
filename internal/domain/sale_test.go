package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatusForPayment(t *testing.T) {
	assert.Equal(t, StatusConfirmed, StatusForPayment(PaymentQR))
	assert.Equal(t, StatusConfirmed, StatusForPayment(PaymentTransfer))
	assert.Equal(t, StatusPending, StatusForPayment(PaymentCash))
	assert.Equal(t, StatusPending, StatusForPayment(PaymentMethod("check")))
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, ChannelWeb.Valid())
	assert.True(t, ChannelInPerson.Valid())
	assert.False(t, SaleChannel("phone").Valid())

	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusConfirmed.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, SaleStatus("refunded").Valid())

	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentQR.Valid())
	assert.True(t, PaymentTransfer.Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestLineItemSubtotal(t *testing.T) {
	item := &SaleLineItem{
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("12.50"),
	}

	assert.True(t, item.Subtotal().Equal(decimal.RequireFromString("37.50")))
}
