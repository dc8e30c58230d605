package entities

import "testing"

func TestPayment_IsRefund(t *testing.T) {
	cases := []struct {
		name string
		p    Payment
		want bool
	}{
		{name: "plain payment", p: Payment{ID: "p1", TransactionID: "TXN-1"}, want: false},
		{name: "explicit link", p: Payment{ID: "r1", RefundOfPaymentID: "p1"}, want: true},
		{name: "legacy prefix", p: Payment{ID: "r2", TransactionID: "REFUND-TXN-1-1700000000000"}, want: true},
		{name: "prefix is case sensitive", p: Payment{ID: "r3", TransactionID: "refund-TXN-1"}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.IsRefund(); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPayment_RefundsPayment(t *testing.T) {
	original := Payment{ID: "p1", OrderID: "o1", TransactionID: "TXN-1"}
	noTxn := Payment{ID: "p2", OrderID: "o1"}

	if !(Payment{OrderID: "o1", RefundOfPaymentID: "p1"}).RefundsPayment(original) {
		t.Fatalf("explicit link should match")
	}
	if (Payment{OrderID: "o1", RefundOfPaymentID: "p2"}).RefundsPayment(original) {
		t.Fatalf("explicit link to another payment should not match")
	}
	if !(Payment{OrderID: "o1", TransactionID: "REFUND-TXN-1-1700000000000"}).RefundsPayment(original) {
		t.Fatalf("legacy prefix with transaction id should match")
	}
	if (Payment{OrderID: "o1", TransactionID: "REFUND-TXN-10-1700000000000"}).RefundsPayment(original) {
		t.Fatalf("legacy prefix of a different transaction should not match")
	}
	if !(Payment{OrderID: "o1", TransactionID: "REFUND-p2-1700000000000"}).RefundsPayment(noTxn) {
		t.Fatalf("legacy prefix falling back to id should match")
	}
	if (Payment{OrderID: "o2", RefundOfPaymentID: "p1"}).RefundsPayment(original) {
		t.Fatalf("refund of another order should not match")
	}
	if (Payment{OrderID: "o1", TransactionID: "TXN-1"}).RefundsPayment(original) {
		t.Fatalf("non refund should not match")
	}
}

func TestOrderStatus(t *testing.T) {
	if OrderStatusPending.Rank() >= OrderStatusConfirmed.Rank() {
		t.Fatalf("pending must rank below confirmed")
	}
	if OrderStatusCancelled.Rank() != -1 || !OrderStatusCancelled.Terminal() {
		t.Fatalf("cancelled must be terminal")
	}
	if !OrderStatusDelivered.ExpectsPayment() || OrderStatusPending.ExpectsPayment() {
		t.Fatalf("unexpected ExpectsPayment result")
	}
	if OrderStatus("lost").Valid() {
		t.Fatalf("unknown status must be invalid")
	}
}

func TestActor(t *testing.T) {
	admin := Actor{UserID: "a", Roles: []Role{RoleCustomer, RoleAdmin}}
	customer := Actor{UserID: "c", Roles: []Role{RoleCustomer}}

	if !admin.IsAdmin() || customer.IsAdmin() {
		t.Fatalf("unexpected admin flags")
	}
	if !admin.CanAccess("someone") {
		t.Fatalf("admin can access any resource")
	}
	if !customer.CanAccess("c") || customer.CanAccess("other") || customer.CanAccess("") {
		t.Fatalf("customer can only access own resources")
	}
}
