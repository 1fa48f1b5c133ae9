package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/haimart-next/internal/constants"
	"github.com/haimart-next/internal/models"
	"github.com/haimart-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewOrderService(repository.NewOrderRepository(db)), db
}

func createTestOrder(t *testing.T, db *gorm.DB, orderNo, status, paymentMethod string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:         orderNo,
		ContactName:     "Nguyễn Văn An",
		ContactEmail:    "an@example.com",
		ContactPhone:    "0901234567",
		ShippingAddress: "12 Lê Lợi",
		Status:          status,
		PaymentStatus:   constants.PaymentStatusPending,
		PaymentMethod:   paymentMethod,
		Currency:        "VND",
		TotalAmount:     money(t, 102000),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestUpdateStatusHappyPath(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, "HM-1", constants.OrderStatusPending, constants.PaymentMethodBankTransfer)

	change, err := svc.UpdateStatus(order.ID, constants.OrderStatusConfirmed, "")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if change.From != constants.OrderStatusPending || change.To != constants.OrderStatusConfirmed {
		t.Fatalf("unexpected change: %+v", change)
	}
	if change.Order.Status != constants.OrderStatusConfirmed {
		t.Fatalf("order status want confirmed got %s", change.Order.Status)
	}
}

func TestUpdateStatusRejectsIllegalTransitions(t *testing.T) {
	svc, db := setupOrderServiceTest(t)

	cases := []struct {
		from   string
		target string
	}{
		{constants.OrderStatusPending, constants.OrderStatusShipped},
		{constants.OrderStatusPending, constants.OrderStatusPending},
		{constants.OrderStatusShipped, constants.OrderStatusCancelled},
		{constants.OrderStatusCancelled, constants.OrderStatusConfirmed},
		{constants.OrderStatusReturned, constants.OrderStatusPending},
		{constants.OrderStatusDelivered, constants.OrderStatusShipped},
	}
	for i, tc := range cases {
		order := createTestOrder(t, db, fmt.Sprintf("HM-ILLEGAL-%d", i), tc.from, constants.PaymentMethodCOD)
		if _, err := svc.UpdateStatus(order.ID, tc.target, ""); !errors.Is(err, ErrOrderStatusInvalid) {
			t.Fatalf("%s -> %s: expected status invalid, got %v", tc.from, tc.target, err)
		}
		// 非法流转不得产生任何写入
		var reloaded models.Order
		if err := db.First(&reloaded, order.ID).Error; err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if reloaded.Status != tc.from {
			t.Fatalf("status must stay %s, got %s", tc.from, reloaded.Status)
		}
	}
}

func TestUpdateStatusCancelRecordsReason(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, "HM-CANCEL", constants.OrderStatusPending, constants.PaymentMethodMomo)

	change, err := svc.UpdateStatus(order.ID, constants.OrderStatusCancelled, "khách đổi ý")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if change.Order.CancelledAt == nil {
		t.Fatalf("cancelled_at should be set")
	}
	if change.Order.CancelReason != "khách đổi ý" {
		t.Fatalf("cancel reason want recorded, got %q", change.Order.CancelReason)
	}
}

func TestUpdateStatusCODDeliveredMarksPaid(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, "HM-COD", constants.OrderStatusShipped, constants.PaymentMethodCOD)

	change, err := svc.UpdateStatus(order.ID, constants.OrderStatusDelivered, "")
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if change.Order.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("COD delivery should mark paid, got %s", change.Order.PaymentStatus)
	}
	if change.Order.PaidAt == nil || change.Order.DeliveredAt == nil {
		t.Fatalf("paid_at and delivered_at should be set")
	}
}

func TestUpdateStatusNonCODDeliveredKeepsPaymentStatus(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, "HM-BANK", constants.OrderStatusShipped, constants.PaymentMethodBankTransfer)

	change, err := svc.UpdateStatus(order.ID, constants.OrderStatusDelivered, "")
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if change.Order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("non-COD delivery must not touch payment status, got %s", change.Order.PaymentStatus)
	}
}

func TestMarkPaid(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, "HM-PAY", constants.OrderStatusPending, constants.PaymentMethodBankTransfer)

	paid, err := svc.MarkPaid(order.ID)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.PaymentStatus != constants.PaymentStatusPaid || paid.PaidAt == nil {
		t.Fatalf("unexpected paid order: %+v", paid)
	}
	firstPaidAt := *paid.PaidAt

	// 重复标记幂等，不重写支付时间
	paid, err = svc.MarkPaid(order.ID)
	if err != nil {
		t.Fatalf("second mark paid failed: %v", err)
	}
	if !paid.PaidAt.Equal(firstPaidAt) {
		t.Fatalf("paid_at must not change on repeat")
	}

	cancelled := createTestOrder(t, db, "HM-PAY-CXL", constants.OrderStatusCancelled, constants.PaymentMethodBankTransfer)
	if _, err := svc.MarkPaid(cancelled.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected status invalid for cancelled order, got %v", err)
	}
}

func TestGetForCustomerOwnership(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, "HM-OWN", constants.OrderStatusPending, constants.PaymentMethodCOD)
	customerID := uint(42)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("customer_id", customerID).Error; err != nil {
		t.Fatalf("set customer failed: %v", err)
	}

	if _, err := svc.GetForCustomer(order.ID, customerID); err != nil {
		t.Fatalf("owner access failed: %v", err)
	}
	if _, err := svc.GetForCustomer(order.ID, 43); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("cross-customer access must look like not found, got %v", err)
	}
	if _, err := svc.GetForCustomer(order.ID, 0); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("zero customer id must be rejected, got %v", err)
	}
}
