package paymentControllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cartControllers "github.com/turjo25/Royal-Shop/controllers/cart"
	checkoutControllers "github.com/turjo25/Royal-Shop/controllers/checkout"
	"github.com/turjo25/Royal-Shop/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{}, &models.Rating{},
		&models.Cart{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) models.Product {
	t.Helper()
	p := models.Product{
		Name:      name,
		Slug:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		Available: true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedPendingOrder(t *testing.T, db *gorm.DB, userID string, product models.Product, quantity int) models.Order {
	t.Helper()
	order := models.Order{
		UserID:       userID,
		FirstName:    "Rahim",
		LastName:     "Uddin",
		Email:        "rahim@example.com",
		Address:      "12 Green Road",
		Phone:        "01700000000",
		PostalCode:   "1205",
		City:         "Dhaka",
		Status:       models.OrderStatusPending,
		PaymentToken: fmt.Sprintf("token-%s-%d", t.Name(), product.ID),
		Items: []models.OrderItem{{
			ProductID: product.ID,
			Quantity:  quantity,
			Price:     product.Price,
		}},
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func setGatewayEnv(t *testing.T, apiURL string) {
	t.Helper()
	t.Setenv("SSLCZ_STORE_ID", "royalshop-test")
	t.Setenv("SSLCZ_STORE_PASSWORD", "secret")
	t.Setenv("SSLCZ_API_URL", apiURL)
	t.Setenv("SSLCZ_CURRENCY", "BDT")
	t.Setenv("SSLCZ_CALLBACK_BASE_URL", "https://shop.example.com")
}

func TestCreateGatewaySession(t *testing.T) {
	db := setupTestDB(t)
	mug := seedProduct(t, db, "mug", "10.00", 10)
	order := seedPendingOrder(t, db, "user-1", mug, 3)

	var received map[string]string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		received = map[string]string{}
		for k := range r.PostForm {
			received[k] = r.PostForm.Get(k)
		}
		json.NewEncoder(w).Encode(GatewayResponse{
			Status:         "SUCCESS",
			GatewayPageURL: "https://pay.example.com/session/abc",
		})
	}))
	defer gateway.Close()
	setGatewayEnv(t, gateway.URL)

	require.NoError(t, db.Preload("Items").First(&order, order.ID).Error)
	paymentURL, err := CreateGatewaySession(&order)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/session/abc", paymentURL)

	orderID := fmt.Sprintf("%d", order.ID)
	assert.Equal(t, "royalshop-test", received["store_id"])
	assert.Equal(t, "secret", received["store_passwd"])
	assert.Equal(t, "30.00", received["total_amount"])
	assert.Equal(t, "BDT", received["currency"])
	assert.Equal(t, orderID, received["tran_id"])
	assert.Equal(t, "https://shop.example.com/payment/success/"+orderID, received["success_url"])
	assert.Equal(t, "https://shop.example.com/payment/fail/"+orderID, received["fail_url"])
	assert.Equal(t, "https://shop.example.com/payment/cancel/"+orderID, received["cancel_url"])
	assert.Equal(t, "Rahim Uddin", received["cus_name"])
	assert.Equal(t, "rahim@example.com", received["cus_email"])
	assert.Equal(t, "Dhaka", received["cus_city"])
	assert.Equal(t, "1205", received["cus_postcode"])
}

func TestCreateGatewaySessionRejected(t *testing.T) {
	db := setupTestDB(t)
	mug := seedProduct(t, db, "mug", "10.00", 10)
	order := seedPendingOrder(t, db, "user-1", mug, 1)

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GatewayResponse{Status: "FAILED", FailedReason: "store credential mismatch"})
	}))
	defer gateway.Close()
	setGatewayEnv(t, gateway.URL)

	require.NoError(t, db.Preload("Items").First(&order, order.ID).Error)
	_, err := CreateGatewaySession(&order)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store credential mismatch")

	// A gateway rejection must not touch the order.
	var saved models.Order
	require.NoError(t, db.First(&saved, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, saved.Status)
	assert.False(t, saved.Paid)
}

func TestMarkPaymentSuccess(t *testing.T) {
	db := setupTestDB(t)
	mug := seedProduct(t, db, "mug", "10.00", 10)
	order := seedPendingOrder(t, db, "user-1", mug, 3)

	updated, transitioned, err := MarkPaymentSuccess(db, "user-1", order.ID)
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.True(t, updated.Paid)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)
	assert.Equal(t, fmt.Sprintf("%d", order.ID), updated.TransactionID)

	var product models.Product
	require.NoError(t, db.First(&product, mug.ID).Error)
	assert.Equal(t, 7, product.Stock)
}

func TestMarkPaymentSuccessRepeatIsGuarded(t *testing.T) {
	db := setupTestDB(t)
	mug := seedProduct(t, db, "mug", "10.00", 10)
	order := seedPendingOrder(t, db, "user-1", mug, 3)

	_, transitioned, err := MarkPaymentSuccess(db, "user-1", order.ID)
	require.NoError(t, err)
	assert.True(t, transitioned)

	// Gateway retries the success redirect: no second stock decrement and
	// no second confirmation email.
	repeat, transitioned, err := MarkPaymentSuccess(db, "user-1", order.ID)
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, models.OrderStatusProcessing, repeat.Status)

	// The guarded path still returns the full order, lines included.
	require.Len(t, repeat.Items, 1)
	assert.Equal(t, mug.ID, repeat.Items[0].ProductID)

	var product models.Product
	require.NoError(t, db.First(&product, mug.ID).Error)
	assert.Equal(t, 7, product.Stock)
}

func TestMarkPaymentSuccessClampsStockAtZero(t *testing.T) {
	db := setupTestDB(t)
	mug := seedProduct(t, db, "mug", "10.00", 2)
	order := seedPendingOrder(t, db, "user-1", mug, 3)

	_, _, err := MarkPaymentSuccess(db, "user-1", order.ID)
	require.NoError(t, err)

	var product models.Product
	require.NoError(t, db.First(&product, mug.ID).Error)
	assert.Equal(t, 0, product.Stock)
}

func TestMarkPaymentSuccessOwnership(t *testing.T) {
	db := setupTestDB(t)
	mug := seedProduct(t, db, "mug", "10.00", 10)
	order := seedPendingOrder(t, db, "user-1", mug, 1)

	_, _, err := MarkPaymentSuccess(db, "intruder", order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	var saved models.Order
	require.NoError(t, db.First(&saved, order.ID).Error)
	assert.False(t, saved.Paid)
	assert.Equal(t, models.OrderStatusPending, saved.Status)
}

func TestCancelOrderIdempotent(t *testing.T) {
	db := setupTestDB(t)
	mug := seedProduct(t, db, "mug", "10.00", 10)
	order := seedPendingOrder(t, db, "user-1", mug, 1)

	canceled, err := CancelOrder(db, "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, canceled.Status)

	again, err := CancelOrder(db, "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, again.Status)
}

func TestCancelAfterSuccessCallback(t *testing.T) {
	db := setupTestDB(t)
	mug := seedProduct(t, db, "mug", "10.00", 10)
	order := seedPendingOrder(t, db, "user-1", mug, 1)

	_, _, err := MarkPaymentSuccess(db, "user-1", order.ID)
	require.NoError(t, err)

	// fail/cancel may arrive out of order, from pending or processing.
	canceled, err := CancelOrder(db, "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, canceled.Status)
}

func TestCancelOrderLeavesShippedOrderAlone(t *testing.T) {
	db := setupTestDB(t)
	mug := seedProduct(t, db, "mug", "10.00", 10)
	order := seedPendingOrder(t, db, "user-1", mug, 1)

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderStatusShipped).Error)

	// A stale gateway callback must not cancel an order already in
	// fulfillment.
	result, err := CancelOrder(db, "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, result.Status)

	var saved models.Order
	require.NoError(t, db.First(&saved, order.ID).Error)
	assert.Equal(t, models.OrderStatusShipped, saved.Status)
}

// Full flow: cart of 3 mugs at 10.00 → checkout → gateway session → success
// callback leaves the order paid/processing and the stock down by 3.
func TestCheckoutToPaymentFlow(t *testing.T) {
	db := setupTestDB(t)
	mug := seedProduct(t, db, "mug", "10.00", 5)

	for i := 0; i < 3; i++ {
		_, err := cartControllers.AddItem(db, "buyer", mug.ID)
		require.NoError(t, err)
	}

	order, err := checkoutControllers.Checkout(db, "buyer", checkoutControllers.CheckoutRequest{
		FirstName:  "Karim",
		LastName:   "Mia",
		Email:      "karim@example.com",
		Address:    "45 Lake View",
		Phone:      "01800000000",
		PostalCode: "4000",
		City:       "Chittagong",
	})
	require.NoError(t, err)
	assert.True(t, order.TotalCost().Equal(decimal.RequireFromString("30.00")))

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GatewayResponse{
			Status:         "SUCCESS",
			GatewayPageURL: "https://pay.example.com/session/flow",
		})
	}))
	defer gateway.Close()
	setGatewayEnv(t, gateway.URL)

	paymentURL, err := CreateGatewaySession(order)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/session/flow", paymentURL)

	paid, transitioned, err := MarkPaymentSuccess(db, "buyer", order.ID)
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.True(t, paid.Paid)
	assert.Equal(t, models.OrderStatusProcessing, paid.Status)

	var product models.Product
	require.NoError(t, db.First(&product, mug.ID).Error)
	assert.Equal(t, 2, product.Stock)
}
