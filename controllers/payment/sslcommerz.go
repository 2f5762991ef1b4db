package paymentControllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/turjo25/Royal-Shop/models"
)

// GatewayResponse is the SSLCommerz session-creation response.
type GatewayResponse struct {
	Status         string `json:"status"` // "SUCCESS" or "FAILED"
	GatewayPageURL string `json:"GatewayPageURL"`
	FailedReason   string `json:"failedreason"`
}

// One synchronous attempt with a bounded timeout; a slow gateway surfaces as
// a retryable checkout error, never a hung request.
var gatewayClient = &http.Client{Timeout: 15 * time.Second}

// getGatewayConfig reads SSLCommerz store settings from the environment.
func getGatewayConfig() (storeID, storePasswd, apiURL, currency, callbackBase string, err error) {
	storeID = os.Getenv("SSLCZ_STORE_ID")
	storePasswd = os.Getenv("SSLCZ_STORE_PASSWORD")
	apiURL = os.Getenv("SSLCZ_API_URL")
	currency = os.Getenv("SSLCZ_CURRENCY")
	callbackBase = os.Getenv("SSLCZ_CALLBACK_BASE_URL")

	if currency == "" {
		currency = "BDT"
	}
	if storeID == "" || storePasswd == "" || apiURL == "" || callbackBase == "" {
		return "", "", "", "", "", fmt.Errorf("sslcommerz configuration missing")
	}
	return storeID, storePasswd, apiURL, currency, callbackBase, nil
}

// CreateGatewaySession submits a payment-initiation request for the order and
// returns the gateway page URL the customer should be redirected to. The
// order must be loaded with its items so the total can be computed.
func CreateGatewaySession(order *models.Order) (string, error) {
	storeID, storePasswd, apiURL, currency, callbackBase, err := getGatewayConfig()
	if err != nil {
		return "", err
	}

	orderID := strconv.FormatUint(uint64(order.ID), 10)

	form := url.Values{}
	form.Set("store_id", storeID)
	form.Set("store_passwd", storePasswd)
	form.Set("total_amount", order.TotalCost().StringFixed(2))
	form.Set("currency", currency)
	form.Set("tran_id", orderID)
	form.Set("success_url", callbackBase+"/payment/success/"+orderID)
	form.Set("fail_url", callbackBase+"/payment/fail/"+orderID)
	form.Set("cancel_url", callbackBase+"/payment/cancel/"+orderID)
	form.Set("cus_name", order.CustomerName())
	form.Set("cus_email", order.Email)
	form.Set("cus_phone", order.Phone)
	form.Set("cus_add1", order.Address)
	form.Set("cus_city", order.City)
	form.Set("cus_postcode", order.PostalCode)
	form.Set("cus_country", "Bangladesh")
	form.Set("shipping_method", "NO")
	form.Set("product_name", "Products from our store")
	form.Set("product_category", "General")
	form.Set("product_profile", "general")

	resp, err := gatewayClient.PostForm(apiURL, form)
	if err != nil {
		return "", fmt.Errorf("failed to reach payment gateway: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment gateway error (%d): %s", resp.StatusCode, string(body))
	}

	var gateway GatewayResponse
	if err := json.Unmarshal(body, &gateway); err != nil {
		return "", fmt.Errorf("failed to parse gateway response: %v", err)
	}

	if gateway.Status != "SUCCESS" {
		reason := gateway.FailedReason
		if reason == "" {
			reason = gateway.Status
		}
		return "", fmt.Errorf("payment gateway rejected the request: %s", reason)
	}
	if gateway.GatewayPageURL == "" {
		return "", fmt.Errorf("payment gateway returned empty payment URL")
	}

	return gateway.GatewayPageURL, nil
}
