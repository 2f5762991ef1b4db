package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"strconv"

	"github.com/turjo25/Royal-Shop/models"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

var confirmationTemplate = template.Must(template.New("order_confirmation").Parse(`
<html>
  <body>
    <h2>Thank you for your order, {{.Order.CustomerName}}!</h2>
    <p>Your payment for order <strong>#{{.Order.ID}}</strong> has been received.</p>
    <table border="1" cellpadding="6" cellspacing="0">
      <tr><th>Product</th><th>Quantity</th><th>Price</th><th>Cost</th></tr>
      {{range .Items}}
      <tr>
        <td>{{.Product.Name}}</td>
        <td>{{.Quantity}}</td>
        <td>{{.Price}}</td>
        <td>{{.Cost}}</td>
      </tr>
      {{end}}
    </table>
    <p><strong>Total: {{.Total}}</strong></p>
    <p>Shipping to: {{.Order.Address}}, {{.Order.City}} {{.Order.PostalCode}}</p>
  </body>
</html>
`))

type confirmationData struct {
	Order *models.Order
	Items []models.OrderItem
	Total string
}

// SendOrderConfirmation renders and dispatches the confirmation email for a
// paid order. When SMTP is not configured the send is skipped with a log
// line; payment state is already committed either way.
func SendOrderConfirmation(db *gorm.DB, order *models.Order) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Printf("📧 SMTP not configured, skipping confirmation for order #%d", order.ID)
		return nil
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = username
	}

	var items []models.OrderItem
	if err := db.Preload("Product").Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return err
	}
	order.Items = items

	var body bytes.Buffer
	data := confirmationData{
		Order: order,
		Items: items,
		Total: order.TotalCost().StringFixed(2),
	}
	if err := confirmationTemplate.Execute(&body, data); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", order.Email)
	m.SetHeader("Subject", fmt.Sprintf("Order Confirmation - Order #%d", order.ID))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(host, port, username, password)
	if err := d.DialAndSend(m); err != nil {
		return err
	}

	log.Printf("📧 Confirmation email sent for order #%d to %s", order.ID, order.Email)
	return nil
}
