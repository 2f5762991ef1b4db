package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // Placed, awaiting payment
	OrderStatusProcessing OrderStatus = "processing" // Paid, being prepared
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the items
	OrderStatusCanceled   OrderStatus = "canceled"   // Payment failed or canceled
)

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        string      `gorm:"not null;index" json:"user_id"`
	User          User        `gorm:"foreignKey:UserID" json:"-"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	FirstName     string      `gorm:"not null" json:"first_name"`
	LastName      string      `gorm:"not null" json:"last_name"`
	Email         string      `gorm:"not null" json:"email"`
	Address       string      `json:"address"`
	PostalCode    string      `json:"postal_code"`
	Phone         string      `json:"phone"`
	City          string      `json:"city"`
	Note          string      `json:"note"`
	Paid          bool        `gorm:"default:false" json:"paid"`
	TransactionID string      `json:"transaction_id"`
	PaymentToken  string      `gorm:"uniqueIndex" json:"-"` // carried through the payment redirect chain
	Status        OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem freezes the product price at checkout time; later price changes
// never affect a placed order.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index" json:"order_id"`
	ProductID uint            `json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int             `gorm:"default:1" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2)" json:"price"`
}

func (i *OrderItem) Cost() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (o *Order) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Cost())
	}
	return total
}

func (o *Order) CustomerName() string {
	return o.FirstName + " " + o.LastName
}
