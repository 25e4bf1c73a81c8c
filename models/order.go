package models

import "time"

// OrderStatus is the position of an order in the workshop cycle.
// Values are stored verbatim in the orders table.
type OrderStatus string

const (
	OrderStatusWaiting    OrderStatus = "menunggu"
	OrderStatusProcessing OrderStatus = "proses"
	OrderStatusDone       OrderStatus = "selesai"
	// OrderStatusHoldover marks a motorcycle left at the shop overnight.
	// It doubles as the "menginap" queue filter.
	OrderStatusHoldover OrderStatus = "menginap"
)

// AllStatuses lists the cycle in order, starting from the initial status.
var AllStatuses = []OrderStatus{
	OrderStatusWaiting,
	OrderStatusProcessing,
	OrderStatusDone,
	OrderStatusHoldover,
}

// IsValid reports whether s is one of the four known statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusWaiting, OrderStatusProcessing, OrderStatusDone, OrderStatusHoldover:
		return true
	}
	return false
}

func (s OrderStatus) String() string { return string(s) }

// Order is a single service request: one motorcycle, one pickup location.
type Order struct {
	ID         string      `db:"id" json:"id"`
	UserID     string      `db:"user_id" json:"user_id"`
	Motor      string      `db:"motor" json:"motor"`
	MapsLink   string      `db:"maps_link" json:"maps_link"`
	Status     OrderStatus `db:"status" json:"status"`
	OrderTime  time.Time   `db:"order_time" json:"order_time"`
	FinishTime *time.Time  `db:"finish_time" json:"finish_time,omitempty"`

	// Owner fields come from a LEFT JOIN on profiles and are blank when
	// the profile row is missing.
	OwnerName  string `db:"full_name" json:"full_name"`
	OwnerPhone string `db:"phone" json:"phone"`
}
