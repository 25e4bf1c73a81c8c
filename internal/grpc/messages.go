package grpcserver

import (
	"time"

	"garageQueue/internal/geo"
	"garageQueue/models"
)

// Order is the wire form of an order row with its owner's contact.
// Customer listings blank the owner fields of other people's orders.
type Order struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Motor      string     `json:"motor"`
	MapsLink   string     `json:"maps_link"`
	Location   *geo.Point `json:"location,omitempty"`
	Status     string     `json:"status"`
	OrderTime  time.Time  `json:"order_time"`
	FinishTime *time.Time `json:"finish_time,omitempty"`
	OwnerName  string     `json:"owner_name"`
	OwnerPhone string     `json:"owner_phone"`
}

// ListQueueRequest selects the live queue of a day or the holdover bucket.
// Date is YYYY-MM-DD in the shop time zone; empty means today.
type ListQueueRequest struct {
	Mode string `json:"mode"`
	Date string `json:"date,omitempty"`
	View string `json:"view"`
}

// ListOrdersResponse carries a queue listing or an order history.
type ListOrdersResponse struct {
	Orders []Order `json:"orders"`
}

// CreateOrderRequest places an order for the caller at Location.
type CreateOrderRequest struct {
	Motor    string     `json:"motor"`
	Location *geo.Point `json:"location"`
}

// CreateOrderResponse is the stored order and its distance from the shop.
type CreateOrderResponse struct {
	Order      Order    `json:"order"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// AdvanceStatusRequest names the order to move one step along the cycle.
type AdvanceStatusRequest struct {
	OrderID string `json:"order_id"`
}

// AdvanceStatusResponse is the status that was written.
type AdvanceStatusResponse struct {
	Status string `json:"status"`
}

// SetStatusRequest writes Status to an order directly.
type SetStatusRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// RegisterRequest creates the profile of the identity in the bearer token.
// An empty Email takes the token's email claim.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// LookupEmailRequest holds an email or a phone number typed at login.
type LookupEmailRequest struct {
	Identifier string `json:"identifier"`
}

// LookupEmailResponse is the account email for the identifier.
type LookupEmailResponse struct {
	Email string `json:"email"`
}

// Profile is the wire form of a profile row.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// UpdateProfileRequest changes the caller's name and phone.
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

func toWireOrder(o models.Order) Order {
	w := Order{
		ID:         o.ID,
		UserID:     o.UserID,
		Motor:      o.Motor,
		MapsLink:   o.MapsLink,
		Status:     string(o.Status),
		OrderTime:  o.OrderTime,
		FinishTime: o.FinishTime,
		OwnerName:  o.OwnerName,
		OwnerPhone: o.OwnerPhone,
	}
	if p, err := geo.ParseMapsLink(o.MapsLink); err == nil {
		w.Location = &p
	}
	return w
}

func toWireOrders(list []models.Order) []Order {
	out := make([]Order, 0, len(list))
	for _, o := range list {
		out = append(out, toWireOrder(o))
	}
	return out
}

// hideOwners blanks who placed each order unless viewerID placed it.
func hideOwners(orders []Order, viewerID string) {
	for i := range orders {
		if orders[i].UserID == viewerID {
			continue
		}
		orders[i].UserID = ""
		orders[i].OwnerName = ""
		orders[i].OwnerPhone = ""
	}
}

func toWireProfile(p *models.Profile) *Profile {
	return &Profile{ID: p.ID, FullName: p.FullName, Email: p.Email, Phone: p.Phone, Role: string(p.Role)}
}
