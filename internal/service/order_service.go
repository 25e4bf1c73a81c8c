package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"garageQueue/internal/apperr"
	"garageQueue/internal/events"
	"garageQueue/internal/geo"
	"garageQueue/internal/metrics"
	"garageQueue/internal/queue"
	"garageQueue/models"
	"garageQueue/repository"
)

// Entry points recorded on status events and metrics.
const (
	viaAdvance = "advance"
	viaAssign  = "assign"
)

// OrderOptions carries the collaborators of OrderService. Zero values are usable.
type OrderOptions struct {
	Location *time.Location // calendar day of the shop, UTC when nil
	Shop     *geo.Point     // when set, created orders report their distance from it
	Events   events.Publisher
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// OrderService is the queue command set. Every call is a single round trip
// to the order store (advance and assign read the current row first) and no
// call returns fresh list state: callers re-list after a write.
type OrderService struct {
	orders   repository.OrderRepositoryI
	loc      *time.Location
	shop     *geo.Point
	events   events.Publisher
	metrics  *metrics.Metrics
	log      *zap.Logger
	validate *validator.Validate
}

// NewOrderService wires the command set to an order store.
func NewOrderService(orders repository.OrderRepositoryI, opts OrderOptions) *OrderService {
	s := &OrderService{
		orders:   orders,
		loc:      opts.Location,
		shop:     opts.Shop,
		events:   opts.Events,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		validate: newValidator(),
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// createOrderForm is the new-order form: a vehicle and a picked location.
type createOrderForm struct {
	Motor    string     `json:"motor" validate:"required"`
	Location *geo.Point `json:"location" validate:"required"`
}

// CreatedOrder is the inserted row plus its distance from the shop.
type CreatedOrder struct {
	Order      *models.Order
	DistanceKm *float64
}

// ListToday lists the queue for mode; date only matters in live mode.
func (s *OrderService) ListToday(ctx context.Context, mode queue.Mode, date time.Time, view queue.View) ([]models.Order, error) {
	list, err := s.orders.ListOrders(ctx, queue.Filter(mode, date, view, s.loc))
	if err != nil {
		s.storeFailed(apperr.OpListQueue, err)
		return nil, err
	}
	return list, nil
}

// ListHoldover lists every order left overnight, regardless of date.
func (s *OrderService) ListHoldover(ctx context.Context, view queue.View) ([]models.Order, error) {
	return s.ListToday(ctx, queue.ModeHoldover, time.Time{}, view)
}

// CreateOrder validates the form and inserts an order for ownerID. An empty
// vehicle or a missing location fails before the store is contacted.
func (s *OrderService) CreateOrder(ctx context.Context, ownerID, vehicle string, at *geo.Point) (*CreatedOrder, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, &apperr.AuthRequiredError{Reason: "no owner for new order"}
	}
	req := createOrderForm{Motor: strings.TrimSpace(vehicle), Location: at}
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if err := req.Location.Validate(); err != nil {
		return nil, apperr.NewValidationError("location", "%v", err)
	}

	o, err := s.orders.Create(ctx, ownerID, req.Motor, geo.MapsLink(*req.Location))
	if err != nil {
		s.storeFailed(apperr.OpCreateOrder, err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
	}
	s.publish(ctx, events.Event{
		Type:      events.OrderCreated,
		OrderID:   o.ID,
		UserID:    o.UserID,
		NewStatus: o.Status,
		At:        o.OrderTime,
	})
	out := &CreatedOrder{Order: o}
	if s.shop != nil {
		d := geo.HaversineKm(*s.shop, *req.Location)
		out.DistanceKm = &d
	}
	return out, nil
}

// AdvanceStatus moves an order to the next status of the fixed cycle and
// returns the status written.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID string) (models.OrderStatus, error) {
	cur, err := s.current(ctx, orderID)
	if err != nil {
		return "", err
	}
	next := queue.Advance(cur.Status)
	if err := s.write(ctx, cur, next, viaAdvance); err != nil {
		return "", err
	}
	return next, nil
}

// SetStatus writes a status picked directly by the user, with no legality
// check between the four values.
func (s *OrderService) SetStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	if !status.IsValid() {
		return apperr.NewValidationError("status", "unknown status %q", status)
	}
	cur, err := s.current(ctx, orderID)
	if err != nil {
		return err
	}
	return s.write(ctx, cur, queue.Assign(cur.Status, status), viaAssign)
}

// ListMyOrders lists every order of userID, newest first.
func (s *OrderService) ListMyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &apperr.AuthRequiredError{Reason: "no user for order history"}
	}
	list, err := s.orders.ListByUserID(ctx, userID)
	if err != nil {
		s.storeFailed(apperr.OpListMine, err)
		return nil, err
	}
	return list, nil
}

func (s *OrderService) current(ctx context.Context, orderID string) (*models.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, apperr.NewValidationError("order_id", "is required")
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.storeFailed("get_order", err)
		return nil, err
	}
	if o == nil {
		return nil, apperr.Store("get order", apperr.ErrNotFound)
	}
	return o, nil
}

func (s *OrderService) write(ctx context.Context, cur *models.Order, next models.OrderStatus, via string) error {
	if err := s.orders.UpdateStatus(ctx, cur.ID, next); err != nil {
		s.storeFailed(apperr.OpUpdateStatus, err)
		return err
	}
	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(via, string(next)).Inc()
	}
	s.log.Debug("status written",
		zap.String("order_id", cur.ID),
		zap.String("from", string(cur.Status)),
		zap.String("to", string(next)),
		zap.String("via", via))
	s.publish(ctx, events.Event{
		Type:      events.OrderStatusChanged,
		OrderID:   cur.ID,
		UserID:    cur.UserID,
		OldStatus: cur.Status,
		NewStatus: next,
		Via:       via,
		At:        time.Now().UTC(),
	})
	return nil
}

// publish never fails the caller: the order write already happened.
func (s *OrderService) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("order event dropped", zap.String("type", string(e.Type)), zap.String("order_id", e.OrderID), zap.Error(err))
	}
}

func (s *OrderService) storeFailed(op string, err error) {
	if !apperr.IsStore(err) {
		return
	}
	if s.metrics != nil {
		s.metrics.StoreErrors.WithLabelValues(op).Inc()
	}
	s.log.Error("order store call failed", zap.String("op", op), zap.Error(err))
}
