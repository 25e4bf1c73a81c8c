package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"garageQueue/internal/apperr"
	"garageQueue/internal/db"
	"garageQueue/internal/queue"
	"garageQueue/models"
)

const (
	ordersTable = "orders"
	// orderColumns is joined with profiles; owner fields are blank when the profile is missing.
	orderColumns = "o.id, o.user_id, o.motor, o.maps_link, o.status, o.order_time, o.finish_time, COALESCE(p.full_name, ''), COALESCE(p.phone, '')"
)

// OrderRepository is the sole point of contact with the orders table.
// There is no caching and no concurrency guard: status writes race and the
// last one wins.
type OrderRepository struct {
	db  *sql.DB
	sb  sq.StatementBuilderType
	now func() time.Time
}

// NewOrderRepository creates a new OrderRepository for the given driver.
func NewOrderRepository(d *sql.DB, driver string) *OrderRepository {
	return &OrderRepository{db: d, sb: db.StatementBuilder(driver), now: time.Now}
}

// SetClock replaces the clock used to stamp order_time on insert.
func (r *OrderRepository) SetClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *OrderRepository) selectOrders() sq.SelectBuilder {
	return r.sb.Select(orderColumns).
		From(ordersTable + " o").
		LeftJoin("profiles p ON p.id = o.user_id")
}

// ListOrders executes a filtered, sorted read. No rows yields an empty slice.
func (r *OrderRepository) ListOrders(ctx context.Context, p queue.Predicate) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	q := r.selectOrders()
	if p.Status != nil {
		q = q.Where(sq.Eq{"o.status": string(*p.Status)})
	}
	if p.ExcludeStatus != nil {
		q = q.Where(sq.NotEq{"o.status": string(*p.ExcludeStatus)})
	}
	// Times are stored in UTC; bounds must be too so text comparison in SQLite holds.
	if p.From != nil {
		q = q.Where(sq.GtOrEq{"o.order_time": p.From.UTC()})
	}
	if p.To != nil {
		q = q.Where(sq.LtOrEq{"o.order_time": p.To.UTC()})
	}
	if p.Ascending {
		q = q.OrderBy("o.order_time ASC", "o.id ASC")
	} else {
		q = q.OrderBy("o.order_time DESC", "o.id DESC")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store("list orders", err)
	}
	defer rows.Close()
	return scanOrderRows(rows)
}

// Create inserts a new order. Status is always the initial status and
// order_time is always the insertion time, whatever the caller had in mind.
func (r *OrderRepository) Create(ctx context.Context, ownerID, motor, mapsLink string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	o := &models.Order{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Motor:     motor,
		MapsLink:  mapsLink,
		Status:    models.OrderStatusWaiting,
		OrderTime: r.now().UTC(),
	}
	query, args, err := r.sb.Insert(ordersTable).
		Columns("id", "user_id", "motor", "maps_link", "status", "order_time").
		Values(o.ID, o.UserID, o.Motor, o.MapsLink, string(o.Status), o.OrderTime).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, apperr.Store("create order", err)
	}
	created, err := r.GetByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, apperr.Store("create order", fmt.Errorf("created order not found: id=%s", o.ID))
	}
	return created, nil
}

// GetByID fetches an order by its ID; nil when it does not exist.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query, args, err := r.selectOrders().Where(sq.Eq{"o.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Store("get order", err)
	}
	return o, nil
}

// UpdateStatus sets the status of one order. Repeating the same write is
// harmless. Returns apperr.ErrNotFound when no row has that id.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query, args, err := r.sb.Update(ordersTable).
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperr.Store("update status", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.Store("update status", apperr.ErrNotFound)
	}
	return nil
}

// ListByUserID returns all orders of one owner, newest first.
func (r *OrderRepository) ListByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query, args, err := r.selectOrders().
		Where(sq.Eq{"o.user_id": userID}).
		OrderBy("o.order_time DESC", "o.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user list: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store("list user orders", err)
	}
	defer rows.Close()
	return scanOrderRows(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var status string
	var finish sql.NullTime
	if err := row.Scan(&o.ID, &o.UserID, &o.Motor, &o.MapsLink, &status, &o.OrderTime, &finish, &o.OwnerName, &o.OwnerPhone); err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	o.OrderTime = o.OrderTime.UTC()
	if finish.Valid {
		v := finish.Time.UTC()
		o.FinishTime = &v
	}
	return &o, nil
}

// scanOrderRows is a helper to scan rows into Order objects.
func scanOrderRows(rows *sql.Rows) ([]models.Order, error) {
	out := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, apperr.Store("scan order", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("scan order", err)
	}
	return out, nil
}
