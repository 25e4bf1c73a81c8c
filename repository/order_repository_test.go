package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garageQueue/internal/apperr"
	"garageQueue/internal/db"
	"garageQueue/internal/queue"
	"garageQueue/internal/testutil"
	"garageQueue/models"
)

var wib = time.FixedZone("WIB", 7*3600)

// newOrderRepo opens a fresh database and returns an order repository whose
// clock is driven by the returned setter.
func newOrderRepo(t *testing.T, name string) (*OrderRepository, *ProfileRepository, func(time.Time)) {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	orders := NewOrderRepository(d, db.DriverSQLite)
	profiles := NewProfileRepository(d, db.DriverSQLite)
	var now time.Time
	orders.SetClock(func() time.Time { return now })
	return orders, profiles, func(t time.Time) { now = t }
}

func TestOrderRepository_CreateForcesStatusAndTime(t *testing.T) {
	orders, _, setNow := newOrderRepo(t, "ordercreate")
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, wib)
	setNow(at)

	o, err := orders.Create(ctx, "uid-1", "Honda Beat", "https://maps.google.com/?q=-7.5,110.8")
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, models.OrderStatusWaiting, o.Status)
	assert.True(t, o.OrderTime.Equal(at), "order_time = %v", o.OrderTime)
	assert.Nil(t, o.FinishTime)
	assert.Equal(t, "Honda Beat", o.Motor)
}

func TestOrderRepository_LiveAndHoldoverFilters(t *testing.T) {
	orders, profiles, setNow := newOrderRepo(t, "orderfilters")
	ctx := context.Background()
	_, err := profiles.Create(ctx, &models.Profile{ID: "uid-1", FullName: "Budi", Email: "budi@example.com", Phone: "0812"})
	require.NoError(t, err)

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, wib)
	mk := func(at time.Time, status models.OrderStatus) *models.Order {
		setNow(at)
		o, err := orders.Create(ctx, "uid-1", "Vario", "https://maps.google.com/?q=1,2")
		require.NoError(t, err)
		if status != models.OrderStatusWaiting {
			require.NoError(t, orders.UpdateStatus(ctx, o.ID, status))
		}
		return o
	}
	early := mk(day, models.OrderStatusWaiting)
	late := mk(day.Add(24*time.Hour-time.Millisecond), models.OrderStatusDone)
	mid := mk(day.Add(10*time.Hour), models.OrderStatusProcessing)
	held := mk(day.Add(10*time.Hour), models.OrderStatusHoldover)
	nextDay := mk(day.Add(24*time.Hour), models.OrderStatusWaiting)
	oldHeld := mk(day.AddDate(0, -1, 0), models.OrderStatusHoldover)

	live, err := orders.ListOrders(ctx, queue.Filter(queue.ModeLive, day.Add(15*time.Hour), queue.ViewAdmin, wib))
	require.NoError(t, err)
	assert.Equal(t, []string{early.ID, mid.ID, late.ID}, ids(live), "ascending, same day, no holdover")
	assert.Equal(t, "Budi", live[0].OwnerName)
	assert.Equal(t, "0812", live[0].OwnerPhone)

	liveUser, err := orders.ListOrders(ctx, queue.Filter(queue.ModeLive, day, queue.ViewUser, wib))
	require.NoError(t, err)
	assert.Equal(t, []string{late.ID, mid.ID, early.ID}, ids(liveUser), "user view is newest first")

	hold, err := orders.ListOrders(ctx, queue.Filter(queue.ModeHoldover, day, queue.ViewAdmin, wib))
	require.NoError(t, err)
	assert.Equal(t, []string{oldHeld.ID, held.ID}, ids(hold))

	for _, o := range live {
		assert.NotEqual(t, nextDay.ID, o.ID)
	}
}

func TestOrderRepository_EmptyResultIsNotError(t *testing.T) {
	orders, _, _ := newOrderRepo(t, "orderempty")
	list, err := orders.ListOrders(context.Background(), queue.Filter(queue.ModeHoldover, time.Time{}, queue.ViewUser, nil))
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestOrderRepository_MissingProfileRendersBlank(t *testing.T) {
	orders, _, setNow := newOrderRepo(t, "ordernoprofile")
	ctx := context.Background()
	setNow(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	o, err := orders.Create(ctx, "ghost", "Supra", "https://maps.google.com/?q=0,0")
	require.NoError(t, err)

	list, err := orders.ListOrders(ctx, queue.Filter(queue.ModeLive, o.OrderTime, queue.ViewAdmin, time.UTC))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].OwnerName)
	assert.Empty(t, list[0].OwnerPhone)
}

func TestOrderRepository_UpdateStatusIdempotentAndNotFound(t *testing.T) {
	orders, _, setNow := newOrderRepo(t, "orderupdate")
	ctx := context.Background()
	setNow(time.Now())
	o, err := orders.Create(ctx, "uid-2", "Mio", "https://maps.google.com/?q=0,0")
	require.NoError(t, err)

	require.NoError(t, orders.UpdateStatus(ctx, o.ID, models.OrderStatusProcessing))
	require.NoError(t, orders.UpdateStatus(ctx, o.ID, models.OrderStatusProcessing))
	got, err := orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, got.Status)
	assert.True(t, got.OrderTime.Equal(o.OrderTime), "status writes must not touch order_time")

	err = orders.UpdateStatus(ctx, "no-such-order", models.OrderStatusDone)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.True(t, apperr.IsStore(err))

	missing, err := orders.GetByID(ctx, "no-such-order")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepository_ListByUserIDNewestFirst(t *testing.T) {
	orders, _, setNow := newOrderRepo(t, "orderbyuser")
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	var want []string
	for i := 0; i < 3; i++ {
		setNow(base.AddDate(0, 0, i))
		o, err := orders.Create(ctx, "uid-3", "Scoopy", "https://maps.google.com/?q=0,0")
		require.NoError(t, err)
		want = append([]string{o.ID}, want...)
	}
	setNow(base)
	_, err := orders.Create(ctx, "someone-else", "NMax", "https://maps.google.com/?q=0,0")
	require.NoError(t, err)

	list, err := orders.ListByUserID(ctx, "uid-3")
	require.NoError(t, err)
	assert.Equal(t, want, ids(list))
}

func ids(list []models.Order) []string {
	out := make([]string, 0, len(list))
	for _, o := range list {
		out = append(out, o.ID)
	}
	return out
}
