package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestUnaryServerInterceptor_CountsByCode(t *testing.T) {
	m := New()
	ic := m.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/garage.v1.QueueService/ListQueue"}

	_, _ = ic(context.Background(), nil, info, func(context.Context, any) (any, error) { return nil, nil })
	_, _ = ic(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "missing")
	})
	_, _ = ic(context.Background(), nil, info, func(context.Context, any) (any, error) { return nil, errors.New("plain") })

	if got := testutil.ToFloat64(m.RPCTotal.WithLabelValues(info.FullMethod, "OK")); got != 1 {
		t.Fatalf("OK count = %v", got)
	}
	if got := testutil.ToFloat64(m.RPCTotal.WithLabelValues(info.FullMethod, "NotFound")); got != 1 {
		t.Fatalf("NotFound count = %v", got)
	}
	if got := testutil.ToFloat64(m.RPCTotal.WithLabelValues(info.FullMethod, "Unknown")); got != 1 {
		t.Fatalf("Unknown count = %v", got)
	}
}

func TestHandler_ServesCollectors(t *testing.T) {
	m := New()
	m.OrdersCreated.Inc()
	m.StatusTransitions.WithLabelValues("advance", "proses").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{"garage_orders_created_total 1", `garage_status_transitions_total{to="proses",via="advance"} 1`} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
