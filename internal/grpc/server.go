package grpcserver

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"garageQueue/internal/apperr"
	"garageQueue/internal/auth"
	"garageQueue/internal/metrics"
	"garageQueue/internal/queue"
	"garageQueue/internal/service"
	"garageQueue/models"
)

const (
	healthCheckMethod = "/grpc.health.v1.Health/Check"
	dateLayout        = "2006-01-02"
	forbiddenMessage  = "Hanya admin yang dapat melakukan aksi ini."
)

// Server implements QueueServiceServer on top of the service layer.
type Server struct {
	Orders   *service.OrderService
	Profiles *service.ProfileService
	// Admins re-reads the caller's role for admin-only calls.
	Admins   auth.ProfileLookup
	Location *time.Location
	Log      *zap.Logger

	now func() time.Time
}

var _ QueueServiceServer = (*Server)(nil)

// Options configures NewGRPCServer.
type Options struct {
	JWTSecret string
	Metrics   *metrics.Metrics
	Log       *zap.Logger
}

// NewGRPCServer builds a grpc.Server with QueueService and the health
// service registered behind the metrics, logging and auth interceptors.
func NewGRPCServer(s *Server, opts Options) *grpc.Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	var chain []grpc.UnaryServerInterceptor
	if opts.Metrics != nil {
		chain = append(chain, opts.Metrics.UnaryServerInterceptor())
	}
	chain = append(chain,
		loggingInterceptor(log),
		auth.NewUnaryAuthInterceptor(opts.JWTSecret, healthCheckMethod, MethodLookupEmail),
	)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))
	RegisterQueueServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

// StartGRPC listens on addr and serves srv in the background. The returned
// function stops the server, gracefully until ctx expires.
func StartGRPC(addr string, srv *grpc.Server) (func(context.Context) error, error) {
	if addr == "" {
		addr = ":50051"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	go func() { _ = srv.Serve(lis) }()

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}

func loggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		fields := []zap.Field{zap.String("method", info.FullMethod), zap.String("code", code.String()), zap.Duration("took", time.Since(start))}
		switch code {
		case codes.OK:
			log.Debug("rpc", fields...)
		case codes.Internal, codes.Unknown:
			log.Error("rpc", fields...)
		default:
			log.Info("rpc", fields...)
		}
		return resp, err
	}
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) today() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().In(loc)
}

// toStatus maps a service error to a gRPC status whose message is the
// notification shown to the user. Backend reasons only reach the log.
func (s *Server) toStatus(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, auth.ErrForbidden) {
		return status.Error(codes.PermissionDenied, forbiddenMessage)
	}
	n := apperr.Notice(op, err)
	code := codes.Internal
	switch {
	case apperr.IsAuthRequired(err):
		code = codes.Unauthenticated
	case apperr.IsValidation(err):
		code = codes.InvalidArgument
	case errors.Is(err, apperr.ErrNotFound):
		code = codes.NotFound
	}
	if code == codes.Internal {
		s.logger().Error("request failed", zap.String("op", op), zap.Error(err))
	}
	return status.Error(code, n.Message)
}

// ListQueue returns the live queue of a day or the holdover bucket.
// The admin view is restricted to admins; the user view shows owner
// contact only on the caller's own orders.
func (s *Server) ListQueue(ctx context.Context, req *ListQueueRequest) (*ListOrdersResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, s.toStatus(apperr.OpListQueue, err)
	}
	mode, err := queue.ParseMode(req.Mode)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	view, err := queue.ParseView(req.View)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if view == queue.ViewAdmin {
		if _, err := auth.RequireAdmin(ctx, s.Admins); err != nil {
			return nil, s.toStatus(apperr.OpListQueue, err)
		}
	}
	date := s.today()
	if d := strings.TrimSpace(req.Date); d != "" {
		if date, err = time.ParseInLocation(dateLayout, d, date.Location()); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "date must be %s", dateLayout)
		}
	}
	list, err := s.Orders.ListToday(ctx, mode, date, view)
	if err != nil {
		return nil, s.toStatus(apperr.OpListQueue, err)
	}
	out := toWireOrders(list)
	if view == queue.ViewUser {
		hideOwners(out, p.UserID)
	}
	return &ListOrdersResponse{Orders: out}, nil
}

// ListMyOrders returns the caller's order history, newest first.
func (s *Server) ListMyOrders(ctx context.Context, _ *emptypb.Empty) (*ListOrdersResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, s.toStatus(apperr.OpListMine, err)
	}
	list, err := s.Orders.ListMyOrders(ctx, p.UserID)
	if err != nil {
		return nil, s.toStatus(apperr.OpListMine, err)
	}
	return &ListOrdersResponse{Orders: toWireOrders(list)}, nil
}

// CreateOrder places an order for the caller.
func (s *Server) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, s.toStatus(apperr.OpCreateOrder, err)
	}
	out, err := s.Orders.CreateOrder(ctx, p.UserID, req.Motor, req.Location)
	if err != nil {
		return nil, s.toStatus(apperr.OpCreateOrder, err)
	}
	return &CreateOrderResponse{Order: toWireOrder(*out.Order), DistanceKm: out.DistanceKm}, nil
}

// AdvanceStatus moves an order one step along the status cycle. Admin only.
func (s *Server) AdvanceStatus(ctx context.Context, req *AdvanceStatusRequest) (*AdvanceStatusResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Admins); err != nil {
		return nil, s.toStatus(apperr.OpUpdateStatus, err)
	}
	next, err := s.Orders.AdvanceStatus(ctx, req.OrderID)
	if err != nil {
		return nil, s.toStatus(apperr.OpUpdateStatus, err)
	}
	return &AdvanceStatusResponse{Status: string(next)}, nil
}

// SetStatus writes a chosen status to an order.
func (s *Server) SetStatus(ctx context.Context, req *SetStatusRequest) (*emptypb.Empty, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, s.toStatus(apperr.OpUpdateStatus, err)
	}
	st := models.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if err := s.Orders.SetStatus(ctx, req.OrderID, st); err != nil {
		return nil, s.toStatus(apperr.OpUpdateStatus, err)
	}
	return &emptypb.Empty{}, nil
}

// Register stores the profile of the calling identity. The profile id is
// always the token subject; the email defaults to the token's.
func (s *Server) Register(ctx context.Context, req *RegisterRequest) (*Profile, error) {
	caller, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, s.toStatus(apperr.OpRegister, err)
	}
	email := req.Email
	if strings.TrimSpace(email) == "" {
		email = caller.Email
	}
	p, err := s.Profiles.Register(ctx, service.RegisterRequest{
		ID:       caller.UserID,
		FullName: req.FullName,
		Email:    email,
		Phone:    req.Phone,
	})
	if err != nil {
		return nil, s.toStatus(apperr.OpRegister, err)
	}
	return toWireProfile(p), nil
}

// LookupEmail resolves a phone-number login to the account email.
func (s *Server) LookupEmail(ctx context.Context, req *LookupEmailRequest) (*LookupEmailResponse, error) {
	email, err := s.Profiles.LookupEmail(ctx, req.Identifier)
	if err != nil {
		return nil, s.toStatus(apperr.OpLookup, err)
	}
	return &LookupEmailResponse{Email: email}, nil
}

func (s *Server) GetProfile(ctx context.Context, _ *emptypb.Empty) (*Profile, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, s.toStatus(apperr.OpProfile, err)
	}
	prof, err := s.Profiles.Get(ctx, p.UserID)
	if err != nil {
		return nil, s.toStatus(apperr.OpProfile, err)
	}
	return toWireProfile(prof), nil
}

// UpdateProfile changes the caller's name and phone.
func (s *Server) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*emptypb.Empty, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, s.toStatus(apperr.OpProfile, err)
	}
	if err := s.Profiles.UpdateContact(ctx, p.UserID, req.FullName, req.Phone); err != nil {
		return nil, s.toStatus(apperr.OpProfile, err)
	}
	return &emptypb.Empty{}, nil
}
