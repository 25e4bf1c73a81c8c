package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Client calls QueueService with the JSON codec and a bearer token.
type Client struct {
	conn  *grpc.ClientConn
	token string
}

// Dial connects to addr without TLS. token may be empty for the
// unauthenticated calls (Register, LookupEmail).
func Dial(addr, token string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, token: token}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
	}
	return c.conn.Invoke(ctx, method, in, out)
}

func call[T any](ctx context.Context, c *Client, method string, in any) (*T, error) {
	out := new(T)
	if err := c.invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListQueue(ctx context.Context, req *ListQueueRequest) (*ListOrdersResponse, error) {
	return call[ListOrdersResponse](ctx, c, MethodListQueue, req)
}

func (c *Client) ListMyOrders(ctx context.Context) (*ListOrdersResponse, error) {
	return call[ListOrdersResponse](ctx, c, MethodListMyOrders, &emptypb.Empty{})
}

func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	return call[CreateOrderResponse](ctx, c, MethodCreateOrder, req)
}

func (c *Client) AdvanceStatus(ctx context.Context, orderID string) (*AdvanceStatusResponse, error) {
	return call[AdvanceStatusResponse](ctx, c, MethodAdvanceStatus, &AdvanceStatusRequest{OrderID: orderID})
}

func (c *Client) SetStatus(ctx context.Context, orderID, status string) error {
	return c.invoke(ctx, MethodSetStatus, &SetStatusRequest{OrderID: orderID, Status: status}, &emptypb.Empty{})
}

func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*Profile, error) {
	return call[Profile](ctx, c, MethodRegister, req)
}

func (c *Client) LookupEmail(ctx context.Context, identifier string) (string, error) {
	out := new(LookupEmailResponse)
	if err := c.invoke(ctx, MethodLookupEmail, &LookupEmailRequest{Identifier: identifier}, out); err != nil {
		return "", err
	}
	return out.Email, nil
}

func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	return call[Profile](ctx, c, MethodGetProfile, &emptypb.Empty{})
}

func (c *Client) UpdateProfile(ctx context.Context, fullName, phone string) error {
	return c.invoke(ctx, MethodUpdateProfile, &UpdateProfileRequest{FullName: fullName, Phone: phone}, &emptypb.Empty{})
}
