package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/status"

	"garageQueue/internal/geo"
	grpcserver "garageQueue/internal/grpc"
	"garageQueue/internal/queue"
	"garageQueue/models"
)

const callTimeout = 10 * time.Second

var (
	clientAddr  string
	clientToken string

	listDate  string
	listView  string
	onlyToday bool

	orderMotor string
	orderLat   float64
	orderLng   float64

	regName, regEmail, regPhone string
	profName, profPhone                string

	watchMode     string
	watchInterval time.Duration
)

func addClientFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		f := c.PersistentFlags()
		f.StringVar(&clientAddr, "addr", "", "server address (default GRPC_ADDRESS)")
		f.StringVar(&clientToken, "token", os.Getenv("GARAGE_TOKEN"), "bearer token (default $GARAGE_TOKEN)")
	}
}

func dial() (*grpcserver.Client, error) {
	addr := clientAddr
	if addr == "" {
		addr = cfg.GRPC.Address
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return grpcserver.Dial(addr, clientToken)
}

// withClient dials, runs fn under a call timeout, and reduces failures to
// the notice text the server sent.
func withClient(cmd *cobra.Command, fn func(context.Context, *grpcserver.Client) error) error {
	c, err := dial()
	if err != nil {
		return err
	}
	defer c.Close()
	ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
	defer cancel()
	return clientErr(fn(ctx, c))
}

// shopLocation is the configured shop zone. config rejects an invalid one at load.
func shopLocation() *time.Location {
	loc, err := cfg.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

func clientErr(err error) error {
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		return errors.New(st.Message())
	}
	return err
}

// printOrders lists orders with times in loc, the zone the queue day is cut in.
func printOrders(w io.Writer, orders []grpcserver.Order, loc *time.Location) error {
	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "Belum ada antrian")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tSTATUS\tMOTOR\tOWNER\tPHONE\tLOCATION")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.OrderTime.In(loc).Format("02 Jan 15:04"), o.Status, o.Motor, o.OwnerName, o.OwnerPhone, o.MapsLink)
	}
	return tw.Flush()
}

var listTodayCmd = &cobra.Command{
	Use:   "list-today",
	Short: "List the live queue of a day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *grpcserver.Client) error {
			resp, err := c.ListQueue(ctx, &grpcserver.ListQueueRequest{Mode: string(queue.ModeLive), Date: listDate, View: listView})
			if err != nil {
				return err
			}
			return printOrders(os.Stdout, resp.Orders, shopLocation())
		})
	},
}

var listHoldoverCmd = &cobra.Command{
	Use:   "list-holdover",
	Short: "List every order held over",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *grpcserver.Client) error {
			resp, err := c.ListQueue(ctx, &grpcserver.ListQueueRequest{Mode: string(queue.ModeHoldover), View: listView})
			if err != nil {
				return err
			}
			return printOrders(os.Stdout, resp.Orders, shopLocation())
		})
	},
}

var createOrderCmd = &cobra.Command{
	Use:   "create-order",
	Short: "Place a service order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var at *geo.Point
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
			at = &geo.Point{Lat: orderLat, Lng: orderLng}
		}
		return withClient(cmd, func(ctx context.Context, c *grpcserver.Client) error {
			resp, err := c.CreateOrder(ctx, &grpcserver.CreateOrderRequest{Motor: orderMotor, Location: at})
			if err != nil {
				return err
			}
			fmt.Printf("Order dibuat: %s (%s)\n", resp.Order.ID, resp.Order.Status)
			if resp.DistanceKm != nil {
				fmt.Printf("Jarak ke bengkel: %.1f km\n", *resp.DistanceKm)
			}
			return nil
		})
	},
}

var advanceCmd = &cobra.Command{
	Use:   "advance ORDER_ID",
	Short: "Move an order to the next status (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *grpcserver.Client) error {
			resp, err := c.AdvanceStatus(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s -> %s\n", args[0], resp.Status)
			return nil
		})
	},
}

var setStatusCmd = &cobra.Command{
	Use:   "set-status ORDER_ID STATUS",
	Short: "Write a status directly: menunggu, proses, selesai or menginap",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *grpcserver.Client) error {
			if err := c.SetStatus(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("%s -> %s\n", args[0], args[1])
			return nil
		})
	},
}

var myOrdersCmd = &cobra.Command{
	Use:   "my-orders",
	Short: "List your orders, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *grpcserver.Client) error {
			resp, err := c.ListMyOrders(ctx)
			if err != nil {
				return err
			}
			orders := resp.Orders
			if onlyToday {
				loc := shopLocation()
				orders = inLiveQueue(orders, time.Now().In(loc), loc)
			}
			return printOrders(os.Stdout, orders, shopLocation())
		})
	},
}

// inLiveQueue keeps the orders that today's live queue would show.
func inLiveQueue(orders []grpcserver.Order, day time.Time, loc *time.Location) []grpcserver.Order {
	pred := queue.Filter(queue.ModeLive, day, queue.ViewUser, loc)
	var out []grpcserver.Order
	for _, o := range orders {
		if pred.Matches(models.Order{Status: models.OrderStatus(o.Status), OrderTime: o.OrderTime}) {
			out = append(out, o)
		}
	}
	return out
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create the profile of the identity in --token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *grpcserver.Client) error {
			p, err := c.Register(ctx, &grpcserver.RegisterRequest{FullName: regName, Email: regEmail, Phone: regPhone})
			if err != nil {
				return err
			}
			fmt.Printf("Registrasi berhasil: %s <%s>\n", p.FullName, p.Email)
			return nil
		})
	},
}

var lookupEmailCmd = &cobra.Command{
	Use:   "lookup-email EMAIL_OR_PHONE",
	Short: "Resolve a login identifier to the account email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *grpcserver.Client) error {
			email, err := c.LookupEmail(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(email)
			return nil
		})
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *grpcserver.Client) error {
			p, err := c.GetProfile(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Nama:    %s\nEmail:   %s\nTelepon: %s\nRole:    %s\n", p.FullName, p.Email, p.Phone, p.Role)
			return nil
		})
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your name and phone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *grpcserver.Client) error {
			if err := c.UpdateProfile(ctx, profName, profPhone); err != nil {
				return err
			}
			fmt.Println("Profil berhasil diperbarui.")
			return nil
		})
	},
}

type watchResult struct {
	ticket queue.Ticket
	resp   *grpcserver.ListOrdersResponse
	err    error
}

// garage watch: poll the queue and print what changed. Requests may overlap
// when the server is slow; a response older than one already shown is dropped.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the queue and print changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchInterval <= 0 {
			return errors.New("--interval must be positive")
		}
		c, err := dial()
		if err != nil {
			return err
		}
		defer c.Close()
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var seq queue.Sequencer
		results := make(chan watchResult)
		fetch := func() {
			t := seq.Begin()
			go func() {
				rctx, cancel := context.WithTimeout(ctx, callTimeout)
				defer cancel()
				resp, err := c.ListQueue(rctx, &grpcserver.ListQueueRequest{Mode: watchMode, View: listView})
				select {
				case results <- watchResult{ticket: t, resp: resp, err: err}:
				case <-ctx.Done():
				}
			}()
		}

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()
		var prev map[string]grpcserver.Order
		fetch()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				fetch()
			case r := <-results:
				if r.err != nil {
					// A failed poll that a newer one supersedes is not worth reporting.
					if seq.Latest(r.ticket) {
						fmt.Fprintln(os.Stderr, clientErr(r.err))
					}
					continue
				}
				if !seq.Accept(r.ticket) {
					continue
				}
				if prev == nil {
					_ = printOrders(os.Stdout, r.resp.Orders, shopLocation())
				} else {
					printChanges(os.Stdout, prev, r.resp.Orders)
				}
				prev = indexOrders(r.resp.Orders)
			}
		}
	},
}

func indexOrders(orders []grpcserver.Order) map[string]grpcserver.Order {
	m := make(map[string]grpcserver.Order, len(orders))
	for _, o := range orders {
		m[o.ID] = o
	}
	return m
}

func printChanges(w io.Writer, prev map[string]grpcserver.Order, cur []grpcserver.Order) {
	seen := make(map[string]struct{}, len(cur))
	for _, o := range cur {
		seen[o.ID] = struct{}{}
		old, ok := prev[o.ID]
		switch {
		case !ok:
			fmt.Fprintf(w, "+ %s %s (%s) %s\n", o.ID, o.Motor, o.OwnerName, o.Status)
		case old.Status != o.Status:
			fmt.Fprintf(w, "~ %s %s -> %s\n", o.ID, old.Status, o.Status)
		}
	}
	for id, o := range prev {
		if _, ok := seen[id]; !ok {
			fmt.Fprintf(w, "- %s %s\n", id, o.Motor)
		}
	}
}

var clientCmds = []*cobra.Command{
	listTodayCmd, listHoldoverCmd, createOrderCmd, advanceCmd, setStatusCmd,
	myOrdersCmd, registerCmd, lookupEmailCmd, profileCmd, watchCmd,
}

func init() {
	listTodayCmd.Flags().StringVar(&listDate, "date", "", "day to list, YYYY-MM-DD (default today)")
	for _, c := range []*cobra.Command{listTodayCmd, listHoldoverCmd, watchCmd} {
		c.Flags().StringVar(&listView, "view", string(queue.ViewUser), "admin (oldest first) or user (newest first)")
	}

	createOrderCmd.Flags().StringVar(&orderMotor, "motor", "", "vehicle description")
	createOrderCmd.Flags().Float64Var(&orderLat, "lat", 0, "pickup latitude")
	createOrderCmd.Flags().Float64Var(&orderLng, "lng", 0, "pickup longitude")

	myOrdersCmd.Flags().BoolVar(&onlyToday, "today", false, "only orders in today's live queue")

	f := registerCmd.Flags()
	f.StringVar(&regName, "name", "", "full name")
	f.StringVar(&regEmail, "email", "", "email (default the token's email)")
	f.StringVar(&regPhone, "phone", "", "phone number")

	profileUpdateCmd.Flags().StringVar(&profName, "name", "", "full name")
	profileUpdateCmd.Flags().StringVar(&profPhone, "phone", "", "phone number")
	profileCmd.AddCommand(profileUpdateCmd)

	watchCmd.Flags().StringVar(&watchMode, "mode", string(queue.ModeLive), "live or holdover")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Second, "poll interval")
}
