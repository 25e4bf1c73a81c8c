package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"garageQueue/internal/db"
	"garageQueue/internal/events"
	"garageQueue/internal/geo"
	grpcserver "garageQueue/internal/grpc"
	"garageQueue/internal/logger"
	"garageQueue/internal/metrics"
	"garageQueue/internal/service"
	"garageQueue/models"
	"garageQueue/repository"
)

// garage serve: start the gRPC server (and the metrics listener when configured).
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC queue server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger.New(cfg.App.Env)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		log.Info("configuration loaded", zap.Stringer("config", cfg))

		d, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer func() {
			if err := d.Close(); err != nil {
				log.Warn("close db", zap.Error(err))
			}
		}()
		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		var pub events.Publisher = events.Nop{}
		if len(cfg.Kafka.Brokers) > 0 {
			kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
			if err != nil {
				return fmt.Errorf("kafka producer: %w", err)
			}
			pub = kp
			log.Info("order events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
		}
		defer func() { _ = pub.Close() }()

		m := metrics.New()
		orders := repository.NewOrderRepository(d, cfg.Database.Driver)
		profiles := repository.NewProfileRepository(d, cfg.Database.Driver)
		shop := geo.Point{Lat: cfg.Shop.Lat, Lng: cfg.Shop.Lng}

		srv := &grpcserver.Server{
			Orders: service.NewOrderService(orders, service.OrderOptions{
				Location: loc,
				Shop:     &shop,
				Events:   pub,
				Metrics:  m,
				Logger:   log.Named("orders"),
			}),
			Profiles: service.NewProfileService(profiles, log.Named("profiles")),
			Admins:   profiles,
			Location: loc,
			Log:      log,
		}
		g := grpcserver.NewGRPCServer(srv, grpcserver.Options{JWTSecret: cfg.Auth.JWTSecret, Metrics: m, Log: log.Named("grpc")})
		shutdown, err := grpcserver.StartGRPC(cfg.GRPC.Address, g)
		if err != nil {
			return fmt.Errorf("start grpc: %w", err)
		}
		log.Info("gRPC server listening", zap.String("addr", cfg.GRPC.Address))

		var metricsSrv *http.Server
		if cfg.Metrics.Address != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			metricsSrv = &http.Server{Addr: cfg.Metrics.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("metrics listener", zap.Error(err))
				}
			}()
			log.Info("metrics listening", zap.String("addr", cfg.Metrics.Address))
		}

		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		<-sigc

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(ctx)
		}
		if err := shutdown(ctx); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
		return nil
	},
}

var (
	adminID, adminName, adminEmail, adminPhone string
	pageLimit, pageOffset                      int
)

// garage profiles: page through stored profiles straight from the database.
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List stored profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer d.Close()
		svc := service.NewProfileService(repository.NewProfileRepository(d, cfg.Database.Driver), logger.Must(cfg.App.Env))
		list, err := svc.List(cmd.Context(), pageLimit, pageOffset)
		if err != nil {
			return err
		}
		return printProfiles(os.Stdout, list)
	},
}

func printProfiles(w io.Writer, list []models.Profile) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tROLE")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.FullName, p.Email, p.Phone, p.Role)
	}
	return tw.Flush()
}

// garage bootstrap-admin: create the first admin profile, or promote an existing one.
var bootstrapAdminCmd = &cobra.Command{
	Use:   "bootstrap-admin",
	Short: "Create or promote an admin profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer d.Close()
		profiles := repository.NewProfileRepository(d, cfg.Database.Driver)
		svc := service.NewProfileService(profiles, logger.Must(cfg.App.Env))

		ctx := cmd.Context()
		existing, err := profiles.GetByID(ctx, adminID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := svc.Promote(ctx, adminID); err != nil {
				return err
			}
			fmt.Printf("promoted %s (%s) to admin\n", existing.FullName, existing.ID)
			return nil
		}
		a := models.NewAdmin(adminID, adminName, adminEmail)
		a.Phone = adminPhone
		if _, err := profiles.Create(ctx, &a.Profile); err != nil {
			return err
		}
		fmt.Printf("created admin %s (%s)\n", a.FullName, a.ID)
		return nil
	},
}

func init() {
	f := bootstrapAdminCmd.Flags()
	f.StringVar(&adminID, "id", "", "identity id of the admin")
	f.StringVar(&adminName, "name", "Admin", "full name for a new profile")
	f.StringVar(&adminEmail, "email", "", "email for a new profile")
	f.StringVar(&adminPhone, "phone", "", "phone for a new profile")
	_ = bootstrapAdminCmd.MarkFlagRequired("id")

	profilesCmd.Flags().IntVar(&pageLimit, "limit", 100, "rows per page")
	profilesCmd.Flags().IntVar(&pageOffset, "offset", 0, "rows to skip")
}
