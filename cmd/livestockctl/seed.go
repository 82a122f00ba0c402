package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"livestock/internal/app"
	"livestock/internal/config"
	"livestock/internal/domain"
	internalRedis "livestock/internal/redis"
	"livestock/internal/repository/document"
	"livestock/internal/service"
)

type seedJobOptions struct {
	customerID   string
	customerName string
	livestock    string
	quantity     int
	weight       float64
	price        float64
}

func newSeedJobCmd(cfg *config.Config) *cobra.Command {
	opts := seedJobOptions{}

	cmd := &cobra.Command{
		Use:   "seed-job",
		Short: "Create a sample pending job and announce it to online transporters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedJob(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.customerID, "customer-id", "mock-customer-id", "customer id on the job")
	cmd.Flags().StringVar(&opts.customerName, "customer-name", "Mock Customer", "customer name on the job")
	cmd.Flags().StringVar(&opts.livestock, "livestock", "Cattle", "livestock type")
	cmd.Flags().IntVar(&opts.quantity, "quantity", 5, "number of animals")
	cmd.Flags().Float64Var(&opts.weight, "weight", 2500, "total weight in kg")
	cmd.Flags().Float64Var(&opts.price, "price", 350, "offered price")

	return cmd
}

func runSeedJob(ctx context.Context, cfg *config.Config, opts seedJobOptions) error {
	if cfg.Store.Backend == config.StoreBackendMemory {
		return fmt.Errorf("seed-job needs a persistent store backend, got %q", cfg.Store.Backend)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Redis is optional here; without it live subscribers are not told.
	var redisClient *redis.Client
	client, err := app.NewRedisClient(ctx, cfg.Redis, nil)
	if err != nil {
		log.Printf("Redis unavailable, change events will not be published: %v", err)
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	storage, err := app.NewStorage(ctx, cfg, redisClient, nil)
	if err != nil {
		return err
	}
	defer storage.Close()

	userRepo := document.NewUserRepository(storage.Store)
	notificationService := service.NewNotificationService(
		document.NewNotificationRepository(storage.Store),
		userRepo,
		nil,
		nil,
		storage.Feed,
	)

	var lockStore internalRedis.LockStoreInterface
	if redisClient != nil {
		lockStore = internalRedis.NewLockStore(redisClient)
	}

	jobService := service.NewJobService(
		document.NewJobRepository(storage.Store),
		userRepo,
		lockStore,
		notificationService,
		service.NewEarningsService(document.NewEarningsRepository(storage.Store)),
		storage.Feed,
		cfg.Jobs.EarningsOnCompletion,
	)

	job, err := jobService.CreateJob(ctx, service.CreateJobRequest{
		CustomerID:   opts.customerID,
		CustomerName: opts.customerName,
		PickupLocation: domain.Location{
			Address:     "123 Farm Road, Rural County",
			Coordinates: domain.Coordinates{Lat: 40.712776, Lng: -74.005974},
		},
		DropoffLocation: domain.Location{
			Address:     "456 Market Street, City Center",
			Coordinates: domain.Coordinates{Lat: 40.730610, Lng: -73.935242},
		},
		PickupTime:        time.Now().Add(24 * time.Hour),
		EstimatedDistance: 25.4,
		EstimatedDuration: 45,
		Price:             opts.price,
		Livestock: domain.LivestockDetails{
			Type:                opts.livestock,
			Quantity:            opts.quantity,
			Weight:              opts.weight,
			SpecialRequirements: "Handle with care, animals are pregnant",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	fmt.Println(job.ID)
	return nil
}
