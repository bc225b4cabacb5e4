package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/grpc"

	"slot-booking-api/internal/config"
	"slot-booking-api/internal/fanout"
	gweb "slot-booking-api/internal/grpcweb"
	"slot-booking-api/internal/handler"
	"slot-booking-api/internal/httpapi"
	"slot-booking-api/internal/middleware"
	"slot-booking-api/internal/obs"
	"slot-booking-api/internal/relay"
	"slot-booking-api/internal/rpc"
	"slot-booking-api/internal/store"
	"slot-booking-api/internal/store/memstore"
)

type recordStore interface {
	handler.Store
	httpapi.Lister
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("tracer: %v", err)
	}

	// database
	var st recordStore
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, using in-memory store")
		st = memstore.New()
	} else {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("db ping: %v", err)
		}
		log.Println("connected to postgres")

		pg := store.New(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Println("migration applied")
		st = pg
	}

	// fanout: in-process, or through the broker when configured
	hub := fanout.New(cfg.FanoutBuffer)
	var pub handler.Publisher = hub
	if cfg.RabbitURL != "" {
		p, err := relay.Dial(cfg.RabbitURL, cfg.RabbitExchange, cfg.FanoutBuffer)
		if err != nil {
			log.Fatalf("relay publisher: %v", err)
		}
		defer p.Close()
		c, err := relay.NewConsumer(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			log.Fatalf("relay consumer: %v", err)
		}
		defer c.Close()
		go func() {
			if err := c.Run(ctx, hub); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("relay: %v", err)
			}
		}()
		pub = p
		log.Printf("relaying bookings through %s", cfg.RabbitExchange)
	}

	h := handler.New(st, pub, hub)

	// grpc server
	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rl.Close()
	srv := grpc.NewServer(
		grpc.ForceServerCodec(rpc.Codec{}),
		grpc.ChainUnaryInterceptor(middleware.RateLimit(rl)),
	)
	rpc.RegisterBookingServiceServer(srv, h)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	go func() {
		log.Printf("grpc on %s", cfg.GRPCAddr)
		if err := srv.Serve(lis); err != nil {
			log.Printf("grpc: %v", err)
		}
	}()

	// http: json intake, sse, pages and the grpc-web bridge
	httpSrv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Options{
			Intake:  h,
			Lister:  st,
			Hub:     hub,
			Limiter: rl,
			Bridge:  gweb.New(h).Handler(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("http on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// open sse streams only end with their connections
	httpSrv.Close()

	// watch streams never finish on their own
	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		srv.Stop()
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Printf("tracer shutdown: %v", err)
	}
}
