// Command dashboard prints a live list of bookings made while it runs.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"slot-booking-api/internal/dashboard"
	"slot-booking-api/internal/model"
	"slot-booking-api/internal/rpc"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var addr string
	flagSet := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	flagSet.StringVar(&addr, "addr", "localhost:50051", "booking service gRPC address")
	flagSet.BoolP("clear", "c", false, "clear the terminal before each redraw")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	clearScreen, _ := flagSet.GetBool("clear")

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var view *dashboard.View
	redraw := func([]model.Booking) {
		if clearScreen {
			fmt.Print("\033[H\033[2J")
		}
		_ = view.Render(os.Stdout)
	}
	view = dashboard.New(dashboard.GRPCDialer(rpc.NewBookingServiceClient(conn)), dashboard.WithOnChange(redraw))

	// the stream lives as long as ctx
	if err := view.Mount(ctx); err != nil {
		return err
	}
	defer view.Unmount()
	redraw(nil)

	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			if view.State() == dashboard.Disconnected {
				redraw(nil)
				return view.Err()
			}
		}
	}
}
