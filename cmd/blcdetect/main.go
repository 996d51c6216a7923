// Command blcdetect probes a BL-Ctrl bus, prints what it finds, and
// optionally runs idle setpoint sweeps as a link test.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/oygx210/blctl/blctl"
	"github.com/oygx210/blctl/config"
	"github.com/oygx210/blctl/transports"
)

func main() {
	configPath := flag.String("config", "blctl.yaml", "path to driver configuration")
	sweeps := flag.Int("sweeps", 0, "number of idle setpoint sweeps to run after detection")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	transport, err := openTransport(cfg)
	if err != nil {
		log.Fatalf("Failed to open transport: %v", err)
	}

	fleet, err := blctl.NewFleet(blctl.FleetConfig{
		Transport: transport,
		Store:     cfg,
	})
	if err != nil {
		log.Fatalf("Failed to create fleet: %v", err)
	}
	defer fleet.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fleet.Detect(ctx); err != nil {
		log.Fatalf("Detection failed: %v", err)
	}

	fmt.Printf("Expected motors: %d\n", fleet.MotorCount())
	fmt.Printf("Fleet features:  %s (%d-byte commands)\n", fleet.Features(), fleet.SetpointLen())
	fmt.Println()

	for slot := uint8(0); slot < blctl.MaxMotors; slot++ {
		if !fleet.Present(slot) {
			fmt.Printf("slot %d @0x%02X: not present\n", slot, blctl.SlotAddress(slot))
			continue
		}

		status, _ := fleet.MotorStatus(slot)
		name := "unknown generation"
		if g, ok := blctl.GenerationByCode(status.Code); ok {
			name = g.Name
		}
		fmt.Printf("slot %d @0x%02X: %s\n", slot, blctl.SlotAddress(slot), name)
		fmt.Printf("  status:  %s (v%d.%d)\n", status.Code, status.VersionMajor, status.VersionMinor)
		temp := "n/a"
		if status.HasTemperature() {
			temp = fmt.Sprintf("%d C", status.Temperature)
		}
		fmt.Printf("  current: %.1f A  voltage: %.1f V  temp: %s  bus errors: %d\n",
			float64(status.Current)/10, float64(status.Voltage)/10, temp, status.I2CErrors)
	}

	fmt.Println()
	fmt.Printf("Error flags: %s\n", fleet.ErrorFlags())

	for i := 0; i < *sweeps; i++ {
		if err := fleet.BeginSweep(); err != nil {
			log.Fatalf("Sweep %d failed to start: %v", i+1, err)
		}
		if err := fleet.WaitSweep(ctx); err != nil {
			log.Fatalf("Sweep %d did not finish: %v", i+1, err)
		}
	}
	if *sweeps > 0 {
		fmt.Printf("Completed %d idle sweeps\n", *sweeps)
	}
}

func openTransport(cfg *config.Config) (blctl.Transport, error) {
	switch cfg.Transport.Kind {
	case "serial":
		return transports.OpenSerialBridge(transports.SerialBridgeConfig{
			Port:     cfg.Transport.Port,
			BaudRate: cfg.Transport.Baud,
		})
	default:
		return transports.OpenI2C(cfg.Transport.Bus)
	}
}
