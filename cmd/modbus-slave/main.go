// Command modbus-slave serves a single in-memory register map over TCP or
// RTU, answering whichever requests arrive.
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/GoAethereal/cancel"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/marchserh/modbus"
)

func main() {
	mode := pflag.String("mode", "tcp", "framing: tcp or rtu")
	kind := pflag.String("kind", "tcp", "network layer for mode=tcp")
	endpoint := pflag.String("endpoint", ":502", "listen address (tcp) or serial device (rtu)")
	unitID := pflag.Uint8("unit-id", 1, "slave address to answer to (0 answers every address)")
	baud := pflag.Int("baud", 19200, "baud rate for mode=rtu")
	coils := pflag.Uint16("coils", 2000, "coil (0x) capacity in bits")
	discretes := pflag.Uint16("discretes", 2000, "discrete input (1x) capacity in bits")
	inputs := pflag.Uint16("inputs", 1000, "input register (3x) capacity in words")
	holdings := pflag.Uint16("holdings", 1000, "holding register (4x) capacity in words")
	pflag.Parse()

	zl, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zl.Sync()
	log := modbus.NewZapLogger(zl)

	cfg := modbus.Config{
		Options: modbus.Options{
			Mode:     *mode,
			Kind:     *kind,
			Endpoint: *endpoint,
			UnitID:   *unitID,
			BaudRate: *baud,
		},
		Logger: log,
	}
	if err := cfg.Verify(); err != nil {
		log.Event("invalid configuration", "err", err)
		os.Exit(1)
	}

	dev := modbus.NewMemory(*coils, *discretes, *inputs, *holdings)

	sigCtx, stopSig := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSig()
	ctx, stop := cancel.Promote(sigCtx)
	defer stop()

	accept, err := cfg.Listen(ctx)
	if err != nil {
		log.Event("listen failed", "err", err)
		os.Exit(1)
	}

	log.Event("modbus-slave listening", "mode", *mode, "endpoint", *endpoint, "unitID", *unitID)
	for {
		t, err := accept()
		if err != nil {
			log.Event("accept failed", "err", err)
			return
		}
		go serve(ctx, t, dev, *unitID, log)
	}
}

func serve(ctx cancel.Context, t modbus.SlaveTransport, dev modbus.Device, unitID uint8, log modbus.Logger) {
	slave := modbus.NewSlave(t, dev, unitID, log)
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			slave.Poll()
		}
	}
}
