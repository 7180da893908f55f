// Command modbus-bridge relays requests arriving on one transport to a
// device reachable over a second transport, gatewaying between e.g. TCP
// and RTU.
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
	frontMode := pflag.String("front-mode", "tcp", "frontend framing: tcp or rtu")
	frontKind := pflag.String("front-kind", "tcp", "frontend network layer for front-mode=tcp")
	frontEndpoint := pflag.String("front-endpoint", ":502", "frontend listen address or serial device")
	frontBaud := pflag.Int("front-baud", 19200, "frontend baud rate for front-mode=rtu")

	backMode := pflag.String("back-mode", "rtu", "backend framing: tcp or rtu")
	backKind := pflag.String("back-kind", "tcp", "backend network layer for back-mode=tcp")
	backEndpoint := pflag.String("back-endpoint", "/dev/ttyUSB0", "backend dial address or serial device")
	backBaud := pflag.Int("back-baud", 19200, "backend baud rate for back-mode=rtu")
	pflag.Parse()

	zl, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zl.Sync()
	log := modbus.NewZapLogger(zl)

	frontCfg := modbus.Config{
		Options: modbus.Options{Mode: *frontMode, Kind: *frontKind, Endpoint: *frontEndpoint, BaudRate: *frontBaud},
		Logger:  log,
	}
	if err := frontCfg.Verify(); err != nil {
		log.Event("invalid frontend configuration", "err", err)
		os.Exit(1)
	}

	backCfg := modbus.Config{
		Options: modbus.Options{Mode: *backMode, Kind: *backKind, Endpoint: *backEndpoint, BaudRate: *backBaud},
		Ports:   modbus.NewEphemeralPorts(49152, 65535),
		Logger:  log,
	}
	if err := backCfg.Verify(); err != nil {
		log.Event("invalid backend configuration", "err", err)
		os.Exit(1)
	}

	backTransport, err := backCfg.MasterTransport()
	if err != nil {
		log.Event("backend transport failed", "err", err)
		os.Exit(1)
	}
	downstream := modbus.NewMaster(backTransport, log)

	sigCtx, stopSig := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSig()
	ctx, stop := cancel.Promote(sigCtx)
	defer stop()

	accept, err := frontCfg.Listen(ctx)
	if err != nil {
		log.Event("listen failed", "err", err)
		os.Exit(1)
	}

	log.Event("modbus-bridge listening", "front", *frontEndpoint, "back", *backEndpoint)
	for {
		t, err := accept()
		if err != nil {
			log.Event("accept failed", "err", err)
			return
		}
		go serve(ctx, t, downstream, log)
	}
}

func serve(ctx cancel.Context, t modbus.SlaveTransport, downstream modbus.Device, log modbus.Logger) {
	bridge := modbus.NewBridge(t, downstream, log)
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bridge.Poll()
		}
	}
}
