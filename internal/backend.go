package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/markusressel/papr2go/internal/api"
	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/controller"
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/persistence"
	"github.com/markusressel/papr2go/internal/simulator"
	"github.com/markusressel/papr2go/internal/statistics"
	"github.com/markusressel/papr2go/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// RunDaemon runs the firmware on the simulated board, together with the
// optional metrics and REST servers, until the simulation is done or the
// process is terminated.
func RunDaemon() {
	config := configuration.CurrentConfig

	pers := persistence.NewPersistence(config.DbPath, config.StatusHistorySize)
	if err := pers.Init(); err != nil {
		ui.Fatal("Unable to initialize status history at %s: %v", config.DbPath, err)
	}

	board := simulator.NewBoard(config)
	sink := NewStatusSink(config, controller.StatusMap, board.Time, pers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var g run.Group
	{
		enabled := config.Statistics.Enabled
		if enabled {
			// === Prometheus Exporter
			statistics.RegisterAll(controller.StatusMap)

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			addr := fmt.Sprintf(":%d", config.Statistics.Port)
			server := &http.Server{Addr: addr, Handler: mux}

			g.Add(func() error {
				ui.Info("Serving metrics on %s/metrics", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
				}
				<-ctx.Done()
				return nil
			}, func(err error) {
				cancel()
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				} else {
					ui.Info("Statistics server stopped.")
				}
			})
		}
	}
	{
		enabled := config.Api.Enabled
		if enabled {
			// === REST API
			rest, err := api.CreateRestService(controller.StatusMap, pers, prometheus.DefaultRegisterer)
			if err != nil {
				ui.Fatal("Unable to create REST service: %v", err)
			}
			addr := net.JoinHostPort(config.Api.Host, strconv.Itoa(config.Api.Port))

			g.Add(func() error {
				ui.Info("Serving REST API on %s", addr)
				if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start REST API (%s)", err.Error())
				}
				<-ctx.Done()
				return nil
			}, func(err error) {
				cancel()
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := rest.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping REST API: %v", err)
				}
			})
		}
	}
	{
		// === firmware
		g.Add(func() error {
			return RunFirmware(ctx, board, func(hw hardware.Hardware) controller.Controller {
				return controller.NewController(hw, config, sink)
			})
		}, func(err error) {
			if err != nil {
				ui.Warning("Firmware stopped unexpectedly: %v", err)
				if config.Alerts.DesktopNotifications {
					ui.NotifyError(fmt.Sprintf("%s: firmware stopped", config.DeviceId), err.Error())
				}
			}
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		logSimulationSummary(board.State())
		ui.Info("Done.")
	}
}

// NewStatusSink returns a sink that timestamps every status report of the
// firmware, publishes it and appends it to the history. Alert changes raise
// a desktop notification if enabled.
func NewStatusSink(config configuration.Configuration, statuses statistics.StatusSource, now func() time.Time, pers persistence.Persistence) controller.StatusSink {
	lastAlert := controller.AlertNone
	return func(status controller.Status) {
		status.Timestamp = now()
		statuses.Set(status.DeviceId, status)

		if err := pers.SaveStatusReport(status); err != nil {
			ui.Warning("Unable to save status report of %s: %v", status.DeviceId, err)
		}

		if status.Alert == lastAlert {
			return
		}
		if config.Alerts.DesktopNotifications {
			if status.Alert != controller.AlertNone {
				ui.NotifyWarn(fmt.Sprintf("%s: %s alert", status.DeviceId, status.Alert), status.Line())
			} else {
				ui.NotifyInfo(fmt.Sprintf("%s: %s alert ended", status.DeviceId, lastAlert), status.Line())
			}
		}
		lastAlert = status.Alert
	}
}

func logSimulationSummary(state simulator.State) {
	ui.Info("Simulated %s: battery at %.1f%%, charger attached: %t, fan at %.0f rpm", state.Now, state.ChargePercent, state.ChargerAttached, state.Rpm)
}
