package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bindiesel/bindiesel_client/internal/broker"
	"github.com/bindiesel/bindiesel_client/internal/command"
	"github.com/bindiesel/bindiesel_client/internal/command/pca9685"
	"github.com/bindiesel/bindiesel_client/internal/command/pipwm"
	"github.com/bindiesel/bindiesel_client/internal/config"
	"github.com/bindiesel/bindiesel_client/internal/console"
	"github.com/bindiesel/bindiesel_client/internal/drive"
	"github.com/bindiesel/bindiesel_client/internal/models"
	"github.com/bindiesel/bindiesel_client/internal/pilot"
	"github.com/bindiesel/bindiesel_client/internal/sensor"
	"github.com/bindiesel/bindiesel_client/internal/sensor/proximity"
	"github.com/bindiesel/bindiesel_client/internal/statemachine"
	socketio "github.com/googollee/go-socket.io"
	"golang.org/x/sync/errgroup"
)

type App struct {
	ctx       context.Context
	ctxCancel context.CancelFunc

	Cfg config.Config

	wake  *sensor.Latch
	reset *sensor.Latch

	drive     *drive.Drive
	proximity *proximity.Sensor
	broker    *broker.Broker
	console   *console.Console
	pilot     *pilot.Pilot
}

func NewApp(cfg config.Config, client *socketio.Client) *App {
	ctx, cancel := context.WithCancel(context.Background())

	wake := sensor.NewLatch()
	reset := sensor.NewLatch()
	personSlot := sensor.NewSlot[models.PersonSignal](cfg.BrokerCfg.PersonMaxAge)
	homeSlot := sensor.NewSlot[models.HomeSignal](cfg.BrokerCfg.MarkerMaxAge)

	var driver command.CommandDriverIFace
	switch cfg.CommandCfg.CommandDriver {
	case "pca9685":
		driver = pca9685.NewCommand(cfg.CommandCfg)
	default:
		driver = pipwm.NewCommand(cfg.CommandCfg)
	}
	log.Printf("using command driver: %s\n", cfg.CommandCfg.CommandDriver)

	app := &App{
		ctx:       ctx,
		ctxCancel: cancel,
		Cfg:       cfg,
		wake:      wake,
		reset:     reset,
		drive:     drive.New(cfg.DriveCfg, driver),
		proximity: proximity.New(cfg.ProximityCfg),
		broker:    broker.New(cfg.BrokerCfg, personSlot, homeSlot, wake, reset),
	}

	publishers := make([]pilot.Publisher, 0, 2)
	publishers = append(publishers, app.broker)
	if cfg.ConsoleCfg.Enabled && client != nil {
		app.console = console.New(cfg.ConsoleCfg, client, wake, reset)
		publishers = append(publishers, app.console)
	}

	app.pilot = pilot.New(cfg.PilotCfg, pilot.Deps{
		Machine:    statemachine.New(cfg.MachineCfg, time.Now()),
		Wake:       wake,
		Reset:      reset,
		Person:     personSlot,
		Home:       homeSlot,
		Proximity:  app.proximity,
		Drive:      app.drive,
		Publishers: publishers,
	})
	return app
}

func (a *App) RegisterHandlers() error {
	if a.console == nil {
		return nil
	}
	return a.console.RegisterHandlers()
}

func (a *App) Start() error {
	group, groupCtx := errgroup.WithContext(a.ctx)
	log.Println("starting...")

	err := a.drive.Init()
	if err != nil {
		return fmt.Errorf("error initializing drive: %w", err)
	}

	defer func() {
		log.Println("stopping...")
		if err := a.drive.Close(); err != nil {
			log.Printf("failed closing drive: %s\n", err.Error())
		}
		a.broker.Close()
	}()

	// The machine refuses to follow while the safety stop is unavailable, so
	// a failed init still leaves the robot operable from the console.
	err = a.proximity.Init()
	if err != nil {
		log.Printf("proximity sensor unavailable: %s\n", err.Error())
	} else {
		group.Go(func() error {
			return a.proximity.Start(groupCtx)
		})
	}

	if a.Cfg.BrokerCfg.Enabled {
		err = a.broker.Connect()
		if err != nil {
			log.Printf("broker unavailable, running without perception feed: %s\n", err.Error())
		}
	}

	//kill listener
	group.Go(func() error {
		signalChannel := make(chan os.Signal, 1)
		signal.Notify(signalChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-signalChannel:
			log.Printf("received signal: %s\n", sig)
			a.ctxCancel()
			return fmt.Errorf("received signal: %s", sig)
		case <-groupCtx.Done():
			log.Println("closing signal goroutine")
			return groupCtx.Err()
		}
	})

	if a.console != nil {
		group.Go(func() error {
			return a.console.Start(groupCtx)
		})
	}

	group.Go(func() error {
		return a.pilot.Run(groupCtx)
	})

	err = group.Wait()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Println("context was cancelled")
			return nil
		}
		return fmt.Errorf("robot stopping due to error - %w", err)
	}

	log.Println("shutting down")
	return nil
}
