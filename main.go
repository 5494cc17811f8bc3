package main

import (
	"fmt"
	"log"

	"github.com/bindiesel/bindiesel_client/internal/app"
	"github.com/bindiesel/bindiesel_client/internal/config"
	socketio "github.com/googollee/go-socket.io"
)

func main() {
	cfg := config.GetConfig()

	var client *socketio.Client
	if cfg.ConsoleCfg.Enabled {
		socketURI := fmt.Sprintf("http://%s", cfg.ConsoleCfg.Server)
		var err error
		client, err = socketio.NewClient(socketURI, nil)
		if err != nil {
			log.Printf("error creating console client, running without console - %s\n", err.Error())
			client = nil
		}
	}

	app := app.NewApp(cfg, client)

	err := app.RegisterHandlers()
	if err != nil {
		log.Printf("error registering console handlers, running without console - %s\n", err.Error())
	}

	err = app.Start()
	if err != nil {
		log.Printf("robot shutdown with error: %s", err.Error())
	} else {
		log.Println("robot shutdown successfully")
	}
}
