package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"direct-messenger/config"
	"direct-messenger/controller"
	"direct-messenger/database"
	"direct-messenger/event"
	"direct-messenger/event/listener"
	"direct-messenger/messenger"
	"direct-messenger/presence"
	"direct-messenger/router"
	"direct-messenger/socketio"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	log.SetPrefix("direct-messenger: ")

	rest := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StrictRouting:         true,
		AppName:               "direct-messenger",
	})

	rest.Use(cors.New(cors.Config{
		AllowOrigins:     config.Config("CLIENT_URL"),
		AllowCredentials: config.Config("CLIENT_URL") != "",
	}))

	database.RedisConnect()
	store := database.PostgresConnect()
	enforcer := database.Casbin()

	if err := event.RabbitMQConnect([]string{
		// Consumed
		"api",
		// Domain events
		"messenger",
	}); err != nil {
		log.Fatal(err)
	}

	registry := presence.NewRegistry()
	server := socketio.Init(rest, socketio.NewAuthenticator(config.Config("JWT_ACCESS_KEY"), store))
	hub := socketio.NewHub(server)

	handler := messenger.New(store, registry, hub,
		messenger.WithPublisher(event.Publisher{Queue: "messenger"}),
		messenger.WithMaxHistoryLimit(config.ConfigInt("HISTORY_MAX_LIMIT", messenger.DefaultMaxHistoryLimit)),
	)

	// Run "api" listener
	go listener.Api(hub)

	if err := event.RabbitMQSubscribe([]event.RabbitMQSubscribeListener{
		{
			Queue:   "api",
			Channel: listener.ApiChannel,
		},
	}); err != nil {
		log.Fatal(err)
	}

	// Replay event logs
	if err := event.Init(); err != nil {
		log.Fatal(err)
	}

	limiter := router.NewLimiter()
	ctl := controller.New(store, handler, registry, controller.NewRedisTokens(database.Redis[0]), enforcer)

	router.Rest(rest, ctl, enforcer, limiter)
	router.Socket(server, handler)

	go func() {
		if err := rest.Listen(fmt.Sprintf(":%s", config.Config("SERVER_PORT"))); err != nil {
			log.Fatal(err)
		}
	}()
	log.Printf("listening on :%s", config.Config("SERVER_PORT"))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	s := <-signals
	log.Printf("received %s, shutting down", s)

	server.Close(nil)
	if err := rest.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
	limiter.Stop()
	event.Close()
	database.RedisClose()
}
