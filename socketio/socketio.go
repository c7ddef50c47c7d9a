package socketio

import (
	"context"
	"time"

	"direct-messenger/config"
	"direct-messenger/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-go-redis/adapter"
	r_type "github.com/zishang520/socket.io-go-redis/types"
	"github.com/zishang520/socket.io/v2/socket"
)

var socketLog = log.NewLog("socketio")

// Init mounts the socket.io endpoint on app. Every handshake goes through
// auth before any connection handler runs.
func Init(app *fiber.App, auth *Authenticator) *socket.Server {
	log.DEBUG = config.Config("SOCKET_DEBUG") == "true"

	options := socket.DefaultServerOptions()
	options.SetServeClient(false)
	options.SetPingInterval(config.ConfigDuration("SOCKET_PING_INTERVAL", 25*time.Second))
	options.SetPingTimeout(config.ConfigDuration("SOCKET_PING_TIMEOUT", 20*time.Second))
	options.SetMaxHttpBufferSize(1e6)
	options.SetConnectTimeout(45 * time.Second)
	options.SetCors(&types.Cors{
		Origin:      config.Config("CLIENT_URL"),
		Credentials: true,
	})
	if client, ok := database.Redis[1]; ok {
		options.SetAdapter(&adapter.RedisAdapterBuilder{
			Redis: r_type.NewRedisClient(context.Background(), client),
			Opts:  &adapter.RedisAdapterOptions{},
		})
	}

	server := socket.NewServer(nil, nil)
	server.Use(Middleware(auth))

	handler := adaptor.HTTPHandler(server.ServeHandler(options))
	app.Get("/socket.io/", handler)
	app.Post("/socket.io/", handler)

	return server
}

// Middleware refuses handshakes without a valid access token. The token is
// read from the auth payload first, then from the query string.
func Middleware(auth *Authenticator) func(*socket.Socket, func(*socket.ExtendedError)) {
	return func(client *socket.Socket, next func(*socket.ExtendedError)) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		identity, err := auth.Authenticate(ctx, handshakeToken(client))
		if err != nil {
			socketLog.Debug("handshake %s refused: %v", client.Id(), err)
			next(socket.NewExtendedError(err.Error(), nil))
			return
		}

		client.SetData(identity)
		next(nil)
	}
}

func handshakeToken(client *socket.Socket) string {
	if auth, ok := any(client.Handshake().Auth).(map[string]any); ok {
		if token, ok := auth["token"].(string); ok && token != "" {
			return token
		}
	}

	token, _ := client.Conn().Request().Query().Get("token")
	return token
}
