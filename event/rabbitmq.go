package event

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"direct-messenger/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

type EventChannelData struct {
	Action string
	Data   []byte
	Out    EventChannelOutData
}

type EventChannelOutData struct {
	Send bool
	Log  bool
}

type RabbitMQSubscribeListener struct {
	Queue   string
	Channel chan EventChannelData
}

type EventLogData struct {
	Time    int64  `json:"time"`
	Service string `json:"service"`
	Action  string `json:"action"`
	Data    string `json:"data"`
}

const RabbitMQActionHeader string = "x-action"

var (
	RabbitMQInLogFile  = "log/in.log"
	RabbitMQOutLogFile = "log/out.log"
)

// ErrDisabled is returned by Emit when no broker is configured.
var ErrDisabled = errors.New("rabbitmq is not configured")

var (
	RabbitMQConnection *amqp.Connection
	RabbitMQChannel    *amqp.Channel
	RabbitMQQueue      = make(map[string]amqp.Queue)
	RabbitMQListeners  = make(map[string]chan EventChannelData)

	InLogFile  *os.File
	OutLogFile *os.File
	logMu      sync.Mutex
)

// Enabled reports whether a broker channel is open.
func Enabled() bool {
	return RabbitMQChannel != nil
}

func logging() bool {
	return config.Config("EVENT_MODE") != "" && config.Config("EVENT_MODE") != "DISABLE"
}

// RabbitMQConnect dials the broker and declares queues. Without RABBITMQ_HOST
// domain events are switched off and the service runs standalone.
func RabbitMQConnect(queues []string) error {
	if config.Config("RABBITMQ_HOST") == "" {
		log.Printf("RABBITMQ_HOST is empty, domain events disabled")
		return nil
	}

	conn, err := amqp.Dial(fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		config.Config("RABBITMQ_USER"),
		config.Config("RABBITMQ_PASSWORD"),
		config.Config("RABBITMQ_HOST"),
		config.Config("RABBITMQ_PORT"),
	))
	if err != nil {
		return fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	log.Printf("connection opened to RabbitMQ server")

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open RabbitMQ channel: %w", err)
	}

	for _, name := range queues {
		queue, err := channel.QueueDeclare(
			name,  // name
			false, // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			conn.Close()
			return fmt.Errorf("declare RabbitMQ queue %s: %w", name, err)
		}

		RabbitMQQueue[name] = queue
		log.Printf("success declare a RabbitMQ queue: %s", name)
	}

	RabbitMQConnection, RabbitMQChannel = conn, channel
	return OpenLogs()
}

// OpenLogs opens the append-only event logs used by the replay modes.
func OpenLogs() error {
	var err error
	if err = os.MkdirAll(filepath.Dir(RabbitMQInLogFile), 0o700); err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(RabbitMQOutLogFile), 0o700); err != nil {
		return err
	}

	InLogFile, err = os.OpenFile(RabbitMQInLogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}
	OutLogFile, err = os.OpenFile(RabbitMQOutLogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	return err
}

func RabbitMQSubscribe(queues []RabbitMQSubscribeListener) error {
	for _, queue := range queues {
		RabbitMQListeners[queue.Queue] = queue.Channel
		if !Enabled() {
			continue
		}

		msgs, err := RabbitMQChannel.Consume(
			queue.Queue, // queue
			"",          // consumer
			false,       // auto-ack
			false,       // exclusive
			false,       // no-local
			false,       // no-wait
			nil,         // args
		)
		if err != nil {
			return fmt.Errorf("consume %s: %w", queue.Queue, err)
		}
		log.Printf("success subscribe to RabbitMQ [%s] queue", queue.Queue)

		go func(queue RabbitMQSubscribeListener) {
			for msg := range msgs {
				action, _ := msg.Headers[RabbitMQActionHeader].(string)

				if logging() {
					InLog(EventLogData{
						Time:    time.Now().UnixMicro(),
						Service: queue.Queue,
						Action:  action,
						Data:    string(msg.Body),
					})
				}

				msg.Ack(false)

				queue.Channel <- EventChannelData{
					Action: action,
					Data:   msg.Body,
					Out: EventChannelOutData{
						Send: true,
						Log:  true,
					},
				}
			}
		}(queue)
	}
	return nil
}

func Emit(service string, action string, data []byte, logged bool) error {
	if !Enabled() {
		return ErrDisabled
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := RabbitMQChannel.PublishWithContext(
		ctx,
		"",      // exchange
		service, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Headers: amqp.Table{
				RabbitMQActionHeader: action,
			},
			Body: data,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", action, service, err)
	}

	if logged && logging() {
		OutLog(EventLogData{
			Time:    time.Now().UnixMicro(),
			Service: service,
			Action:  action,
			Data:    string(data),
		})
	}
	return nil
}

func InLog(data EventLogData) {
	appendLog(InLogFile, data)
}

func OutLog(data EventLogData) {
	appendLog(OutLogFile, data)
}

func appendLog(file *os.File, data EventLogData) {
	if file == nil {
		return
	}
	line, _ := json.Marshal(data)

	logMu.Lock()
	defer logMu.Unlock()
	if _, err := file.Write(append(line, '\n')); err != nil {
		log.Printf("event log %s: %v", file.Name(), err)
	}
}

func Close() {
	if RabbitMQChannel != nil {
		RabbitMQChannel.Close()
	}
	if RabbitMQConnection != nil {
		RabbitMQConnection.Close()
	}
	if InLogFile != nil {
		InLogFile.Close()
	}
	if OutLogFile != nil {
		OutLogFile.Close()
	}
}

// Init replays the event logs according to EVENT_MODE.
func Init() error {
	switch config.Config("EVENT_MODE") {
	case "IN_SEND_LOG":
		return InitIn(EventChannelOutData{
			Send: true,
			Log:  true,
		})
	case "IN_SEND":
		return InitIn(EventChannelOutData{
			Send: true,
			Log:  false,
		})
	case "IN":
		return InitIn(EventChannelOutData{
			Send: false,
			Log:  false,
		})
	case "OUT":
		return InitOut()
	}
	return nil
}

// InitIn feeds every logged inbound event back to its queue listener.
func InitIn(out EventChannelOutData) error {
	return replay(RabbitMQInLogFile, func(data EventLogData) error {
		listener, ok := RabbitMQListeners[data.Service]
		if !ok {
			return nil
		}
		listener <- EventChannelData{
			Action: data.Action,
			Data:   []byte(data.Data),
			Out:    out,
		}
		return nil
	})
}

// InitOut republishes every logged outbound event.
func InitOut() error {
	return replay(RabbitMQOutLogFile, func(data EventLogData) error {
		return Emit(data.Service, data.Action, []byte(data.Data), false)
	})
}

func replay(path string, apply func(EventLogData) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		data := EventLogData{}
		if err := json.Unmarshal(scanner.Bytes(), &data); err != nil {
			log.Printf("skip malformed event log line: %v", err)
			continue
		}
		if err := apply(data); err != nil {
			return err
		}
	}
	return scanner.Err()
}
