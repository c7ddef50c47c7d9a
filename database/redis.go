package database

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"direct-messenger/config"

	"github.com/redis/go-redis/v9"
)

// Redis holds one client per configured logical database.
var Redis = make(map[int]*redis.Client)

func RedisConnect() {
	for _, db := range strings.Split(config.Config("REDIS_DB"), ",") {
		dbNumber, err := strconv.Atoi(strings.TrimSpace(db))
		if err != nil {
			log.Fatalf("invalid REDIS_DB entry %q", db)
		}

		Redis[dbNumber] = redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf(
				"%s:%s",
				config.Config("REDIS_HOST"),
				config.Config("REDIS_PORT"),
			),
			Password: config.Config("REDIS_PASSWORD"),
			DB:       dbNumber,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for db, client := range Redis {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to reach Redis db %d: %v", db, err)
		}
	}

	log.Printf("connections opened to Redis")
}

func RedisClose() {
	for _, client := range Redis {
		client.Close()
	}
}
