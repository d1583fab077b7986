package app

import (
	"errors"
	"fmt"

	"alfredoramos.mx/rescue-reporter/utils"
	"github.com/redis/rueidis"
)

func NewCache() (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{utils.RedisAddress()},
		Password:    utils.RedisPassword(),
		SelectDB:    0,
	})
	if err != nil && !errors.Is(err, rueidis.Nil) {
		return nil, fmt.Errorf("Could not connect to Redis: %w", err)
	}

	return client, nil
}
