package cmd

import "time"

type Config struct {
	HTTPPort              string
	DBHost                string
	DBPort                string
	DBUser                string
	DBPassword            string
	DBName                string
	DBSslMode             string
	KafkaHost             string
	KafkaEventTopic       string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	IdempotencyPendingTTL time.Duration
	IdempotencyDoneTTL    time.Duration
	RelaySchedule         string
	RelayBatchSize        int
}
