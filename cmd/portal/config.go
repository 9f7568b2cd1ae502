package main

import "time"

type Config struct {
	LogLevel       string `env:"LOG_LEVEL,default=info"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`

	Host              string `env:"HOST,default=localhost"`
	GatewayPort       int    `env:"GATEWAY_PORT,default=8080"`
	UsersPort         int    `env:"USERS_PORT,default=8081"`
	StudentsPort      int    `env:"STUDENTS_PORT,default=8082"`
	PaymentsPort      int    `env:"PAYMENTS_PORT,default=8083"`
	CommunicationPort int    `env:"COMMUNICATION_PORT,default=8084"`
	AdminPort         int    `env:"ADMIN_PORT,default=8085"`

	JWTSecret     string        `env:"JWT_SECRET,required=true"`
	TokenDuration time.Duration `env:"TOKEN_DURATION,default=24h"`

	BusBuffer         int           `env:"BUS_BUFFER,default=256"`
	BlockedWords      string        `env:"BLOCKED_WORDS"`
	ModerationMask    string        `env:"MODERATION_MASK,default=*"`
	TelemetryInterval time.Duration `env:"TELEMETRY_INTERVAL,default=30s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}
