package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

type Config struct {
	App
	PostgreSQL
	Redis
	HTTP
	SMTP
	Logging
}

type App struct {
	UploadDirectory   string
	BatchSize         int
	FlushConcurrency  int
	PollInterval      time.Duration
	ReclaimInterval   time.Duration
	WorkerConcurrency int
	ConsumerID        string
	FrontendURL       string
}

type PostgreSQL struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
	MaxConns int32
}

type Redis struct {
	Addr         string
	Password     string
	DB           int
	Namespace    string
	DedupeTTL    time.Duration
	HeartbeatTTL time.Duration
}

type HTTP struct {
	Host           string
	Port           string
	IdleTimeout    time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether summary e-mails should be sent at all.
func (s SMTP) Enabled() bool {
	return s.Host != ""
}

type Logging struct {
	Level string
	File  string
}

func Load(cmd *cli.Command) *Config {
	return &Config{
		App: App{
			UploadDirectory:   cmd.String("upload-dir"),
			BatchSize:         cmd.Int("batch-size"),
			FlushConcurrency:  cmd.Int("flush-concurrency"),
			PollInterval:      cmd.Duration("poll-interval"),
			ReclaimInterval:   cmd.Duration("reclaim-interval"),
			WorkerConcurrency: cmd.Int("worker-concurrency"),
			ConsumerID:        cmd.String("consumer-id"),
			FrontendURL:       cmd.String("frontend-url"),
		},
		PostgreSQL: PostgreSQL{
			Host:     cmd.String("pg-host"),
			Port:     cmd.String("pg-port"),
			Username: cmd.String("pg-username"),
			Password: cmd.String("pg-password"),
			DBName:   cmd.String("pg-dbname"),
			MaxConns: cmd.Int32("pg-max-conns"),
		},
		Redis: Redis{
			Addr:         cmd.String("redis-addr"),
			Password:     cmd.String("redis-password"),
			DB:           cmd.Int("redis-db"),
			Namespace:    cmd.String("redis-namespace"),
			DedupeTTL:    cmd.Duration("dedupe-ttl"),
			HeartbeatTTL: cmd.Duration("heartbeat-ttl"),
		},
		HTTP: HTTP{
			Host:           cmd.String("http-host"),
			Port:           cmd.String("http-port"),
			IdleTimeout:    cmd.Duration("http-idle-timeout"),
			ReadTimeout:    cmd.Duration("http-read-timeout"),
			WriteTimeout:   cmd.Duration("http-write-timeout"),
			MaxUploadBytes: cmd.Int64("http-max-upload-bytes"),
		},
		SMTP: SMTP{
			Host:     cmd.String("smtp-host"),
			Port:     cmd.Int("smtp-port"),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
		},
		Logging: Logging{
			Level: cmd.String("log-level"),
			File:  cmd.String("log-file"),
		},
	}
}
