package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures the relay node runtime parameters.
type Config struct {
	GRPCAddress         string           `mapstructure:"grpc_address"`
	LogLevel            string           `mapstructure:"log_level"`
	ShutdownGracePeriod time.Duration    `mapstructure:"shutdown_grace_period"`
	Admin               AdminConfig      `mapstructure:"admin"`
	GRPCServer          GRPCServerConfig `mapstructure:"grpc_server"`
	Relay               RelayConfig      `mapstructure:"relay"`
	Push                PushConfig       `mapstructure:"push"`
}

// AdminConfig describes the admin HTTP endpoint serving metrics and
// health probes. An empty address disables it.
type AdminConfig struct {
	Address           string        `mapstructure:"address"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
}

// GRPCServerConfig tunes the relay's gRPC listener.
type GRPCServerConfig struct {
	KeepaliveTime     time.Duration `mapstructure:"keepalive_time"`
	KeepaliveTimeout  time.Duration `mapstructure:"keepalive_timeout"`
	MaxConnectionIdle time.Duration `mapstructure:"max_connection_idle"`
	MaxRecvMsgSize    int           `mapstructure:"max_recv_msg_size"`
	MaxSendMsgSize    int           `mapstructure:"max_send_msg_size"`
}

// RelayConfig tunes the per-peer relay endpoints.
type RelayConfig struct {
	PeerID            string        `mapstructure:"peer_id"`
	MapUpdateInterval time.Duration `mapstructure:"map_update_interval"`
	SessionLimit      int           `mapstructure:"session_limit"`
	SweepInterval     time.Duration `mapstructure:"sweep_interval"`
	NeighborMaxAge    time.Duration `mapstructure:"neighbor_max_age"`
	Buffer            BufferConfig  `mapstructure:"buffer"`
}

// BufferConfig bounds the per-peer message buffer.
type BufferConfig struct {
	MaxMessages int           `mapstructure:"max_messages"`
	MaxBytes    int           `mapstructure:"max_bytes"`
	MaxAge      time.Duration `mapstructure:"max_age"`
}

// PushConfig describes the push gateway fan-out.
type PushConfig struct {
	Servers        []string      `mapstructure:"servers"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

const (
	defaultGRPCAddress         = "0.0.0.0:7700"
	defaultLogLevel            = "info"
	defaultShutdownGracePeriod = 10 * time.Second
	defaultReadHeaderTimeout   = 5 * time.Second
	defaultKeepaliveTime       = 30 * time.Second
	defaultKeepaliveTimeout    = 10 * time.Second
	defaultMaxConnectionIdle   = 5 * time.Minute
	defaultMaxMsgSize          = 4 << 20
	defaultMapUpdateInterval   = 60 * time.Second
	defaultSweepInterval       = 30 * time.Second
	defaultNeighborMaxAge      = 10 * time.Minute
	defaultBufferMaxMessages   = 10
	defaultBufferMaxBytes      = 256 << 10
	defaultBufferMaxAge        = 30 * time.Second
	defaultPushDialTimeout     = 3 * time.Second
	defaultPushRequestTimeout  = 5 * time.Second
)

// Load reads configuration from the provided file path (if any) and the environment.
// Environment variables are prefixed with WAKERELAY_ and can override file values.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WAKERELAY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("grpc_address", defaultGRPCAddress)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("shutdown_grace_period", defaultShutdownGracePeriod.String())
	v.SetDefault("admin.read_header_timeout", defaultReadHeaderTimeout.String())
	v.SetDefault("grpc_server.keepalive_time", defaultKeepaliveTime.String())
	v.SetDefault("grpc_server.keepalive_timeout", defaultKeepaliveTimeout.String())
	v.SetDefault("grpc_server.max_connection_idle", defaultMaxConnectionIdle.String())
	v.SetDefault("grpc_server.max_recv_msg_size", defaultMaxMsgSize)
	v.SetDefault("grpc_server.max_send_msg_size", defaultMaxMsgSize)
	v.SetDefault("relay.map_update_interval", defaultMapUpdateInterval.String())
	v.SetDefault("relay.sweep_interval", defaultSweepInterval.String())
	v.SetDefault("relay.neighbor_max_age", defaultNeighborMaxAge.String())
	v.SetDefault("relay.buffer.max_messages", defaultBufferMaxMessages)
	v.SetDefault("relay.buffer.max_bytes", defaultBufferMaxBytes)
	v.SetDefault("relay.buffer.max_age", defaultBufferMaxAge.String())
	v.SetDefault("push.dial_timeout", defaultPushDialTimeout.String())
	v.SetDefault("push.request_timeout", defaultPushRequestTimeout.String())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.GRPCAddress == "" {
		cfg.GRPCAddress = defaultGRPCAddress
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.ShutdownGracePeriod <= 0 {
		cfg.ShutdownGracePeriod = defaultShutdownGracePeriod
	}
	if cfg.Admin.ReadHeaderTimeout <= 0 {
		cfg.Admin.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if cfg.GRPCServer.KeepaliveTime <= 0 {
		cfg.GRPCServer.KeepaliveTime = defaultKeepaliveTime
	}
	if cfg.GRPCServer.KeepaliveTimeout <= 0 {
		cfg.GRPCServer.KeepaliveTimeout = defaultKeepaliveTimeout
	}
	if cfg.GRPCServer.MaxConnectionIdle <= 0 {
		cfg.GRPCServer.MaxConnectionIdle = defaultMaxConnectionIdle
	}
	if cfg.GRPCServer.MaxRecvMsgSize <= 0 {
		cfg.GRPCServer.MaxRecvMsgSize = defaultMaxMsgSize
	}
	if cfg.GRPCServer.MaxSendMsgSize <= 0 {
		cfg.GRPCServer.MaxSendMsgSize = defaultMaxMsgSize
	}
	if cfg.Relay.MapUpdateInterval <= 0 {
		cfg.Relay.MapUpdateInterval = defaultMapUpdateInterval
	}
	if cfg.Relay.SweepInterval <= 0 {
		cfg.Relay.SweepInterval = defaultSweepInterval
	}
	if cfg.Relay.NeighborMaxAge <= 0 {
		cfg.Relay.NeighborMaxAge = defaultNeighborMaxAge
	}
	if cfg.Relay.Buffer.MaxMessages <= 0 {
		cfg.Relay.Buffer.MaxMessages = defaultBufferMaxMessages
	}
	if cfg.Relay.Buffer.MaxBytes <= 0 {
		cfg.Relay.Buffer.MaxBytes = defaultBufferMaxBytes
	}
	if cfg.Relay.Buffer.MaxAge == 0 {
		cfg.Relay.Buffer.MaxAge = defaultBufferMaxAge
	}
	if cfg.Push.DialTimeout <= 0 {
		cfg.Push.DialTimeout = defaultPushDialTimeout
	}
	if cfg.Push.RequestTimeout <= 0 {
		cfg.Push.RequestTimeout = defaultPushRequestTimeout
	}

	return cfg, nil
}
