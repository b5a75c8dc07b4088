package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env    string       `yaml:"env" env-default:"local"`
	HTTP   HTTPConfig   `yaml:"http"`
	CORS   CORSConfig   `yaml:"cors"`
	WebRTC WebRTCConfig `yaml:"webrtc"`
	Token  TokenConfig  `yaml:"token"`
	Socket SocketConfig `yaml:"socket"`
}

type HTTPConfig struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS" env-default:""`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env-default:""`
}

type WebRTCConfig struct {
	STUNServers []string `yaml:"stun_servers" env-default:""`
}

// TokenConfig drives the credential endpoints. Require gates the
// websocket upgrade on a verified token when set.
type TokenConfig struct {
	Secret  string        `yaml:"secret" env:"JWT_SECRET"`
	TTL     time.Duration `yaml:"ttl" env-default:"24h"`
	Issuer  string        `yaml:"issuer" env-default:"communicaton-web-app"`
	Require bool          `yaml:"require" env:"TOKEN_REQUIRE" env-default:"false"`
}

type SocketConfig struct {
	WriteTimeout   time.Duration `yaml:"write_timeout" env-default:"10s"`
	PongTimeout    time.Duration `yaml:"pong_timeout" env-default:"60s"`
	MaxMessageSize int64         `yaml:"max_message_size" env-default:"65536"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	cfg.setDefaults()

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = "config/local.yaml"
	}

	return res
}

func (c *Config) setDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":5000"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5000",
			"http://127.0.0.1:5000",
		}
	}
	if len(c.WebRTC.STUNServers) == 0 {
		c.WebRTC.STUNServers = []string{"stun:stun.l.google.com:19302"}
	}
	if c.Token.TTL <= 0 {
		c.Token.TTL = 24 * time.Hour
	}
	if c.Socket.WriteTimeout <= 0 {
		c.Socket.WriteTimeout = 10 * time.Second
	}
	if c.Socket.PongTimeout <= 0 {
		c.Socket.PongTimeout = 60 * time.Second
	}
	if c.Socket.MaxMessageSize <= 0 {
		c.Socket.MaxMessageSize = 64 * 1024
	}
}
