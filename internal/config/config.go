package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url" validate:"required"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret" validate:"required"`
	} `yaml:"jwt"`

	Cloudinary struct {
		CloudName    string `yaml:"cloud_name"`
		APIKey       string `yaml:"api_key"`
		APISecret    string `yaml:"api_secret"`
		ImageFolder  string `yaml:"image_folder"`
		VideoFolder  string `yaml:"video_folder"`
		UploadPrefix string `yaml:"upload_prefix"` // override for tests / regional endpoints
	} `yaml:"cloudinary"`

	Upload struct {
		MaxSize int64 `yaml:"max_size"` // multipart memory limit in bytes
	} `yaml:"upload"`
}

var AppConfig *Config

// Load reads config.yaml (CONFIG_PATH overrides the location) and then
// applies environment-variable overrides. When DATABASE_URL is set the
// file is optional, which is how tests and containers run.
func Load() {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if f, err := os.Open(configPath); err == nil {
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			f.Close()
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
		f.Close()
	} else if os.Getenv("DATABASE_URL") == "" {
		log.Fatalf("Failed to open config file at %s: %v", configPath, err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	AppConfig = &cfg
}

// GetConfig returns the loaded configuration.
func GetConfig() *Config {
	if AppConfig == nil {
		Load()
	}
	return AppConfig
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SERVER_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.Server.Port, _ = strconv.Atoi(v)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("CLOUDINARY_CLOUD_NAME"); v != "" {
		cfg.Cloudinary.CloudName = v
	}
	if v := os.Getenv("CLOUDINARY_API_KEY"); v != "" {
		cfg.Cloudinary.APIKey = v
	}
	if v := os.Getenv("CLOUDINARY_API_SECRET"); v != "" {
		cfg.Cloudinary.APISecret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Cloudinary.ImageFolder == "" {
		cfg.Cloudinary.ImageFolder = "next-cloudinary-uploads"
	}
	if cfg.Cloudinary.VideoFolder == "" {
		cfg.Cloudinary.VideoFolder = "video-uploads"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 100 << 20 // 100MB
	}
}
