package config

import (
	"os"
	"sync"

	"sitepm/logutils"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Postgres struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		DBName   string `yaml:"dbname"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		SSLMode  string `yaml:"sslmode"`
		TimeZone string `yaml:"TimeZone"`
	} `yaml:"postgres"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Auth struct {
		AccessTokenSecret      string `yaml:"accessTokenSecret"`
		RefreshTokenSecret     string `yaml:"refreshTokenSecret"`
		AccessTokenExpiryHour  int    `yaml:"accessTokenExpiryHour"`
		RefreshTokenExpiryHour int    `yaml:"refreshTokenExpiryHour"`
		AdminName              string `yaml:"adminName"`
		AdminPassword          string `yaml:"adminPassword"`
	} `yaml:"auth"`
}

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

// initConfig reads the configuration file from ./etc/config.yaml,
// or from the path given in SITEPM_CONFIG when set.
// It panics if the file cannot be read or parsed.
func initConfig() *Config {
	config := &Config{}
	configPath := "./etc/config.yaml"
	if p := os.Getenv("SITEPM_CONFIG"); p != "" {
		configPath = p
	}

	err := readConfig(configPath, config)
	if err != nil {
		logutils.Log.Error("init config", err)
		panic(err)
	}
	if config.Server.Port == "" {
		config.Server.Port = "7320"
	}
	if config.Auth.AccessTokenExpiryHour == 0 {
		config.Auth.AccessTokenExpiryHour = 1
	}
	if config.Auth.RefreshTokenExpiryHour == 0 {
		config.Auth.RefreshTokenExpiryHour = 168
	}
	return config
}

func readConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return err
	}
	return nil
}
