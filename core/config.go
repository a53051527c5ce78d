package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		Addr            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (local; default), TEST, QA, PROD
		Build    string
		AppName  string

		// TimeZone is the reference timezone used to derive "today"'s
		// attendance day key. It must match whatever the clients assume,
		// otherwise marking attendance near midnight drifts by a day.
		TimeZone string

		DefaultFromEmail string
		SendgridApiKey   string
		RollbarToken     string

		// ReportRecipients receive the monthly batch summary workbooks.
		ReportRecipients []string

		Server   ServerConfig
		Database DatabaseConfig
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Shule")
	v.SetDefault("build", "dev")
	v.SetDefault("timeZone", "UTC")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("reportRecipients", []string{})
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugHost", "localhost:6060")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "shule")
	v.SetDefault("databaseUser", "shule")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseDisableTLS", true)

	env := os.Getenv("ENV")
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		TimeZone:         v.GetString("timeZone"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		ReportRecipients: v.GetStringSlice("reportRecipients"),
	}
	conf.Server = ServerConfig{
		Host:            v.GetString("serverHost"),
		Addr:            v.GetString("serverAddr"),
		DebugHost:       v.GetString("serverDebugHost"),
		ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
	}
	conf.Database = DatabaseConfig{
		Engine:        v.GetString("databaseEngine"),
		Name:          v.GetString("databaseName"),
		User:          v.GetString("databaseUser"),
		Password:      v.GetString("databasePassword"),
		AdminUser:     v.GetString("databaseAdminUser"),
		AdminPassword: v.GetString("databaseAdminPassword"),
		Host:          v.GetString("databaseHost"),
		Port:          v.GetString("databasePort"),
		DisableTLS:    v.GetBool("databaseDisableTLS"),
	}
	return conf
}

func (conf *Config) FromEmail() mail.Address {
	return mail.Address{Name: conf.AppName, Address: conf.DefaultFromEmail}
}

// Location resolves the reference timezone. An unknown zone is a
// configuration error and aborts start-up.
func (conf *Config) Location() *time.Location {
	loc, err := time.LoadLocation(conf.TimeZone)
	if err != nil {
		log.Fatalf("config.time.LoadLocation(%s): %v", conf.TimeZone, err)
	}
	return loc
}

func (db DatabaseConfig) Address() string {
	return db.Host + ":" + db.Port
}
