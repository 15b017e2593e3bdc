package config

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogger aplica nível e formato ao logger global do logrus
func ConfigureLogger(c LogConfig) {
	log.SetOutput(os.Stdout)

	if c.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if c.Level == "" {
		c.Level = "info"
	}
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		log.Warnf("invalid log level %q, using info", c.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
