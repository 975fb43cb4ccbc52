package utils

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/gomail.v2"
)

// SMTPConfig carries the mail credentials, normally taken from the site
// settings row with environment variables as fallback.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// SMTPFromEnv builds an SMTPConfig from the environment.
func SMTPFromEnv() SMTPConfig {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	return SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		User:     os.Getenv("EMAIL_USER"),
		Password: os.Getenv("EMAIL_PASS"),
	}
}

func SendEmail(cfg SMTPConfig, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.User)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)

	return d.DialAndSend(m)
}
