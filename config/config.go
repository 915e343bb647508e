package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"4242"`

	// Schützt Dashboard- und Redaktions-Endpunkte; leer = offen (Dev).
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// SendGrid für Autoren-Benachrichtigungen. Ohne Key werden Mails
	// als "not configured" quittiert statt versucht.
	SendGridAPIKey  string `envconfig:"SENDGRID_API_KEY"`
	SendGridBaseURL string `envconfig:"SENDGRID_BASE_URL" default:"https://api.sendgrid.com"`
	EmailFrom       string `envconfig:"EMAIL_FROM" default:"revista@sinapsis.org"`
	EmailFromName   string `envconfig:"EMAIL_FROM_NAME" default:"Sinapsis"`

	// DeepSeek semantische Suche. Ohne Key liefert der Provider leere
	// Ergebnisse ohne ausgehenden Request.
	DeepSeekAPIKey  string `envconfig:"DEEPSEEK_API_KEY"`
	DeepSeekBaseURL string `envconfig:"DEEPSEEK_BASE_URL" default:"https://api.deepseek.com"`
	DeepSeekTopK    int    `envconfig:"DEEPSEEK_TOP_K" default:"10"`

	CatalogLimit int `envconfig:"CATALOG_LIMIT" default:"50"`

	// Nächtlicher Report-Upload nach S3.
	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 3 * * *"`

	ReportS3Key    string `envconfig:"REPORT_S3_KEY"`
	ReportS3Secret string `envconfig:"REPORT_S3_SECRET"`
	ReportS3URL    string `envconfig:"REPORT_S3_URL"`
	ReportS3Region string `envconfig:"REPORT_S3_REGION"`
	ReportS3Bucket string `envconfig:"REPORT_S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// ReportUploadEnabled meldet, ob alle S3-Parameter für den Report-Upload gesetzt sind.
func (c *Config) ReportUploadEnabled() bool {
	return c.ReportS3Key != "" && c.ReportS3Secret != "" && c.ReportS3URL != "" &&
		c.ReportS3Region != "" && c.ReportS3Bucket != ""
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
