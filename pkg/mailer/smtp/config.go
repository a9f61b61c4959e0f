package smtp

// Config holds SMTP transport configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Secure   bool   `env:"SMTP_SECURE" envDefault:"false"` // implicit TLS instead of STARTTLS
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
}
