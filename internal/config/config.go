package config

import (
	"strings"
	"time"
)

// Config es la configuración raíz de la aplicación.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Identity IdentityConfig `yaml:"identity"`
	Pets     PetsConfig     `yaml:"pets"`
	Assets   AssetsConfig   `yaml:"assets"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig agrupa los parámetros del servidor HTTP.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"HTTP_ADDR"               env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig agrupa la conexión a Postgres. DSN vacío significa
// correr con los repositorios en memoria (modo desarrollo / tests).
type DatabaseConfig struct {
	DSN     string `yaml:"dsn"     env:"DB_DSN"`
	Migrate bool   `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
}

// AuthConfig apunta al verificador externo de tokens. BaseURL vacío deja
// el servidor en modo dev: la identidad viene de los headers de debug.
type AuthConfig struct {
	BaseURL string        `yaml:"base_url" env:"AUTH_BASE_URL"`
	APIKey  string        `yaml:"api_key"  env:"AUTH_API_KEY"`
	Timeout time.Duration `yaml:"timeout"  env:"AUTH_TIMEOUT" env-default:"5s"`
}

// IdentityConfig parametriza el registro de usuarios.
type IdentityConfig struct {
	// Lista separada por comas de dominios de email descartable rechazados
	// en el registro. El match es por substring del dominio.
	DisposableDomainsRaw string `yaml:"disposable_domains" env:"DISPOSABLE_EMAIL_DOMAINS" env-default:"yopmail,mailinator,guerrillamail,10minutemail,temp-mail,trashmail"`
}

// DisposableDomains devuelve la denylist ya parseada y normalizada.
func (c IdentityConfig) DisposableDomains() []string {
	parts := strings.Split(c.DisposableDomainsRaw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// PetsConfig parametriza el registro de mascotas.
type PetsConfig struct {
	// Base pública para las URLs de QR; el ID de la mascota se agrega al path.
	QRBaseURL string `yaml:"qr_base_url" env:"QR_BASE_URL" env-default:"https://vetcare.app/qr"`
}

// AssetsConfig parametriza el cache de recursos estáticos.
type AssetsConfig struct {
	// Origen del que se precachean los assets. Vacío desactiva el precache.
	Origin string `yaml:"origin" env:"ASSETS_ORIGIN"`

	// Versión de la generación de cache; cambiarla invalida lo anterior.
	Version string `yaml:"version" env:"ASSETS_VERSION" env-default:"v1"`

	// Lista separada por comas de paths a precachear en el arranque.
	PrecacheRaw string `yaml:"precache" env:"ASSETS_PRECACHE"`
}

// PrecachePaths devuelve la lista de paths a precachear.
func (c AssetsConfig) PrecachePaths() []string {
	parts := strings.Split(c.PrecacheRaw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LogConfig agrupa los parámetros de logging.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
