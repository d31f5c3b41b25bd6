package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Источники блоба переопределения снапшота
const (
	SnapshotSourceNone     = "none"
	SnapshotSourceFile     = "file"
	SnapshotSourceRedis    = "redis"
	SnapshotSourcePostgres = "postgres"
)

// Config — корневая структура конфигурации консоли дашборда.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig описывает настройки HTTP-сервера.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr — адрес для http.Server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig описывает подключение к PostgreSQL. Пустой URL — база не используется.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// RedisConfig описывает подключение к Redis (Pub/Sub и Cache). Пустой Addr — без Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SnapshotConfig — откуда брать переопределение снапшота и чем его засевать.
type SnapshotConfig struct {
	Source   string `mapstructure:"source"`    // none, file, redis, postgres
	File     string `mapstructure:"file"`      // JSON/YAML для source=file
	Watch    bool   `mapstructure:"watch"`     // Перечитывать файл при изменении
	SeedFile string `mapstructure:"seed_file"` // Первичная заливка в Redis
	RedisKey string `mapstructure:"redis_key"`
	Channel  string `mapstructure:"channel"` // Канал сигналов обновления
}

// AuthConfig содержит пути к RSA ключам, настройки JWT и учетку оператора.
type AuthConfig struct {
	PublicKeyPath  string         `mapstructure:"public_key_path"`
	PrivateKeyPath string         `mapstructure:"private_key_path"`
	TokenTTL       time.Duration  `mapstructure:"token_ttl"`
	Operator       OperatorConfig `mapstructure:"operator"`
	PublicKey      []byte
	PrivateKey     []byte
}

// OperatorConfig — единственная учетная запись, которой разрешено менять снапшот.
type OperatorConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"` // bcrypt
}

// JournalConfig настраивает батчинг журнала событий доверия.
type JournalConfig struct {
	BufferSize    int           `mapstructure:"buffer_size"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig инициализирует конфигурацию, объединяя значения из файла и ENV.
// configFile задает явный путь (CONFIG_FILE). Если пусто, ищем config.yaml в "." и "./configs".
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Настройка поиска файла
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")    // имя файла без расширения
		v.SetConfigType("yaml")      // формат
		v.AddConfigPath(".")         // ищем в корне
		v.AddConfigPath("./configs") // и в папке с конфигами
	}

	// 2. Настройка переменных окружения (ENV)
	// Позволяет перекрывать конфиг: SERVER_PORT=9000 перекроет server.port
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 3. Установка дефолтных значений
	setDefaults(v)

	// 4. Чтение файла
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет — работаем на ENV и дефолтах
	}

	// 5. Маппинг в структуру
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// 6. Загрузка ключей из Файла ИЛИ из ENV
	// Сначала проверяем, не лежит ли сам PEM-ключ в ENV (для Docker/K8s)
	// Если нет — читаем файл по указанному пути
	cfg.Auth.PublicKey = loadKeyResource(cfg.Auth.PublicKeyPath, "AUTH_PUBLIC_KEY_DATA")
	cfg.Auth.PrivateKey = loadKeyResource(cfg.Auth.PrivateKeyPath, "AUTH_PRIVATE_KEY_DATA")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет согласованность источника снапшота и подключений
func (c *Config) Validate() error {
	switch c.Snapshot.Source {
	case SnapshotSourceNone:
	case SnapshotSourceFile:
		if c.Snapshot.File == "" {
			return errors.New("config: snapshot.file is required for source=file")
		}
	case SnapshotSourceRedis:
		if c.Redis.Addr == "" {
			return errors.New("config: redis.addr is required for source=redis")
		}
	case SnapshotSourcePostgres:
		if c.Database.URL == "" {
			return errors.New("config: database.url is required for source=postgres")
		}
	default:
		return fmt.Errorf("config: unknown snapshot.source %q", c.Snapshot.Source)
	}
	if c.Journal.BatchSize <= 0 || c.Journal.BufferSize <= 0 || c.Journal.FlushInterval <= 0 {
		return errors.New("config: journal sizes and flush interval must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 15)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("snapshot.source", SnapshotSourceNone)
	v.SetDefault("snapshot.file", "")
	v.SetDefault("snapshot.watch", false)
	v.SetDefault("snapshot.seed_file", "")
	v.SetDefault("snapshot.redis_key", RedisKeySnapshot)
	v.SetDefault("snapshot.channel", RedisChanSnapshotUpdated)
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.operator.username", "operator")
	v.SetDefault("auth.operator.password_hash", "")
	v.SetDefault("journal.buffer_size", 10000)
	v.SetDefault("journal.batch_size", 100)
	v.SetDefault("journal.flush_interval", 500*time.Millisecond)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}

// loadKeyResource — универсальный хелпер архитектора
func loadKeyResource(path string, envDataKey string) []byte {
	// Если ключ прилетел напрямую в ENV (Base64 или PEM)
	if data := os.Getenv(envDataKey); data != "" {
		return []byte(data)
	}
	// Иначе читаем файл по пути из конфига
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return data
		}
	}
	return nil
}
