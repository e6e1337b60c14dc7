package config

import (
	"errors"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server      `mapstructure:"server"`
	Postgres     Postgres    `mapstructure:"postgres"`
	Broker       Broker      `mapstructure:"broker"`
	Cron         Cron        `mapstructure:"cron"`
	Reminder     Reminder    `mapstructure:"reminder"`
	Relay        RelayConfig `mapstructure:"relay"`
	HTTPClient   HTTPClient  `mapstructure:"httpClient"`
	Holidays     Holidays    `mapstructure:"holidays"`
	LoggingLevel string      `mapstructure:"logging-level"`
}

type Server struct {
	Port          string `mapstructure:"port"`
	SwaggerUrl    string `mapstructure:"swagger_json"`
	SwaggerHost   string `mapstructure:"swagger_host"`
	SwaggerSchema string `mapstructure:"swagger_schema"`
	BodyLimit     int    `mapstructure:"body_limit"`
}

type Postgres struct {
	ConnString     string `mapstructure:"conn_string"`
	MaxConnections int32  `mapstructure:"max_connections"`
	MigrationsDir  string `mapstructure:"migrations_dir"`
}

type Broker struct {
	Kafka Kafka `mapstructure:"kafka"`
}

type Kafka struct {
	Brokers      string `mapstructure:"brokers"`
	ReaderTopic  string `mapstructure:"readerTopic"` // подтверждения напоминаний
	ReaderUsr    string `mapstructure:"readerUsr"`
	ReaderUsrPwd string `mapstructure:"readerUsrPwd"`
	WriterTopic  string `mapstructure:"writerTopic"` // события календаря и напоминания из outbox
	WriterUsr    string `mapstructure:"writerUsr"`
	WriterUsrPwd string `mapstructure:"writerUsrPwd"`
	MaxAttempts  int    `mapstructure:"maxAttempts"`
	Group        string `mapstructure:"group"` // consumer group подтверждений
}

type Cron struct {
	DaysToDelete int    `mapstructure:"daysToDelete"` // Количество дней для удаления старых событий
	Schedule     string `mapstructure:"schedule"`     // Расписание в формате cron (например, "0 0 16 * * *" - каждый день в 16:00)
	Interval     string `mapstructure:"interval"`     // Интервал в формате "@every 1m" (например, "@every 1m" - каждую минуту)
	// Приоритет: если указан Schedule, используется он, иначе Interval
}

// Reminder - периодический поиск событий, для которых пора отправить напоминание.
type Reminder struct {
	Schedule      string `mapstructure:"schedule"`
	Interval      string `mapstructure:"interval"`
	LookaheadDays int    `mapstructure:"lookaheadDays"` // сколько дней вперед просматривать; максимум опций уведомления - сутки
	Timezone      string `mapstructure:"timezone"`      // пояс настенного времени событий, например Asia/Seoul
}

type RelayConfig struct {
	Workers     int           `mapstructure:"workers"`
	BatchSize   int           `mapstructure:"batchSize"`
	Lease       time.Duration `mapstructure:"lease"`
	PollPeriod  time.Duration `mapstructure:"pollPeriod"`
	MaxAttempts int           `mapstructure:"maxAttempts"`
}

type HTTPClient struct {
	//конфиг клиента
	ConnectTimeout        time.Duration `mapstructure:"connectTimeout"`        // TCP коннект
	TLSHandshakeTimeout   time.Duration `mapstructure:"TLSHandshakeTimeout"`   // TLS рукопожатие
	ResponseHeaderTimeout time.Duration `mapstructure:"responseHeaderTimeout"` // ожидание заголовков ответа
	ExpectContinueTimeout time.Duration `mapstructure:"expectContinueTimeout"` // 100-continue

	// Пул соединений
	IdleConnTimeout     time.Duration `mapstructure:"idleConnTimeout"`
	MaxIdleConns        int           `mapstructure:"maxIdleConns"`
	MaxIdleConnsPerHost int           `mapstructure:"maxIdleConnsPerHost"`
	MaxConnsPerHost     int           `mapstructure:"maxConnsPerHost"`
	KeepAlives          bool          `mapstructure:"keepAlives"`

	// Общий таймаут клиента. 0 - контролируем дедлайном через context.
	ClientTimeout time.Duration `mapstructure:"clientTimeout"`

	// Прочее
	UserAgent  string `mapstructure:"userAgent"`
	MaxRetries int    `mapstructure:"maxRetries"`

	// SSL/TLS настройки
	InsecureSkipVerify bool `mapstructure:"insecureSkipVerify"` // отключить проверку SSL сертификатов
}

// Holidays - дополнительные источники праздников поверх встроенной таблицы.
type Holidays struct {
	File       string        `mapstructure:"file"`       // YAML с ключом holidays
	RemoteURL  string        `mapstructure:"remoteURL"`  // JSON по годам, "{year}" заменяется на год
	RetryAfter time.Duration `mapstructure:"retryAfter"` // пауза после неудачного запроса года
}

const (
	envFileVar     = "CONFIG_ENV_FILE"
	defaultEnvFile = ".env"
)

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("postgres.migrations_dir", "resources/migrations")
	v.SetDefault("cron.daysToDelete", 365)
	v.SetDefault("reminder.interval", "@every 1m")
	v.SetDefault("reminder.lookaheadDays", 1)
	v.SetDefault("reminder.timezone", "Local")
	v.SetDefault("relay.workers", 2)
	v.SetDefault("relay.batchSize", 50)
	v.SetDefault("relay.lease", 30*time.Second)
	v.SetDefault("relay.pollPeriod", time.Second)
	v.SetDefault("relay.maxAttempts", 10)
	v.SetDefault("broker.kafka.maxAttempts", 3)
	v.SetDefault("broker.kafka.group", "planner-reminder-ack")
	v.SetDefault("httpClient.maxRetries", 3)
	v.SetDefault("httpClient.clientTimeout", 10*time.Second)
	v.SetDefault("holidays.retryAfter", 5*time.Minute)
	v.SetDefault("logging-level", "info")
}

func NewConfig() (Config, error) {
	envFile := os.Getenv(envFileVar)
	if envFile == "" {
		envFile = defaultEnvFile
	}
	return load(viper.New(), envFile)
}

// load: встроенные значения < .env файл < переменные окружения.
func load(v *viper.Viper, envFile string) (Config, error) {
	setDefaults(v)

	v.AutomaticEnv()
	// Настраиваем замену точек и дефисов на подчеркивания для переменных окружения
	v.SetEnvKeyReplacer(envReplacer)

	keys := configKeys(reflect.TypeOf(Config{}), "")
	byEnv := make(map[string]string, len(keys))
	for _, key := range keys {
		// без BindEnv Unmarshal не увидит ключи, у которых нет значения по умолчанию
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
		byEnv[envName(key)] = key
	}

	var conf Config
	fileValues, err := godotenv.Read(envFile)
	// Игнорируем ошибку, если файл не найден - используем только переменные окружения
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return conf, err
	}
	for name, value := range fileValues {
		if key, ok := byEnv[strings.ToUpper(name)]; ok {
			v.SetDefault(key, value)
		}
	}

	// unmarshal
	err = v.Unmarshal(&conf)

	return conf, err
}

func envName(key string) string {
	return strings.ToUpper(envReplacer.Replace(key))
}

// configKeys собирает ключи viper из тегов mapstructure.
func configKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeOf(time.Duration(0)) {
			keys = append(keys, configKeys(f.Type, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
