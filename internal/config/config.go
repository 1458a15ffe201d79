package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	InitialAdmin struct {
		Username string `env:"USERNAME" envDefault:"admin"`
		Password string `env:"PASSWORD,required"`
		FullName string `env:"FULL_NAME" envDefault:"시스템관리자"`
		Email    string `env:"EMAIL,required"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"1209600"` // 14일
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD,required"`
		} `envPrefix:"USER_"`
	} `envPrefix:"SEED_"`
	Email struct {
		UserDomain string `env:"USER_DOMAIN,required"`
		SMTP       struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD,required"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	Holiday struct {
		APIBaseURL     string `env:"API_BASE_URL" envDefault:"https://apis.data.go.kr/B090041/openapi/service/SpcdeInfoService"`
		APIServiceKey  string `env:"API_SERVICE_KEY,required"`
		RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"10"`
		CacheTTL       int    `env:"CACHE_TTL" envDefault:"86400"` // 하루
	} `envPrefix:"HOLIDAY_"`
	DirectoryCache struct {
		TTL int `env:"TTL" envDefault:"300"` // 5분
	} `envPrefix:"DIRECTORY_CACHE_"`
	PDF struct {
		OutputDir string `env:"OUTPUT_DIR" envDefault:"./pdf-output"`
		JobTTL    int    `env:"JOB_TTL" envDefault:"600"`
	} `envPrefix:"PDF_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 첫 번째 오류만 반환해서 로그를 읽기 쉽게 한다
			return nil, aggErr.Errors[0]
		}
	}

	return cfg, nil
}
