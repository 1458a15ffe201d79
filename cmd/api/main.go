package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/hanul-soft/hr-portal/backend/internal/cache"
	"github.com/hanul-soft/hr-portal/backend/internal/config"
	"github.com/hanul-soft/hr-portal/backend/internal/domain"
	"github.com/hanul-soft/hr-portal/backend/internal/handler"
	"github.com/hanul-soft/hr-portal/backend/internal/holiday"
	"github.com/hanul-soft/hr-portal/backend/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * logger 생성
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 설정 로드
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("설정을 불러올 수 없습니다", "error", err)
		return
	}

	/**********************************************
	 * 데이터베이스 연결
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("데이터베이스 연결 풀을 만들 수 없습니다", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 은 풀 객체만 만들고 실제로 접속하지는 않으므로 명시적으로 ping 한다
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("데이터베이스에 연결할 수 없습니다", "error", err)
		return
	}

	/**********************************************
	 * repository 생성과 마이그레이션
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)

	if err := repo.RunMigrations(); err != nil {
		logger.Error("마이그레이션을 실행할 수 없습니다", "error", err)
		return
	}

	/**********************************************
	 * 초기 관리자 계정 보장
	 **********************************************/
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("초기 관리자 비밀번호 해시를 만들 수 없습니다", "error", err)
		return
	}
	initialAdmin := &domain.User{
		Username:     cfg.InitialAdmin.Username,
		PasswordHash: string(passwordHash),
		FullName:     cfg.InitialAdmin.FullName,
		Email:        cfg.InitialAdmin.Email,
		Role:         domain.RoleHRAdmin,
		IsActive:     true,
	}
	if err := repo.CreateUser(initialAdmin); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "users_username_key":
				// 이미 초기 관리자가 있다는 뜻이므로 넘어간다
			default:
				logger.Error("초기 관리자를 만들 수 없습니다", "error", err)
				return
			}
		default:
			logger.Error("초기 관리자를 만들 수 없습니다", "error", err)
			return
		}
	}

	/**********************************************
	 * rabbitmq 연결
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("rabbitmq 에 연결할 수 없습니다", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("채널을 만들 수 없습니다", "error", err)
		return
	}
	defer ch.Close()

	// 메일 큐와 PDF 작업 큐 선언
	for _, queue := range []string{"email_queue", "pdf_queue"} {
		_, err = ch.QueueDeclare(
			queue,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			logger.Error("큐를 선언할 수 없습니다", "queue", queue, "error", err)
			return
		}
	}

	/**********************************************
	 * redis 연결
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	sessionStore := cache.NewStore(rdb, time.Duration(cfg.DirectoryCache.TTL)*time.Second)

	/**********************************************
	 * 공휴일 resolver 생성
	 **********************************************/
	holidayClient := &http.Client{Timeout: time.Duration(cfg.Holiday.RequestTimeout) * time.Second}
	holidayCache := holiday.NewRedisYearCache(rdb, time.Duration(cfg.Holiday.CacheTTL)*time.Second)
	holidays := holiday.NewResolver(cfg, holidayClient, holidayCache)

	/**********************************************
	 * handler 생성
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, ch, rdb, sessionStore, holidays)
	if err != nil {
		logger.Error("handler 를 만들 수 없습니다", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * HTTP 서버 시작
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("서버를 시작합니다...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("서버를 시작할 수 없습니다", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("서버를 종료하는 중입니다...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("서버 종료 실패", slog.String("error", err.Error()))
	}
	logger.Info("서버가 정상적으로 종료되었습니다")
}
