package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hanul-soft/hr-portal/backend/internal/config"
	"github.com/hanul-soft/hr-portal/backend/internal/repository"
	"github.com/hanul-soft/hr-portal/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var n int
	flag.IntVar(&n, "n", 8, "부서당 생성할 직원 수")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 설정 읽기
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("설정을 읽을 수 없습니다", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 데이터베이스 연결 풀 생성
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

	// sql.Open 은 풀 객체만 만들고 실제로 접속하지는 않으므로 ping 으로 확인한다
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("데이터베이스에 연결할 수 없습니다", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	if err := repo.RunMigrations(); err != nil {
		logger.Error("마이그레이션 실패", "error", err)
		return
	}

	if n <= 0 {
		logger.Error("부서당 직원 수가 올바르지 않습니다", "n", n)
		return
	}

	seed.SeedDemoData(cfg, repo, n)
}
