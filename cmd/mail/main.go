package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/hanul-soft/hr-portal/backend/internal/config"
	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func main() {
	/**********************************************
	 * logger 생성
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * 설정 로드
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("설정을 불러올 수 없습니다", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 메일 클라이언트 생성
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("메일 클라이언트를 만들 수 없습니다", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// 메일 서버에 접속 가능한지 먼저 확인한다
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("메일 서버에 연결할 수 없습니다", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * RabbitMQ 연결
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("RabbitMQ 에 연결할 수 없습니다", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("채널을 만들 수 없습니다", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 큐 선언
	q, err := ch.QueueDeclare(
		"email_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("큐를 선언할 수 없습니다", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("메시지를 소비할 수 없습니다", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("메시지 수신", slog.String("message", string(msg.Body)))
				mailMessage := domain.MailMessage{}
				if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
					logger.Error("메일 메시지 역직렬화 실패", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// 메일 작성
				m := mail.NewMsg()
				if err := m.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("발신자를 설정할 수 없습니다", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := m.To(mailMessage.To); err != nil {
					logger.Error("수신자를 설정할 수 없습니다", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				// 메일 종류에 따라 템플릿과 제목을 고른다
				var templateFile, subject string
				switch mailMessage.Type {
				case "approval_requested":
					templateFile = "./templates/approval_requested_email.html"
					subject = "한울 인사포털 - 근무표 결재 요청"
				case "schedule_rejected":
					templateFile = "./templates/schedule_rejected_email.html"
					subject = "한울 인사포털 - 근무표 반려 안내"
				case "schedule_approved":
					templateFile = "./templates/schedule_approved_email.html"
					subject = "한울 인사포털 - 근무표 승인 안내"
				default:
					logger.Error("지원하지 않는 메일 종류입니다", slog.String("type", mailMessage.Type))
					_ = msg.Nack(false, false)
					continue
				}

				tmpl, err := template.ParseFiles(templateFile)
				if err != nil {
					logger.Error("메일 템플릿을 해석할 수 없습니다", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
					logger.Error("메일 본문을 설정할 수 없습니다", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				m.Subject(subject)

				// 발송
				if err := client.DialAndSend(m); err != nil {
					logger.Error("메일 발송 실패", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // 재입큐
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("메시지를 기다리는 중... (CTRL+C 로 종료)")
	<-sigChan

	slog.Info("mail worker 를 종료하는 중입니다...")
	cancel()
	wg.Wait()
	slog.Info("mail worker 가 정상적으로 종료되었습니다")
}
