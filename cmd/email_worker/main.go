package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"inkwell/config"
	"inkwell/pkg/mailer"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQEmailQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var job mailer.EmailJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}
			if job.To == "" {
				log.Printf("message without recipient dropped")
				_ = msg.Nack(false, false)
				continue
			}

			subject := job.Subject
			text := job.Text
			html := job.HTML
			if job.Template != "" {
				s, h, rerr := mailer.Render(job.Template, job.Data)
				if rerr != nil {
					log.Printf("render %s failed: %v", job.Template, rerr)
					_ = msg.Nack(false, false)
					continue
				}
				subject, html = s, h
			}

			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			if err := mg.Send(c, job.To, subject, text, html); err != nil {
				cancel()
				log.Printf("send failed: %v", err)
				_ = msg.Nack(false, true)
				continue
			}
			cancel()
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("email worker consuming %q", cfg.RabbitMQEmailQueue)
	<-stop
	log.Println("shutting down email worker")
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}
