package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/leaguedesk/officiating-system/config"
	"github.com/leaguedesk/officiating-system/models"
)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

var crewEmailTemplate = template.Must(template.New("crew").Parse(`
<p>Вы назначены на матч {{.HomeTeamID}} — {{.AwayTeamID}} (тур {{.MatchdayNumber}}).</p>
{{if .Kickoff}}<p>Начало: {{.Kickoff.Format "02.01.2006 15:04"}}</p>{{end}}
<p>Подробности в кабинете судьи.</p>
`))

// NotifyCrewAssigned отправляет уведомление каждому судье бригады, у
// которого указан email. Отправка best effort: первый сбой прерывает
// рассылку и возвращается вызывающему для логирования.
func (s *EmailService) NotifyCrewAssigned(_ context.Context, match *models.Match, referees []*models.Referee) error {
	if s.cfg.SMTPHost == "" {
		return nil // рассылка не сконфигурирована
	}

	var body bytes.Buffer
	if err := crewEmailTemplate.Execute(&body, match); err != nil {
		return fmt.Errorf("ошибка рендеринга письма: %w", err)
	}
	subject := fmt.Sprintf("Назначение на матч, тур %d", match.MatchdayNumber)

	for _, ref := range referees {
		if ref.Email == nil || *ref.Email == "" {
			continue
		}
		if err := s.SendEmail([]string{*ref.Email}, subject, body.String()); err != nil {
			return err
		}
	}
	return nil
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Прямое TLS-соединение (обычно порт 465)
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("ошибка TLS соединения: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("ошибка создания SMTP клиента: %w", err)
		}
	} else {
		// STARTTLS (обычно порт 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("ошибка соединения SMTP: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("ошибка команды STARTTLS: %w", err)
		}
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("ошибка аутентификации SMTP: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("ошибка команды MAIL: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("ошибка команды RCPT: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("ошибка команды DATA: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("ошибка записи тела письма: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("ошибка завершения письма: %w", err)
	}

	return client.Quit()
}
