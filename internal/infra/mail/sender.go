package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

// Template inline: este binário não carrega diretório de templates.
const leadNotificationTemplate = `
<html>
  <body>
    <p>Olá {{.OwnerName}},</p>
    <p>Um novo lead acabou de entrar na sua base:</p>
    <p><strong>{{.LeadName}}</strong> (origem: {{.Source}})</p>
    <p>Acesse o painel para fazer o primeiro contato.</p>
  </body>
</html>
`

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

func (s *EmailSender) SendLeadNotification(to, ownerName, leadName, source string) error {
	data := LeadNotificationData{
		OwnerName: ownerName,
		LeadName:  leadName,
		Source:    source,
	}

	t, err := template.New("lead-notification").Parse(leadNotificationTemplate)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "nao-responda@leadmanager.app")
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Novo lead: %s 🚀", leadName))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
