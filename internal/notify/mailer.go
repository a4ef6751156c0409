package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/wneessen/go-mail"

	"github.com/avencore/investcore/internal/config"
)

var subjects = map[Kind]string{
	KindDepositCreated:      "New Payment Transaction Created",
	KindDepositDecided:      "Your Deposit Has Been Processed",
	KindInvestmentRequested: "New Investment Awaiting Approval",
	KindInvestmentDecided:   "Your Investment Has Been Processed",
	KindWithdrawalRequested: "New Withdrawal Request",
	KindWithdrawalDecided:   "Your Withdrawal Has Been Processed",
}

var bodies = map[Kind]*template.Template{
	KindDepositCreated:      template.Must(template.New("").Parse("User {{.name}} created a deposit of ${{.amount}} ({{.transaction_id}}).")),
	KindDepositDecided:      template.Must(template.New("").Parse("Hello {{.name}}, your deposit {{.transaction_id}} of ${{.amount}} was {{.decision}}.")),
	KindInvestmentRequested: template.Must(template.New("").Parse("User {{.name}} requested a {{.plan}} investment of ${{.amount}}.")),
	KindInvestmentDecided:   template.Must(template.New("").Parse("Hello {{.name}}, your {{.plan}} investment of ${{.amount}} was {{.decision}}.")),
	KindWithdrawalRequested: template.Must(template.New("").Parse("User {{.name}} requested a withdrawal of ${{.amount}} to {{.wallet_address}}.")),
	KindWithdrawalDecided:   template.Must(template.New("").Parse("Hello {{.name}}, your withdrawal of ${{.amount}} to {{.wallet_address}} was {{.decision}}.")),
}

// Mailer sends notifications over SMTP.
type Mailer struct {
	client *mail.Client
	from   string
}

func NewMailer(cfg *config.Config) (*Mailer, error) {
	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUser),
		mail.WithPassword(cfg.SMTPPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("can't build smtp client: %w", err)
	}
	return &Mailer{client: client, from: cfg.SMTPFrom}, nil
}

func (m *Mailer) Notify(ctx context.Context, recipient string, kind Kind, data map[string]string) error {
	tmpl, ok := bodies[kind]
	if !ok {
		return fmt.Errorf("unknown notification kind: %s", kind)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("can't render notification body: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subjects[kind])
	msg.SetBodyString(mail.TypeTextPlain, body.String())

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("can't send notification: %w", err)
	}
	return nil
}
