package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"

	"github.com/kurochkinivan/bulk_uploader/internal/config"
	"github.com/kurochkinivan/bulk_uploader/internal/domain"
	"github.com/wneessen/go-mail"
)

const Subject = "Bulk Data Processing Completed"

type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type SummaryRenderer interface {
	GenerateSummary(jobID, owner string, summary *domain.Summary) ([]byte, error)
}

// Mailer sends the summary of a finished job to its owner.
type Mailer struct {
	log         *slog.Logger
	sender      Sender
	reports     SummaryRenderer
	from        string
	frontendURL string
}

func New(log *slog.Logger, sender Sender, reports SummaryRenderer, from, frontendURL string) *Mailer {
	return &Mailer{
		log:         log,
		sender:      sender,
		reports:     reports,
		from:        from,
		frontendURL: frontendURL,
	}
}

func NewClient(cfg config.SMTP) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return client, nil
}

func (m *Mailer) Notify(ctx context.Context, owner string, summary *domain.Summary, jobID string) error {
	msg, err := m.Message(owner, summary, jobID)
	if err != nil {
		return err
	}

	if err := m.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send summary to %s: %w", owner, err)
	}

	m.log.InfoContext(ctx, "summary sent", slog.String("owner", owner), slog.String("job_id", jobID))

	return nil
}

// Message builds the summary e-mail with the PDF report attached.
func (m *Mailer) Message(owner string, summary *domain.Summary, jobID string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(owner); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(Subject)

	body, err := m.body(summary, jobID)
	if err != nil {
		return nil, err
	}
	msg.SetBodyString(mail.TypeTextHTML, body)

	report, err := m.reports.GenerateSummary(jobID, owner, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to render summary report: %w", err)
	}

	if err := msg.AttachReader("summary-"+jobID+".pdf", bytes.NewReader(report), mail.WithFileContentType(mail.ContentType("application/pdf"))); err != nil {
		return nil, fmt.Errorf("failed to attach summary report: %w", err)
	}

	return msg, nil
}

func (m *Mailer) body(summary *domain.Summary, jobID string) (string, error) {
	link, err := url.JoinPath(m.frontendURL, "processed-file-data", jobID)
	if err != nil {
		return "", fmt.Errorf("invalid frontend url: %w", err)
	}

	var buf bytes.Buffer
	err = bodyTemplate.Execute(&buf, struct {
		Link    string
		Summary *domain.Summary
	}{
		Link:    link,
		Summary: summary,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render body: %w", err)
	}

	return buf.String(), nil
}

var bodyTemplate = template.Must(template.New("summary").Parse(`<h2>Your file has been processed</h2>
<p>
  Total rows: {{.Summary.Total}}<br>
  Inserted: {{.Summary.Success}}<br>
  Failed: {{.Summary.Failed}}
</p>
{{- if .Summary.Errors}}
<h3>Failed rows</h3>
<ul>
{{- range .Summary.Errors}}
  <li>Row {{.Row}}: {{.Message}}</li>
{{- end}}
</ul>
{{- end}}
<p><a href="{{.Link}}">View processed data</a></p>
<p>The full report is attached.</p>
`))

// Discard stands in for the mailer when SMTP is not configured.
type Discard struct {
	Log *slog.Logger
}

func (d Discard) Notify(ctx context.Context, owner string, summary *domain.Summary, jobID string) error {
	d.Log.DebugContext(ctx, "smtp not configured, summary not sent",
		slog.String("owner", owner),
		slog.String("job_id", jobID),
		slog.Int("total", summary.Total),
	)
	return nil
}
