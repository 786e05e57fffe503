package email

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// SMTPNotifier mails a short report when a run fails permanently, so an
// unattended overnight scan does not fail silently.
type SMTPNotifier struct {
	host   string
	port   int
	from   string
	logger *zap.Logger
}

func NewSMTPNotifier(host string, port int, from string, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{host: host, port: port, from: from, logger: logger}
}

func (n *SMTPNotifier) NotifyFailure(_ context.Context, recipient, runID, inputPath, errorMsg string) error {
	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	subject := fmt.Sprintf("Clip extraction failed [run %s]", runID)
	body := fmt.Sprintf(
		"The clip extraction run failed.\r\n\r\n"+
			"Run ID: %s\r\n"+
			"Input: %s\r\n"+
			"Error: %s\r\n",
		runID, inputPath, errorMsg,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.from, recipient, subject, body,
	)

	err := smtp.SendMail(addr, nil, n.from, []string{recipient}, []byte(msg))
	if err != nil {
		n.logger.Error("failed to send failure notification email",
			zap.String("to", recipient),
			zap.String("run_id", runID),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("failure notification email sent",
		zap.String("to", recipient),
		zap.String("run_id", runID),
	)
	return nil
}
