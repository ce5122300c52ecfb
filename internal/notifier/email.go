package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/clinicpos/record-api/internal/config"
	"github.com/clinicpos/record-api/internal/model"
	"github.com/clinicpos/record-api/pkg/logger"
	"github.com/clinicpos/record-api/pkg/messaging"
)

// EmailNotifier consumes appointment-created events and sends a
// confirmation email per event. When SMTP is not configured it logs the
// event and drops it.
type EmailNotifier struct {
	broker messaging.Broker
	dialer *gomail.Dialer
	from   string
	to     string
	logger *logger.Logger
}

func NewEmailNotifier(broker messaging.Broker, cfg config.SMTPConfig, log *logger.Logger) *EmailNotifier {
	n := &EmailNotifier{
		broker: broker,
		from:   cfg.From,
		to:     cfg.To,
		logger: log,
	}
	if cfg.Host != "" {
		n.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return n
}

// Run consumes events until the context is cancelled or the
// subscription channel closes. A bad or unsendable message is logged
// and skipped, never fatal.
func (n *EmailNotifier) Run(ctx context.Context) error {
	messages, err := n.broker.Subscribe(ctx, model.AppointmentsCreatedChannel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", model.AppointmentsCreatedChannel, err)
	}

	n.logger.Info(fmt.Sprintf("email notifier listening on %s", model.AppointmentsCreatedChannel))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-messages:
			if !ok {
				return nil
			}
			n.handle(payload)
		}
	}
}

func (n *EmailNotifier) handle(payload []byte) {
	var event model.AppointmentCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		n.logger.Error(err, "failed to decode appointment event")
		return
	}

	log := n.logger.WithFields(map[string]interface{}{
		"appointment_id": event.ID.String(),
		"tenant_id":      event.TenantID.String(),
	})

	if n.dialer == nil {
		log.Info("smtp not configured, skipping appointment notification")
		return
	}

	if err := n.send(event); err != nil {
		log.Error(err, "failed to send appointment notification")
		return
	}
	log.Info("appointment notification sent")
}

func (n *EmailNotifier) send(event model.AppointmentCreatedEvent) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", "Appointment confirmed")
	m.SetBody("text/plain", fmt.Sprintf(
		"Appointment %s for patient %s is booked at branch %s on %s.",
		event.ID, event.PatientID, event.BranchID, event.StartAt.Format("2006-01-02 15:04 MST"),
	))

	return n.dialer.DialAndSend(m)
}
