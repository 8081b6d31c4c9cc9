package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/repository"
)

// ContactInput is the public contact form. Website is a honeypot left empty by humans.
type ContactInput struct {
	Name    string `json:"name" validate:"min=2,max=80"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"phone" validate:"max=40"`
	Subject string `json:"subject" validate:"min=3,max=120"`
	Message string `json:"message" validate:"min=10,max=2000"`
	Website string `json:"website" validate:"-"`
}

var contactMessages = fieldMessage{
	overrideKey("name", "min"):       "Nom trop court",
	overrideKey("email", "required"): "Email requis",
	overrideKey("subject", "min"):    "Sujet trop court",
	overrideKey("message", "min"):    "Message trop court (min 10 caractères)",
	overrideKey("message", "max"):    "Message trop long (max 2000 caractères)",
}

// ContactResult reports a submission. Ignored submissions are not stored.
type ContactResult struct {
	ID      uint `json:"id,omitempty"`
	Ignored bool `json:"ignored,omitempty"`
}

// ContactService stores contact form messages and schedules their forwarding.
type ContactService struct {
	repo     repository.ContactMessageRepository
	notifier ContactNotifier
	retry    models.RetryPolicy
}

func NewContactService(repo repository.ContactMessageRepository, notifier ContactNotifier, retry models.RetryPolicy) *ContactService {
	return &ContactService{repo: repo, notifier: notifier, retry: retry}
}

// Submit validates and stores a message. A filled honeypot is accepted and dropped.
// Forwarding failures are logged and never fail the submission.
func (s *ContactService) Submit(ctx context.Context, input ContactInput) (*ContactResult, error) {
	if strings.TrimSpace(input.Website) != "" {
		logger.Infow("contact_honeypot_ignored")
		return &ContactResult{Ignored: true}, nil
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Message = strings.TrimSpace(input.Message)
	if fields := validateStruct(input, contactMessages); fields != nil {
		return nil, newValidationError(fields)
	}

	message := &models.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Subject: input.Subject,
		Message: input.Message,
	}
	if err := s.retry.Do(ctx, func() error {
		message.ID = 0
		return s.repo.Create(message)
	}); err != nil {
		return nil, err
	}
	logger.Infow("contact_message_received", "message_id", message.ID)

	if s.notifier != nil {
		if err := s.notifier.NotifyContactMessage(message.ID); err != nil {
			logger.Warnw("contact_notify_failed", "message_id", message.ID, "error", err)
		}
	}
	return &ContactResult{ID: message.ID}, nil
}

const defaultContactPageSize = 25

// ContactAdminService is the back-office inbox.
type ContactAdminService struct {
	repo  repository.ContactMessageRepository
	retry models.RetryPolicy
	now   func() time.Time
}

func NewContactAdminService(repo repository.ContactMessageRepository, retry models.RetryPolicy) *ContactAdminService {
	return &ContactAdminService{repo: repo, retry: retry, now: time.Now}
}

// List returns messages newest first, 25 per page unless asked otherwise.
func (s *ContactAdminService) List(ctx context.Context, filter repository.ContactMessageListFilter) ([]models.ContactMessage, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultContactPageSize
	}
	var (
		messages []models.ContactMessage
		total    int64
	)
	err := s.retry.Do(ctx, func() error {
		var err error
		messages, total, err = s.repo.List(filter)
		return err
	})
	return messages, total, err
}

func (s *ContactAdminService) Get(ctx context.Context, id uint) (*models.ContactMessage, error) {
	var message *models.ContactMessage
	err := s.retry.Do(ctx, func() error {
		var err error
		message, err = s.repo.GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, ErrNotFound
	}
	return message, nil
}

// MarkRead stamps the message as read. Marking twice moves read_at forward.
func (s *ContactAdminService) MarkRead(ctx context.Context, id uint) error {
	var found bool
	err := s.retry.Do(ctx, func() error {
		var err error
		found, err = s.repo.MarkRead(id, s.now())
		return err
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *ContactAdminService) Delete(ctx context.Context, id uint) error {
	var found bool
	err := s.retry.Do(ctx, func() error {
		var err error
		found, err = s.repo.Delete(id)
		return err
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	logger.Infow("contact_message_deleted", "message_id", id)
	return nil
}

// ReplyMailer sends mail whose replies go back to a third party.
type ReplyMailer interface {
	SendReplyTo(to, replyTo, subject, body string) error
}

// ContactEmailService forwards stored contact messages to the gallery mailbox.
type ContactEmailService struct {
	repo   repository.ContactMessageRepository
	mailer ReplyMailer
	target string
}

func NewContactEmailService(repo repository.ContactMessageRepository, mailer ReplyMailer, target string) *ContactEmailService {
	return &ContactEmailService{repo: repo, mailer: mailer, target: strings.TrimSpace(target)}
}

// SendContactNotification mails message id to the gallery with Reply-To set to the sender.
func (s *ContactEmailService) SendContactNotification(ctx context.Context, id uint) error {
	message, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if message == nil {
		return ErrNotFound
	}
	if s.target == "" {
		return ErrEmailServiceNotConfigured
	}
	subject, body := buildContactContent(message)
	return s.mailer.SendReplyTo(s.target, message.Email, subject, body)
}

func buildContactContent(message *models.ContactMessage) (string, string) {
	subject := fmt.Sprintf("[Contact] %s", message.Subject)

	var b strings.Builder
	fmt.Fprintf(&b, "Nom : %s\n", message.Name)
	fmt.Fprintf(&b, "Email : %s\n", message.Email)
	if message.Phone != "" {
		fmt.Fprintf(&b, "Téléphone : %s\n", message.Phone)
	}
	fmt.Fprintf(&b, "Sujet : %s\n\n%s\n", message.Subject, message.Message)
	return subject, b.String()
}
