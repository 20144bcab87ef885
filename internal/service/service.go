package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/message-service/internal/auth"
	"github.com/Dan9191/message-service/internal/models"
	"github.com/Dan9191/message-service/internal/repository"
	"github.com/Dan9191/message-service/internal/validation"
	ozzo "github.com/go-ozzo/ozzo-validation"
	"github.com/sirupsen/logrus"
)

const (
	maxTitleLen = 255
	maxEmailLen = 128
)

// Mailer delivers the issued token to a newly created user.
type Mailer interface {
	SendWelcome(to, token string) error
}

// MessageInput carries client-settable message fields. Nil means the field
// was absent from the request.
type MessageInput struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// Service handles business logic
type Service struct {
	users    repository.UserRepository
	messages repository.MessageRepository
	codec    *auth.TokenCodec
	mailer   Mailer
	log      *logrus.Logger
}

// NewService initializes a new service. mailer may be nil.
func NewService(users repository.UserRepository, messages repository.MessageRepository, codec *auth.TokenCodec, mailer Mailer, log *logrus.Logger) *Service {
	return &Service{users: users, messages: messages, codec: codec, mailer: mailer, log: log}
}

// CreateUser validates email, mints its token and stores the new user.
func (s *Service) CreateUser(ctx context.Context, email *string) (*models.User, error) {
	if invalid, reason := validation.IsInvalid(email); invalid {
		return nil, newValidationError("email", reason)
	}
	if err := ozzo.Validate(*email, ozzo.RuneLength(0, maxEmailLen)); err != nil {
		return nil, newValidationError("email", fmt.Sprintf("Ensure this field has no more than %d characters.", maxEmailLen))
	}

	token, err := s.codec.Encode(*email)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: *email, Token: token}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.Infof("User created: %d %s", user.ID, user.Email)

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(user.Email, user.Token); err != nil {
			s.log.Warnf("Welcome mail for user %d not sent: %v", user.ID, err)
		}
	}
	return user, nil
}

// ListUsers returns one page of users and the total count.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	return s.users.ListUsers(ctx, limit, offset)
}

// GetUser retrieves a user by identifier.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// CreateMessage stores a new message owned by identity.
func (s *Service) CreateMessage(ctx context.Context, identity *models.User, in MessageInput) (*models.Message, error) {
	msg := &models.Message{}
	in.apply(msg)
	if err := validateMessage(msg); err != nil {
		return nil, err
	}

	StampOwner(identity, msg)
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.log.Infof("Message %d created for user %d", msg.ID, identity.ID)
	return msg, nil
}

// ListMessages returns one page of identity's messages matching search.
func (s *Service) ListMessages(ctx context.Context, identity *models.User, search string, limit, offset int) ([]models.Message, int, error) {
	filter := ScopeForRead(identity)
	filter.Search = search
	return s.messages.ListMessages(ctx, filter, limit, offset)
}

// GetMessage retrieves one of identity's messages.
func (s *Service) GetMessage(ctx context.Context, identity *models.User, id int64) (*models.Message, error) {
	msg, err := s.messages.GetMessage(ctx, ScopeForRead(identity), id)
	if err != nil {
		return nil, notFound(err)
	}
	return msg, nil
}

// UpdateMessage changes title and body of one of identity's messages. With
// partial set, absent fields keep their stored value; otherwise absent fields
// are reset and title is required. The owner is never changed.
func (s *Service) UpdateMessage(ctx context.Context, identity *models.User, id int64, in MessageInput, partial bool) (*models.Message, error) {
	scope := ScopeForRead(identity)

	msg, err := s.messages.GetMessage(ctx, scope, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !partial {
		msg.Title, msg.Body = "", ""
	}
	in.apply(msg)
	if err := validateMessage(msg); err != nil {
		return nil, err
	}

	if err := s.messages.UpdateMessage(ctx, scope, msg); err != nil {
		return nil, notFound(err)
	}
	s.log.Infof("Message %d updated by user %d", msg.ID, identity.ID)
	return msg, nil
}

// DeleteMessage removes one of identity's messages.
func (s *Service) DeleteMessage(ctx context.Context, identity *models.User, id int64) error {
	if err := s.messages.DeleteMessage(ctx, ScopeForRead(identity), id); err != nil {
		return notFound(err)
	}
	s.log.Infof("Message %d deleted by user %d", id, identity.ID)
	return nil
}

func (in MessageInput) apply(msg *models.Message) {
	if in.Title != nil {
		msg.Title = strings.TrimSpace(*in.Title)
	}
	if in.Body != nil {
		msg.Body = strings.TrimSpace(*in.Body)
	}
}

func validateMessage(msg *models.Message) error {
	return fromValidation(ozzo.Errors{
		"title": ozzo.Validate(msg.Title, ozzo.Required, ozzo.RuneLength(1, maxTitleLen)),
	})
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("storage failure: %w", err)
}
