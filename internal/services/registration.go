package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-user-registration/internal/logger"
	"github.com/sbilibin2017/gw-user-registration/internal/metrics"
	"github.com/sbilibin2017/gw-user-registration/internal/models"
	"github.com/sbilibin2017/gw-user-registration/internal/password"
	"github.com/sbilibin2017/gw-user-registration/internal/repositories"
	"github.com/sbilibin2017/gw-user-registration/internal/validation"
)

//go:generate mockgen -source=registration.go -destination=mock.go -package=services

// Error variables
var (
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already registered")
	ErrMobileExists   = errors.New("mobile number already registered")
)

// UserReader defines read-only existence checks for users.
type UserReader interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByMobile(ctx context.Context, countryCode, mobileNumber string) (bool, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user models.UserDB) (uuid.UUID, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// RegistrationService validates, deduplicates and persists new users.
type RegistrationService struct {
	reader             UserReader
	writer             UserWriter
	kafkaWriter        KafkaWriter
	emailCaseSensitive bool
}

// NewRegistrationService creates a new RegistrationService. kafkaWriter may
// be nil, in which case no events are published.
func NewRegistrationService(reader UserReader, writer UserWriter, kafkaWriter KafkaWriter, emailCaseSensitive bool) *RegistrationService {
	return &RegistrationService{
		reader:             reader,
		writer:             writer,
		kafkaWriter:        kafkaWriter,
		emailCaseSensitive: emailCaseSensitive,
	}
}

// Register runs the registration pipeline: normalize, validate, check
// uniqueness (username, then email, then mobile pair, failing fast),
// hash the password and persist. A validation failure is returned as
// validation.FieldErrors; a duplicate as one of the sentinel errors above.
// Registration either fully succeeds or persists nothing.
func (svc *RegistrationService) Register(ctx context.Context, req models.RegisterRequest) error {
	validation.Normalize(&req, svc.emailCaseSensitive)

	if errs := validation.ValidateRegister(&req); len(errs) > 0 {
		logger.Log.Infow("registration payload rejected", "violations", len(errs))
		metrics.RegistrationsTotal.WithLabelValues("validation_error").Inc()
		return errs
	}

	if err := svc.checkUnique(ctx, &req); err != nil {
		if errors.Is(err, ErrUsernameExists) || errors.Is(err, ErrEmailExists) || errors.Is(err, ErrMobileExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	user := models.UserDB{
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		CountryCode:  req.CountryCode,
		MobileNumber: req.MobileNumber,
	}

	userID, err := svc.writer.Save(ctx, user)
	if err != nil {
		// The pre-check and the insert are not one transaction; a
		// concurrent registration can still hit the unique constraint.
		var conflict *repositories.ConflictError
		if errors.As(err, &conflict) {
			logger.Log.Errorw("constraint conflict on insert", "field", conflict.Field, "username", req.Username)
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return duplicateError(conflict.Field)
		}
		logger.Log.Errorw("failed to save user", "err", err)
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	svc.publishRegistered(ctx, userID, &req)
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	return nil
}

// checkUnique verifies username, email and the (countrycode, mobilenumber)
// pair in order, stopping at the first conflict.
func (svc *RegistrationService) checkUnique(ctx context.Context, req *models.RegisterRequest) error {
	exists, err := svc.reader.ExistsByUsername(ctx, req.Username)
	if err != nil {
		logger.Log.Errorw("failed to check username", "err", err)
		return err
	}
	if exists {
		return ErrUsernameExists
	}

	exists, err = svc.reader.ExistsByEmail(ctx, req.Email)
	if err != nil {
		logger.Log.Errorw("failed to check email", "err", err)
		return err
	}
	if exists {
		return ErrEmailExists
	}

	exists, err = svc.reader.ExistsByMobile(ctx, req.CountryCode, req.MobileNumber)
	if err != nil {
		logger.Log.Errorw("failed to check mobile number", "err", err)
		return err
	}
	if exists {
		return ErrMobileExists
	}

	return nil
}

// duplicateError maps a repository conflict field to a sentinel error.
func duplicateError(field string) error {
	switch field {
	case repositories.FieldEmail:
		return ErrEmailExists
	case repositories.FieldMobile:
		return ErrMobileExists
	default:
		return ErrUsernameExists
	}
}

// publishRegistered publishes a user-registered event to Kafka. Publishing
// is best effort: a failure is logged and never fails the registration.
func (svc *RegistrationService) publishRegistered(ctx context.Context, userID uuid.UUID, req *models.RegisterRequest) {
	if svc.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "user_id", userID)
		return
	}

	event := models.UserRegisteredEvent{
		EventID:   uuid.NewString(),
		UserID:    userID.String(),
		Username:  req.Username,
		Email:     req.Email,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal registration event", "user_id", userID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish registration event", "user_id", userID, "error", err)
	} else {
		logger.Log.Infow("Registration event published", "user_id", userID, "username", req.Username)
	}
}
