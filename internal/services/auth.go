package services

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/models"
	"github.com/sportclub-app/sportclub-backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	Get(ctx context.Context, id int64) (*models.UserDB, error)
	GetByName(ctx context.Context, username string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, in repositories.UserCreate) (*models.UserDB, error)
}

// JWTGenerator defines an interface for generating JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID int64) (string, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// RegisterInput carries the validated fields for account registration.
type RegisterInput struct {
	Username    string
	Password    string
	FullName    string
	Email       string
	Avatar      *string
	IsSuperuser bool
	IsActive    bool
	IsApproved  bool
}

// AuthService handles registration, authentication and token minting.
type AuthService struct {
	reader UserReader
	writer UserWriter
	jwt    JWTGenerator
	events KafkaWriter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt JWTGenerator, events KafkaWriter) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
		events: events,
	}
}

// Register creates a new account with a hashed credential. createdBy
// records the privileged account performing the registration, if any.
func (svc *AuthService) Register(ctx context.Context, in RegisterInput, createdBy *int64) (*models.UserDB, error) {
	existing, err := svc.reader.GetByName(ctx, in.Username)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Errorw("user already exists", "username", in.Username)
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Create(ctx, repositories.UserCreate{
		Username:     in.Username,
		PasswordHash: string(hashedPassword),
		FullName:     in.FullName,
		Email:        in.Email,
		Avatar:       in.Avatar,
		IsSuperuser:  in.IsSuperuser,
		IsActive:     in.IsActive,
		IsApproved:   in.IsApproved,
		CreatedBy:    createdBy,
	})
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	actorID := user.ID
	if createdBy != nil {
		actorID = *createdBy
	}
	publishEvent(ctx, svc.events, models.Event{
		Type:     "user.registered",
		EntityID: user.ID,
		ActorID:  actorID,
		At:       time.Now(),
	})

	return user, nil
}

// Authenticate verifies a username/password pair. A missing account and
// a wrong password fail identically so existence is not leaked.
func (svc *AuthService) Authenticate(ctx context.Context, username, password string) (*models.UserDB, error) {
	user, err := svc.reader.GetByName(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		logger.Log.Errorw("user does not exist", "username", username)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "username", username)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates a user and returns a signed access token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := svc.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := svc.jwt.Generate(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	return token, nil
}
