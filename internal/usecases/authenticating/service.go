package authenticating

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/infrastructure/repository"
	"github.com/vfg2006/agency-crm-api/internal/config"
	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/pkg/apiErrors"
	"github.com/vfg2006/agency-crm-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

type Authenticator interface {
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	CreateUser(ctx context.Context, in CreateUserInput, actor domain.Actor) (*domain.User, error)
	UpdateUser(ctx context.Context, in UpdateUserInput, actor domain.Actor) (*domain.User, error)
	ListUsers(ctx context.Context, actor domain.Actor) ([]*domain.User, error)
	GetProfile(ctx context.Context, actor domain.Actor) (*domain.User, error)
	ChangePassword(ctx context.Context, in ChangePasswordInput, actor domain.Actor) error
	ResetPassword(ctx context.Context, userID string, actor domain.Actor) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
	ValidatePasswordStrength(password string) error
}

type Service struct {
	uow      repository.UnitOfWork
	userRepo repository.UserRepository
	cfg      *config.Config
	now      func() time.Time
}

func NewService(uow repository.UnitOfWork, userRepo repository.UserRepository, cfg *config.Config) *Service {
	return &Service{
		uow:      uow,
		userRepo: userRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, handleEmail(in.Email))
	if err != nil {
		return nil, err
	}

	// Usuário inexistente e senha errada retornam o mesmo erro
	if user == nil {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, invalidCredentials()
	}

	if !user.Active {
		return nil, apiErrors.Wrap(ErrUserDisabled, apiErrors.CodeAuthentication, "Conta desativada")
	}

	return s.newSession(user)
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := s.ValidatePasswordStrength(in.Password); err != nil {
		return nil, weakPassword(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	err = s.uow.RunInTransaction(ctx, func(repos repository.Repositories) error {
		email := handleEmail(in.Email)

		existing, err := repos.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return emailTaken()
		}

		agency := &domain.Agency{ID: utils.NewID(), Name: strings.TrimSpace(in.AgencyName)}
		if err := repos.Agencies.Create(ctx, agency); err != nil {
			return err
		}

		// Quem cria a agência é o dono dela
		user = &domain.User{
			ID:           utils.NewID(),
			AgencyID:     agency.ID,
			Name:         strings.TrimSpace(in.Name),
			Email:        email,
			PasswordHash: string(hashedPassword),
			Role:         domain.RoleMaster,
			Active:       true,
		}
		return repos.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"agency_id": user.AgencyID,
	}).Info("Nova agência registrada")

	return s.newSession(user)
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput, actor domain.Actor) (*domain.User, error) {
	if !actor.Role.AtLeast(in.Role) {
		return nil, insufficientPrivilege("Você não pode criar usuários com papel superior ao seu")
	}

	if err := s.ValidatePasswordStrength(in.Password); err != nil {
		return nil, weakPassword(err)
	}

	email := handleEmail(in.Email)
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, emailTaken()
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           utils.NewID(),
		AgencyID:     actor.AgencyID,
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         in.Role,
		Active:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, in UpdateUserInput, actor domain.Actor) (*domain.User, error) {
	user, err := s.findInAgency(ctx, in.UserID, actor)
	if err != nil {
		return nil, err
	}

	self := user.ID == actor.UserID
	manages := actor.Role.HasPermission(domain.PermissionUserManage)

	if !self && !manages {
		return nil, insufficientPrivilege("Você só pode alterar o próprio perfil")
	}
	if !self && !actor.Role.AtLeast(user.Role) {
		return nil, insufficientPrivilege("Você não pode alterar usuários com papel superior ao seu")
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}

	if in.Email != nil {
		email := handleEmail(*in.Email)
		if email != user.Email {
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, emailTaken()
			}
			user.Email = email
		}
	}

	if in.Role != nil && *in.Role != user.Role {
		if !manages || self {
			return nil, insufficientPrivilege("Você não pode alterar o próprio papel")
		}
		if !actor.Role.AtLeast(*in.Role) {
			return nil, insufficientPrivilege("Você não pode atribuir papel superior ao seu")
		}
		user.Role = *in.Role
	}

	if in.Active != nil {
		if !manages {
			return nil, insufficientPrivilege("Apenas administradores podem ativar ou desativar usuários")
		}
		user.Active = *in.Active
	}

	if in.Deleted != nil && *in.Deleted {
		if !manages || self {
			return nil, insufficientPrivilege("Você não pode excluir este usuário")
		}
		now := s.now()
		user.DeletedAt = &now
		user.Active = false
	}

	// Update só grava o hash quando preenchido
	user.PasswordHash = ""

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	return s.userRepo.ListByAgency(ctx, actor.AgencyID)
}

func (s *Service) GetProfile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return s.findInAgency(ctx, actor.UserID, actor)
}

func (s *Service) findInAgency(ctx context.Context, userID string, actor domain.Actor) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.AgencyID != actor.AgencyID {
		return nil, userNotFound()
	}
	return user, nil
}

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

func (s *Service) newSession(user *domain.User) (*Session, error) {
	ttl := s.cfg.Auth.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	expiresAt := s.now().Add(ttl)

	token, err := generateJWT(user, s.cfg.Auth.Secret, expiresAt)
	if err != nil {
		return nil, apiErrors.Internal(err)
	}

	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func generateJWT(user *domain.User, secretKey string, expiresAt time.Time) (string, error) {
	claims := domain.Claims{
		UserID:    user.ID,
		AgencyID:  user.AgencyID,
		UserName:  user.Name,
		UserEmail: user.Email,
		UserRole:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Auth.Secret), nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*domain.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ResetPassword gera uma senha forte para o usuário alvo.
// O ator precisa de user:manage e papel igual ou superior ao do alvo.
func (s *Service) ResetPassword(ctx context.Context, userID string, actor domain.Actor) (string, error) {
	target, err := s.findInAgency(ctx, userID, actor)
	if err != nil {
		return "", err
	}
	if !actor.Role.AtLeast(target.Role) {
		return "", insufficientPrivilege("Você não pode redefinir a senha de usuários com papel superior ao seu")
	}

	newPassword, err := generateStrongPassword(12)
	if err != nil {
		return "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	target.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(ctx, target); err != nil {
		return "", err
	}

	return newPassword, nil
}

// generateStrongPassword gera uma senha com letras maiúsculas, minúsculas, números e caracteres especiais
func generateStrongPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	sets := []string{lowerChars, upperChars, numberChars, specialChars}
	password := make([]byte, length)

	// Um caractere de cada tipo garantido nas primeiras posições
	for i, set := range sets {
		c, err := getRandomChar(set)
		if err != nil {
			return "", err
		}
		password[i] = c
	}

	for i := len(sets); i < length; i++ {
		c, err := getRandomChar(allChars)
		if err != nil {
			return "", err
		}
		password[i] = c
	}

	// Embaralhar a senha para que os caracteres não fiquem em ordem previsível
	for i := range password {
		j, err := randomInt(int64(len(password)))
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

func getRandomChar(charset string) (byte, error) {
	n, err := randomInt(int64(len(charset)))
	if err != nil {
		return 0, err
	}
	return charset[n], nil
}

func randomInt(max int64) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberChars  = "0123456789"
	specialChars = "!@#$%^&*()-_=+[]{}|;:,.<>?"
	allChars     = lowerChars + upperChars + numberChars + specialChars
)

// ValidatePasswordStrength exige 8 caracteres com maiúscula, minúscula, número e caractere especial
func (s *Service) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("a senha deve conter pelo menos 8 caracteres")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case strings.ContainsRune(lowerChars, char):
			hasLower = true
		case strings.ContainsRune(upperChars, char):
			hasUpper = true
		case strings.ContainsRune(numberChars, char):
			hasNumber = true
		case strings.ContainsRune(specialChars, char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return errors.New("a senha deve conter pelo menos uma letra maiúscula")
	}
	if !hasLower {
		return errors.New("a senha deve conter pelo menos uma letra minúscula")
	}
	if !hasNumber {
		return errors.New("a senha deve conter pelo menos um número")
	}
	if !hasSpecial {
		return errors.New("a senha deve conter pelo menos um caractere especial")
	}

	return nil
}

// ChangePassword troca a senha do próprio usuário após conferir a atual
func (s *Service) ChangePassword(ctx context.Context, in ChangePasswordInput, actor domain.Actor) error {
	user, err := s.findInAgency(ctx, actor.UserID, actor)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return &apiErrors.AppError{
			Code:    apiErrors.CodeValidation,
			Message: "currentPassword: senha atual incorreta",
			Field:   "currentPassword",
			Err:     ErrInvalidCredentials,
		}
	}

	if in.CurrentPassword == in.NewPassword {
		return apiErrors.Validation("newPassword", "newPassword: a nova senha deve ser diferente da atual")
	}

	if err := s.ValidatePasswordStrength(in.NewPassword); err != nil {
		appErr := weakPassword(err)
		appErr.Field = "newPassword"
		appErr.Message = "newPassword: " + err.Error()
		return appErr
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	return s.userRepo.Update(ctx, user)
}
