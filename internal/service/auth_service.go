package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/clinic"
	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
	"github.com/alshifa-health/clinic-api/internal/domain/patient"
	"github.com/alshifa-health/clinic-api/internal/notify"
	"github.com/alshifa-health/clinic-api/internal/otp"
	"github.com/alshifa-health/clinic-api/internal/schedule"
	"github.com/alshifa-health/clinic-api/pkg/auth"
	"github.com/alshifa-health/clinic-api/pkg/metrics"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked due to multiple failed login attempts")
	ErrAccountInactive    = errors.New("account is inactive")
)

// CodeStore issues and redeems e-mail verification codes. The production
// implementation is the redis-backed otp.Store.
type CodeStore interface {
	Issue(ctx context.Context, email string) (string, error)
	Redeem(ctx context.Context, email, code string) error
}

type AuthService struct {
	userRepo    domain.UserRepository
	patientRepo patient.Repository
	doctorRepo  doctor.Repository
	clinicRepo  clinic.Repository
	otpStore    CodeStore
	otpTTL      time.Duration
	mailer      *notify.Mailer
	jwtManager  *auth.JWTManager
	auditSvc    *AuditService
	metrics     *metrics.Collector
	log         *zap.Logger
}

func NewAuthService(
	userRepo domain.UserRepository,
	patientRepo patient.Repository,
	doctorRepo doctor.Repository,
	clinicRepo clinic.Repository,
	otpStore CodeStore,
	otpTTL time.Duration,
	mailer *notify.Mailer,
	jwtManager *auth.JWTManager,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		clinicRepo:  clinicRepo,
		otpStore:    otpStore,
		otpTTL:      otpTTL,
		mailer:      mailer,
		jwtManager:  jwtManager,
		auditSvc:    auditSvc,
		metrics:     collector,
		log:         log,
	}
}

// RegisterCommand carries the shared account fields plus the role-specific
// profile payload. Exactly one of Patient, Doctor, Clinic must be set,
// matching Role.
type RegisterCommand struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Role     domain.Role

	Patient *patient.CreatePatientCommand
	Doctor  *RegisterDoctorProfile
	Clinic  *clinic.CreateClinicCommand
}

// RegisterDoctorProfile references the employing clinic by name, the way the
// registration form collects it.
type RegisterDoctorProfile struct {
	ClinicName     string
	Specialization string
	LicenseNumber  string
}

// Register creates an unverified account with its role profile and e-mails a
// verification code. The account cannot log in until VerifyEmail succeeds.
// Doctors and clinics additionally wait for admin approval before they become
// publicly visible.
func (s *AuthService) Register(ctx context.Context, cmd *RegisterCommand) (*domain.User, error) {
	if fields := s.validateRegister(cmd); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if _, err := s.userRepo.GetByEmail(ctx, cmd.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Email:             cmd.Email,
		PasswordHash:      string(hash),
		FullName:          cmd.FullName,
		Phone:             cmd.Phone,
		Role:              cmd.Role,
		IsActive:          true,
		PasswordChangedAt: time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if err := s.createProfile(ctx, user, cmd); err != nil {
		// Roll the half-made registration back so the address can retry.
		if delErr := s.userRepo.DeleteUnverified(ctx, user.ID); delErr != nil {
			s.log.Error("failed to clean up registration", zap.Error(delErr))
		}
		return nil, err
	}

	code, err := s.otpStore.Issue(ctx, user.Email)
	if err != nil {
		s.log.Error("failed to issue verification code", zap.Error(err))
		return nil, fmt.Errorf("issuing verification code: %w", err)
	}
	s.metrics.OTPIssuedTotal.Inc()
	if err := s.mailer.SendVerificationCode(user.Email, code, s.otpTTL); err != nil {
		s.log.Error("failed to send verification code", zap.Error(err))
		return nil, fmt.Errorf("sending verification code: %w", err)
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return user, nil
}

func (s *AuthService) validateRegister(cmd *RegisterCommand) []string {
	var fields []string
	if cmd.Email == "" {
		fields = append(fields, "email is required")
	}
	if len(cmd.Password) < 12 {
		fields = append(fields, "password must be at least 12 characters")
	}
	if cmd.FullName == "" {
		fields = append(fields, "full_name is required")
	}
	if !cmd.Role.IsValid() || cmd.Role == domain.RoleAdmin {
		fields = append(fields, "role must be patient, doctor or organization")
	}
	switch cmd.Role {
	case domain.RolePatient:
		if cmd.Patient == nil {
			fields = append(fields, "patient profile is required")
		} else if cmd.Patient.Gender != "" && !cmd.Patient.Gender.IsValid() {
			fields = append(fields, "gender must be male, female, other or unknown")
		}
	case domain.RoleDoctor:
		if cmd.Doctor == nil || cmd.Doctor.ClinicName == "" {
			fields = append(fields, "doctor profile with clinic_name is required")
		}
	case domain.RoleOrganization:
		if cmd.Clinic == nil || cmd.Clinic.Name == "" {
			fields = append(fields, "clinic profile with name is required")
		}
	}
	return fields
}

func (s *AuthService) createProfile(ctx context.Context, user *domain.User, cmd *RegisterCommand) error {
	switch cmd.Role {
	case domain.RolePatient:
		gender := cmd.Patient.Gender
		if gender == "" {
			gender = patient.GenderUnknown
		}
		p := &patient.Patient{
			UserID:   user.ID,
			FullName: cmd.FullName,
			Age:      cmd.Patient.Age,
			Gender:   gender,
		}
		if err := s.patientRepo.Create(ctx, p); err != nil {
			return fmt.Errorf("creating patient profile: %w", err)
		}
		user.PatientID = &p.ID

	case domain.RoleDoctor:
		c, err := s.clinicRepo.GetByName(ctx, cmd.Doctor.ClinicName)
		if err != nil {
			if errors.Is(err, clinic.ErrClinicNotFound) {
				return doctor.ErrClinicRequired
			}
			return fmt.Errorf("resolving clinic: %w", err)
		}
		d := &doctor.Doctor{
			UserID:         user.ID,
			ClinicID:       c.ID,
			FullName:       cmd.FullName,
			Specialization: cmd.Doctor.Specialization,
			LicenseNumber:  cmd.Doctor.LicenseNumber,
			WorkStartTime:  "09:00",
			WorkEndTime:    "17:00",
		}
		d.ApplyStyle(schedule.StyleNormal, false)
		if err := s.doctorRepo.Create(ctx, d); err != nil {
			return fmt.Errorf("creating doctor profile: %w", err)
		}
		user.DoctorID = &d.ID

	case domain.RoleOrganization:
		c := &clinic.Clinic{
			OwnerID: user.ID,
			Name:    cmd.Clinic.Name,
			Address: cmd.Clinic.Address,
			Pincode: cmd.Clinic.Pincode,
			Lat:     cmd.Clinic.Lat,
			Lng:     cmd.Clinic.Lng,
		}
		if err := s.clinicRepo.Create(ctx, c); err != nil {
			return fmt.Errorf("creating clinic: %w", err)
		}
		user.ClinicID = &c.ID

	default:
		return domain.ErrInvalidRole
	}

	return s.userRepo.LinkProfile(ctx, user.ID, user)
}

// VerifyEmail redeems the e-mailed code and unlocks login for the account.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return otp.ErrCodeMismatch
	}
	if user.EmailVerified {
		return nil
	}
	if err := s.otpStore.Redeem(ctx, email, code); err != nil {
		return err
	}
	if err := s.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("marking email verified: %w", err)
	}
	s.log.Info("email verified", zap.String("user_id", user.ID.String()))
	return nil
}

// ResendCode issues and mails a fresh verification code.
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the address is registered.
		return nil
	}
	if user.EmailVerified {
		return nil
	}
	code, err := s.otpStore.Issue(ctx, email)
	if err != nil {
		return fmt.Errorf("issuing verification code: %w", err)
	}
	s.metrics.OTPIssuedTotal.Inc()
	return s.mailer.SendVerificationCode(email, code, s.otpTTL)
}

func (s *AuthService) Login(ctx context.Context, email, password string, ip string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Use bcrypt dummy hash to prevent timing-based user enumeration.
		// An attacker measuring response time should not be able to determine
		// whether the email exists in the system.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if user.IsLocked() {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		// Record failed attempt; lock if threshold exceeded
		_ = s.userRepo.UpdateLoginAttempt(ctx, user.ID, false)
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return nil, domain.ErrEmailNotVerified
	}

	_ = s.userRepo.UpdateLoginAttempt(ctx, user.ID, true)

	pair, err := s.jwtManager.GenerateTokenPair(claimsFor(user))
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       user.ID,
		UserRole:     string(user.Role),
		Action:       string(domain.ActionLogin),
		ResourceType: "session",
		IPAddress:    ip,
	})
	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("ip", ip),
	)

	return pair, nil
}

// RefreshToken issues a new access token given a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Re-validate user is still active
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive || !user.EmailVerified {
		return nil, ErrInvalidCredentials
	}

	return s.jwtManager.GenerateTokenPair(claimsFor(user))
}

// ChangePassword updates a user's password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}

func claimsFor(user *domain.User) *domain.Claims {
	return &domain.Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		DoctorID:  user.DoctorID,
		PatientID: user.PatientID,
		ClinicID:  user.ClinicID,
	}
}

func validatePasswordStrength(password string) error {
	if len(password) < 12 {
		return &ValidationError{Fields: []string{"password must be at least 12 characters"}}
	}
	return nil
}
