package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/clinic"
	"github.com/alshifa-health/clinic-api/internal/domain/patient"
	"github.com/alshifa-health/clinic-api/internal/middleware"
	"github.com/alshifa-health/clinic-api/internal/service"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`

	// Patient profile
	Age    int    `json:"age"`
	Gender string `json:"gender"`

	// Doctor profile
	ClinicName     string `json:"clinic_name"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"license_number"`

	// Clinic profile
	OrgName    string  `json:"org_name"`
	OrgAddress string  `json:"org_address"`
	OrgPincode string  `json:"org_pincode"`
	OrgLat     float64 `json:"org_lat"`
	OrgLng     float64 `json:"org_lng"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &service.RegisterCommand{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     domain.Role(req.Role),
	}
	switch cmd.Role {
	case domain.RolePatient:
		cmd.Patient = &patient.CreatePatientCommand{
			FullName: req.FullName,
			Age:      req.Age,
			Gender:   patient.Gender(req.Gender),
		}
	case domain.RoleDoctor:
		cmd.Doctor = &service.RegisterDoctorProfile{
			ClinicName:     req.ClinicName,
			Specialization: req.Specialization,
			LicenseNumber:  req.LicenseNumber,
		}
	case domain.RoleOrganization:
		cmd.Clinic = &clinic.CreateClinicCommand{
			Name:    req.OrgName,
			Address: req.OrgAddress,
			Pincode: req.OrgPincode,
			Lat:     req.OrgLat,
			Lng:     req.OrgLng,
		}
	}

	user, err := h.authSvc.Register(c.Request.Context(), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse[any]{
		Data:    gin.H{"user_id": user.ID, "email": user.Email},
		Message: "registered; check your e-mail for the verification code",
	})
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authSvc.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"verified": true})
}

type resendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) ResendCode(c *gin.Context) {
	var req resendCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authSvc.ResendCode(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"sent": true})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, pair)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"changed": true})
}
