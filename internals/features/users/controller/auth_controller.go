// file: internals/features/users/controller/auth_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"legacy_backend/internals/configs"
	"legacy_backend/internals/constants"
	userDTO "legacy_backend/internals/features/users/dto"
	userModel "legacy_backend/internals/features/users/model"
	helper "legacy_backend/internals/helpers"
)

const (
	accessTokenTTL  = 2 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAuthController(db *gorm.DB, v *validator.Validate) *AuthController {
	return &AuthController{DB: db, Validator: v}
}

/* =======================================================================
   Token builder
======================================================================= */

func buildAccessClaims(u *userModel.User, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"id":        u.UserID.String(),
		"role":      u.UserRole,
		"user_name": u.UserName,
		"exp":       now.Add(accessTokenTTL).Unix(),
	}
}

func buildRefreshClaims(u *userModel.User, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"id":  u.UserID.String(),
		"typ": "refresh",
		"exp": now.Add(refreshTokenTTL).Unix(),
	}
}

func signToken(claims jwt.MapClaims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (h *AuthController) issueTokenPair(c *fiber.Ctx, u *userModel.User) (*userDTO.AuthResponse, error) {
	now := time.Now()

	access, err := signToken(buildAccessClaims(u, now), configs.JWTSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := signToken(buildRefreshClaims(u, now), configs.JWTRefreshSecret)
	if err != nil {
		return nil, err
	}

	// refresh token juga dikirim via cookie httpOnly untuk klien web
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		Expires:  now.Add(refreshTokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})

	return &userDTO.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         userDTO.FromUserModel(u),
	}, nil
}

/* =======================================================================
   Register & Login
======================================================================= */

// POST /api/auth/register
func (h *AuthController) Register(c *fiber.Ctx) error {
	var req userDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "format request tidak valid")
	}
	req.Normalize()
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var count int64
	if err := h.DB.WithContext(c.Context()).Model(&userModel.User{}).
		Where("user_email = ?", req.Email).Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if count > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "email sudah terdaftar")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal memproses password")
	}

	user := userModel.User{
		UserName:     req.UserName,
		UserEmail:    req.Email,
		UserPassword: string(hash),
		UserRole:     constants.RoleUser,
		UserIsActive: true,
	}
	if err := h.DB.WithContext(c.Context()).Create(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp, err := h.issueTokenPair(c, &user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal membuat token")
	}
	return helper.JsonCreated(c, "registrasi berhasil", resp)
}

// POST /api/auth/login
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req userDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "format request tidak valid")
	}
	req.Normalize()
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user userModel.User
	if err := h.DB.WithContext(c.Context()).
		First(&user, "user_email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "email atau password salah")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "akun dinonaktifkan")
	}
	if user.UserPassword == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(req.Password)) != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "email atau password salah")
	}

	resp, err := h.issueTokenPair(c, &user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal membuat token")
	}
	return helper.JsonOK(c, "login berhasil", resp)
}

// POST /api/auth/login-google
func (h *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req userDTO.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "format request tidak valid")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	// Verifikasi token Google
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Google ID token tidak valid")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal decode ID token")
	}
	email := strings.ToLower(strings.TrimSpace(claimSet.Email))
	name, googleID := claimSet.Name, claimSet.Sub

	// Cari by google_id, lalu fallback by email (tautkan akun lama)
	var user userModel.User
	err = h.DB.WithContext(c.Context()).First(&user, "user_google_id = ?", googleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = h.DB.WithContext(c.Context()).First(&user, "user_email = ?", email).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = userModel.User{
				UserName:     name,
				UserEmail:    email,
				UserRole:     constants.RoleUser,
				UserGoogleID: &googleID,
				UserIsActive: true,
			}
			if cerr := h.DB.WithContext(c.Context()).Create(&user).Error; cerr != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, cerr.Error())
			}
			err = nil
		} else if err == nil {
			user.UserGoogleID = &googleID
			if uerr := h.DB.WithContext(c.Context()).
				Model(&user).Update("user_google_id", googleID).Error; uerr != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, uerr.Error())
			}
		}
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "akun dinonaktifkan")
	}

	resp, err := h.issueTokenPair(c, &user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal membuat token")
	}
	return helper.JsonOK(c, "login google berhasil", resp)
}

/* =======================================================================
   Session
======================================================================= */

// POST /api/auth/refresh
func (h *AuthController) RefreshToken(c *fiber.Ctx) error {
	raw := helper.GetRefreshTokenFromCookie(c)
	if raw == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.BodyParser(&body)
		raw = strings.TrimSpace(body.RefreshToken)
	}
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "refresh token tidak ditemukan")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("metode signing tidak dikenal")
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !token.Valid {
		return helper.JsonError(c, fiber.StatusUnauthorized, "refresh token tidak valid")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "refresh token tidak valid")
	}
	idStr, _ := claims["id"].(string)
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "refresh token tidak valid")
	}

	var user userModel.User
	if err := h.DB.WithContext(c.Context()).First(&user, "user_id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "user tidak ditemukan")
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "akun dinonaktifkan")
	}

	resp, err := h.issueTokenPair(c, &user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal membuat token")
	}
	return helper.JsonOK(c, "token diperbarui", resp)
}

// POST /api/auth/logout
func (h *AuthController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	return helper.JsonOK(c, "logout berhasil", nil)
}

// GET /api/auth/me
func (h *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var user userModel.User
	if err := h.DB.WithContext(c.Context()).First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "user tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "profil user", userDTO.FromUserModel(&user))
}

// POST /api/auth/change-password
func (h *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req userDTO.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "format request tidak valid")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user userModel.User
	if err := h.DB.WithContext(c.Context()).First(&user, "user_id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "user tidak ditemukan")
	}
	if user.UserPassword != "" &&
		bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(req.OldPassword)) != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "password lama salah")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal memproses password")
	}
	if err := h.DB.WithContext(c.Context()).
		Model(&user).Update("user_password", string(hash)).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "password berhasil diubah", nil)
}
