package handler

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/akverma/order-management-api/internal/config"
	"github.com/akverma/order-management-api/internal/model"
	"github.com/akverma/order-management-api/internal/repository"
	"github.com/akverma/order-management-api/internal/utils"
)

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

const refreshCookieName = "refreshToken"

// passwordPolicyMsg is returned whenever a password fails the complexity check.
const passwordPolicyMsg = "Password must be at least 8 characters, containing at least one uppercase letter, one lowercase letter, one number, and one special character"

var emailRegex = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// UserStore is the credential-store surface the auth flows depend on.
// *repository.UserRepo satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (model.User, error)
	FindByRefreshToken(ctx context.Context, token string) (model.User, error)
	FindByResetToken(ctx context.Context, token string) (model.User, error)
	Activate(ctx context.Context, id primitive.ObjectID) error
	SetActivateToken(ctx context.Context, id primitive.ObjectID, token string) error
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, token string) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

// Mailer delivers account emails. *mail.Mailer satisfies it.
type Mailer interface {
	SendActivationEmail(to, token string) error
	SendResetPasswordEmail(to, token string) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	Mail  Mailer
}

func NewAuthHandler(cfg config.Config, users UserStore, mail Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Mail: mail}
}

// ----- DTOs -----

type registerReq struct {
	FullName    string `json:"fullName"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type forgotPasswordReq struct {
	Email string `json:"email"`
}
type resetPasswordReq struct {
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register creates a pending account and mails an activation link. No
// access or refresh tokens are issued here; login stays gated until the
// account is activated.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.FullName == "" || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please provide all required fields (fullName, username, password)"})
	}
	if !emailRegex.MatchString(req.Username) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please enter a valid email address"})
	}
	if !utils.IsPasswordComplexEnough(req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": passwordPolicyMsg})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user := model.User{
		FullName:    req.FullName,
		Username:    req.Username,
		Password:    hash,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Role:        model.RoleCustomer,
		IsActivated: false,
	}
	if err := h.Users.Create(ctx, &user); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}

	token, err := utils.IssueToken(h.Cfg.ActivationSecret,
		utils.TokenClaims{UserID: user.ID.Hex()},
		time.Duration(h.Cfg.ActivationTTLMin)*time.Minute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	if err := h.Users.SetActivateToken(ctx, user.ID, token); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}

	// A failed dispatch leaves the pending account in place; the user can
	// request a fresh link via resend-activation.
	if err := h.Mail.SendActivationEmail(user.Username, token); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error sending account activation email"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Please check your email " + user.Username + " to activate your account"})
}

// Login verifies credentials and, for activated accounts, issues an access
// token plus a refresh token. The refresh token replaces any previously
// stored one (single active session) and travels back as an HTTP-only cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please provide both 'username' and 'password' fields"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Users.FindByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrNotFound {
			// Same message as a password mismatch so the response does not
			// reveal which field was wrong.
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	if !utils.VerifyPassword(user.Password, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid username or password"})
	}
	if !user.IsActivated {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please activate your account before login"})
	}

	accessToken, err := utils.IssueToken(h.Cfg.AccessSecret,
		utils.TokenClaims{UserID: user.ID.Hex(), FullName: user.FullName, Role: user.Role},
		time.Duration(h.Cfg.AccessTTLMin)*time.Minute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	refreshTTL := time.Duration(h.Cfg.RefreshTTLHours) * time.Hour
	refreshToken, err := utils.IssueToken(h.Cfg.RefreshSecret,
		utils.TokenClaims{UserID: user.ID.Hex()}, refreshTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}

	// Overwrites any prior session's token: last writer wins.
	if err := h.Users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}

	setRefreshCookie(c, refreshToken, int(refreshTTL.Seconds()))
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "User logged in successfully!",
		"role":        user.Role,
		"userId":      user.ID.Hex(),
		"accessToken": accessToken,
	})
}

// Activate consumes an activation token. Activating an already-active
// account is a no-op, not an error.
func (h *AuthHandler) Activate(c echo.Context) error {
	claims, err := utils.VerifyToken(h.Cfg.ActivationSecret, c.Param("token"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid or expired token"})
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid or expired token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Users.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	if user.IsActivated {
		return c.JSON(http.StatusOK, echo.Map{"message": "User is already activated"})
	}

	if err := h.Users.Activate(ctx, user.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Account activated successfully"})
}

// ResendActivation issues a fresh activation link for a pending account.
// Already-active accounts get an idempotent message and no new token.
func (h *AuthHandler) ResendActivation(c echo.Context) error {
	email := c.Param("email")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Users.FindByUsername(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found. Please sign up."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	if user.IsActivated {
		return c.JSON(http.StatusOK, echo.Map{"message": "Account is already activated."})
	}

	token, err := utils.IssueToken(h.Cfg.ActivationSecret,
		utils.TokenClaims{UserID: user.ID.Hex()},
		time.Duration(h.Cfg.ResendTTLMin)*time.Minute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	if err := h.Users.SetActivateToken(ctx, user.ID, token); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	if err := h.Mail.SendActivationEmail(user.Username, token); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error sending account activation email"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Please check your email " + user.Username + " to activate your account"})
}

// ForgotPassword issues a password-reset token and mails the reset link.
// Unlike login, this path does reveal whether the email exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please provide your email address"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Users.FindByUsername(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Email ID does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}

	token, err := utils.IssueToken(h.Cfg.ActivationSecret,
		utils.TokenClaims{UserID: user.ID.Hex()},
		time.Duration(h.Cfg.ResetTTLMin)*time.Minute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	if err := h.Users.SetResetToken(ctx, user.ID, token); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	if err := h.Mail.SendResetPasswordEmail(user.Username, token); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error sending password reset email"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset email sent"})
}

// ResetPassword consumes a reset token and writes the new password. The
// token must both match a stored pending token and verify independently.
// confirmPassword is accepted but not compared against newPassword, matching
// the behavior clients already rely on.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	token := c.Param("token")
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.NewPassword == "" || req.ConfirmPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please provide both 'newPassword' and 'confirmPassword' fields"})
	}
	if !utils.IsPasswordComplexEnough(req.NewPassword) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": passwordPolicyMsg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Users.FindByResetToken(ctx, token)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Invalid or expired Token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}

	claims, err := utils.VerifyToken(h.Cfg.ActivationSecret, token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized: Invalid or expired Token"})
	}
	if claims.UserID != user.ID.Hex() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	// One-time use: the write also removes the stored reset token.
	if err := h.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully"})
}

// Refresh mints a new access token from the refresh-token cookie. The
// refresh token itself is not rotated. Claims come from the current user
// record, not from the possibly stale token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.NoContent(http.StatusUnauthorized)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	// The stored copy is the sole server-side session record: a token that
	// matches no user has been revoked or replaced, however valid its
	// signature still is.
	user, err := h.Users.FindByRefreshToken(ctx, cookie.Value)
	if err != nil {
		return c.NoContent(http.StatusForbidden)
	}

	claims, err := utils.VerifyToken(h.Cfg.RefreshSecret, cookie.Value)
	if err != nil || claims.UserID != user.ID.Hex() {
		return c.NoContent(http.StatusForbidden)
	}

	accessToken, err := utils.IssueToken(h.Cfg.AccessSecret,
		utils.TokenClaims{UserID: user.ID.Hex(), FullName: user.FullName, Role: user.Role},
		time.Duration(h.Cfg.AccessTTLMin)*time.Minute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"userId":      user.ID.Hex(),
		"accessToken": accessToken,
	})
}

// Logout revokes the session named by the refresh-token cookie and clears
// the cookie. Every path answers 204; logging out without a session is a
// no-op.
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.NoContent(http.StatusNoContent)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Users.FindByRefreshToken(ctx, cookie.Value)
	if err != nil {
		clearRefreshCookie(c)
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.Users.ClearRefreshToken(ctx, user.ID); err != nil {
		return c.NoContent(http.StatusInternalServerError)
	}
	clearRefreshCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// setRefreshCookie writes the refresh-token cookie. SameSite=None with
// Secure lets the browser send it on cross-site requests from the client app.
func setRefreshCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
