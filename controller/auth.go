package controller

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"direct-messenger/config"
	"direct-messenger/model"
	"direct-messenger/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/pquerna/otp/totp"
)

const (
	nicknameMin = 2
	nicknameMax = 50
	passwordMin = 6
)

type AuthSignupInput struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type AuthLoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type AuthRenewTokenInput struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthOtpSecretInput struct {
	Password string `json:"password"`
}

type AuthOtpTokenInput struct {
	Token string `json:"token"`
}

type AuthOtpDisableInput struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}

func (in *AuthSignupInput) validate() string {
	in.Email = strings.TrimSpace(in.Email)
	in.Nickname = strings.TrimSpace(in.Nickname)

	if _, err := mail.ParseAddress(in.Email); err != nil {
		return "Invalid email"
	}
	if n := utf8.RuneCountInString(in.Nickname); n < nicknameMin || n > nicknameMax {
		return fmt.Sprintf("Nickname must be %d to %d characters", nicknameMin, nicknameMax)
	}
	if len(in.Password) < passwordMin {
		return fmt.Sprintf("Password must be at least %d characters", passwordMin)
	}
	return ""
}

func (ctl *Controller) AuthSignup(c *fiber.Ctx) error {
	input := new(AuthSignupInput)
	if err := c.BodyParser(input); err != nil {
		return fail(c, fiber.StatusBadRequest, "Review your input")
	}
	if msg := input.validate(); msg != "" {
		return fail(c, fiber.StatusBadRequest, msg)
	}

	ctx := c.UserContext()
	if _, err := ctl.store.UserByEmail(ctx, input.Email); err == nil {
		return fail(c, fiber.StatusBadRequest, "Email is already registered")
	}
	if _, err := ctl.store.UserByNickname(ctx, input.Nickname); err == nil {
		return fail(c, fiber.StatusBadRequest, "Nickname is already taken")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      config.Config("OTP_ISSUER"),
		AccountName: input.Email,
		SecretSize:  15,
	})
	if err != nil {
		return internal(c)
	}

	user := &model.User{
		Email:     input.Email,
		Nickname:  input.Nickname,
		Role:      model.RoleUser,
		OtpSecret: key.Secret(),
	}
	if err := user.SetPassword(input.Password); err != nil {
		return internal(c)
	}
	if err := ctl.store.CreateUser(ctx, user); err != nil {
		return internal(c)
	}

	if _, err := ctl.roles.AddGroupingPolicy(fmt.Sprint(user.ID), user.Role); err != nil {
		return internal(c)
	}

	return success(c, fiber.Map{
		"id": user.ID,
	})
}

func (ctl *Controller) AuthSignin(c *fiber.Ctx) error {
	input := new(AuthLoginInput)
	if err := c.BodyParser(input); err != nil {
		return fail(c, fiber.StatusBadRequest, "Review your input")
	}

	ctx := c.UserContext()
	var (
		user *model.User
		err  error
	)
	if _, errParse := mail.ParseAddress(input.Login); errParse == nil {
		user, err = ctl.store.UserByEmail(ctx, input.Login)
	} else {
		user, err = ctl.store.UserByNickname(ctx, input.Login)
	}
	if err != nil || !user.CheckPassword(input.Password) {
		return fail(c, fiber.StatusUnauthorized, "Invalid login or password")
	}

	tokens, err := ctl.issue(c, user.ID, user.OtpEnabled)
	if err != nil {
		return internal(c)
	}

	return success(c, fiber.Map{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
		"2fa":     user.OtpEnabled,
	})
}

func (ctl *Controller) AuthTokenRenew(c *fiber.Ctx) error {
	renew := new(AuthRenewTokenInput)
	if err := c.BodyParser(renew); err != nil {
		return fail(c, fiber.StatusBadRequest, "Review your input")
	}

	claims, err := utils.ParseToken(renew.RefreshToken, config.Config("JWT_REFRESH_KEY"))
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	current, err := ctl.tokens.Lookup(c.UserContext(), claims.ID)
	if err != nil || current != renew.RefreshToken {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized, your refresh token was already used")
	}

	tokens, err := ctl.issue(c, claims.ID, claims.Otp)
	if err != nil {
		return internal(c)
	}

	return success(c, fiber.Map{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
		"2fa":     claims.Otp,
	})
}

func (ctl *Controller) AuthOtpSecret(c *fiber.Ctx) error {
	input := new(AuthOtpSecretInput)
	if err := c.BodyParser(input); err != nil {
		return fail(c, fiber.StatusBadRequest, "Review your input")
	}

	user, err := ctl.caller(c)
	if err != nil {
		return internal(c)
	}
	if !user.CheckPassword(input.Password) {
		return fail(c, fiber.StatusUnauthorized, "Invalid password")
	}

	issuer := config.Config("OTP_ISSUER")
	return success(c, fiber.Map{
		"secret": user.OtpSecret,
		"url": fmt.Sprintf("otpauth://totp/%s:%s?algorithm=SHA1&digits=6&issuer=%s&period=30&secret=%s",
			url.PathEscape(issuer),
			url.PathEscape(user.Email),
			url.QueryEscape(issuer),
			user.OtpSecret,
		),
	})
}

func (ctl *Controller) AuthOtpVerify(c *fiber.Ctx) error {
	input := new(AuthOtpTokenInput)
	if err := c.BodyParser(input); err != nil {
		return fail(c, fiber.StatusBadRequest, "Review your input")
	}

	user, err := ctl.caller(c)
	if err != nil {
		return internal(c)
	}
	if user.OtpEnabled {
		return fail(c, fiber.StatusBadRequest, "Verification has already been performed earlier")
	}
	if !totp.Validate(input.Token, user.OtpSecret) {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	user.OtpEnabled = true
	if err := ctl.store.SaveUser(c.UserContext(), user); err != nil {
		return internal(c)
	}

	return success(c, nil)
}

// AuthOtpValidate exchanges an otp-pending token pair for a full one.
func (ctl *Controller) AuthOtpValidate(c *fiber.Ctx) error {
	input := new(AuthOtpTokenInput)
	if err := c.BodyParser(input); err != nil {
		return fail(c, fiber.StatusBadRequest, "Review your input")
	}

	user, err := ctl.caller(c)
	if err != nil {
		return internal(c)
	}
	if !user.OtpEnabled {
		return fail(c, fiber.StatusBadRequest, "2FA has been disabled")
	}
	if !totp.Validate(input.Token, user.OtpSecret) {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	tokens, err := ctl.issue(c, user.ID, false)
	if err != nil {
		return internal(c)
	}

	return success(c, fiber.Map{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
	})
}

func (ctl *Controller) AuthOtpDisable(c *fiber.Ctx) error {
	input := new(AuthOtpDisableInput)
	if err := c.BodyParser(input); err != nil {
		return fail(c, fiber.StatusBadRequest, "Review your input")
	}

	user, err := ctl.caller(c)
	if err != nil {
		return internal(c)
	}
	if !user.OtpEnabled {
		return fail(c, fiber.StatusBadRequest, "2FA not enabled")
	}
	if !user.CheckPassword(input.Password) {
		return fail(c, fiber.StatusUnauthorized, "Invalid password")
	}
	if !totp.Validate(input.Token, user.OtpSecret) {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	user.OtpEnabled = false
	if err := ctl.store.SaveUser(c.UserContext(), user); err != nil {
		return internal(c)
	}

	return success(c, nil)
}

// issue signs a token pair and makes its refresh token the only valid one.
func (ctl *Controller) issue(c *fiber.Ctx, id uint, otp bool) (*utils.Tokens, error) {
	tokens, err := utils.GenerateTokens(id, otp)
	if err != nil {
		return nil, err
	}
	if err := ctl.tokens.Save(c.UserContext(), id, tokens.Refresh); err != nil {
		return nil, err
	}
	return tokens, nil
}

// caller loads the user the access token was issued to.
func (ctl *Controller) caller(c *fiber.Ctx) (*model.User, error) {
	id, err := userID(c)
	if err != nil {
		return nil, err
	}
	return ctl.store.UserByID(c.UserContext(), id)
}
