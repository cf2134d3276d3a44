package auth

import (
	"context"
	"encoding/json"
	"github.com/oishi/portfolio/pkg/common"
	log "github.com/sirupsen/logrus"
	"gopkg.in/go-playground/validator.v9"
	"net/http"
	"reflect"
	"strings"
	"time"
	"unicode"
)

type IdentityProvider interface {
	SignIn(ctx context.Context, username string, password string) (*common.Tokens, error)
	SignUp(ctx context.Context, username string, email string, password string) (*SignUpResult, error)
	ConfirmSignUp(ctx context.Context, username string, confirmationCode string) error
	ValidateAccessToken(ctx context.Context, accessToken string) (*common.Identity, error)
}

type CookieSettings struct {
	Secure     bool
	Domain     string
	Path       string
	TokenTTL   time.Duration
	RefreshTTL time.Duration
}

func DefaultCookieSettings() CookieSettings {
	return CookieSettings{
		Path:       "/",
		TokenTTL:   time.Hour,
		RefreshTTL: 30 * 24 * time.Hour,
	}
}

type authApiHandler struct {
	provider IdentityProvider
	messages *Messages
	cookies  CookieSettings
}

func NewAuthApiHandler(provider IdentityProvider, messages *Messages, cookies CookieSettings) *authApiHandler {
	return &authApiHandler{
		provider: provider,
		messages: messages,
		cookies:  cookies,
	}
}

type actionRequest struct {
	Action string `json:"action"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signUpRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password"`
}

type confirmRequest struct {
	Username         string `json:"username" validate:"required"`
	ConfirmationCode string `json:"confirmationCode" validate:"required"`
}

type actionResponse struct {
	Success           bool   `json:"success"`
	Error             string `json:"error,omitempty"`
	UserSub           string `json:"userSub,omitempty"`
	NeedsConfirmation *bool  `json:"needsConfirmation,omitempty"`
}

type sessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	Username      string            `json:"username,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return hasPasswordClasses(fl.Field().String())
	})
	return v
}

func hasPasswordClasses(password string) bool {
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

func (handler *authApiHandler) Handle(log *log.Entry, writer http.ResponseWriter, request *http.Request) {
	switch request.Method {
	case http.MethodPost:
		handler.handleAction(log, writer, request)
	case http.MethodGet:
		handler.handleSession(log, writer, request)
	case http.MethodDelete:
		handler.handleLogout(log, writer)
	default:
		writer.Header().Set("Allow", "GET, POST, DELETE")
		common.WriteError(log, writer, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (handler *authApiHandler) handleAction(log *log.Entry, writer http.ResponseWriter, request *http.Request) {
	body, err := readBody(request)
	if err != nil {
		log.Debugf("Reading auth request error. Reason: %v", err)
		handler.fail(log, writer, http.StatusBadRequest, handler.messages.Get("request.invalid"))
		return
	}

	var action actionRequest
	if err := json.Unmarshal(body, &action); err != nil {
		handler.fail(log, writer, http.StatusBadRequest, handler.messages.Get("request.invalid"))
		return
	}

	switch action.Action {
	case "login":
		var payload loginRequest
		if handler.bind(log, writer, body, &payload) {
			handler.login(log, writer, request.Context(), payload)
		}
	case "signup":
		var payload signUpRequest
		if handler.bind(log, writer, body, &payload) {
			handler.signUp(log, writer, request.Context(), payload)
		}
	case "confirm":
		var payload confirmRequest
		if handler.bind(log, writer, body, &payload) {
			handler.confirm(log, writer, request.Context(), payload)
		}
	default:
		handler.fail(log, writer, http.StatusBadRequest, handler.messages.Get("request.action"))
	}
}

func (handler *authApiHandler) login(log *log.Entry, writer http.ResponseWriter, ctx context.Context, payload loginRequest) {
	tokens, err := handler.provider.SignIn(ctx, payload.Username, payload.Password)
	if err != nil {
		log.Infof("Login failed. Username: %v; Reason: %v", payload.Username, err)
		handler.fail(log, writer, http.StatusUnauthorized, handler.messages.ForError("login", errorType(err)))
		return
	}

	handler.setCookie(writer, common.IdTokenCookie, tokens.IdToken, handler.cookies.TokenTTL)
	handler.setCookie(writer, common.AccessTokenCookie, tokens.AccessToken, handler.cookies.TokenTTL)
	if tokens.RefreshToken != "" {
		handler.setCookie(writer, common.RefreshTokenCookie, tokens.RefreshToken, handler.cookies.RefreshTTL)
	}
	log.Debugf("Login succeeded. Username: %v", payload.Username)
	common.WriteJson(log, writer, http.StatusOK, actionResponse{Success: true})
}

func (handler *authApiHandler) signUp(log *log.Entry, writer http.ResponseWriter, ctx context.Context, payload signUpRequest) {
	result, err := handler.provider.SignUp(ctx, payload.Username, payload.Email, payload.Password)
	if err != nil {
		log.Infof("Sign up failed. Username: %v; Reason: %v", payload.Username, err)
		handler.fail(log, writer, http.StatusBadRequest, handler.messages.ForError("signup", errorType(err)))
		return
	}
	needsConfirmation := result.NeedsConfirmation
	common.WriteJson(log, writer, http.StatusOK, actionResponse{
		Success:           true,
		UserSub:           result.UserSub,
		NeedsConfirmation: &needsConfirmation,
	})
}

func (handler *authApiHandler) confirm(log *log.Entry, writer http.ResponseWriter, ctx context.Context, payload confirmRequest) {
	if err := handler.provider.ConfirmSignUp(ctx, payload.Username, payload.ConfirmationCode); err != nil {
		log.Infof("Confirmation failed. Username: %v; Reason: %v", payload.Username, err)
		handler.fail(log, writer, http.StatusBadRequest, handler.messages.ForError("confirm", errorType(err)))
		return
	}
	common.WriteJson(log, writer, http.StatusOK, actionResponse{Success: true})
}

func (handler *authApiHandler) handleSession(log *log.Entry, writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(common.AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		common.WriteJson(log, writer, http.StatusUnauthorized, sessionResponse{Authenticated: false})
		return
	}

	identity, err := handler.provider.ValidateAccessToken(request.Context(), cookie.Value)
	if err != nil {
		log.Debugf("Session check failed. Reason: %v", err)
		common.WriteJson(log, writer, http.StatusUnauthorized, sessionResponse{Authenticated: false})
		return
	}
	common.WriteJson(log, writer, http.StatusOK, sessionResponse{
		Authenticated: true,
		Username:      identity.Username,
		Attributes:    identity.Attributes,
	})
}

func (handler *authApiHandler) handleLogout(log *log.Entry, writer http.ResponseWriter) {
	for _, name := range []string{common.IdTokenCookie, common.AccessTokenCookie, common.RefreshTokenCookie} {
		handler.setCookie(writer, name, "", -1)
	}
	common.WriteJson(log, writer, http.StatusOK, actionResponse{Success: true})
}

// setCookie with a negative ttl deletes the cookie.
func (handler *authApiHandler) setCookie(writer http.ResponseWriter, name string, value string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     handler.cookies.Path,
		Domain:   handler.cookies.Domain,
		HttpOnly: true,
		Secure:   handler.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.MaxAge = int(ttl.Seconds())
		cookie.Expires = time.Now().Add(ttl)
	}
	http.SetCookie(writer, cookie)
}

func (handler *authApiHandler) bind(log *log.Entry, writer http.ResponseWriter, body []byte, payload interface{}) bool {
	if err := json.Unmarshal(body, payload); err != nil {
		handler.fail(log, writer, http.StatusBadRequest, handler.messages.Get("request.invalid"))
		return false
	}
	if err := validate.Struct(payload); err != nil {
		handler.fail(log, writer, http.StatusBadRequest, handler.validationMessage(err))
		return false
	}
	return true
}

func (handler *authApiHandler) validationMessage(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return handler.messages.Get("request.invalid")
	}
	fieldErr := validationErrors[0]
	return handler.messages.Format("validation."+fieldErr.Tag(), map[string]string{
		"field": fieldErr.Field(),
		"param": fieldErr.Param(),
	})
}

func (handler *authApiHandler) fail(log *log.Entry, writer http.ResponseWriter, status int, message string) {
	common.WriteJson(log, writer, status, actionResponse{Success: false, Error: message})
}

func errorType(err error) string {
	if providerErr, ok := err.(*ProviderError); ok {
		return providerErr.Type
	}
	return ""
}

const maxBodyBytes = 64 * 1024

func readBody(request *http.Request) ([]byte, error) {
	var payload json.RawMessage
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}
