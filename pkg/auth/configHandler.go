package auth

import (
	"github.com/oishi/portfolio/pkg/common"
	log "github.com/sirupsen/logrus"
	"net/http"
)

type CognitoSettings struct {
	UserPoolId string `mapstructure:"user-pool-id"`
	ClientId   string `mapstructure:"client-id"`
	Region     string `mapstructure:"region"`
	Endpoint   string `mapstructure:"endpoint"`
}

func (settings CognitoSettings) Complete() bool {
	return settings.UserPoolId != "" && settings.ClientId != ""
}

type amplifyConfig struct {
	Auth struct {
		Cognito cognitoClientConfig `json:"Cognito"`
	} `json:"Auth"`
}

type cognitoClientConfig struct {
	UserPoolId               string `json:"userPoolId"`
	UserPoolClientId         string `json:"userPoolClientId"`
	SignUpVerificationMethod string `json:"signUpVerificationMethod"`
	LoginWith                struct {
		Username bool `json:"username"`
		Email    bool `json:"email"`
	} `json:"loginWith"`
	UserAttributes struct {
		Email struct {
			Required bool `json:"required"`
		} `json:"email"`
	} `json:"userAttributes"`
	PasswordFormat passwordFormat `json:"passwordFormat"`
}

type passwordFormat struct {
	MinLength                int  `json:"minLength"`
	RequireLowercase         bool `json:"requireLowercase"`
	RequireUppercase         bool `json:"requireUppercase"`
	RequireNumbers           bool `json:"requireNumbers"`
	RequireSpecialCharacters bool `json:"requireSpecialCharacters"`
}

type configHandler struct {
	settings CognitoSettings
}

func NewConfigHandler(settings CognitoSettings) *configHandler {
	return &configHandler{settings: settings}
}

func (handler *configHandler) Handle(log *log.Entry, writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		writer.Header().Set("Allow", "GET")
		common.WriteError(log, writer, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !handler.settings.Complete() {
		log.Error("Cognito user pool id or client id is not configured")
		common.WriteError(log, writer, http.StatusInternalServerError, "Cognito configuration is missing")
		return
	}

	var config amplifyConfig
	cognito := &config.Auth.Cognito
	cognito.UserPoolId = handler.settings.UserPoolId
	cognito.UserPoolClientId = handler.settings.ClientId
	cognito.SignUpVerificationMethod = "code"
	cognito.LoginWith.Username = true
	cognito.UserAttributes.Email.Required = true
	cognito.PasswordFormat = passwordFormat{
		MinLength:        8,
		RequireLowercase: true,
		RequireUppercase: true,
		RequireNumbers:   true,
	}
	common.WriteJson(log, writer, http.StatusOK, config)
}
