package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/oishi/portfolio/pkg/common"
	"github.com/sirupsen/logrus"
	"io"
	"net/http"
)

const targetPrefix = "AWSCognitoIdentityProviderService."

type ProviderError struct {
	Type    string
	Message string
}

func (err *ProviderError) Error() string {
	return fmt.Sprintf("%v: %v", err.Type, err.Message)
}

type SignUpResult struct {
	UserSub           string
	NeedsConfirmation bool
}

type cognitoProvider struct {
	httpClient *http.Client
	endpoint   string
	clientId   string
}

func NewCognitoProvider(httpClient *http.Client, region string, endpoint string, clientId string) *cognitoProvider {
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/", region)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &cognitoProvider{
		httpClient: httpClient,
		endpoint:   endpoint,
		clientId:   clientId,
	}
}

func (provider *cognitoProvider) SignIn(ctx context.Context, username string, password string) (*common.Tokens, error) {
	const stage = "Signing in error."

	var response struct {
		AuthenticationResult *struct {
			IdToken      string
			AccessToken  string
			RefreshToken string
			ExpiresIn    int
		}
		ChallengeName string
	}
	err := provider.call(ctx, "InitiateAuth", map[string]interface{}{
		"AuthFlow": "USER_PASSWORD_AUTH",
		"ClientId": provider.clientId,
		"AuthParameters": map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	}, &response)
	if err != nil {
		return nil, wrap(stage, err)
	}
	if response.AuthenticationResult == nil {
		return nil, &ProviderError{
			Type:    "ChallengeRequired",
			Message: fmt.Sprintf("authentication challenge %v is not supported", response.ChallengeName),
		}
	}
	result := response.AuthenticationResult
	return &common.Tokens{
		IdToken:      result.IdToken,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	}, nil
}

func (provider *cognitoProvider) SignUp(ctx context.Context, username string, email string, password string) (*SignUpResult, error) {
	const stage = "Signing up error."

	var response struct {
		UserConfirmed bool
		UserSub       string
	}
	err := provider.call(ctx, "SignUp", map[string]interface{}{
		"ClientId": provider.clientId,
		"Username": username,
		"Password": password,
		"UserAttributes": []map[string]string{
			{"Name": "email", "Value": email},
		},
	}, &response)
	if err != nil {
		return nil, wrap(stage, err)
	}
	return &SignUpResult{
		UserSub:           response.UserSub,
		NeedsConfirmation: !response.UserConfirmed,
	}, nil
}

func (provider *cognitoProvider) ConfirmSignUp(ctx context.Context, username string, confirmationCode string) error {
	const stage = "Confirming sign up error."

	err := provider.call(ctx, "ConfirmSignUp", map[string]interface{}{
		"ClientId":         provider.clientId,
		"Username":         username,
		"ConfirmationCode": confirmationCode,
	}, nil)
	return wrap(stage, err)
}

// ValidateAccessToken asks the provider who owns the token. Any error means the token is not usable.
func (provider *cognitoProvider) ValidateAccessToken(ctx context.Context, accessToken string) (*common.Identity, error) {
	const stage = "Validating access token error."

	var response struct {
		Username       string
		UserAttributes []struct {
			Name  string
			Value string
		}
	}
	err := provider.call(ctx, "GetUser", map[string]interface{}{
		"AccessToken": accessToken,
	}, &response)
	if err != nil {
		return nil, wrap(stage, err)
	}

	identity := &common.Identity{
		Username:   response.Username,
		Attributes: make(map[string]string, len(response.UserAttributes)),
	}
	for _, attribute := range response.UserAttributes {
		identity.Attributes[attribute.Name] = attribute.Value
	}
	identity.Email = identity.Attributes["email"]
	return identity, nil
}

func (provider *cognitoProvider) call(ctx context.Context, operation string, payload interface{}, response interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", provider.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("Building request error. Reason: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-amz-json-1.1")
	req.Header.Set("X-Amz-Target", targetPrefix+operation)

	resp, err := provider.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Performing request error. Reason: %v", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("Reading response error. Reason: %v", err)
	}
	if resp.StatusCode != 200 {
		return decodeProviderError(resp.StatusCode, responseBody)
	}
	logrus.Tracef("Got %v response with %v bytes", operation, len(responseBody))

	if response == nil || len(responseBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(responseBody, response); err != nil {
		return fmt.Errorf("Decoding response error. Reason: %v", err)
	}
	return nil
}

func decodeProviderError(status int, body []byte) error {
	var payload struct {
		Type    string `json:"__type"`
		Message string `json:"message"`
		Upper   string `json:"Message"`
	}
	_ = json.Unmarshal(body, &payload)
	providerErr := &ProviderError{
		Type:    shortErrorType(payload.Type),
		Message: payload.Message,
	}
	if providerErr.Message == "" {
		providerErr.Message = payload.Upper
	}
	if providerErr.Type == "" {
		providerErr.Type = fmt.Sprintf("Http%v", status)
	}
	return providerErr
}

// shortErrorType strips the namespace: "com.amazonaws...#NotAuthorizedException" -> "NotAuthorizedException".
func shortErrorType(errorType string) string {
	for i := len(errorType) - 1; i >= 0; i-- {
		if errorType[i] == '#' {
			return errorType[i+1:]
		}
	}
	return errorType
}

// wrap keeps *ProviderError values intact so callers can still map them to messages.
func wrap(stage string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*ProviderError); ok {
		return err
	}
	return fmt.Errorf("%v Reason: %v", stage, err)
}
