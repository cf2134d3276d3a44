package gate

import (
	"context"
	"fmt"
	"github.com/oishi/portfolio/pkg/common"
	"github.com/oishi/portfolio/pkg/tokens"
	"net/http"
	"time"
)

// EvidenceSource answers one question: is this request authenticated.
type EvidenceSource interface {
	Authenticated(ctx context.Context, request *http.Request) (bool, error)
}

type IdentityReader interface {
	Read(idToken string) (*common.Identity, error)
}

// Custom cookies written by the auth API

type customCookieEvidence struct {
	idTokenCookie       string
	accessTokenCookie   string
	identityReader      IdentityReader
	rejectExpiredTokens bool
	now                 func() time.Time
}

func NewCustomCookieEvidence(
	idTokenCookie string,
	accessTokenCookie string,
	identityReader IdentityReader,
	rejectExpiredTokens bool,
) *customCookieEvidence {
	return &customCookieEvidence{
		idTokenCookie:       idTokenCookie,
		accessTokenCookie:   accessTokenCookie,
		identityReader:      identityReader,
		rejectExpiredTokens: rejectExpiredTokens,
		now:                 time.Now,
	}
}

func (evidence *customCookieEvidence) Authenticated(_ context.Context, request *http.Request) (bool, error) {
	idToken := cookieValue(request, evidence.idTokenCookie)
	accessToken := cookieValue(request, evidence.accessTokenCookie)
	if idToken == "" || accessToken == "" {
		return false, nil
	}
	if !evidence.rejectExpiredTokens || evidence.identityReader == nil {
		return true, nil
	}
	identity, err := evidence.identityReader.Read(idToken)
	if err != nil {
		return false, err
	}
	if tokens.Expired(identity, evidence.now()) {
		return false, nil
	}
	return true, nil
}

// Amplify cookie convention: CognitoIdentityServiceProvider.<clientId>.<username>.idToken

const cognitoCookiePrefix = "CognitoIdentityServiceProvider"

type cognitoCookieEvidence struct {
	clientId string
}

func NewCognitoCookieEvidence(clientId string) *cognitoCookieEvidence {
	return &cognitoCookieEvidence{clientId: clientId}
}

func (evidence *cognitoCookieEvidence) Authenticated(_ context.Context, request *http.Request) (bool, error) {
	if evidence.clientId == "" {
		return false, fmt.Errorf("cognito client id is not configured")
	}
	lastAuthUser := cookieValue(request, fmt.Sprintf("%s.%s.LastAuthUser", cognitoCookiePrefix, evidence.clientId))
	if lastAuthUser == "" {
		return false, nil
	}
	idToken := cookieValue(request, fmt.Sprintf("%s.%s.%s.idToken", cognitoCookiePrefix, evidence.clientId, lastAuthUser))
	return idToken != "", nil
}

// Identity provider round trip

type SessionValidator interface {
	ValidateAccessToken(ctx context.Context, accessToken string) (*common.Identity, error)
}

type providerEvidence struct {
	validator         SessionValidator
	accessTokenCookie string
}

func NewProviderEvidence(validator SessionValidator, accessTokenCookie string) *providerEvidence {
	return &providerEvidence{
		validator:         validator,
		accessTokenCookie: accessTokenCookie,
	}
}

func (evidence *providerEvidence) Authenticated(ctx context.Context, request *http.Request) (bool, error) {
	accessToken := cookieValue(request, evidence.accessTokenCookie)
	if accessToken == "" {
		return false, nil
	}
	if _, err := evidence.validator.ValidateAccessToken(ctx, accessToken); err != nil {
		return false, err
	}
	return true, nil
}

func cookieValue(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}
