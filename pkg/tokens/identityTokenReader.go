package tokens

import (
	"fmt"
	"github.com/dgrijalva/jwt-go"
	"github.com/oishi/portfolio/pkg/common"
	"github.com/spf13/cast"
	"time"
)

// IdentityTokenReader reads the claims of an id token without verifying its signature.
// Signature checks belong to the identity provider.
type IdentityTokenReader struct {
	parser *jwt.Parser
}

func NewIdentityTokenReader() *IdentityTokenReader {
	return &IdentityTokenReader{
		parser: &jwt.Parser{},
	}
}

func (reader *IdentityTokenReader) Read(idToken string) (*common.Identity, error) {
	const stage = "Reading identity token error."

	if idToken == "" {
		return nil, fmt.Errorf("%v Reason: token is empty", stage)
	}
	claims := jwt.MapClaims{}
	if _, _, err := reader.parser.ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("%v Reason: %v", stage, err)
	}

	identity := &common.Identity{
		Username:   firstString(claims, "cognito:username", "username", "sub"),
		Email:      cast.ToString(claims["email"]),
		Attributes: make(map[string]string),
	}
	for key, value := range claims {
		if str, ok := value.(string); ok {
			identity.Attributes[key] = str
		}
	}
	if exp, ok := claims["exp"]; ok {
		seconds, err := cast.ToInt64E(exp)
		if err != nil {
			return nil, fmt.Errorf("%v Reason: bad exp claim %v", stage, exp)
		}
		identity.Expires = time.Unix(seconds, 0)
	}
	return identity, nil
}

// Expired reports whether the identity carries an expiry that is not after now.
// An identity without an exp claim never expires here.
func Expired(identity *common.Identity, now time.Time) bool {
	if identity.Expires.IsZero() {
		return false
	}
	return !identity.Expires.After(now)
}

func firstString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if value := cast.ToString(claims[key]); value != "" {
			return value
		}
	}
	return ""
}
