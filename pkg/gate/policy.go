package gate

import (
	"net/url"
	"strings"
)

type Action int

const (
	Allow Action = iota
	Redirect
)

type Decision struct {
	Action   Action
	Location string
}

func allow() Decision {
	return Decision{Action: Allow}
}

func redirectTo(location string) Decision {
	return Decision{Action: Redirect, Location: location}
}

type Policy struct {
	LoginPath       string   `validate:"required"`
	SignupPath      string   `validate:"required"`
	HomePath        string   `validate:"required"`
	PublicPrefixes  []string
	SkipDottedPaths bool
}

const FromQueryParam = "from"

// Classify decides what happens to a request for requestPath. It never touches the network:
// the caller resolves whether the request carries session evidence.
func (policy *Policy) Classify(requestPath string, query url.Values, authenticated bool) Decision {
	if requestPath == "" {
		requestPath = "/"
	}

	if policy.isAuthSurface(requestPath) {
		if authenticated {
			return redirectTo(policy.postLoginTarget(query))
		}
		return allow()
	}

	if policy.isPublic(requestPath) {
		return allow()
	}

	if policy.SkipDottedPaths && strings.Contains(requestPath, ".") {
		return allow()
	}

	if authenticated {
		return allow()
	}
	return redirectTo(policy.loginTarget(requestPath))
}

// isAuthSurface ignores a trailing slash, so "/login/" is the login page too.
func (policy *Policy) isAuthSurface(requestPath string) bool {
	if len(requestPath) > 1 {
		requestPath = strings.TrimSuffix(requestPath, "/")
	}
	return requestPath == policy.LoginPath || requestPath == policy.SignupPath
}

func (policy *Policy) isPublic(requestPath string) bool {
	for _, prefix := range policy.PublicPrefixes {
		if matchesPrefix(requestPath, prefix) {
			return true
		}
	}
	return false
}

// matchesPrefix matches whole path segments: "/api/auth" covers "/api/auth/config" but not "/api/authors".
func matchesPrefix(requestPath string, prefix string) bool {
	if prefix == "" {
		return false
	}
	if strings.HasSuffix(prefix, "/") {
		return strings.HasPrefix(requestPath, prefix)
	}
	return requestPath == prefix || strings.HasPrefix(requestPath, prefix+"/")
}

func (policy *Policy) loginTarget(requestPath string) string {
	if requestPath == policy.HomePath {
		return policy.LoginPath
	}
	query := url.Values{}
	query.Set(FromQueryParam, requestPath)
	return policy.LoginPath + "?" + query.Encode()
}

func (policy *Policy) postLoginTarget(query url.Values) string {
	from := query.Get(FromQueryParam)
	if isLocalPath(from) && !policy.isAuthSurface(from) {
		return from
	}
	return policy.HomePath
}

// isLocalPath rejects anything that could leave the site: absolute urls, "//host" and "/\host".
func isLocalPath(target string) bool {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return false
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return false
	}
	return parsed.Scheme == "" && parsed.Host == ""
}
