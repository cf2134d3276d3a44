package gate

import (
	"context"
	"github.com/oishi/portfolio/pkg/common"
	log "github.com/sirupsen/logrus"
	"net/http"
)

type AccessGateFilter struct {
	next           *common.RequestHandler
	Name           string
	policy         *Policy
	evidence       EvidenceSource
	identityReader IdentityReader
	idTokenCookie  string
}

func NewAccessGateFilter(
	name string,
	policy *Policy,
	evidence EvidenceSource,
	identityReader IdentityReader,
	idTokenCookie string,
) *AccessGateFilter {
	return &AccessGateFilter{
		next:           nil,
		Name:           name,
		policy:         policy,
		evidence:       evidence,
		identityReader: identityReader,
		idTokenCookie:  idTokenCookie,
	}
}

func (filter *AccessGateFilter) SetNext(handler common.RequestHandler) {
	filter.next = &handler
}

func (filter *AccessGateFilter) Handle(log *log.Entry, writer http.ResponseWriter, request *http.Request) {
	log = log.WithField("filterName", filter.Name)

	authenticated, err := filter.evidence.Authenticated(request.Context(), request)
	if err != nil {
		log.Warnf("Resolving session evidence error. Treat as unauthenticated. Reason: %v", err)
		authenticated = false
	}

	decision := filter.policy.Classify(request.URL.Path, request.URL.Query(), authenticated)
	if decision.Action == Redirect {
		log.Debugf("Access gate redirect. Path: %v; Authenticated: %v; Location: %v",
			request.URL.Path, authenticated, decision.Location)
		http.Redirect(writer, request, decision.Location, redirectStatus(request.Method))
		return
	}

	log.Tracef("Access gate allow. Path: %v; Authenticated: %v", request.URL.Path, authenticated)
	if authenticated {
		request = filter.withIdentity(log, request)
	}
	if filter.next != nil {
		(*filter.next).Handle(log, writer, request)
	} else {
		log.Debugf("Access gate filter: %v doesn't have next handler", filter.Name)
	}
}

func (filter *AccessGateFilter) withIdentity(log *log.Entry, request *http.Request) *http.Request {
	if filter.identityReader == nil {
		return request
	}
	cookie, err := request.Cookie(filter.idTokenCookie)
	if err != nil {
		return request
	}
	identity, err := filter.identityReader.Read(cookie.Value)
	if err != nil {
		log.Debugf("Identity token is not readable. Reason: %v", err)
		return request
	}
	newContext := context.WithValue(request.Context(), common.IdentityContextKey, identity)
	return request.WithContext(newContext)
}

func redirectStatus(method string) int {
	if method == http.MethodGet || method == http.MethodHead {
		return http.StatusFound
	}
	return http.StatusTemporaryRedirect
}
