package common

import (
	"github.com/sirupsen/logrus"
	"net/http"
)

// RequestHandler is a router or a filter. The entry carries request scoped fields.
type RequestHandler interface {
	Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request)
}

// RequestChainedHandler is a filter that forwards to the next handler in its chain.
type RequestChainedHandler interface {
	RequestHandler
	SetNext(handler RequestHandler)
}

type RequestHandlerFunc func(log *logrus.Entry, writer http.ResponseWriter, request *http.Request)

func (f RequestHandlerFunc) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	f(log, writer, request)
}
