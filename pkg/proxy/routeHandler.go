package proxy

import (
	"github.com/sirupsen/logrus"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// ReverseProxyHandler forwards to the page renderer. Target path is prepended to the request path.
type ReverseProxyHandler struct {
	TargetAddress url.URL
	proxy         *httputil.ReverseProxy
}

func NewReverseProxyHandler(target url.URL) *ReverseProxyHandler {
	handler := &ReverseProxyHandler{TargetAddress: target}
	handler.proxy = httputil.NewSingleHostReverseProxy(&handler.TargetAddress)
	handler.proxy.ErrorHandler = func(writer http.ResponseWriter, request *http.Request, err error) {
		logrus.Errorf("Proxying %v to %v error. Reason: %v", request.URL.Path, target.String(), err)
		writer.WriteHeader(http.StatusBadGateway)
	}
	return handler
}

func (router *ReverseProxyHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	log.Debugf("Proxying %v to %v", request.URL.Path, router.TargetAddress.String())
	router.proxy.ServeHTTP(writer, request)
}
