package filters

import (
	"bytes"
	"github.com/oishi/portfolio/pkg/common"
	"github.com/sirupsen/logrus"
	"net/http"
	templ "text/template"
	"time"
)

const DefaultLogTemplate = `{{.Request.Method}} {{.Request.URL.RequestURI}} {{.Status}} {{.Duration}}`

type LogFilterHandler struct {
	next     common.RequestHandler
	template *templ.Template
	Name     string
}

// accessLine is what the template sees. It is rendered after the rest of the chain ran.
type accessLine struct {
	Request  *http.Request
	Filter   *LogFilterHandler
	Status   int
	Bytes    int
	Duration time.Duration
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (recorder *statusRecorder) WriteHeader(status int) {
	if recorder.status == 0 {
		recorder.status = status
	}
	recorder.ResponseWriter.WriteHeader(status)
}

func (recorder *statusRecorder) Write(data []byte) (int, error) {
	if recorder.status == 0 {
		recorder.status = http.StatusOK
	}
	written, err := recorder.ResponseWriter.Write(data)
	recorder.bytes += written
	return written, err
}

func (recorder *statusRecorder) Flush() {
	if flusher, ok := recorder.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (filter *LogFilterHandler) SetNext(nextHandler common.RequestHandler) {
	filter.next = nextHandler
}

func (filter *LogFilterHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	log = log.WithField("filterName", filter.Name)
	if filter.next == nil {
		log.Warnf("Log filter error: %v. Next handler is empty", filter.Name)
		writer.WriteHeader(http.StatusNotFound)
		return
	}

	recorder := &statusRecorder{ResponseWriter: writer}
	started := time.Now()
	filter.next.Handle(log, recorder, request)

	line := accessLine{
		Request:  request,
		Filter:   filter,
		Status:   recorder.status,
		Bytes:    recorder.bytes,
		Duration: time.Since(started).Round(time.Microsecond),
	}

	var tpl bytes.Buffer
	if err := filter.template.Execute(&tpl, line); err != nil {
		log.Warnf("Log filter error: %v. Template error: %v", filter.Name, err)
		return
	}
	log.Info(tpl.String())
}

// Factory

func CreateLogFilter(name string, template string) *LogFilterHandler {
	if template == "" {
		template = DefaultLogTemplate
	}
	parse, err := templ.New(name).Parse(template)
	if err != nil {
		panic("Log filter " + name + " template error: " + err.Error())
	}
	return &LogFilterHandler{
		Name:     name,
		template: parse,
	}
}
