package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"text2phenotype.com/postag/logger"
)

var defaultLogger = logger.NewLogger("API")

type requestInfo struct {
	Method        string `json:"method"`
	Url           string `json:"url"`
	RemoteAddr    string `json:"remote_addr"`
	ContentLength int64  `json:"content_length"`
}

const RequestInfoFieldsKey = "request_info"

func makeRequestLogger(request *http.Request) zerolog.Logger {
	return defaultLogger.With().
		Interface(RequestInfoFieldsKey, requestInfo{
			Method:        request.Method,
			Url:           request.URL.String(),
			RemoteAddr:    request.RemoteAddr,
			ContentLength: request.ContentLength,
		}).
		Logger()
}
