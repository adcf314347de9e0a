package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"text2phenotype.com/postag/pipeline"
)

type Request struct {
	Pipeline pipeline.Pipeline
}

// ProcessData runs a JSON-encoded pipeline.Request and answers with the
// tagging response. Requests without a tid get a fresh one.
func (req *Request) ProcessData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := makeRequestLogger(r)

	if r.Method != http.MethodPost {
		logger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	var request pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not decode request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}
	if request.Tid == "" {
		request.Tid = uuid.New().String()
	}

	logger = logger.With().Str("tid", request.Tid).Logger()
	logger.Info().Msg("Starting pipeline for request from API")
	resp, err := req.Pipeline(request)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrUnknownConfiguration) {
			status = http.StatusNotFound
		}
		logger.Err(err).Int("status", status).Msg("Pipeline failed")
		http.Error(w, err.Error(), status)
		return
	}
	body, err := pipeline.Render(resp)
	if err != nil {
		logger.Err(err).Int("status", http.StatusInternalServerError).Msg("Could not render response")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(body)
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}
