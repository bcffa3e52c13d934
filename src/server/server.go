package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"alice-display-api/src/images"
	"alice-display-api/src/match"
	"alice-display-api/src/rating"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Server listens on localhost:8080 by default.
var listenAddr string = ""

var logger zerolog.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

// ErrorRes is a JSON response containing an error message from the API.
type ErrorRes struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthRes is the body returned for a bare GET on either endpoint.
type HealthRes struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Endpoint string `json:"endpoint"`
}

// InitServer wires the rating engine and context matcher to the router and
// exposes them based on the port parameter.
func InitServer(port int, store images.Store) {
	engine := rating.NewEngine(store)
	matcher := match.NewMatcher(store, nil)

	r := mux.NewRouter()
	r.Use(addCorsHeaders)

	r.HandleFunc("/rate", health("Alice Image Rating API", "/rate")).Methods("GET")
	r.HandleFunc("/change", health("Alice Image Change API", "/change")).Methods("GET")
	r.HandleFunc("/rate", handleRate(engine)).Methods("POST", "OPTIONS")
	r.HandleFunc("/change", handleChange(matcher)).Methods("POST", "OPTIONS")

	listenAddr = fmt.Sprintf("%s:%d", listenAddr, port)
	log.Info().Msgf("Web server now listening on %s", listenAddr)
	log.Fatal().Msg(http.ListenAndServe(listenAddr, r).Error())
}

func writeError(code int, message string, w http.ResponseWriter) {
	logger.Info().Msg(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorRes{
		Success: false,
		Error:   message,
	})
}
