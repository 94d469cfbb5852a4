package handler

import "net/http"

// HandleTest is a liveness check.
//
// HTTP: GET /api/test
func HandleTest(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "API is working"})
}

// HandleNotFound answers requests that match no route.
func HandleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Message: "The requested route does not exist",
		Error:   "not_found",
	})
}

// HandleMethodNotAllowed answers a known path requested with the wrong method.
func HandleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Message: "Method not allowed",
		Error:   "method_not_allowed",
	})
}
