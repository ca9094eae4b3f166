package request

import "net/http"

// ClientWriter wraps a ResponseWriter and remembers the status code that was written, so
// middleware can report it after the handler runs.
type ClientWriter struct {
	http.ResponseWriter
	statusCode int
}

// NewClientWriter creates a new ClientWriter.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (w *ClientWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// StatusCode returns the status code that was written.
func (w *ClientWriter) StatusCode() int {
	return w.statusCode
}
