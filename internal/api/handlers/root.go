package handlers

import "net/http"

func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Hello backend for movie project"))
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
