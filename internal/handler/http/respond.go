package http

import (
	"encoding/json"
	"net/http"
)

// Все ответы сервиса — JSON; ошибки всегда имеют вид {"message": "..."}
// без внутренних деталей.

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, map[string]string{"message": message}, statusCode)
}
