package util

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// Response is the envelope every endpoint answers with. Deletions carry
// a null Data.
type Response struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
}

func writeResponse(w http.ResponseWriter, response *Response) {
	data, err := json.Marshal(response)
	if err != nil {
		log.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, http.StatusText(http.StatusInternalServerError))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.StatusCode)
	w.Write(data)
}

func WriteJson(w http.ResponseWriter, message string, data interface{}) {
	writeResponse(w, &Response{
		Message:    message,
		StatusCode: http.StatusOK,
		Data:       data,
	})
}

func WriteError(w http.ResponseWriter, statusCode int, errorMessage string) {
	writeResponse(w, &Response{
		Message:    errorMessage,
		StatusCode: statusCode,
	})
}

func WriteStatus(w http.ResponseWriter, statusCode int) {
	WriteError(w, statusCode, http.StatusText(statusCode))
}

func WriteUnauthorized(w http.ResponseWriter) {
	WriteStatus(w, http.StatusUnauthorized)
}

func WriteInternalServerError(w http.ResponseWriter) {
	WriteStatus(w, http.StatusInternalServerError)
}

func GetUrlQueryParam(r *http.Request, key string) string {
	keys, ok := r.URL.Query()[key]

	if !ok || len(keys[0]) < 1 {
		return ""
	}

	return keys[0]
}
