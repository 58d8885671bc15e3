package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/ArtemSydun/KIT-GLOBAL/util"
)

// JsonBodyMiddleware decodes the request body and puts the parsed map on
// the context under "json".
func JsonBodyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Println("bad json body:", err)
			util.WriteStatus(w, http.StatusBadRequest)
			return
		}
		ctx := context.WithValue(r.Context(), "json", body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
