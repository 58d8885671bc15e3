package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ArtemSydun/KIT-GLOBAL/domain"
	"github.com/ArtemSydun/KIT-GLOBAL/util"
)

// writeServiceError maps domain errors onto status codes. Invariant
// failures mean the mirror had already drifted before this request; they
// are logged and hidden behind a generic failure.
func writeServiceError(w http.ResponseWriter, err error) {
	var notFound *domain.NotFoundError
	var conflict *domain.ConflictError
	var invariant *domain.InvariantError
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &notFound):
		util.WriteError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &conflict):
		util.WriteError(w, http.StatusConflict, conflict.Error())
	case errors.As(err, &validation):
		util.WriteError(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &invariant):
		log.Println("mirror drift:", invariant)
		util.WriteInternalServerError(w)
	case strings.HasPrefix(err.Error(), "ERROR: duplicate key"):
		// A concurrent writer won the race past the engine's check; the
		// unique constraint is the backstop.
		util.WriteStatus(w, http.StatusConflict)
	default:
		log.Println(err)
		util.WriteInternalServerError(w)
	}
}
