package handler

import (
	"net/http"
	"strconv"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[name])
}

// pageFromQuery reads ?page=&limit=; bad or missing values fall back to defaults.
func pageFromQuery(r *http.Request) dto.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return dto.PageRequest{Page: page, Limit: limit}.Normalize()
}
