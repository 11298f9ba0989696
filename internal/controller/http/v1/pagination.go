package v1

import (
	"errors"
	"net/http"
	"strconv"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type Pagination struct {
	Skip  uint64 `json:"skip"`
	Limit uint64 `json:"limit"`
	Total int    `json:"total"`
}

func parsePagination(r *http.Request) (skip uint64, limit uint64, err error) {
	limit = defaultLimit

	if s := r.URL.Query().Get("skip"); s != "" {
		skip, err = strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, 0, errors.New("invalid skip, must be a non-negative integer")
		}
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err = strconv.ParseUint(l, 10, 64)
		if err != nil || limit < 1 || limit > maxLimit {
			return 0, 0, errors.New("invalid limit, must be in [1;100]")
		}
	}

	return skip, limit, nil
}
