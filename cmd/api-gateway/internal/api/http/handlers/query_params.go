package handlers

import (
	"net/http"
	"strconv"
	"strings"
)

// maxLast caps the form window a client may ask for.
const maxLast = 100

func parsePositiveIntQuery(r *http.Request, key string) (value int, present bool, errMsg string) {
	values, ok := r.URL.Query()[key]
	if !ok {
		return 0, false, ""
	}

	raw := ""
	if len(values) > 0 {
		raw = strings.TrimSpace(values[0])
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, true, "invalid"
	}
	if parsed > maxLast {
		parsed = maxLast
	}

	return parsed, true, ""
}
