package http

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/budgetthis/budgetthis/pkg/httpx"
)

// maxBodyBytes caps request bodies; every endpoint here takes a small JSON
// object.
const maxBodyBytes = 1 << 16

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// decodeJSON reads the request body into dst. On failure it writes the 400
// response itself and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func validEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}
