package remote_test

import (
	"encoding/json"
	"net/http"
)

func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
