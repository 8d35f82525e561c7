package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryVM(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("query") {
		case `sum(rate(prodcat_http_requests_total{code=~"5.."}[5m]))`:
			w.Write([]byte(`{"status":"success","data":{"result":[{"metric":{},"value":[1700000000,"0.25"]}]}}`))
		case "empty":
			w.Write([]byte(`{"status":"success","data":{"result":[]}}`))
		default:
			w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	assert.Equal(t, "0.25", queryVM(srv.URL, `sum(rate(prodcat_http_requests_total{code=~"5.."}[5m]))`))
	assert.Equal(t, "no data", queryVM(srv.URL, "empty"))
	assert.Equal(t, "parse error", queryVM(srv.URL, "other"))
}
