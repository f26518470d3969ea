package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ki-assist/storefront-api/realtime"
	"github.com/ki-assist/storefront-api/store"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, Deps{
		Cart: store.NewCartStore(nil, nil, nil),
		Hub:  realtime.NewHub(),
	})
	return r
}

// The documented paths carry no trailing slash. The router must serve
// them directly; a 301 redirect is useless to POST and DELETE clients
// that refuse to replay the body.
func TestProtectedRoutesMatchWithoutRedirect(t *testing.T) {
	r := newTestRouter()

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/user"},
		{http.MethodGet, "/user/cart"},
		{http.MethodDelete, "/user/cart"},
		{http.MethodPost, "/user/cart/items"},
		{http.MethodGet, "/admin/orders"},
		{http.MethodPost, "/admin/products"},
	}
	for _, req := range requests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(req.method, req.path, nil))
		assert.Equalf(t, http.StatusUnauthorized, w.Code, "%s %s", req.method, req.path)
	}
}
