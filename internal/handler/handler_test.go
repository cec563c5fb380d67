package handler_test

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/user/movierate/internal/config"
	"github.com/user/movierate/internal/handler"
	"github.com/user/movierate/internal/model"
	"github.com/user/movierate/internal/repository"
	"github.com/user/movierate/internal/router"
	"github.com/user/movierate/internal/service"
	"github.com/user/movierate/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	gob.Register(model.SessionUser{})
}

var testCatalog = []service.Fixture{
	{Title: "The Godfather", Director: "Francis Ford Coppola", Year: 1972, Synopsis: "Crime dynasty", Genres: []string{"drama", "crime"}},
	{Title: "Forrest Gump", Director: "Robert Zemeckis", Year: 1994, Synopsis: "Life is like a box of chocolates", Genres: []string{"drama", "romance"}},
	{Title: "Heat", Director: "Michael Mann", Year: 1995, Synopsis: "A heist in LA", Genres: []string{"crime"}},
}

// testServer 带 Cookie 的测试客户端
type testServer struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewDB(t)
	_, err := service.NewSeeder(db).Seed(context.Background(), testCatalog)
	require.NoError(t, err)

	cfg := &config.Config{
		AppSecret:       "test-secret",
		JWTExpiry:       time.Hour,
		SiteName:        "MovieRate",
		LoginRatePerMin: 1000,
	}
	h := handler.NewHandler(service.NewServices(repository.NewRepositories(db)), cfg)

	r := gin.New()
	r.Use(sessions.Sessions("movierate_session", cookie.NewStore([]byte(cfg.AppSecret))))
	r.HTMLRender = router.LoadTemplates("../../web/templates")
	router.RegisterRoutes(r, h)

	return &testServer{t: t, engine: r, cookies: map[string]*http.Cookie{}}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(s.cookies, c.Name)
			continue
		}
		s.cookies[c.Name] = c
	}
	return w
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *testServer) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *testServer) jsonRequest(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) document(w *httptest.ResponseRecorder) *goquery.Document {
	s.t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(s.t, err)
	return doc
}

// envelope 统一响应结构
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func (s *testServer) jsonRequestRaw(method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}
