package portfolio

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"devfolio/models"
	"devfolio/store"
	"devfolio/validation"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.AutoMigrate(&models.User{}, &models.Portfolio{}, &models.ContactMessage{})
	return db
}

func setupTestRouter(st *store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Register()

	router := gin.New()
	sessionStore := cookie.NewStore([]byte("secret"))
	router.Use(sessions.Sessions("test-session", sessionStore))

	NewPortfolioModule(st).RegisterRoutes(router)
	return router
}

func intPtr(i int) *int { return &i }

func samplePayload() models.PortfolioData {
	return models.PortfolioData{
		FullName:       "Jane Doe",
		Title:          "Software Engineer",
		ShortBio:       "I build things",
		ProfilePicture: "/uploads/jane.png",
		DetailedBio:    "## About me\n\nSome **markdown** here.",
		Skills:         []string{"Go", "TypeScript"},
		Projects: []models.Project{
			{Title: "A", Github: "https://github.com/jane/a", Order: intPtr(0)},
			{Title: "B", Github: "https://github.com/jane/b", Order: intPtr(1)},
			{Title: "C", Github: "https://github.com/jane/c", Order: intPtr(2)},
		},
		SocialMedia: []models.SocialMedia{
			{Name: "GitHub", URL: "https://github.com/jane"},
		},
	}
}

func postPortfolio(router *gin.Engine, data models.PortfolioData) *httptest.ResponseRecorder {
	body, _ := json.Marshal(data)
	req, _ := http.NewRequest("POST", "/portfolio", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type upsertResponse struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

type getResponse struct {
	models.PortfolioData
	DetailedBioHTML string `json:"detailedBioHtml"`
}

func TestUpsertThenGet_RoundTrip(t *testing.T) {
	router := setupTestRouter(store.New(setupTestDB()))
	payload := samplePayload()

	w := postPortfolio(router, payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created upsertResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "created", created.Message)
	assert.NotZero(t, created.ID)

	req, _ := http.NewRequest("GET", "/portfolio/"+strconv.Itoa(created.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got getResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, payload, got.PortfolioData)
	assert.Contains(t, got.DetailedBioHTML, "<h2>About me</h2>")
	assert.Contains(t, got.DetailedBioHTML, "<strong>markdown</strong>")
}

func TestUpsertTwice_SameIDSecondUpdates(t *testing.T) {
	router := setupTestRouter(store.New(setupTestDB()))

	w := postPortfolio(router, samplePayload())
	assert.Equal(t, http.StatusCreated, w.Code)
	var first upsertResponse
	json.Unmarshal(w.Body.Bytes(), &first)

	second := samplePayload()
	second.FullName = "Jane Roe"
	second.Skills = []string{"Rust"}
	w = postPortfolio(router, second)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated upsertResponse
	json.Unmarshal(w.Body.Bytes(), &updated)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "updated", updated.Message)

	req, _ := http.NewRequest("GET", "/portfolio/"+strconv.Itoa(first.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var got getResponse
	json.Unmarshal(w.Body.Bytes(), &got)
	assert.Equal(t, "Jane Roe", got.FullName)
	assert.Equal(t, []string{"Rust"}, got.Skills)
}

func TestReorderPersists(t *testing.T) {
	router := setupTestRouter(store.New(setupTestDB()))

	w := postPortfolio(router, samplePayload())
	var created upsertResponse
	json.Unmarshal(w.Body.Bytes(), &created)

	// the client reorders [A,B,C] to [C,A,B] and resubmits the whole blob
	reordered := samplePayload()
	reordered.Projects = []models.Project{
		{Title: "C", Github: "https://github.com/jane/c", Order: intPtr(0)},
		{Title: "A", Github: "https://github.com/jane/a", Order: intPtr(1)},
		{Title: "B", Github: "https://github.com/jane/b", Order: intPtr(2)},
	}
	w = postPortfolio(router, reordered)
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ := http.NewRequest("GET", "/portfolio/"+strconv.Itoa(created.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var got getResponse
	json.Unmarshal(w.Body.Bytes(), &got)
	assert.Equal(t, 3, len(got.Projects))
	assert.Equal(t, "C", got.Projects[0].Title)
	assert.Equal(t, "A", got.Projects[1].Title)
	assert.Equal(t, "B", got.Projects[2].Title)
	assert.Equal(t, 0, *got.Projects[0].Order)
	assert.Equal(t, 1, *got.Projects[1].Order)
	assert.Equal(t, 2, *got.Projects[2].Order)
}

func TestGet_NonNumericID(t *testing.T) {
	router := setupTestRouter(store.New(setupTestDB()))

	req, _ := http.NewRequest("GET", "/portfolio/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGet_NotFound(t *testing.T) {
	router := setupTestRouter(store.New(setupTestDB()))

	req, _ := http.NewRequest("GET", "/portfolio/999999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpsert_ValidationFailure(t *testing.T) {
	router := setupTestRouter(store.New(setupTestDB()))

	payload := samplePayload()
	payload.Projects[0].Github = "not-a-url"

	w := postPortfolio(router, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, len(body.Fields))
	assert.Equal(t, "projects[0].github", body.Fields[0].Field)
}

func TestRenderMarkdown(t *testing.T) {
	result := renderMarkdown("# Title\n\nSome *text*.")

	assert.Contains(t, result, "<h1>Title</h1>")
	assert.Contains(t, result, "<em>text</em>")
}

