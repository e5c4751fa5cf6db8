package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"devfolio/models"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.AutoMigrate(&models.User{}, &models.Portfolio{}, &models.ContactMessage{})
	return db
}

func testData(fullName string) models.PortfolioData {
	return models.PortfolioData{
		FullName: fullName,
		Title:    "Software Engineer",
		Skills:   []string{"Go", "SQL"},
	}
}

func TestCreateAndGetUser(t *testing.T) {
	st := New(setupTestDB())

	user := &models.User{Username: "alice", PasswordHash: "hash"}
	err := st.CreateUser(user)

	assert.NoError(t, err)
	assert.NotZero(t, user.ID)

	got, err := st.GetUser(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestGetUser_NotFound(t *testing.T) {
	st := New(setupTestDB())

	_, err := st.GetUser(999999)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserByUsername(t *testing.T) {
	st := New(setupTestDB())

	user := &models.User{Username: "bob", PasswordHash: "hash"}
	st.CreateUser(user)

	got, err := st.GetUserByUsername("bob")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = st.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertPortfolio_CreatesThenUpdates(t *testing.T) {
	st := New(setupTestDB())

	user := &models.User{Username: "alice", PasswordHash: "hash"}
	st.CreateUser(user)

	first, created, err := st.UpsertPortfolio(user.ID, testData("Alice One"))
	assert.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	second, created, err := st.UpsertPortfolio(user.ID, testData("Alice Two"))
	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	stored, err := st.GetPortfolio(first.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Alice Two", stored.Data.FullName)
}

func TestGetPortfolioByUserID(t *testing.T) {
	st := New(setupTestDB())

	user := &models.User{Username: "alice", PasswordHash: "hash"}
	st.CreateUser(user)

	_, err := st.GetPortfolioByUserID(user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	pf, _, _ := st.UpsertPortfolio(user.ID, testData("Alice"))

	got, err := st.GetPortfolioByUserID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, pf.ID, got.ID)
}

func TestUpdatePortfolioData_NotFound(t *testing.T) {
	st := New(setupTestDB())

	err := st.UpdatePortfolioData(999999, testData("Nobody"))

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePortfolioData_ReplacesWholesale(t *testing.T) {
	st := New(setupTestDB())

	user := &models.User{Username: "alice", PasswordHash: "hash"}
	st.CreateUser(user)
	pf, _, _ := st.UpsertPortfolio(user.ID, testData("Alice"))

	replacement := models.PortfolioData{FullName: "Alice B", Title: "Engineer"}
	err := st.UpdatePortfolioData(pf.ID, replacement)
	assert.NoError(t, err)

	stored, _ := st.GetPortfolio(pf.ID)
	assert.Equal(t, "Alice B", stored.Data.FullName)
	assert.Empty(t, stored.Data.Skills)
}

func TestContactMessages_FilteredAndOrdered(t *testing.T) {
	st := New(setupTestDB())

	one := 1
	two := 2
	older := &models.ContactMessage{
		Name: "Visitor A", Email: "a@example.com", Message: "first message",
		CreatedAt: time.Now().Add(-time.Hour), PortfolioID: &one,
	}
	newer := &models.ContactMessage{
		Name: "Visitor B", Email: "b@example.com", Message: "second message",
		CreatedAt: time.Now(), PortfolioID: &one,
	}
	other := &models.ContactMessage{
		Name: "Visitor C", Email: "c@example.com", Message: "other portfolio",
		CreatedAt: time.Now(), PortfolioID: &two,
	}
	assert.NoError(t, st.CreateContactMessage(older))
	assert.NoError(t, st.CreateContactMessage(newer))
	assert.NoError(t, st.CreateContactMessage(other))

	messages, err := st.GetContactMessages(1)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(messages))
	assert.Equal(t, "Visitor B", messages[0].Name)
	assert.Equal(t, "Visitor A", messages[1].Name)
}
