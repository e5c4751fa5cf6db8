package store

import (
	"errors"

	"gorm.io/gorm"

	"devfolio/models"
)

// ErrNotFound is returned by every lookup that matches no record.
var ErrNotFound = errors.New("record not found")

// Store exposes the typed operations the HTTP modules need. It wraps gorm,
// so the backing engine is whatever dialector the caller opened; tests use
// sqlite in memory. Ids are engine-assigned autoincrement and never reused.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetUser(id int) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (s *Store) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *Store) GetPortfolio(id int) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.db.First(&portfolio, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &portfolio, nil
}

func (s *Store) GetPortfolioByUserID(userID int) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.db.Where("user_id = ?", userID).First(&portfolio).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &portfolio, nil
}

func (s *Store) CreatePortfolio(portfolio *models.Portfolio) error {
	return s.db.Create(portfolio).Error
}

// UpdatePortfolioData replaces the data blob wholesale. It never creates a
// record; a missing id reports ErrNotFound.
func (s *Store) UpdatePortfolioData(id int, data models.PortfolioData) error {
	result := s.db.Model(&models.Portfolio{}).Where("id = ?", id).Update("data", data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertPortfolio creates the user's portfolio on first submission and
// replaces its data on every later one. The lookup and write run inside a
// transaction so two first-time submissions for the same user cannot both
// create a record. Returns the stored portfolio and whether it was created.
func (s *Store) UpsertPortfolio(userID int, data models.PortfolioData) (*models.Portfolio, bool, error) {
	var portfolio models.Portfolio
	created := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&portfolio).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			portfolio = models.Portfolio{UserID: userID, Data: data}
			created = true
			return tx.Create(&portfolio).Error
		}
		if err != nil {
			return err
		}
		portfolio.Data = data
		return tx.Model(&portfolio).Update("data", data).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &portfolio, created, nil
}

func (s *Store) CreateContactMessage(message *models.ContactMessage) error {
	return s.db.Create(message).Error
}

// GetContactMessages lists a portfolio's messages, newest first.
func (s *Store) GetContactMessages(portfolioID int) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := s.db.Where("portfolio_id = ?", portfolioID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
