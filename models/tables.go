package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type User struct {
	ID           int    `gorm:"primary_key;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null;index" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"` // json:"-" prevents password from being exposed in API
	Email        string `json:"email,omitempty"`   // destination for contact notifications
}

type Portfolio struct {
	ID     int           `gorm:"primary_key;autoIncrement" json:"id"`
	UserID int           `gorm:"not null;index" json:"user_id"`
	Data   PortfolioData `gorm:"type:text" json:"data"` // full content blob, replaced wholesale on update
}

// PortfolioData is the owner-editable content rendered on the public page.
type PortfolioData struct {
	FullName       string        `json:"fullName" binding:"required,min=2"`
	Title          string        `json:"title" binding:"required"`
	ShortBio       string        `json:"shortBio"`
	ProfilePicture string        `json:"profilePicture" binding:"omitempty,imageref"`
	DetailedBio    string        `json:"detailedBio"` // markdown
	Skills         []string      `json:"skills"`
	Projects       []Project     `json:"projects" binding:"dive"`
	SocialMedia    []SocialMedia `json:"socialMedia" binding:"dive"`
}

type Project struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty" binding:"omitempty,imageref"`
	Github      string `json:"github" binding:"required,url"`
	Order       *int   `json:"order,omitempty"` // display position; nil means array index
}

type SocialMedia struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
}

// Value serializes the data blob into a JSON text column.
func (d PortfolioData) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	return string(b), err
}

func (d *PortfolioData) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	}
	return errors.New("portfolio data: unsupported column type")
}

type ContactMessage struct {
	ID          int       `gorm:"primary_key;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"not null" json:"email"`
	Subject     string    `json:"subject,omitempty"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"` // always server-stamped
	PortfolioID *int      `gorm:"index" json:"portfolioId,omitempty"`
}
