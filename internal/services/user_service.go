package services

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/srushti1125/techdigest/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetAllUsers() ([]models.User, error)
	GetUserByEmail(email string) (models.User, error)
	CreateUser(email, password string) (models.User, error)
	UpdateKeywords(userID string, keywords []string) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// NormalizeKeywords trims, drops empties, and dedups a keyword list while
// keeping the stored casing. The result is sorted for stable storage.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	var out []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// GetAllUsers retrieves every user with their keyword set eagerly loaded.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, email, created_at FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		keywords, err := s.keywordsForUser(users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].Keywords = keywords
	}
	return users, nil
}

// GetUserByEmail retrieves a single user by their unique email, including
// the password hash. Email is indexed, so this is a direct lookup.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with email %s not found", email)
		}
		return models.User{}, err
	}
	user.Keywords, err = s.keywordsForUser(user.ID)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// CreateUser creates a new user, hashing their password.
func (s *UserService) CreateUser(email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, fmt.Errorf("email and password are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, email, password_hash) VALUES(?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Email, user.PasswordHash); err != nil {
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// UpdateKeywords replaces a user's keyword set with the normalized form of
// the given list.
func (s *UserService) UpdateKeywords(userID string, keywords []string) (models.User, error) {
	normalized := NormalizeKeywords(keywords)

	tx, err := s.db.Begin()
	if err != nil {
		return models.User{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM user_keywords WHERE user_id = ?", userID); err != nil {
		return models.User{}, err
	}
	for _, kw := range normalized {
		if _, err := tx.Exec("INSERT INTO user_keywords(user_id, keyword) VALUES(?, ?)", userID, kw); err != nil {
			return models.User{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, err
	}

	var user models.User
	row := s.db.QueryRow("SELECT id, email, created_at FROM users WHERE id = ?", userID)
	if err := row.Scan(&user.ID, &user.Email, &user.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with ID %s not found", userID)
		}
		return models.User{}, err
	}
	user.Keywords = normalized
	return user, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("authentication failed: invalid password")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) keywordsForUser(userID string) ([]string, error) {
	rows, err := s.db.Query("SELECT keyword FROM user_keywords WHERE user_id = ? ORDER BY keyword", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}
