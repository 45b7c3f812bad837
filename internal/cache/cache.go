package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
)

const (
	UserCacheTTL = 5 * time.Minute
	BookCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis ou ScyllaDB
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	// 1. Essayer le cache Redis
	if database.RedisEnabled() {
		data, err := database.Redis.Get(ctx, key).Result()
		if err == nil {
			var user models.User
			if json.Unmarshal([]byte(data), &user) == nil {
				return &user, nil
			}
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var user models.User
	user.ID = userID
	err = session.Query(`SELECT email, name, role, provider, created_at
		FROM users WHERE user_id = ?`, gocql.UUID(uid)).Scan(
		&user.Email, &user.Name, &user.Role, &user.Provider, &user.CreatedAt)
	if err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	if database.RedisEnabled() {
		jsonData, _ := json.Marshal(user)
		database.Redis.Set(ctx, key, jsonData, UserCacheTTL)
	}

	return &user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(userID string) {
	if !database.RedisEnabled() {
		return
	}
	database.Redis.Del(context.Background(), "user:"+userID)
}

// GetBookTitlesFromCache récupère plusieurs titres de livres
func GetBookTitlesFromCache(bookIDs []string) map[string]string {
	ctx := context.Background()
	result := make(map[string]string)
	missingIDs := bookIDs

	// 1. Essayer de récupérer depuis Redis
	if database.RedisEnabled() {
		missingIDs = nil
		for _, bookID := range bookIDs {
			title, err := database.Redis.Get(ctx, "book_title:"+bookID).Result()
			if err == nil {
				result[bookID] = title
			} else {
				missingIDs = append(missingIDs, bookID)
			}
		}
	}

	// 2. Récupérer les livres manquants depuis ScyllaDB
	if len(missingIDs) > 0 {
		session, err := database.GetCatalogSession()
		if err == nil {
			for _, bookID := range missingIDs {
				bid, err := uuid.Parse(bookID)
				if err != nil {
					continue
				}
				var title string
				err = session.Query("SELECT title FROM books WHERE book_id = ?", gocql.UUID(bid)).Scan(&title)
				if err == nil {
					result[bookID] = title
					if database.RedisEnabled() {
						database.Redis.Set(ctx, "book_title:"+bookID, title, BookCacheTTL)
					}
				}
			}
		}
	}

	return result
}

// InvalidateBookCache invalide le cache d'un livre
func InvalidateBookCache(bookID string) {
	if !database.RedisEnabled() {
		return
	}
	database.Redis.Del(context.Background(), "book:"+bookID, "book_title:"+bookID)
}
