package database

import (
	"fmt"
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements pour les requêtes fréquentes
	stmtGetUserByEmail    *gocql.Query
	stmtGetUserByID       *gocql.Query
	stmtInsertUser        *gocql.Query
	stmtInsertUserByEmail *gocql.Query
	stmtGetBookByID       *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements initialise les prepared statements
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		usersSession, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements: %v", err)
			return
		}

		stmtGetUserByEmail = usersSession.Query("SELECT user_id FROM users_by_email WHERE email = ?")

		stmtGetUserByID = usersSession.Query(`SELECT email, password, name, role, provider, created_at
			FROM users WHERE user_id = ?`)

		stmtInsertUser = usersSession.Query(`INSERT INTO users (user_id, email, password, name, role, provider, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)

		stmtInsertUserByEmail = usersSession.Query("INSERT INTO users_by_email (email, user_id) VALUES (?, ?)")

		catalogSession, err := GetCatalogSession()
		if err == nil {
			stmtGetBookByID = catalogSession.Query(`SELECT title, author, price_cents, stock, category_id, is_active
				FROM books WHERE book_id = ?`)
		}

		log.Println("✅ Prepared statements initialisés")
	})
}

// prepared protège les getters quand ScyllaDB n'est pas configuré :
// les handlers reçoivent une erreur propre au lieu d'un nil à binder.
func prepared(q *gocql.Query) (*gocql.Query, error) {
	if q == nil {
		return nil, fmt.Errorf("ScyllaDB non configuré")
	}
	return q, nil
}

func GetPreparedGetUserByEmail() (*gocql.Query, error) {
	return prepared(stmtGetUserByEmail)
}

func GetPreparedGetUserByID() (*gocql.Query, error) {
	return prepared(stmtGetUserByID)
}

func GetPreparedInsertUser() (*gocql.Query, error) {
	return prepared(stmtInsertUser)
}

func GetPreparedInsertUserByEmail() (*gocql.Query, error) {
	return prepared(stmtInsertUserByEmail)
}

func GetPreparedGetBookByID() (*gocql.Query, error) {
	return prepared(stmtGetBookByID)
}
