package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Tant qu'aucune session ScyllaDB n'existe, les getters doivent renvoyer
// une erreur plutôt qu'un *gocql.Query nil que l'appelant binderait.
func TestPreparedStatementsIndisponibles(t *testing.T) {
	q, err := GetPreparedGetUserByEmail()
	assert.Nil(t, q)
	assert.Error(t, err)

	q, err = GetPreparedGetUserByID()
	assert.Nil(t, q)
	assert.Error(t, err)

	q, err = GetPreparedInsertUser()
	assert.Nil(t, q)
	assert.Error(t, err)

	q, err = GetPreparedInsertUserByEmail()
	assert.Nil(t, q)
	assert.Error(t, err)

	q, err = GetPreparedGetBookByID()
	assert.Nil(t, q)
	assert.Error(t, err)
}
