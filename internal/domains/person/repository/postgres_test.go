package repository

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"people-api/internal/domains/person"
)

func newTestRepository() *postgresRepository {
	return &postgresRepository{dialect: goqu.Dialect("postgres")}
}

func creationEvent(id, nickname string, stack []string) person.CreationEvent {
	return person.CreationEvent{
		ID: id,
		Payload: person.CreatePersonRequest{
			Nickname:  nickname,
			Name:      "Someone",
			BirthDate: "1990-01-01",
			Stack:     stack,
		},
		StackCol: person.EncodeStack(stack),
	}
}

func TestBuildBulkInsert_SingleRow(t *testing.T) {
	r := newTestRepository()

	query, args, err := r.buildBulkInsert([]person.CreationEvent{
		creationEvent("id-1", "zeus", []string{"go", "rust"}),
	})
	require.NoError(t, err)

	assert.Contains(t, query, `INSERT INTO "people"`)
	assert.Contains(t, query, `ON CONFLICT DO NOTHING`)
	assert.Contains(t, query, "$1")
	assert.NotContains(t, query, "'", "prepared statement must not inline values")

	require.Len(t, args, 5)
	assert.Equal(t, "id-1", args[0])
	assert.Equal(t, "zeus", args[1])
	assert.Equal(t, "Someone", args[2])
	assert.Equal(t, "1990-01-01", args[3])

	// goqu dereferences pointer args when rendering prepared statements,
	// so the stack column arrives as a plain string.
	assert.Equal(t, "go"+person.StackDelimiter+"rust", args[4])
}

func TestBuildBulkInsert_MultiRowRendersOneStatement(t *testing.T) {
	r := newTestRepository()

	query, args, err := r.buildBulkInsert([]person.CreationEvent{
		creationEvent("id-1", "zeus", []string{"go"}),
		creationEvent("id-2", "hera", nil),
		creationEvent("id-3", "ares", []string{}),
	})
	require.NoError(t, err)

	// One statement for the whole batch, 5 placeholders per row.
	assert.Contains(t, query, "$15")
	assert.NotContains(t, query, "$16")
	require.Len(t, args, 15)

	// Absent stack travels as NULL, empty stack as empty string.
	assert.Nil(t, args[9], "nil stack column binds SQL NULL")
	assert.Equal(t, "", args[14])
}
