package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(Cursor{CreatedAt: createdAt, ID: "txn-42"})
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.NotContains(t, token, "=", "Token should be safe to put in a query string")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(decoded.CreatedAt), "Created at time should match after decode")
	assert.Equal(t, "txn-42", decoded.ID)

	// Non-UTC times are normalised
	local := time.Date(2024, 2, 1, 8, 0, 0, 0, time.FixedZone("EAT", 3*60*60))
	decoded, err = DecodeToken(EncodeToken(Cursor{CreatedAt: local, ID: "x"}))
	require.NoError(t, err)
	assert.True(t, local.Equal(decoded.CreatedAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	// "2023-05-15T00:00:00Z" with no separator
	_, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFo")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	// "notadate|abc"
	_, err = DecodeToken("bm90YWRhdGV8YWJj")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 7, NormalizeLimit(7))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}

func TestPage(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	type row struct {
		id string
		at time.Time
	}
	rows := []row{{"c", base.Add(3 * time.Minute)}, {"b", base.Add(2 * time.Minute)}, {"a", base.Add(time.Minute)}}
	cursorOf := func(r row) Cursor { return Cursor{CreatedAt: r.at, ID: r.id} }

	page, next := Page(rows, 2, cursorOf)
	assert.Len(t, page, 2)
	require.NotNil(t, next)
	c, err := DecodeToken(*next)
	require.NoError(t, err)
	assert.Equal(t, "b", c.ID)

	page, next = Page(rows, 3, cursorOf)
	assert.Len(t, page, 3)
	assert.Nil(t, next)
}
