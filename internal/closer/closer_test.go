package closer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloseAllRunsInReverseOrder(t *testing.T) {
	c := New()
	var order []int
	for i := 1; i <= 3; i++ {
		c.Add(func() error {
			order = append(order, i)
			return nil
		})
	}

	assert.NoError(t, c.CloseAll())
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestCloseAllJoinsErrorsAndRunsOnce(t *testing.T) {
	c := New()
	errDB := errors.New("db")
	errBot := errors.New("bot")
	calls := 0
	c.Add(
		func() error { calls++; return errDB },
		func() error { calls++; return nil },
		func() error { calls++; return errBot },
	)

	err := c.CloseAll()
	assert.ErrorIs(t, err, errDB)
	assert.ErrorIs(t, err, errBot)
	assert.Equal(t, 3, calls)

	assert.Equal(t, err, c.CloseAll())
	assert.Equal(t, 3, calls)
}
