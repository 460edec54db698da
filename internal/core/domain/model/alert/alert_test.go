package alert_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/alert"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlert(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.FixedZone("IST", 19800))

	a, err := alert.NewAlert("WH-1", "O1", "", "boom", at)
	require.NoError(t, err)
	assert.Equal(t, alert.Other, a.Category())
	assert.Equal(t, time.UTC, a.CreatedAt().Location())
	assert.NotEqual(t, a.ID().String(), "00000000-0000-0000-0000-000000000000")

	_, err = alert.NewAlert("", "O1", alert.DuplicateOrder, "dup", at)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCategory_Title(t *testing.T) {
	assert.Contains(t, alert.Other.Title(), "contact admin")
	assert.NotEqual(t, alert.Other.Title(), alert.InsufficientBalance.Title())
}
