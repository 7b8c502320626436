package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportMessageItemNormalizesSender(t *testing.T) {
	m := SupportMessage{ID: 1, SenderType: "bot", Content: "hi"}
	assert.Equal(t, SenderCustomer, m.Item().SenderType)

	m.SenderType = SenderStaff
	assert.Equal(t, SenderStaff, m.Item().SenderType)

	m.SenderType = ""
	assert.Equal(t, SenderCustomer, m.Item().SenderType)
}
