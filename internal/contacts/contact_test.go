package contacts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByType_FixedOrder(t *testing.T) {
	c := Contact{Methods: []Method{
		{Type: MethodAddress, Value: "1 Main St"},
		{Type: MethodEmail, Value: "first@example.com"},
		{Type: MethodPhone, Value: "111"},
		{Type: "pager", Value: "ignored"},
		{Type: MethodEmail, Value: "second@example.com"},
	}}

	groups := c.GroupByType()
	require.Len(t, groups, 3)
	assert.Equal(t, MethodPhone, groups[0].Type)
	assert.Equal(t, MethodEmail, groups[1].Type)
	assert.Equal(t, MethodAddress, groups[2].Type)
	assert.Equal(t, []string{"first@example.com", "second@example.com"}, groups[1].Values())
}

func TestContact_DecodesBackendPayload(t *testing.T) {
	payload := `{
		"id": 7,
		"name": "Zhang San",
		"notes": null,
		"is_favorite": true,
		"created_at": "2024-01-01 00:00:00",
		"updated_at": "2024-01-02 00:00:00",
		"contact_methods": [{"id": 3, "type": "phone", "value": "13800138000", "label": "mobile"}]
	}`
	var c Contact
	require.NoError(t, json.Unmarshal([]byte(payload), &c))
	assert.Equal(t, int64(7), c.ID)
	assert.Empty(t, c.Notes)
	assert.True(t, c.IsFavorite)
	require.Len(t, c.Methods, 1)
	assert.Equal(t, MethodPhone, c.Methods[0].Type)
}

func TestMethodType(t *testing.T) {
	assert.Equal(t, MethodEmail, MethodPhone.Next())
	assert.Equal(t, MethodPhone, MethodAddress.Next())
	assert.Equal(t, MethodPhone, MethodType("bogus").Next())

	typ, err := ParseMethodType(" Email ")
	require.NoError(t, err)
	assert.Equal(t, MethodEmail, typ)
	_, err = ParseMethodType("fax")
	assert.Error(t, err)
}

func TestClone_DoesNotAlias(t *testing.T) {
	orig := Contact{ID: 1, Methods: []Method{{Type: MethodPhone, Value: "1"}}}
	cp := orig.Clone()
	cp.Methods[0].Value = "2"
	assert.Equal(t, "1", orig.Methods[0].Value)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleList())
	assert.Equal(t, 4, s.TotalContacts)
	assert.Equal(t, 2, s.FavoriteContacts)
	assert.Equal(t, 1, s.PhoneMethods)
	assert.Equal(t, 1, s.EmailMethods)
	assert.Equal(t, 1, s.SocialMethods)
	assert.Equal(t, 0, s.AddressMethods)
	assert.Equal(t, 1, s.MethodCount(MethodSocial))

	assert.Equal(t, Stats{}, Summarize(nil))
}
