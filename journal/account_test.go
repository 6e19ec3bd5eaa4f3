package journal

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestAccountName_Parent(t *testing.T) {
	tests := []struct {
		account AccountName
		parent  AccountName
	}{
		{"assets:broker:aapl", "assets:broker"},
		{"assets:broker", "assets"},
		{"assets", ""},
		{"assets:broker:aapl:20230115", "assets:broker:aapl"},
	}

	for _, tt := range tests {
		t.Run(string(tt.account), func(t *testing.T) {
			assert.Equal(t, tt.parent, tt.account.Parent())
		})
	}
}

func TestAccountName_IsDatedSubaccount(t *testing.T) {
	tests := []struct {
		account AccountName
		want    bool
	}{
		{"assets:broker:aapl:20230115", true},
		{"assets:broker:aapl", false},
		{"assets:broker:2023", false},
		{"assets:broker:202301155", false},
		{"20230115", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.account), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.account.IsDatedSubaccount())
		})
	}
}

func TestAccountName_IsAsset(t *testing.T) {
	assert.True(t, AccountName("assets:broker").IsAsset())
	assert.True(t, AccountName("assets").IsAsset())
	assert.False(t, AccountName("expenses:food").IsAsset())
	assert.False(t, AccountName("assetsx:broker").IsAsset())
}

func TestAccountName_IsDescendantOf(t *testing.T) {
	assert.True(t, AccountName("assets:broker:aapl:20230115").IsDescendantOf("assets:broker:aapl"))
	assert.True(t, AccountName("assets:broker:aapl").IsDescendantOf("assets"))
	assert.False(t, AccountName("assets:broker:aapl").IsDescendantOf("assets:broker:aapl"))
	assert.False(t, AccountName("assets:brokerage").IsDescendantOf("assets:broker"))
}

func TestAccountName_Segments(t *testing.T) {
	assert.Equal(t, []string{"assets", "broker", "aapl"}, AccountName("assets:broker:aapl").Segments())
	assert.Equal(t, []string{"assets"}, AccountName("assets").Segments())
	assert.Zero(t, AccountName("").Segments())
}
