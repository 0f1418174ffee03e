package onepassword

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeAccountDerivesAvatarURLs(t *testing.T) {
	created := time.Date(2018, 1, 2, 3, 4, 5, 0, time.UTC)
	account := normalizeAccount(rawAccount{
		UUID:          "acc1",
		Name:          "Acme",
		Avatar:        "acc.png",
		BaseAvatarURL: "https://avatars.example/",
		CreatedAt:     created,
	})

	require.Equal(t, "https://avatars.example/acc1/acc.png", account.AvatarURL)
	require.Equal(t, "https://avatars.example/acc1", account.BaseAvatarURL)
	require.Equal(t, created, account.CreatedAt)
}

func TestUserAvatarURLFallsBackToDefaultAsset(t *testing.T) {
	account := Account{BaseAvatarURL: "https://avatars.example/acc1"}

	require.Equal(t, "https://avatars.example/acc1/bob.png", userAvatarURL("bob.png", account))
	require.Equal(t, defaultUserAvatarURL, userAvatarURL("", account))
}

func TestLoginPasswordNameMatchBeatsDesignationMatch(t *testing.T) {
	fields := []rawField{
		{Designation: "password", Type: "P", Value: "from-designation"},
		{Name: "Password", Type: "P", Value: "from-name"},
	}
	require.Equal(t, "from-name", loginPassword(fields))
}

func TestLoginPasswordDesignationFallback(t *testing.T) {
	fields := []rawField{
		{Name: "username", Designation: "username", Type: "T", Value: "bob"},
		{Designation: "PASSWORD", Type: "P", Value: "from-designation"},
	}
	require.Equal(t, "from-designation", loginPassword(fields))
}

func TestLoginPasswordRequiresPasswordFieldType(t *testing.T) {
	fields := []rawField{
		{Name: "password", Type: "T", Value: "not-a-password-field"},
	}
	require.Equal(t, "", loginPassword(fields))
}

func TestMapItemLoginWithoutDetails(t *testing.T) {
	raw := rawItem{
		UUID:         "i1",
		TemplateUUID: LoginTemplateUUID,
		Overview:     rawOverview{Title: "Example", AInfo: "bob"},
	}
	base := BaseItem{UUID: "i1", Title: "Example"}

	item := mapItem(raw, base)
	login, isLogin := item.(LoginItem)
	require.True(t, isLogin)
	require.Equal(t, "bob", login.Username)
	require.Empty(t, login.Password)
}

func TestMapItemUnknownTemplatePassesThrough(t *testing.T) {
	raw := rawItem{UUID: "i2", TemplateUUID: "099"}
	base := BaseItem{UUID: "i2", Title: "Mystery"}

	item := mapItem(raw, base)
	require.Equal(t, base, item)
}
