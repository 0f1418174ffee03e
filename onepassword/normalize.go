package onepassword

import (
	"context"
	"strings"
)

// Default avatar assets used when an entity carries no avatar path.
const (
	defaultUserAvatarURL  = "https://a.1password.com/app/images/avatar-person-default.png"
	defaultVaultAvatarURL = "https://a.1password.com/app/images/avatar-vault-default.png"
)

// Vault types with special avatar resolution: personal vaults borrow
// the requesting user's avatar, everyone vaults borrow the account's.
const (
	vaultTypePersonal = "P"
	vaultTypeEveryone = "E"
)

func normalizeAccount(raw rawAccount) Account {
	return Account{
		UUID:          raw.UUID,
		Name:          raw.Name,
		AvatarURL:     raw.BaseAvatarURL + raw.UUID + "/" + raw.Avatar,
		BaseAvatarURL: raw.BaseAvatarURL + raw.UUID,
		CreatedAt:     raw.CreatedAt,
	}
}

// userAvatarURL resolves a member avatar: a present avatar path hangs
// off the account's base URL, absence falls back to the default asset.
func userAvatarURL(avatar string, account Account) string {
	if avatar != "" {
		return account.BaseAvatarURL + "/" + avatar
	}
	return defaultUserAvatarURL
}

func normalizeUser(raw rawUser, account Account) User {
	return User{
		UUID:      raw.UUID,
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		Email:     raw.Email,
		AvatarURL: userAvatarURL(raw.Avatar, account),
	}
}

func normalizeUserDetails(raw rawUser, account Account) UserDetails {
	return UserDetails{
		User:       normalizeUser(raw, account),
		Language:   raw.Language,
		CreatedAt:  raw.CreatedAt,
		UpdatedAt:  raw.UpdatedAt,
		LastAuthAt: raw.LastAuthAt,
	}
}

// normalizeVault resolves a vault's avatar per its type: personal
// vaults take the requesting user's avatar, everyone vaults take the
// account avatar, an explicit avatar path overrides, and everything
// else falls back to the default vault asset.
func (c *Client) normalizeVault(ctx context.Context, session *Session, raw rawVault) (VaultDetails, error) {
	account, err := c.GetAccount(ctx, session)
	if err != nil {
		return VaultDetails{}, err
	}

	var avatarURL string
	switch {
	case raw.Type == vaultTypePersonal:
		user, err := c.GetUser(ctx, session, session.Email)
		if err != nil {
			return VaultDetails{}, err
		}
		avatarURL = user.AvatarURL
	case raw.Type == vaultTypeEveryone:
		avatarURL = account.AvatarURL
	case raw.Avatar != "":
		avatarURL = account.BaseAvatarURL + "/" + raw.Avatar
	default:
		avatarURL = defaultVaultAvatarURL
	}

	return VaultDetails{
		Vault:       Vault{UUID: raw.UUID, Name: raw.Name},
		Description: raw.Description,
		AvatarURL:   avatarURL,
	}, nil
}

// normalizeItem resolves the item's vault and template, then applies
// the template-keyed mapper. Unknown templates degrade to BaseItem.
func (c *Client) normalizeItem(ctx context.Context, session *Session, raw rawItem) (Item, error) {
	vault, err := c.GetVault(ctx, session, raw.VaultUUID)
	if err != nil {
		return nil, err
	}
	templates, err := c.GetTemplates(ctx, session)
	if err != nil {
		return nil, err
	}

	var template Template
	for _, t := range templates {
		if t.UUID == raw.TemplateUUID {
			template = t
			break
		}
	}

	base := BaseItem{
		UUID:     raw.UUID,
		Vault:    vault,
		Template: template,
		Title:    raw.Overview.Title,
	}
	return mapItem(raw, base), nil
}

// normalizeItems applies an optional template filter, then maps each
// surviving record. Output order equals input order.
func (c *Client) normalizeItems(ctx context.Context, session *Session, raws []rawItem, template *Template) ([]Item, error) {
	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		if template != nil && raw.TemplateUUID != template.UUID {
			continue
		}
		item, err := c.normalizeItem(ctx, session, raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// mapItem applies the template-specific specialization. Only the login
// template has one today; every other template passes through as the
// base item.
func mapItem(raw rawItem, base BaseItem) Item {
	switch raw.TemplateUUID {
	case LoginTemplateUUID:
		return LoginItem{
			BaseItem: base,
			Username: raw.Overview.AInfo,
			Password: loginPassword(raw.Details.Fields),
		}
	default:
		return base
	}
}

// loginPassword extracts the password from a login item's detail
// fields: the first field whose name equals "password"
// (case-insensitive) and whose type marks it as a password field wins;
// a designation match is the fallback when no name matches.
func loginPassword(fields []rawField) string {
	for _, field := range fields {
		if strings.EqualFold(field.Name, "password") && field.Type == "P" {
			return field.Value
		}
	}
	for _, field := range fields {
		if strings.EqualFold(field.Designation, "password") && field.Type == "P" {
			return field.Value
		}
	}
	return ""
}
