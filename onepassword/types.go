package onepassword

import "time"

// Account describes the 1Password account the session belongs to.
type Account struct {
	UUID      string
	Name      string
	AvatarURL string
	// BaseAvatarURL is the account-scoped prefix member and vault
	// avatars hang off.
	BaseAvatarURL string
	CreatedAt     time.Time
}

// User is a member of the account as returned by `list users`.
type User struct {
	UUID      string
	FirstName string
	LastName  string
	Email     string
	AvatarURL string
}

// UserDetails extends User with the fields only `get user` returns.
type UserDetails struct {
	User
	Language   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LastAuthAt time.Time
}

// Template classifies an item's field layout. The catalog is small,
// closed, and fetched once per session.
type Template struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// LoginTemplateUUID identifies the login template, the only template
// with a specialized item mapping.
const LoginTemplateUUID = "001"

// Vault is the identity+name pair returned by `list vaults`.
type Vault struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// VaultDetails extends Vault with the fields only `get vault` returns.
type VaultDetails struct {
	Vault
	Description string
	AvatarURL   string
}

// Item is the variant family of normalized items. Every variant
// carries a BaseItem; template-specific variants add fields on top.
// Templates without a specialized mapping degrade to a plain BaseItem.
type Item interface {
	Base() BaseItem
}

// BaseItem is the unspecialized item shape shared by all templates.
type BaseItem struct {
	UUID     string
	Vault    VaultDetails
	Template Template
	Title    string
}

func (b BaseItem) Base() BaseItem { return b }

// LoginItem is the login-template specialization. Password is empty
// when the item's detail fields carry no password.
type LoginItem struct {
	BaseItem
	Username string
	Password string
}

// ItemsOptions filters and tunes a GetItems call. The zero value
// lists everything. Options are never mutated by the client.
type ItemsOptions struct {
	// Vault scopes the listing to one vault.
	Vault *Vault
	// Template keeps only items of one template.
	Template *Template
	// Query narrows the listing by fuzzy text match over the raw
	// records before normalization.
	Query string
	// Search tunes the fuzzy match; zero fields take the documented
	// defaults.
	Search SearchOptions
}

// Raw record shapes as emitted by the op CLI. These are internal: the
// normalization layer reshapes them into the stable entities above.

type rawAccount struct {
	UUID          string    `json:"uuid"`
	Name          string    `json:"name"`
	Avatar        string    `json:"avatar"`
	BaseAvatarURL string    `json:"baseAvatarURL"`
	CreatedAt     time.Time `json:"createdAt"`
}

type rawUser struct {
	UUID       string    `json:"uuid"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	LastAuthAt time.Time `json:"lastAuthAt"`
}

type rawVault struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Description string `json:"desc"`
	Type        string `json:"type"`
	Avatar      string `json:"avatar"`
}

type rawItem struct {
	UUID         string      `json:"uuid"`
	VaultUUID    string      `json:"vaultUuid"`
	TemplateUUID string      `json:"templateUuid"`
	Overview     rawOverview `json:"overview"`
	Details      rawDetails  `json:"details"`
}

type rawOverview struct {
	Title string `json:"title"`
	AInfo string `json:"ainfo"`
	URL   string `json:"url"`
}

type rawDetails struct {
	Fields []rawField `json:"fields"`
}

type rawField struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Type        string `json:"type"`
	Value       string `json:"value"`
}
