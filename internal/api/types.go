package api

import "time"

// RoleAdmin is the sole role that unlocks channel administration.
const RoleAdmin = "admin"

// User is the authenticated identity resolved from the profile endpoint.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	TelegramID string `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Channel is one entry of the server's channel catalog.
type Channel struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// Subscription links the signed-in user to a channel they follow.
type Subscription struct {
	ID         int64 `json:"id"`
	ChannelID  int64 `json:"channel_id"`
	LastNewsID int64 `json:"last_news_id"`
}

// Category is one of the fixed set of news categories the server assigns.
// The constants carry the wire values verbatim.
type Category string

const (
	CategoryInternational Category = "Международные отношения"
	CategoryCulture       Category = "Культура"
	CategoryScienceTech   Category = "Наука и технологии"
	CategorySociety       Category = "Общество"
	CategoryEconomics     Category = "Экономика"
	CategoryIncidents     Category = "Происшествия"
	CategorySport         Category = "Спорт"
	CategoryHealth        Category = "Здоровье"
)

// Categories returns the full catalog in a stable order.
func Categories() []Category {
	return []Category{
		CategoryInternational,
		CategoryCulture,
		CategoryScienceTech,
		CategorySociety,
		CategoryEconomics,
		CategoryIncidents,
		CategorySport,
		CategoryHealth,
	}
}

// NewsItem is an immutable feed entry. Items are appended to the rendered
// sequence on page fetch and never mutated afterwards.
type NewsItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Summary   string    `json:"summary"`
	Source    string    `json:"source"`
	Image     string    `json:"image"`
	ChannelID int64     `json:"channel_id"`
	Category  Category  `json:"category"`
	Published time.Time `json:"published"`
}

// PageMeta carries the cursor handed back by the news endpoint. An empty
// Cursor together with HasNext=false marks an exhausted sequence.
type PageMeta struct {
	Cursor     string `json:"cursor"`
	HasNext    bool   `json:"has_next"`
	TotalCount int    `json:"total_count"`
}

// NewsPage is one page of the cursor-delimited feed sequence.
type NewsPage struct {
	News []NewsItem `json:"news"`
	Meta PageMeta   `json:"meta"`
}

// TokenPair is the payload of the login and refresh endpoints.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Type         string `json:"type"`
}
