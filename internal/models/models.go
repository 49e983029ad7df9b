package models

// Role is the three-tier access level of a user.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

// AtLeast reports whether r grants at least the rights of other.
func (r Role) AtLeast(other Role) bool {
	return r.rank() >= other.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleSuperAdmin:
		return 2
	case RoleAdmin:
		return 1
	default:
		return 0
	}
}

// User is a telegram user known to the bot.
type User struct {
	ID        string `db:"id"         json:"id"` // telegram user id as string
	ChatID    int64  `db:"chat_id"    json:"chat_id"`
	Name      string `db:"name"       json:"name"`
	Handle    string `db:"handle"     json:"handle"`
	Role      Role   `db:"role"       json:"role"`
	Active    bool   `db:"active"     json:"active"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

// Label is the short human form used in lists: "Name (@handle)".
func (u User) Label() string {
	s := u.Name
	if s == "" {
		s = u.ID
	}
	if u.Handle != "" {
		s += " (@" + u.Handle + ")"
	}
	return s
}

// NutritionPlan holds macro targets for one day. Nil fields are not set.
type NutritionPlan struct {
	UserID   string   `db:"user_id"`
	Date     string   `db:"date"` // YYYY-MM-DD
	Calories *float64 `db:"calories"`
	Protein  *float64 `db:"protein"`
	Fat      *float64 `db:"fat"`
	Carbs    *float64 `db:"carbs"`
}

// WorkoutPlan is a newline-joined list of exercises for one day.
type WorkoutPlan struct {
	UserID string `db:"user_id"`
	Date   string `db:"date"`
	Text   string `db:"text"`
}

// ActivityNorm holds daily activity targets.
type ActivityNorm struct {
	UserID string   `db:"user_id"`
	Date   string   `db:"date"`
	Water  *float64 `db:"water"` // liters
	Steps  *int64   `db:"steps"`
	Sleep  *float64 `db:"sleep"` // hours
}

// DailyReport is the self-report of a user for one logical day.
// It is filled step by step, so every field is optional.
type DailyReport struct {
	UserID      string   `db:"user_id"`
	Date        string   `db:"date"`
	Sleep       *float64 `db:"sleep"`
	Steps       *int64   `db:"steps"`
	Water       *float64 `db:"water"`
	Calories    *float64 `db:"calories"`
	Protein     *float64 `db:"protein"`
	Fat         *float64 `db:"fat"`
	Carbs       *float64 `db:"carbs"`
	Note        *string  `db:"note"`
	PhotoFileID *string  `db:"photo_file_id"` // legacy single photo
}

// FoodPhoto is one attachment of a daily report.
type FoodPhoto struct {
	ID        int64  `db:"id"`
	UserID    string `db:"user_id"`
	Date      string `db:"date"`
	FileID    string `db:"file_id"`
	CreatedAt int64  `db:"created_at"`
}

// Contact is the contact card a coach shows to their users.
type Contact struct {
	CoachID   string `db:"coach_id"`
	Text      string `db:"text"`
	UpdatedAt int64  `db:"updated_at"`
}

// NotificationType identifies a scheduled broadcast.
type NotificationType string

const (
	NotifyMorning NotificationType = "morning"
	NotifyEvening NotificationType = "evening"
)

// Setting keys.
const (
	SettingEveningTime = "evening_time"

	DefaultEveningTime = "19:00"
)

// Button is one inline control: visible label plus opaque action token.
type Button struct {
	Label  string
	Action string
}

// Reply is an outbound message. Photos are sent after the text, one by one.
type Reply struct {
	Text     string
	Markdown bool
	Buttons  [][]Button
	Photos   []string
	// PhotoFileID with Text as caption, when the reply itself is an image.
	PhotoFileID string
}

// Input is the abstract inbound payload: text, an attachment, an inline
// action token, or a combination.
type Input struct {
	Text        string
	PhotoFileID string
	Action      string
}
