package content

// Limits shared by the client forms and the API.
const (
	MaxSections     = 20
	MaxLessonXP     = 5000
	MaxQuestions    = 10
	MaxExamPoints   = 150
	DefaultPoints   = 10
	MinOptions      = 3
	MaxOptions      = 5
	MaxCertificates = 5
	MinPassword     = 8
)

// Collections served under /api/<collection>.
const (
	CollectionLessons      = "lessons"
	CollectionExams        = "exams"
	CollectionCategories   = "categories"
	CollectionApplications = "teacher-applications"
)

var (
	CategoryColors = []string{
		"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEEAD",
		"#D4A5A5", "#9B59B6", "#E67E22", "#1ABC9C", "#34495E",
	}
	CategoryIcons = []string{
		"pixelarticons:calculator", "pixelarticons:book-open", "pixelarticons:clock",
		"pixelarticons:edit", "pixelarticons:code", "pixelarticons:device-tv-smart",
		"pixelarticons:music", "pixelarticons:gamepad", "pixelarticons:coffee", "pixelarticons:camera",
	}
	Visibilities   = []string{"public", "friends", "private"}
	Difficulties   = []string{"beginner", "intermediate", "advanced"}
	CategoryStates = []string{"active", "inactive"}
	CVExtensions   = []string{".pdf", ".doc", ".docx"}
)

type FileRef struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	Size int64  `json:"size,omitempty"`
	URL  string `json:"url,omitempty"`
}

type Section struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	XPPoints    int    `json:"xpPoints"`
	Order       int    `json:"order"`
	Content     string `json:"content,omitempty"` // markdown
}

type Lesson struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty,omitempty"`
	Content     string    `json:"content,omitempty"`
	Image       *FileRef  `json:"image,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Sections    []Section `json:"sections"`

	OwnerID   string `json:"ownerId,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
}

// TotalXP sums section XP.
func (l Lesson) TotalXP() int {
	n := 0
	for _, s := range l.Sections {
		n += s.XPPoints
	}
	return n
}

type Option struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type Question struct {
	ID      string   `json:"id,omitempty"`
	Text    string   `json:"text"`
	Image   *FileRef `json:"image,omitempty"`
	Points  int      `json:"points"`
	Options []Option `json:"options"`
}

type Exam struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Duration    int        `json:"duration"` // minutes
	Questions   []Question `json:"questions"`

	OwnerID   string `json:"ownerId,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
}

// TotalPoints sums question points.
func (e Exam) TotalPoints() int {
	n := 0
	for _, q := range e.Questions {
		n += q.Points
	}
	return n
}

type Category struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Description     string `json:"description,omitempty"`
	Color           string `json:"color"`
	Icon            string `json:"icon,omitempty"`
	Status          string `json:"status"`
	DisplayOrder    int    `json:"displayOrder"`
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
}

type TeacherApplication struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"userId,omitempty"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Education    string    `json:"education"`
	Experience   string    `json:"experience"`
	Expertise    string    `json:"expertise"`
	CV           *FileRef  `json:"cv,omitempty"`
	Certificates []FileRef `json:"certificates,omitempty"`
	Status       string    `json:"status,omitempty"` // pending|approved|rejected
}

// User is the account record returned by the auth endpoints.
type User struct {
	ID         string   `json:"_id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	FullName   string   `json:"fullName,omitempty"`
	Username   string   `json:"username,omitempty"`
	Roles      []string `json:"roles"`
	IsVerified bool     `json:"isVerified"`

	Phone    string  `json:"phone,omitempty"`
	Location string  `json:"location,omitempty"`
	About    string  `json:"about,omitempty"`
	Privacy  Privacy `json:"privacy"`
}

type Privacy struct {
	ProfileVisibility string `json:"profileVisibility"`
	OnlineStatus      string `json:"onlineStatus"`
	StatsSharing      string `json:"statsSharing"`
}

// DefaultPrivacy applies to new accounts.
func DefaultPrivacy() Privacy {
	return Privacy{ProfileVisibility: "public", OnlineStatus: "friends", StatsSharing: "private"}
}
