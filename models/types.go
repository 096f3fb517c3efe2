package models

import "time"

// Admin action constants
const (
	ActionSoftDelete = "soft_delete"
	ActionHardDelete = "hard_delete"
	ActionRestore    = "restore"
)

// ExpirationNever is the expiration selector for polls that never expire
const ExpirationNever = "never"

// Request types

type CreatePollRequest struct {
	Question             string   `json:"question"`
	Description          string   `json:"description"`
	Choices              []string `json:"choices"`
	IsAnonymous          bool     `json:"is_anonymous"`
	PublicResults        bool     `json:"public_results"`
	AllowMultipleChoices bool     `json:"allow_multiple_choices"`
	// Day count as a string, or "never"; empty means the default
	ExpirationDays string `json:"expiration_days"`
}

type VoteRequest struct {
	ChoiceIDs []string `json:"choice_ids"`
	VoterName string   `json:"voter_name"`
}

type EditChoice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type EditPollRequest struct {
	Question             string       `json:"question"`
	Description          string       `json:"description"`
	Choices              []EditChoice `json:"choices"`
	IsAnonymous          bool         `json:"is_anonymous"`
	PublicResults        bool         `json:"public_results"`
	AllowMultipleChoices bool         `json:"allow_multiple_choices"`
}

type AdminActionRequest struct {
	Action string `json:"action"`
}

// Response types

type CreatePollResponse struct {
	PollID     string     `json:"poll_id"`
	Slug       string     `json:"slug"`
	AdminToken string     `json:"admin_token"`
	VoteURL    string     `json:"vote_url"`
	AdminURL   string     `json:"admin_url"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

type BallotResponse struct {
	Poll         PublicPoll `json:"poll"`
	Choices      []Choice   `json:"choices"`
	AlreadyVoted bool       `json:"already_voted"`
}

type VoteResponse struct {
	AlreadyVoted bool   `json:"already_voted"`
	Message      string `json:"message"`
}

type ActionResponse struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

// Domain types

type Poll struct {
	ID                   string     `json:"id"`
	Question             string     `json:"question"`
	Description          *string    `json:"description,omitempty"`
	Slug                 string     `json:"slug"`
	AdminToken           string     `json:"-"` // Never expose in JSON
	IsAnonymous          bool       `json:"is_anonymous"`
	PublicResults        bool       `json:"public_results"`
	AllowMultipleChoices bool       `json:"allow_multiple_choices"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	DeletedAt            *time.Time `json:"deleted_at,omitempty"`
}

// PublicPoll is the subset of a poll shown to voters
type PublicPoll struct {
	ID                   string     `json:"id"`
	Question             string     `json:"question"`
	Description          *string    `json:"description,omitempty"`
	Slug                 string     `json:"slug"`
	IsAnonymous          bool       `json:"is_anonymous"`
	PublicResults        bool       `json:"public_results"`
	AllowMultipleChoices bool       `json:"allow_multiple_choices"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
}

func (p Poll) Public() PublicPoll {
	return PublicPoll{
		ID:                   p.ID,
		Question:             p.Question,
		Description:          p.Description,
		Slug:                 p.Slug,
		IsAnonymous:          p.IsAnonymous,
		PublicResults:        p.PublicResults,
		AllowMultipleChoices: p.AllowMultipleChoices,
		ExpiresAt:            p.ExpiresAt,
	}
}

type Choice struct {
	ID     string `json:"id"`
	PollID string `json:"poll_id"`
	Text   string `json:"text"`
	Votes  int    `json:"votes"`
}

type Vote struct {
	ID          string    `json:"id"`
	PollID      string    `json:"poll_id"`
	ChoiceID    string    `json:"choice_id"`
	VoterName   *string   `json:"voter_name,omitempty"`
	IPAddress   string    `json:"-"` // Never expose in JSON
	CookieToken string    `json:"-"` // Never expose in JSON
	VotedAt     time.Time `json:"voted_at"`
}

// Result types

type ChoiceResult struct {
	ChoiceID   string  `json:"choice_id"`
	Text       string  `json:"text"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// VoterEntry is one row of the owner-only voter list
type VoterEntry struct {
	VoterName *string   `json:"voter_name"`
	Choice    string    `json:"choice"`
	VotedAt   time.Time `json:"voted_at"`
}

type Results struct {
	Poll       PublicPoll     `json:"poll"`
	Choices    []ChoiceResult `json:"choices"`
	TotalVotes int            `json:"total_votes"`
}

// LifecycleInfo summarizes where a poll is in its life
type LifecycleInfo struct {
	IsActive                   bool `json:"is_active"`
	IsExpired                  bool `json:"is_expired"`
	IsSoftDeleted              bool `json:"is_soft_deleted"`
	DaysUntilExpiration        *int `json:"days_until_expiration"`
	DaysUntilPermanentDeletion *int `json:"days_until_permanent_deletion"`
}

type AdminResults struct {
	Results
	DeletedAt *time.Time    `json:"deleted_at,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Lifecycle LifecycleInfo `json:"lifecycle"`
	Editable  bool          `json:"editable"`
	Voters    []VoterEntry  `json:"voters,omitempty"`
	VoteURL   string        `json:"vote_url"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
