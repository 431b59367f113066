package element

// Type ids of the built-in elements.
const (
	TypePoll              = "poll-element"
	TypeRSVP              = "rsvp-button"
	TypeCounter           = "counter"
	TypeForm              = "form-builder"
	TypeLeaderboard       = "leaderboard"
	TypeSignup            = "signup-sheet"
	TypeChecklist         = "checklist-tracker"
	TypeChart             = "chart-display"
	TypeResultList        = "result-list"
	TypeCountdown         = "countdown-timer"
	TypeTimer             = "timer"
	TypeSearchInput       = "search-input"
	TypeFilterSelector    = "filter-selector"
	TypeDatePicker        = "date-picker"
	TypeUserSelector      = "user-selector"
	TypeTagCloud          = "tag-cloud"
	TypeAnnouncement      = "announcement"
	TypeProgressIndicator = "progress-indicator"
	TypeMemberList        = "member-list"
	TypeRoleGate          = "role-gate"
)

// Defaults returns the built-in element catalog in palette order.
func Defaults() []Definition {
	return []Definition{
		{
			ID:          TypePoll,
			Name:        "Poll",
			Description: "Collect votes across a fixed set of options",
			Category:    CategoryInput,
			ConfigSchema: map[string]ConfigField{
				"question":      {Type: FieldString, Default: "What do you think?", Required: true},
				"options":       {Type: FieldArray, Default: []any{"Option A", "Option B"}},
				"allowMultiple": {Type: FieldBoolean, Default: false},
				"showResults":   {Type: FieldBoolean, Default: true},
			},
			Outputs: []string{"results", "totalVotes"},
		},
		{
			ID:          TypeRSVP,
			Name:        "RSVP Button",
			Description: "Let members RSVP to an event with optional waitlist",
			Category:    CategoryAction,
			ConfigSchema: map[string]ConfigField{
				"eventName":       {Type: FieldString, Required: true},
				"maxAttendees":    {Type: FieldNumber, Default: 0},
				"enableWaitlist":  {Type: FieldBoolean, Default: false},
				"showAttendeeCap": {Type: FieldBoolean, Default: true},
			},
			Outputs: []string{"attendees", "count", "attendeeCount", "waitlist"},
		},
		{
			ID:          TypeCounter,
			Name:        "Counter",
			Description: "Increment and display a shared number",
			Category:    CategoryAction,
			ConfigSchema: map[string]ConfigField{
				"label":        {Type: FieldString, Default: "Count"},
				"step":         {Type: FieldNumber, Default: 1},
				"initialValue": {Type: FieldNumber, Default: 0},
			},
			Inputs:  []string{"value"},
			Outputs: []string{"value"},
		},
		{
			ID:          TypeForm,
			Name:        "Form Builder",
			Description: "Collect structured submissions",
			Category:    CategoryInput,
			ConfigSchema: map[string]ConfigField{
				"fields":        {Type: FieldArray, Default: []any{}},
				"submitLabel":   {Type: FieldString, Default: "Submit"},
				"allowMultiple": {Type: FieldBoolean, Default: false},
			},
			Outputs: []string{"submittedData", "submissions", "submissionCount"},
		},
		{
			ID:          TypeLeaderboard,
			Name:        "Leaderboard",
			Description: "Rank members by score",
			Category:    CategoryDisplay,
			ConfigSchema: map[string]ConfigField{
				"title":      {Type: FieldString, Default: "Leaderboard"},
				"maxEntries": {Type: FieldNumber, Default: 10},
				"scoreLabel": {Type: FieldString, Default: "Points"},
			},
			Inputs:  []string{"entries"},
			Outputs: []string{"rankings", "topScorer"},
		},
		{
			ID:          TypeSignup,
			Name:        "Signup Sheet",
			Description: "Slots members can claim",
			Category:    CategoryAction,
			ConfigSchema: map[string]ConfigField{
				"slots":    {Type: FieldArray, Default: []any{}},
				"maxSlots": {Type: FieldNumber, Default: 0},
			},
			Outputs: []string{"signups", "signupCount"},
		},
		{
			ID:          TypeChecklist,
			Name:        "Checklist Tracker",
			Description: "Track completion of shared tasks",
			Category:    CategoryAction,
			ConfigSchema: map[string]ConfigField{
				"items": {Type: FieldArray, Default: []any{}},
			},
			Outputs: []string{"items", "completed", "completionCount"},
		},
		{
			ID:          TypeChart,
			Name:        "Chart Display",
			Description: "Visualise numeric series",
			Category:    CategoryDisplay,
			ConfigSchema: map[string]ConfigField{
				"chartType": {Type: FieldString, Default: "bar"},
				"title":     {Type: FieldString},
			},
			Inputs: []string{"data"},
		},
		{
			ID:          TypeResultList,
			Name:        "Result List",
			Description: "Render a list of records",
			Category:    CategoryDisplay,
			ConfigSchema: map[string]ConfigField{
				"itemsPerPage": {Type: FieldNumber, Default: 10},
			},
			Inputs: []string{"items"},
		},
		{
			ID:          TypeCountdown,
			Name:        "Countdown Timer",
			Description: "Count down to a deadline",
			Category:    CategoryDisplay,
			ConfigSchema: map[string]ConfigField{
				"targetDate": {Type: FieldString, Required: true},
				"label":      {Type: FieldString, Default: "Time remaining"},
			},
			Outputs: []string{"finished"},
		},
		{
			ID:          TypeTimer,
			Name:        "Timer",
			Description: "Shared stopwatch",
			Category:    CategoryAction,
			ConfigSchema: map[string]ConfigField{
				"showControls": {Type: FieldBoolean, Default: true},
			},
			Outputs: []string{"elapsed"},
		},
		{
			ID:          TypeSearchInput,
			Name:        "Search Input",
			Description: "Free-text query",
			Category:    CategoryInput,
			ConfigSchema: map[string]ConfigField{
				"placeholder": {Type: FieldString, Default: "Search..."},
			},
			Outputs: []string{"query"},
		},
		{
			ID:          TypeFilterSelector,
			Name:        "Filter Selector",
			Description: "Choose one or more filter values",
			Category:    CategoryFilter,
			ConfigSchema: map[string]ConfigField{
				"options":       {Type: FieldArray, Default: []any{}},
				"allowMultiple": {Type: FieldBoolean, Default: true},
			},
			Inputs:  []string{"items"},
			Outputs: []string{"selected"},
		},
		{
			ID:          TypeDatePicker,
			Name:        "Date Picker",
			Description: "Pick a date or range",
			Category:    CategoryInput,
			ConfigSchema: map[string]ConfigField{
				"includeTime": {Type: FieldBoolean, Default: false},
			},
			Outputs: []string{"date"},
		},
		{
			ID:          TypeUserSelector,
			Name:        "User Selector",
			Description: "Pick campus members",
			Category:    CategoryInput,
			ConfigSchema: map[string]ConfigField{
				"allowMultiple": {Type: FieldBoolean, Default: false},
			},
			Outputs: []string{"users"},
		},
		{
			ID:       TypeTagCloud,
			Category: CategoryDisplay,
			ConfigSchema: map[string]ConfigField{
				"maxTags": {Type: FieldNumber, Default: 30},
			},
			Inputs: []string{"items"},
		},
		{
			ID:          TypeAnnouncement,
			Name:        "Announcement",
			Description: "Pinned message for the space",
			Category:    CategoryLayout,
			ConfigSchema: map[string]ConfigField{
				"message":  {Type: FieldString, Required: true},
				"priority": {Type: FieldString, Default: "normal"},
			},
		},
		{
			ID:          TypeProgressIndicator,
			Name:        "Progress Indicator",
			Description: "Show progress toward a goal",
			Category:    CategoryDisplay,
			ConfigSchema: map[string]ConfigField{
				"goal":  {Type: FieldNumber, Default: 100},
				"label": {Type: FieldString},
			},
			Inputs: []string{"value"},
		},
		{
			ID:          TypeMemberList,
			Name:        "Member List",
			Description: "List members of a space",
			Category:    CategoryDisplay,
			ConfigSchema: map[string]ConfigField{
				"showRoles": {Type: FieldBoolean, Default: true},
			},
			Inputs: []string{"items"},
		},
		{
			ID:          TypeRoleGate,
			Name:        "Role Gate",
			Description: "Show children only to matching roles",
			Category:    CategoryLayout,
			ConfigSchema: map[string]ConfigField{
				"roles": {Type: FieldArray, Default: []any{"member"}},
			},
		},
	}
}
