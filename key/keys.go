// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Portal API - these keys locate and tune the remote school portal service.
const (
	APIURL      = "api.url"
	APITimeout  = "api.timeout"
	APIPageSize = "api.page_size"
)

// Authentication - these keys identify the account whose token is kept in the system keyring.
const (
	AuthLogin = "auth.login"
)

// Sections - these keys configure the content shown by individual sections.
const (
	BlogID             = "blog.id"
	MailFolder         = "mail.folder"
	TimelineTypes      = "timeline.types"
	WorkspaceFilter    = "workspace.filter"
	WorkspaceCacheTTL  = "workspace.cache_ttl"
	PresencesStructure = "presences.structure"
	PresencesDays      = "presences.days"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the interactive environment's behaviour.
const (
	TUIItemSpacing         = "tui.item_spacing"
	TUIFetchNextThreshold  = "tui.fetch_next_threshold"
	TUIRefreshOnFocus      = "tui.refresh_on_focus"
	TUINotificationSeconds = "tui.notification_seconds"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite    = "logs.write"
	LogsLevel    = "logs.level"
	LogsJson     = "logs.json"
	LogsKeepDays = "logs.keep_days"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored             = "cli.colored"
	CliSelectorSuggestions = "cli.selector_suggestions"
)

// History - visited sections, used to resume the interface where it was left.
const (
	HistorySave = "history.save"
)
