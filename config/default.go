// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/goccy/go-json"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/color"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/constant"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Edifice + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.APIURL, "https://ent.example.org", "Base URL of the school portal")
	register(key.APITimeout, 30, "Timeout of a single portal request, in seconds")
	register(key.APIPageSize, 20, "Number of items requested per page by paged sections")
	register(key.AuthLogin, "", "Login of the account whose token is stored in the system keyring")
	register(key.BlogID, "", "Blog listed by the blog section.\nEmpty means the most recently modified blog")
	register(key.MailFolder, "inbox", "Mail folder listed by the mail section.\nAvailable options are: inbox, outbox, draft, trash")
	register(key.TimelineTypes, []string{}, "Notification types shown by the timeline.\nEmpty means every type")
	register(key.WorkspaceFilter, "owner", "Workspace documents filter.\nAvailable options are: owner, shared, protected, trash")
	register(key.WorkspaceCacheTTL, 10, "Lifetime of the cached folder tree and quota, in minutes")
	register(key.PresencesStructure, "", "Structure id used to list the teacher's courses")
	register(key.PresencesDays, 1, "Number of days of courses listed by the presences section, starting today")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, nerd (nerd-font required)")
	register(key.TUIItemSpacing, 1, "Spacing between items in the TUI")
	register(key.TUIFetchNextThreshold, 3, "Distance from the end of a list at which the next page is requested")
	register(key.TUIRefreshOnFocus, true, "Silently refresh a loaded section when it is opened again")
	register(key.TUINotificationSeconds, 3, "How long transient notifications stay visible, in seconds")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.LogsKeepDays, 14, "Log files older than this many days are removed on startup.\nZero keeps every file")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliSelectorSuggestions, true, "Suggest previously used selectors when completing list --select")
	register(key.HistorySave, true, "Remember visited sections so the interface can resume the last one")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
