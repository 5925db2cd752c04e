package discovery

import "github.com/infblueocean/briefd/internal/config"

// builtinApps maps lowercase brand name to store identifiers.
// Extend carefully. IDs must match store URLs exactly.
var builtinApps = map[string]config.AppIDs{
	// product & PM tools
	"notion":  {PlayStore: "notion.id", AppStore: "1232780281"},
	"linear":  {PlayStore: "io.linear", AppStore: "1445639395"},
	"jira":    {PlayStore: "com.atlassian.android.jira.core", AppStore: "1057172455"},
	"asana":   {PlayStore: "com.asana.app", AppStore: "489969512"},
	"trello":  {PlayStore: "com.trello", AppStore: "461504587"},
	"monday":  {PlayStore: "com.monday.monday", AppStore: "1298450641"},
	"clickup": {PlayStore: "com.clickup.tasks", AppStore: "1278230723"},
	"todoist": {PlayStore: "com.todoist.android.Todoist", AppStore: "572688855"},

	// collaboration
	"slack":           {PlayStore: "com.Slack", AppStore: "618783545"},
	"microsoft teams": {PlayStore: "com.microsoft.teams", AppStore: "1113153706"},
	"zoom":            {PlayStore: "us.zoom.videomeetings", AppStore: "546505307"},
	"discord":         {PlayStore: "com.discord", AppStore: "985746746"},

	// design & docs
	"figma": {PlayStore: "com.figma.mirror", AppStore: "1152747299"},
	"canva": {PlayStore: "com.canva.editor", AppStore: "897446215"},
	"miro":  {PlayStore: "com.realtimeboard", AppStore: "1180074773"},

	// dev tools
	"github":    {PlayStore: "com.github.android", AppStore: "1477376905"},
	"gitlab":    {PlayStore: "com.gitlab.gitlab", AppStore: "1299203930"},
	"bitbucket": {PlayStore: "com.atlassian.bitbucket.server", AppStore: "1477371760"},

	// CRM / sales
	"salesforce": {PlayStore: "com.salesforce.chatter", AppStore: "404249815"},
	"hubspot":    {PlayStore: "com.hubspot.android", AppStore: "590559103"},

	// knowledge / notes
	"evernote": {PlayStore: "com.evernote", AppStore: "281796108"},
	"obsidian": {PlayStore: "md.obsidian", AppStore: "1557175442"},
	"coda":     {PlayStore: "com.coda.coda", AppStore: "1481278080"},
}
