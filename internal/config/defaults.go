package config

import "github.com/spf13/viper"

// defaultSettingsTOML is written verbatim when no settings file exists yet.
const defaultSettingsTOML = `# tidyfiles settings
unrecognized_dir = "other"
log_level = "info"
log_file = "~/.tidyfiles/tidyfiles.log"
history_file = "~/.tidyfiles/history.json"
excludes = []

[[rules]]
folder = "documents"
extensions = [".txt", ".doc", ".docx", ".pdf"]

[[rules]]
folder = "images"
extensions = [".jpg", ".jpeg", ".png", ".gif"]

[[rules]]
folder = "videos"
extensions = [".avi", ".mp4", ".mov", ".mkv"]

[[rules]]
folder = "music"
extensions = [".mp3", ".ogg", ".wav", ".flac"]

[[rules]]
folder = "archives"
extensions = [".zip", ".tar", ".gz", ".rar"]

[[rules]]
folder = "code"
extensions = [".py", ".js", ".html", ".css"]
`

// defaultCleaningPlan mirrors the [[rules]] tables in defaultSettingsTOML.
// It is used when a settings file carries no rules of its own.
func defaultCleaningPlan() []ruleSpec {
	return []ruleSpec{
		{Folder: "documents", Extensions: []string{".txt", ".doc", ".docx", ".pdf"}},
		{Folder: "images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif"}},
		{Folder: "videos", Extensions: []string{".avi", ".mp4", ".mov", ".mkv"}},
		{Folder: "music", Extensions: []string{".mp3", ".ogg", ".wav", ".flac"}},
		{Folder: "archives", Extensions: []string{".zip", ".tar", ".gz", ".rar"}},
		{Folder: "code", Extensions: []string{".py", ".js", ".html", ".css"}},
	}
}

// setDefaults registers the lowest-priority settings layer.
func setDefaults(v *viper.Viper) {
	v.SetDefault("unrecognized_dir", "other")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "~/.tidyfiles/tidyfiles.log")
	v.SetDefault("history_file", "~/.tidyfiles/history.json")
	v.SetDefault("excludes", []string{})
}
