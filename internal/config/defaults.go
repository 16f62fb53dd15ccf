package config

const (
	defaultInboxDir          = "~/notes/_inbox"
	defaultLibraryDir        = "~/notes"
	defaultAttachmentsDir    = "~/notes/_attachments"
	defaultLogDir            = "~/.local/share/shelver/logs"
	defaultAPIBind           = "127.0.0.1:7519"
	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-3-flash-preview"
	defaultLLMReferer        = "https://github.com/shelver/shelver"
	defaultLLMTitle          = "Shelver Organizer"
	defaultLLMTimeoutSeconds = 60
	defaultMaxTags           = 5
	defaultWorkers           = 4
	defaultQueuePoll         = 2
	defaultErrorRetry        = 5
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

var defaultClassifications = []string{
	"note",
	"meeting",
	"reference",
	"todo",
	"journal",
	"receipt",
}

var defaultTextExtensions = []string{".md", ".txt", ".org", ".csv", ".json"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InboxDir:       defaultInboxDir,
			LibraryDir:     defaultLibraryDir,
			AttachmentsDir: defaultAttachmentsDir,
			LogDir:         defaultLogDir,
			APIBind:        defaultAPIBind,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Organizer: Organizer{
			Classifications: append([]string{}, defaultClassifications...),
			MaxTags:         defaultMaxTags,
			TextExtensions:  append([]string{}, defaultTextExtensions...),
		},
		Workflow: Workflow{
			Workers:            defaultWorkers,
			QueuePollInterval:  defaultQueuePoll,
			ErrorRetryInterval: defaultErrorRetry,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
