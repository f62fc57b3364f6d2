package constants

const (
	// Environment keys
	EnvDBPath      = "TIMEWISE_DB"
	EnvLegacyFile  = "TIMEWISE_LEGACY_FILE"
	EnvTimezone    = "TIMEWISE_TIMEZONE"
	EnvLoadTimeout = "TIMEWISE_LOAD_TIMEOUT"
	EnvDebug       = "TIMEWISE_DEBUG"
	EnvGeminiKey   = "GEMINI_API_KEY"
	EnvGeminiModel = "GEMINI_MODEL"

	// Defaults
	DefaultTimezone    = "Local" // Use system local timezone by default
	DefaultGeminiModel = "gemini-2.5-flash"
)
