package protocol

// Directory and path constants used throughout tigre.
const (
	// TigreDir is the user-level state directory (e.g., ~/.tigre).
	TigreDir = ".tigre"

	// StateDBFile is the default SQLite database name inside TigreDir.
	StateDBFile = "state.db"

	// FilesDir holds one JSON document per key when the file backend is selected.
	FilesDir = "state"

	// LogFile receives structured logs while the focus screen owns the terminal.
	LogFile = "tigre.log"
)

// Durable storage keys. Each key holds a complete JSON document.
const (
	// EventsKey holds the JSON array of events.
	EventsKey = "events"

	// UnlockedSymbolsKey holds the JSON array of unlocked symbol ids.
	UnlockedSymbolsKey = "unlocked_symbols"
)

// Meta keys written on FOCUS_SESSION_COMPLETED events.
const (
	MetaSource          = "source"
	MetaDurationSeconds = "durationSeconds"
	MetaCompletedAt     = "completedAt"
	MetaSessionID       = "sessionId"

	// SourceHyperfocusTimer is the MetaSource value for timer completions.
	SourceHyperfocusTimer = "hyperfocus_timer"
)
