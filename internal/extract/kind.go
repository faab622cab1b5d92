package extract

// Kind identifies one of the known tool capabilities. The set is closed:
// repair logic switches exhaustively over it, and tools outside it map to
// KindUnknown and degrade to generic cleaning only.
type Kind int

const (
	KindUnknown Kind = iota
	KindWeather
	KindAlarm
	KindMessage
	KindReminder
	KindContacts
	KindMusic
	KindTimer
)

// Canonical tool names for the known capability set.
const (
	ToolWeather  = "get_weather"
	ToolAlarm    = "set_alarm"
	ToolMessage  = "send_message"
	ToolReminder = "create_reminder"
	ToolContacts = "search_contacts"
	ToolMusic    = "play_music"
	ToolTimer    = "set_timer"
)

// KindOf maps a tool name to its capability kind.
func KindOf(name string) Kind {
	switch name {
	case ToolWeather:
		return KindWeather
	case ToolAlarm:
		return KindAlarm
	case ToolMessage:
		return KindMessage
	case ToolReminder:
		return KindReminder
	case ToolContacts:
		return KindContacts
	case ToolMusic:
		return KindMusic
	case ToolTimer:
		return KindTimer
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindWeather:
		return "weather"
	case KindAlarm:
		return "alarm"
	case KindMessage:
		return "message"
	case KindReminder:
		return "reminder"
	case KindContacts:
		return "contacts"
	case KindMusic:
		return "music"
	case KindTimer:
		return "timer"
	default:
		return "unknown"
	}
}
