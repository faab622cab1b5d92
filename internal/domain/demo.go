package domain

// DemoTools returns the built-in seven-tool set used by the HTTP front-end
// when a caller does not supply its own schemas.
func DemoTools() []Tool {
	return []Tool{
		{
			Name:        "get_weather",
			Description: "Get current weather for a location",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"location": {Type: "string", Description: "City name"},
				},
				Required: []string{"location"},
			},
		},
		{
			Name:        "set_alarm",
			Description: "Set an alarm for a given time",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"hour":   {Type: "integer", Description: "Hour"},
					"minute": {Type: "integer", Description: "Minute"},
				},
				Required: []string{"hour", "minute"},
			},
		},
		{
			Name:        "send_message",
			Description: "Send a message to a contact",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"recipient": {Type: "string", Description: "Recipient name"},
					"message":   {Type: "string", Description: "Message content"},
				},
				Required: []string{"recipient", "message"},
			},
		},
		{
			Name:        "create_reminder",
			Description: "Create a reminder with a title and time",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"title": {Type: "string", Description: "Reminder title"},
					"time":  {Type: "string", Description: "Time for the reminder"},
				},
				Required: []string{"title", "time"},
			},
		},
		{
			Name:        "search_contacts",
			Description: "Search for a contact by name",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"query": {Type: "string", Description: "Name to search for"},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "play_music",
			Description: "Play a song or playlist",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"song": {Type: "string", Description: "Song or playlist name"},
				},
				Required: []string{"song"},
			},
		},
		{
			Name:        "set_timer",
			Description: "Set a countdown timer",
			Parameters: Parameters{
				Type: "object",
				Properties: map[string]Property{
					"minutes": {Type: "integer", Description: "Number of minutes"},
				},
				Required: []string{"minutes"},
			},
		},
	}
}
