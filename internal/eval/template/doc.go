// Package template renders the Handlebars templates used for model system
// prompts: the on-device preamble and the cloud fallback instruction.
//
// Templates are compiled once and cached. The router supplies tool data per
// request:
//
//	engine := template.NewEngine()
//
//	data := map[string]interface{}{
//	    "tool_names": []interface{}{"get_weather", "set_alarm"},
//	    "tool_count": 2,
//	}
//
//	prompt, err := engine.Render("You may call: {{join tool_names \", \"}}", data)
//	// Output: You may call: get_weather, set_alarm
//
// Registered helpers: uppercase, lowercase, trim, join, len, default.
package template
