package auth

import (
	"embed"
	"fmt"
	"github.com/magiconair/properties"
	"strings"
)

//go:embed messages/*.properties
var messageFiles embed.FS

type Messages struct {
	props *properties.Properties
}

// LoadMessages returns the English messages overlaid with the given locale, if a file exists for it.
func LoadMessages(locale string) (*Messages, error) {
	props, err := loadMessageFile("messages/messages.properties")
	if err != nil {
		return nil, err
	}
	if locale != "" && locale != "en" {
		localized, err := loadMessageFile(fmt.Sprintf("messages/messages_%s.properties", locale))
		if err != nil {
			return nil, err
		}
		props.Merge(localized)
	}
	return &Messages{props: props}, nil
}

func loadMessageFile(name string) (*properties.Properties, error) {
	data, err := messageFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("Messages file %v not found. Reason: %v", name, err)
	}
	props, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("Messages file %v is invalid. Reason: %v", name, err)
	}
	props.DisableExpansion = true
	return props, nil
}

// ForError picks "<action>.<errorType>" and falls back to "<action>.default".
func (messages *Messages) ForError(action string, errorType string) string {
	if message, ok := messages.props.Get(action + "." + errorType); ok {
		return message
	}
	return messages.props.GetString(action+".default", "Request failed")
}

func (messages *Messages) Get(key string) string {
	return messages.props.GetString(key, key)
}

func (messages *Messages) Format(key string, values map[string]string) string {
	message := messages.Get(key)
	for name, value := range values {
		message = strings.ReplaceAll(message, "{"+name+"}", value)
	}
	return message
}
