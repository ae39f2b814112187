package slackhook

import (
	"fmt"
	"net/url"
	"strings"
)

// Command is the parsed payload of one slash command invocation.
type Command struct {
	Text        string
	UserID      string
	ChannelID   string
	ResponseURL string
}

// ParseCommand decodes the URL-encoded form body of a slash command.
// Text is trimmed; the other fields are passed through as sent.
func ParseCommand(rawBody []byte) (*Command, error) {
	values, err := url.ParseQuery(string(rawBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedCommand, err)
	}

	return &Command{
		Text:        strings.TrimSpace(values.Get("text")),
		UserID:      values.Get("user_id"),
		ChannelID:   values.Get("channel_id"),
		ResponseURL: values.Get("response_url"),
	}, nil
}
