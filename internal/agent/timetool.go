package agent

import (
	"fmt"
	"time"
)

// TimeTool reports the current date and time in Tehran.
type TimeTool struct {
	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func (TimeTool) Name() string { return "get_current_time" }

func (TimeTool) Description() string { return "Gets the current date and time." }

func (TimeTool) Parameters() map[string]Param { return map[string]Param{} }

func (t TimeTool) Execute(_ map[string]string) (string, error) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	loc, err := time.LoadLocation("Asia/Tehran")
	if err != nil {
		return "", fmt.Errorf("load timezone: %w", err)
	}
	return fmt.Sprintf("The current date and time in Tehran is: %s",
		now().In(loc).Format("2006-01-02 15:04:05")), nil
}
