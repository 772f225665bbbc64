package gas

import "fmt"

// Error represents a failure talking to the settings persistence API. Op
// names the bridge action so callers can surface messages like
// "保存に失敗しました: <reason>" without losing the cause chain.
type Error struct {
	Op         string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gas %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("gas %s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("gas %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
