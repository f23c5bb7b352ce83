package deck

import "fmt"

// RenderError reports input that cannot be legally expressed in the DRAGON
// input format. It is raised before any file is written; there is no
// recovery at this layer.
type RenderError struct {
	Detail string
}

func (e *RenderError) Error() string {
	return "deck render: " + e.Detail
}

func renderErrorf(format string, args ...any) error {
	return &RenderError{Detail: fmt.Sprintf(format, args...)}
}
